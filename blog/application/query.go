package application

import (
	"math"
	"sort"
	"strings"

	"github.com/lokisoft/site/blog/domain"
)

// SortOption enumerates the orderings the list endpoint accepts.
type SortOption string

const (
	SortNewest          SortOption = "newest"
	SortOldest          SortOption = "oldest"
	SortReadingTimeAsc  SortOption = "reading_time_asc"
	SortReadingTimeDesc SortOption = "reading_time_desc"
)

// ParseSortOption maps a raw parameter to a valid sort, falling back to
// newest. Parameters are never rejected.
func ParseSortOption(raw string) SortOption {
	switch SortOption(raw) {
	case SortOldest, SortReadingTimeAsc, SortReadingTimeDesc:
		return SortOption(raw)
	default:
		return SortNewest
	}
}

// MatchMode controls how a set of selected categories combines.
type MatchMode string

const (
	MatchAny MatchMode = "or"  // at least one selected category
	MatchAll MatchMode = "and" // every selected category
)

func ParseMatchMode(raw string) MatchMode {
	if MatchMode(raw) == MatchAll {
		return MatchAll
	}
	return MatchAny
}

// PostFilter is a conjunction of predicates; every set field must hold for a
// post to pass. Category matching is case-insensitive.
type PostFilter struct {
	Category     string
	Categories   []string
	Match        MatchMode
	Featured     bool // only posts flagged featured
	Announcement bool // only posts flagged announcement
	Difficulty   int  // exact match when in [1,5], otherwise ignored
}

// FilterPosts returns the posts for which every predicate of f holds.
func FilterPosts(posts []*domain.Post, f PostFilter) []*domain.Post {
	out := make([]*domain.Post, 0, len(posts))
	for _, p := range posts {
		if matchesFilter(p, f) {
			out = append(out, p)
		}
	}
	return out
}

func matchesFilter(p *domain.Post, f PostFilter) bool {
	if f.Featured && !p.Featured {
		return false
	}
	if f.Announcement && !p.Announcement {
		return false
	}
	if f.Difficulty >= 1 && f.Difficulty <= 5 && p.Difficulty != f.Difficulty {
		return false
	}
	if f.Category != "" && !p.HasCategory(f.Category) {
		return false
	}
	if len(f.Categories) > 0 {
		if f.Match == MatchAll {
			for _, c := range f.Categories {
				if !p.HasCategory(c) {
					return false
				}
			}
		} else {
			any := false
			for _, c := range f.Categories {
				if p.HasCategory(c) {
					any = true
					break
				}
			}
			if !any {
				return false
			}
		}
	}
	return true
}

// SortPosts orders posts by the chosen key only. The sort is stable, so
// same-key posts keep the order of the input list.
func SortPosts(posts []*domain.Post, option SortOption) []*domain.Post {
	out := make([]*domain.Post, len(posts))
	copy(out, posts)

	switch option {
	case SortOldest:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].PublishedAt.Before(out[j].PublishedAt)
		})
	case SortReadingTimeAsc:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].ReadingTime < out[j].ReadingTime
		})
	case SortReadingTimeDesc:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].ReadingTime > out[j].ReadingTime
		})
	default: // newest
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].PublishedAt.After(out[j].PublishedAt)
		})
	}

	return out
}

// Paginate slices one 1-indexed page out of posts. The page number is
// clamped into [1, totalPages]; an empty list reports page 1 of 0 pages.
func Paginate(posts []*domain.Post, page, limit int) ([]*domain.Post, domain.PageInfo) {
	if limit < 1 {
		limit = 1
	}

	total := len(posts)
	totalPages := int(math.Ceil(float64(total) / float64(limit)))

	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}
	if totalPages == 0 {
		page = 1
	}

	start := (page - 1) * limit
	end := start + limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return posts[start:end], domain.PageInfo{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

const (
	titleScore   = 10
	excerptScore = 5
	bodyScore    = 1
)

// SearchPosts matches posts against a whitespace-tokenized query. Every
// token must appear in at least one of title, excerpt or body; matches are
// ranked by accumulated field weight, ties keeping the order of the input
// list. An empty query returns the input unchanged.
func SearchPosts(posts []*domain.Post, query string) []*domain.Post {
	tokens := strings.Fields(strings.ToLower(query))
	if len(tokens) == 0 {
		return posts
	}

	type scored struct {
		post  *domain.Post
		score int
	}

	var matches []scored
	for _, p := range posts {
		title := strings.ToLower(p.Title)
		excerpt := strings.ToLower(p.Excerpt)
		body := strings.ToLower(p.Content)

		score := 0
		matched := true
		for _, token := range tokens {
			tokenScore := 0
			if strings.Contains(title, token) {
				tokenScore += titleScore
			}
			if strings.Contains(excerpt, token) {
				tokenScore += excerptScore
			}
			if strings.Contains(body, token) {
				tokenScore += bodyScore
			}
			if tokenScore == 0 {
				matched = false
				break
			}
			score += tokenScore
		}

		if matched {
			matches = append(matches, scored{post: p, score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	out := make([]*domain.Post, len(matches))
	for i, m := range matches {
		out[i] = m.post
	}
	return out
}

const (
	sharedCategoryScore  = 10.0
	titleOverlapScore    = 5.0
	closeDateScore       = 3.0
	nearDateScore        = 1.0
	sameDifficultyScore  = 2.0
	closeDateWindowDays  = 30
	nearDateWindowDays   = 90
	titleWordMinLength   = 3
)

// RelatedPosts scores every other post against source and returns the top
// limit candidates. The candidate list is expected in date-descending order;
// score ties keep that order, so results are deterministic.
func RelatedPosts(posts []*domain.Post, source *domain.Post, limit int) []*domain.Post {
	if limit < 1 {
		return nil
	}

	sourceWords := titleWords(source.Title)

	type scored struct {
		post  *domain.Post
		score float64
	}

	var candidates []scored
	for _, p := range posts {
		if p.Slug == source.Slug {
			continue
		}
		candidates = append(candidates, scored{post: p, score: relatedScore(source, p, sourceWords)})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if limit > len(candidates) {
		limit = len(candidates)
	}
	out := make([]*domain.Post, limit)
	for i := 0; i < limit; i++ {
		out[i] = candidates[i].post
	}
	return out
}

func relatedScore(source, candidate *domain.Post, sourceWords map[string]bool) float64 {
	score := 0.0

	for _, c := range candidate.Categories {
		if source.HasCategory(c) {
			score += sharedCategoryScore
		}
	}

	candidateWords := titleWords(candidate.Title)
	if overlap := wordOverlap(sourceWords, candidateWords); overlap > 0 {
		score += overlap * titleOverlapScore
	}

	if !source.PublishedAt.IsZero() && !candidate.PublishedAt.IsZero() {
		days := math.Abs(source.PublishedAt.Sub(candidate.PublishedAt).Hours()) / 24
		switch {
		case days <= closeDateWindowDays:
			score += closeDateScore
		case days <= nearDateWindowDays:
			score += nearDateScore
		}
	}

	if source.Difficulty == candidate.Difficulty {
		score += sameDifficultyScore
	}

	return score
}

// titleWords collects the distinct lowercase words of a title longer than
// three characters.
func titleWords(title string) map[string]bool {
	words := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(title)) {
		if len(w) > titleWordMinLength {
			words[w] = true
		}
	}
	return words
}

// wordOverlap is the shared-word count scaled by the larger set size,
// yielding a value in [0,1].
func wordOverlap(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	shared := 0
	for w := range a {
		if b[w] {
			shared++
		}
	}

	larger := len(a)
	if len(b) > larger {
		larger = len(b)
	}
	return float64(shared) / float64(larger)
}
