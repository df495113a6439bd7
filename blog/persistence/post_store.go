package persistence

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/rs/zerolog/log"

	"github.com/lokisoft/site/blog/domain"
)

var _ domain.PostStore = (*FilePostStore)(nil)

const (
	postExtension   = ".md"
	wordsPerMinute  = 200
	defaultTitle    = "Untitled"
	defaultAuthor   = "LokiSoft Team"
	excerptMaxRunes = 160
)

// FilePostStore reads posts from a directory of markdown files with YAML
// frontmatter. Every call re-reads the directory; parsed posts are never
// cached here, so edits on disk are visible on the next request.
type FilePostStore struct {
	dir string
}

func NewFilePostStore(dir string) *FilePostStore {
	return &FilePostStore{dir: dir}
}

// GetAllPosts returns every parseable post sorted by date descending.
// A file that fails to parse is logged and skipped; it never aborts the
// rest of the batch. A missing posts directory is treated as empty.
func (s *FilePostStore) GetAllPosts() []*domain.Post {
	if err := s.ensureDir(); err != nil {
		log.Error().Err(err).Str("dir", s.dir).Msg("Failed to create posts directory")
		return nil
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		log.Error().Err(err).Str("dir", s.dir).Msg("Failed to list posts directory")
		return nil
	}

	posts := make([]*domain.Post, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), postExtension) {
			continue
		}

		post, err := s.parseFile(entry.Name())
		if err != nil {
			log.Warn().Err(err).Str("file", entry.Name()).Msg("Skipping unparseable post")
			continue
		}
		posts = append(posts, post)
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].PublishedAt.After(posts[j].PublishedAt)
	})

	return posts
}

// GetPostBySlug loads a single post's metadata. A missing file returns
// nil, nil rather than an error.
func (s *FilePostStore) GetPostBySlug(slug string) (*domain.Post, error) {
	if err := s.ensureDir(); err != nil {
		return nil, fmt.Errorf("failed to create posts directory: %w", err)
	}

	name := slug + postExtension
	if _, err := os.Stat(filepath.Join(s.dir, name)); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to stat post %s: %w", slug, err)
	}

	return s.parseFile(name)
}

// GetAllCategories aggregates the lowercase-normalized categories of every
// post, sorted by count descending.
func (s *FilePostStore) GetAllCategories() []domain.Category {
	counts := make(map[string]int)
	for _, post := range s.GetAllPosts() {
		for _, c := range post.Categories {
			counts[strings.ToLower(c)]++
		}
	}

	categories := make([]domain.Category, 0, len(counts))
	for name, count := range counts {
		categories = append(categories, domain.Category{Name: name, Count: count})
	}
	sort.SliceStable(categories, func(i, j int) bool {
		if categories[i].Count != categories[j].Count {
			return categories[i].Count > categories[j].Count
		}
		return categories[i].Name < categories[j].Name
	})

	return categories
}

// GetFeaturedPosts returns the newest featured posts, up to limit.
func (s *FilePostStore) GetFeaturedPosts(limit int) []*domain.Post {
	return takePosts(s.GetAllPosts(), limit, func(p *domain.Post) bool { return p.Featured })
}

// GetAnnouncements returns the newest announcement posts, up to limit.
func (s *FilePostStore) GetAnnouncements(limit int) []*domain.Post {
	return takePosts(s.GetAllPosts(), limit, func(p *domain.Post) bool { return p.Announcement })
}

// GetPostsByCategory returns every post carrying the category,
// case-insensitively, newest first.
func (s *FilePostStore) GetPostsByCategory(category string) []*domain.Post {
	return takePosts(s.GetAllPosts(), -1, func(p *domain.Post) bool {
		return p.HasCategory(category)
	})
}

// takePosts keeps posts matching keep, in order, up to limit. A negative
// limit means no cap.
func takePosts(posts []*domain.Post, limit int, keep func(*domain.Post) bool) []*domain.Post {
	out := []*domain.Post{}
	for _, p := range posts {
		if limit >= 0 && len(out) == limit {
			break
		}
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// SourceModTime returns the modification time of a post's source file.
func (s *FilePostStore) SourceModTime(slug string) (time.Time, error) {
	info, err := os.Stat(filepath.Join(s.dir, slug+postExtension))
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

func (s *FilePostStore) ensureDir() error {
	return os.MkdirAll(s.dir, 0755)
}

func (s *FilePostStore) parseFile(name string) (*domain.Post, error) {
	raw, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to read post file: %w", err)
	}

	meta := map[string]any{}
	body, err := frontmatter.Parse(bytes.NewReader(raw), &meta)
	if err != nil {
		return nil, fmt.Errorf("failed to parse frontmatter: %w", err)
	}

	content := string(body)
	slug := strings.TrimSuffix(name, postExtension)

	post := &domain.Post{
		Slug:         slug,
		Title:        stringField(meta, "title", defaultTitle),
		Date:         stringField(meta, "date", time.Now().Format("2006-01-02")),
		Author:       stringField(meta, "author", defaultAuthor),
		Excerpt:      stringField(meta, "excerpt", defaultExcerpt(content)),
		Categories:   categoriesField(meta),
		Difficulty:   difficultyField(meta),
		Featured:     boolField(meta, "featured"),
		Announcement: boolField(meta, "announcement"),
		CoverImage:   stringField(meta, "coverImage", ""),
		ReadingTime:  readingTime(content),
		Content:      content,
	}
	post.PublishedAt = parseDate(post.Date)

	return post, nil
}

// readingTime estimates minutes to read at 200 words per minute, rounded up.
func readingTime(content string) int {
	words := len(strings.Fields(content))
	if words == 0 {
		words = 1
	}
	return int(math.Ceil(float64(words) / wordsPerMinute))
}

func defaultExcerpt(content string) string {
	runes := []rune(strings.TrimSpace(content))
	if len(runes) > excerptMaxRunes {
		runes = runes[:excerptMaxRunes]
	}
	return string(runes) + "..."
}

var dateFormats = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02",
}

func parseDate(value string) time.Time {
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

func stringField(meta map[string]any, key, fallback string) string {
	v, ok := meta[key]
	if !ok || v == nil {
		return fallback
	}

	switch s := v.(type) {
	case string:
		if s == "" {
			return fallback
		}
		return s
	case time.Time:
		// yaml decodes unquoted dates as timestamps
		return s.Format("2006-01-02")
	default:
		return fmt.Sprintf("%v", v)
	}
}

// categoriesField accepts either a list or a comma-separated string under
// "categories" or the singular "category". Blank entries are dropped.
func categoriesField(meta map[string]any) []string {
	v, ok := meta["categories"]
	if !ok || v == nil {
		v, ok = meta["category"]
		if !ok || v == nil {
			return []string{}
		}
	}

	var raw []string
	switch val := v.(type) {
	case []any:
		for _, item := range val {
			raw = append(raw, fmt.Sprintf("%v", item))
		}
	case []string:
		raw = val
	case string:
		raw = strings.Split(val, ",")
	default:
		return []string{}
	}

	categories := make([]string, 0, len(raw))
	for _, c := range raw {
		if trimmed := strings.TrimSpace(c); trimmed != "" {
			categories = append(categories, trimmed)
		}
	}
	return categories
}

// difficultyField clamps to [1,5]; anything non-numeric falls back to 1.
func difficultyField(meta map[string]any) int {
	d := 1
	switch v := meta["difficulty"].(type) {
	case int:
		d = v
	case int64:
		d = int(v)
	case float64:
		d = int(v)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			d = n
		}
	}

	if d < 1 {
		return 1
	}
	if d > 5 {
		return 5
	}
	return d
}

func boolField(meta map[string]any, key string) bool {
	switch v := meta[key].(type) {
	case bool:
		return v
	case string:
		b, err := strconv.ParseBool(v)
		return err == nil && b
	default:
		return false
	}
}
