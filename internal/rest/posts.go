package rest

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lokisoft/site/api"
	"github.com/lokisoft/site/blog/application"
	"github.com/lokisoft/site/blog/domain"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 50

	defaultRelatedLimit = 3
	maxRelatedLimit     = 10
)

var validFilterTypes = map[string]bool{
	"all":           true,
	"featured":      true,
	"announcements": true,
	"category":      true,
}

type PostsHandler struct {
	service *application.PostService
}

func NewPostsHandler(service *application.PostService) *PostsHandler {
	return &PostsHandler{service: service}
}

// ListPosts serves the filter/pagination endpoint. Every parameter is
// clamped or defaulted; invalid input never produces a 4xx.
func (h *PostsHandler) ListPosts(c *gin.Context) {
	page := intQuery(c, "page", 1)
	limit := clamp(intQuery(c, "limit", defaultPageLimit), 1, maxPageLimit)

	filterType := c.DefaultQuery("filter", "all")
	if !validFilterTypes[filterType] {
		filterType = "all"
	}
	category := c.Query("category")
	categories := splitCategories(c.Query("categories"))
	match := application.ParseMatchMode(c.Query("match"))
	sortOption := application.ParseSortOption(c.Query("sort"))

	difficulty := 0
	if d := intQuery(c, "difficulty", 0); d >= 1 && d <= 5 {
		difficulty = d
	}

	filter := application.PostFilter{
		Categories: categories,
		Match:      match,
		Difficulty: difficulty,
	}
	switch filterType {
	case "featured":
		filter.Featured = true
	case "announcements":
		filter.Announcement = true
	case "category":
		filter.Category = category
	}

	result := h.service.ListPosts(application.ListQuery{
		Page:   page,
		Limit:  limit,
		Filter: filter,
		Sort:   sortOption,
	})

	c.JSON(http.StatusOK, api.ListPostsResponse{
		Posts:      toSummaries(result.Posts),
		Pagination: toPagination(result.PageInfo),
		Categories: toCategories(result.Categories),
		Filters: api.ResolvedFilters{
			FilterType: filterType,
			Category:   category,
			Categories: categories,
			Match:      string(match),
			Difficulty: difficulty,
			Sort:       string(sortOption),
		},
	})
}

// SearchPosts serves the free-text search endpoint.
func (h *PostsHandler) SearchPosts(c *gin.Context) {
	query := c.Query("q")
	page := intQuery(c, "page", 1)
	limit := clamp(intQuery(c, "limit", defaultPageLimit), 1, maxPageLimit)

	posts, info := h.service.SearchPosts(query, page, limit)

	c.JSON(http.StatusOK, api.SearchPostsResponse{
		Posts:      toSummaries(posts),
		Pagination: toPagination(info),
		Query:      query,
	})
}

// GetPost serves a single post with rendered HTML, heading outline and
// content blocks.
func (h *PostsHandler) GetPost(c *gin.Context) {
	slug := c.Param("slug")

	post, err := h.service.GetPostWithHTML(slug)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render post"})
		return
	}
	if post == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}

	c.JSON(http.StatusOK, post)
}

// GetRelatedPosts serves the top related posts for a slug.
func (h *PostsHandler) GetRelatedPosts(c *gin.Context) {
	slug := c.Param("slug")
	limit := clamp(intQuery(c, "limit", defaultRelatedLimit), 1, maxRelatedLimit)

	related, err := h.service.RelatedPosts(slug, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load related posts"})
		return
	}
	if related == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": toSummaries(related)})
}

// GetCategories serves the category aggregate.
func (h *PostsHandler) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": toCategories(h.service.Categories())})
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func clamp(n, low, high int) int {
	if n < low {
		return low
	}
	if n > high {
		return high
	}
	return n
}

func splitCategories(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, c := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(c); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func toSummaries(posts []*domain.Post) []api.PostSummary {
	out := make([]api.PostSummary, len(posts))
	for i, p := range posts {
		out[i] = api.PostSummary{
			Slug:         p.Slug,
			Title:        p.Title,
			Date:         p.Date,
			Author:       p.Author,
			Excerpt:      p.Excerpt,
			Categories:   p.Categories,
			Difficulty:   p.Difficulty,
			Featured:     p.Featured,
			Announcement: p.Announcement,
			CoverImage:   p.CoverImage,
			ReadingTime:  p.ReadingTime,
		}
	}
	return out
}

func toPagination(info domain.PageInfo) api.Pagination {
	return api.Pagination{
		Page:       info.Page,
		Limit:      info.Limit,
		Total:      info.Total,
		TotalPages: info.TotalPages,
		HasNext:    info.HasNext,
		HasPrev:    info.HasPrev,
	}
}

func toCategories(categories []domain.Category) []api.Category {
	out := make([]api.Category, len(categories))
	for i, cat := range categories {
		out[i] = api.Category{Name: cat.Name, Count: cat.Count}
	}
	return out
}
