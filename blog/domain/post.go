package domain

import (
	"strings"
	"time"
)

// Post represents a blog post parsed from a markdown source file.
// The slug is derived from the filename and is the unique key for the post.
// ContentHTML, Headings and Blocks are only populated after the post has been
// run through the render pipeline; metadata-only loads leave them empty.
type Post struct {
	Slug         string         `json:"slug"`
	Title        string         `json:"title"`
	Date         string         `json:"date"`
	Author       string         `json:"author"`
	Excerpt      string         `json:"excerpt"`
	Categories   []string       `json:"categories"`
	Difficulty   int            `json:"difficulty"`
	Featured     bool           `json:"featured"`
	Announcement bool           `json:"announcement"`
	CoverImage   string         `json:"coverImage,omitempty"`
	ReadingTime  int            `json:"readingTime"`
	Content      string         `json:"content"`
	ContentHTML  string         `json:"contentHtml,omitempty"`
	Headings     []TocHeading   `json:"headings,omitempty"`
	Blocks       []ContentBlock `json:"blocks,omitempty"`

	// PublishedAt is Date parsed as a calendar date, used for ordering.
	// Zero when the date string cannot be parsed.
	PublishedAt time.Time `json:"-"`
}

// HasCategory reports whether the post carries the given category,
// compared case-insensitively.
func (p *Post) HasCategory(name string) bool {
	for _, c := range p.Categories {
		if strings.EqualFold(c, name) {
			return true
		}
	}
	return false
}

// TocHeading is one entry of a post's table of contents. ID matches the id
// attribute assigned to the corresponding heading in the rendered HTML.
type TocHeading struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Level int    `json:"level"`
}

// Category is the aggregate of one category name over the whole corpus,
// lowercase-normalized.
type Category struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// PageInfo describes one page of a paginated result set.
type PageInfo struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// PostStore loads post metadata from the source directory. Implementations
// re-read the directory on every call; there is no long-lived parsed state
// shared across requests.
type PostStore interface {
	GetAllPosts() []*Post
	GetPostBySlug(slug string) (*Post, error)
	GetAllCategories() []Category
	SourceModTime(slug string) (time.Time, error)
}
