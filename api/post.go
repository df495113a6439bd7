package api

// PostSummary is the trimmed post shape used in list and search responses;
// the body and rendered HTML are only returned for single-post requests.
type PostSummary struct {
	Slug         string   `json:"slug"`
	Title        string   `json:"title"`
	Date         string   `json:"date"`
	Author       string   `json:"author"`
	Excerpt      string   `json:"excerpt"`
	Categories   []string `json:"categories"`
	Difficulty   int      `json:"difficulty"`
	Featured     bool     `json:"featured"`
	Announcement bool     `json:"announcement"`
	CoverImage   string   `json:"coverImage,omitempty"`
	ReadingTime  int      `json:"readingTime"`
}

type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

type Category struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// ResolvedFilters echoes back the filter parameters after clamping and
// defaulting, so clients see what was actually applied.
type ResolvedFilters struct {
	FilterType string   `json:"filterType"`
	Category   string   `json:"category,omitempty"`
	Categories []string `json:"categories,omitempty"`
	Match      string   `json:"match"`
	Difficulty int      `json:"difficulty,omitempty"`
	Sort       string   `json:"sort"`
}

type ListPostsResponse struct {
	Posts      []PostSummary   `json:"posts"`
	Pagination Pagination      `json:"pagination"`
	Categories []Category      `json:"categories"`
	Filters    ResolvedFilters `json:"filters"`
}

type SearchPostsResponse struct {
	Posts      []PostSummary `json:"posts"`
	Pagination Pagination    `json:"pagination"`
	Query      string        `json:"query"`
}
