package application

import (
	"fmt"
	"sync/atomic"

	"github.com/lokisoft/site/blog/domain"
)

// PostService ties the content store, the render pipeline and the render
// cache together. Listing and searching always operate on a freshly loaded
// post list; rendering is per-post and cached by source modification time.
type PostService struct {
	store    domain.PostStore
	markdown MarkdownRenderer
	cache    *RenderCache

	renders atomic.Int64
}

func NewPostService(store domain.PostStore, markdown MarkdownRenderer, cache *RenderCache) *PostService {
	return &PostService{
		store:    store,
		markdown: markdown,
		cache:    cache,
	}
}

// GetPostWithHTML loads a post and populates its rendered HTML, heading
// outline and content blocks. Unknown slugs return nil, nil.
//
// The cache contract: a hit requires the stored modification time to equal
// the file's current one. When the modification time cannot be read (file
// removed mid-request) the post is rendered but not cached, so the next
// request retries cleanly. A render error never writes to the cache.
func (s *PostService) GetPostWithHTML(slug string) (*domain.Post, error) {
	post, err := s.store.GetPostBySlug(slug)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, nil
	}

	modTime, statErr := s.store.SourceModTime(slug)
	if statErr == nil {
		if result, ok := s.cache.Get(slug, modTime); ok {
			attachRenderResult(post, result)
			return post, nil
		}
	}

	s.renders.Add(1)
	result, err := s.markdown.Render([]byte(post.Content))
	if err != nil {
		return nil, fmt.Errorf("failed to render post %s: %w", slug, err)
	}

	if statErr == nil {
		s.cache.Put(slug, modTime, result)
	}

	attachRenderResult(post, result)
	return post, nil
}

func attachRenderResult(post *domain.Post, result *RenderResult) {
	post.ContentHTML = result.HTML
	post.Headings = result.Headings
	post.Blocks = result.Blocks
}

// RenderCount reports how many times the full pipeline has run, as opposed
// to requests served from cache.
func (s *PostService) RenderCount() int64 {
	return s.renders.Load()
}

// ListQuery carries the resolved parameters of the list endpoint.
type ListQuery struct {
	Page   int
	Limit  int
	Filter PostFilter
	Sort   SortOption
}

// ListResult is one page of filtered, sorted posts plus the category
// aggregate for the filter UI.
type ListResult struct {
	Posts      []*domain.Post
	PageInfo   domain.PageInfo
	Categories []domain.Category
}

// ListPosts filters, sorts and paginates a freshly loaded post list.
func (s *PostService) ListPosts(q ListQuery) ListResult {
	posts := s.store.GetAllPosts()
	filtered := FilterPosts(posts, q.Filter)
	sorted := SortPosts(filtered, q.Sort)
	pagePosts, info := Paginate(sorted, q.Page, q.Limit)

	return ListResult{
		Posts:      pagePosts,
		PageInfo:   info,
		Categories: s.store.GetAllCategories(),
	}
}

// SearchPosts ranks the corpus against a free-text query and paginates the
// result. Search is independent of the structural filters; the two paths
// are deliberately separate.
func (s *PostService) SearchPosts(query string, page, limit int) ([]*domain.Post, domain.PageInfo) {
	matched := SearchPosts(s.store.GetAllPosts(), query)
	return Paginate(matched, page, limit)
}

// RelatedPosts returns the top-scoring posts related to slug. Unknown slugs
// return nil, nil.
func (s *PostService) RelatedPosts(slug string, limit int) ([]*domain.Post, error) {
	source, err := s.store.GetPostBySlug(slug)
	if err != nil {
		return nil, err
	}
	if source == nil {
		return nil, nil
	}

	return RelatedPosts(s.store.GetAllPosts(), source, limit), nil
}

// Categories exposes the category aggregate on its own.
func (s *PostService) Categories() []domain.Category {
	return s.store.GetAllCategories()
}
