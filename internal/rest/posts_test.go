package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lokisoft/site/api"
	"github.com/lokisoft/site/blog/application"
	"github.com/lokisoft/site/blog/domain"
	"github.com/lokisoft/site/blog/persistence"
)

type memoryCommentRepo struct {
	comments map[string][]*domain.Comment
	nextID   int64
}

func newMemoryCommentRepo() *memoryCommentRepo {
	return &memoryCommentRepo{comments: make(map[string][]*domain.Comment)}
}

func (r *memoryCommentRepo) AddComment(_ context.Context, c *domain.Comment) error {
	r.nextID++
	c.ID = r.nextID
	r.comments[c.PostSlug] = append(r.comments[c.PostSlug], c)
	return nil
}

func (r *memoryCommentRepo) ListComments(_ context.Context, postSlug string) ([]*domain.Comment, error) {
	out := r.comments[postSlug]
	if out == nil {
		out = []*domain.Comment{}
	}
	return out, nil
}

var fixturePosts = map[string]string{
	"kubernetes-scaling.md": strings.Join([]string{
		"---",
		"title: Scaling Kubernetes",
		`date: "2025-06-01"`,
		"categories: [devops, cloud]",
		"difficulty: 3",
		"featured: true",
		"---",
		"## Intro",
		"",
		"How to scale clusters with confidence.",
	}, "\n"),
	"docker-basics.md": strings.Join([]string{
		"---",
		"title: Docker Basics",
		`date: "2025-05-01"`,
		"categories: [devops]",
		"difficulty: 1",
		"---",
		"Containers from first principles, including compose files.",
	}, "\n"),
	"release-notes.md": strings.Join([]string{
		"---",
		"title: Spring Release",
		`date: "2025-04-01"`,
		"announcement: true",
		"---",
		"What shipped this quarter.",
	}, "\n"),
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	for name, content := range fixturePosts {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}

	store := persistence.NewFilePostStore(dir)
	service := application.NewPostService(
		store,
		application.NewMarkdownRenderer(),
		application.NewRenderCache(),
	)

	router := gin.New()
	NewApi(router, NewPostsHandler(service), NewCommentsHandler(newMemoryCommentRepo()))
	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, target string, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestListPostsDefaults(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/blog/v1/posts", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp api.ListPostsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Len(t, resp.Posts, 3)
	assert.Equal(t, "kubernetes-scaling", resp.Posts[0].Slug, "newest first")
	assert.Equal(t, 1, resp.Pagination.Page)
	assert.Equal(t, 20, resp.Pagination.Limit)
	assert.Equal(t, "newest", resp.Filters.Sort)
	assert.Equal(t, "all", resp.Filters.FilterType)
	assert.NotEmpty(t, resp.Categories)

	for _, p := range resp.Posts {
		assert.NotEmpty(t, p.Excerpt)
	}
}

func TestListPostsClampsAndDefaults(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet,
		"/api/blog/v1/posts?limit=999&page=-2&sort=sideways&filter=bogus&difficulty=waffle", "")
	require.Equal(t, http.StatusOK, w.Code, "invalid parameters must never produce an error status")

	var resp api.ListPostsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, 50, resp.Pagination.Limit, "limit clamped to maximum")
	assert.Equal(t, 1, resp.Pagination.Page, "page clamped to first")
	assert.Equal(t, "newest", resp.Filters.Sort, "unknown sort falls back to newest")
	assert.Equal(t, "all", resp.Filters.FilterType, "unknown filter falls back to all")
	assert.Zero(t, resp.Filters.Difficulty, "non-numeric difficulty ignored")
	assert.Len(t, resp.Posts, 3)
}

func TestListPostsFilters(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected []string
	}{
		{"Featured", "filter=featured", []string{"kubernetes-scaling"}},
		{"Announcements", "filter=announcements", []string{"release-notes"}},
		{"Category", "filter=category&category=DEVOPS", []string{"kubernetes-scaling", "docker-basics"}},
		{"Difficulty", "difficulty=1", []string{"docker-basics", "release-notes"}},
		{"Category set AND", "categories=devops,cloud&match=and", []string{"kubernetes-scaling"}},
		{"Category set OR", "categories=cloud,missing&match=or", []string{"kubernetes-scaling"}},
		{"Out of range difficulty ignored", "difficulty=9", []string{"kubernetes-scaling", "docker-basics", "release-notes"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(t)

			w := doRequest(t, router, http.MethodGet, "/api/blog/v1/posts?"+tt.query, "")
			require.Equal(t, http.StatusOK, w.Code)

			var resp api.ListPostsResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

			var got []string
			for _, p := range resp.Posts {
				got = append(got, p.Slug)
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSearchPosts(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/blog/v1/posts/search?q=docker+compose", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp api.SearchPostsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "docker compose", resp.Query)
	require.Len(t, resp.Posts, 1, "only the post containing both tokens matches")
	assert.Equal(t, "docker-basics", resp.Posts[0].Slug)
}

func TestGetPostRendersHTML(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/blog/v1/posts/kubernetes-scaling", "")
	require.Equal(t, http.StatusOK, w.Code)

	var post domain.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &post))

	assert.Equal(t, "kubernetes-scaling", post.Slug)
	assert.Contains(t, post.ContentHTML, `id="intro"`)
	require.NotEmpty(t, post.Headings)
	assert.Equal(t, "intro", post.Headings[0].ID)
	assert.NotEmpty(t, post.Blocks)
}

func TestGetPostNotFound(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/blog/v1/posts/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetRelatedPosts(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/blog/v1/posts/kubernetes-scaling/related?limit=2", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Posts []api.PostSummary `json:"posts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.NotEmpty(t, resp.Posts)
	assert.Equal(t, "docker-basics", resp.Posts[0].Slug, "shared category scores highest")
	for _, p := range resp.Posts {
		assert.NotEqual(t, "kubernetes-scaling", p.Slug)
	}

	notFound := doRequest(t, router, http.MethodGet, "/api/blog/v1/posts/nope/related", "")
	assert.Equal(t, http.StatusNotFound, notFound.Code)
}

func TestGetCategories(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/blog/v1/categories", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Categories []api.Category `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.NotEmpty(t, resp.Categories)
	assert.Equal(t, "devops", resp.Categories[0].Name)
	assert.Equal(t, 2, resp.Categories[0].Count)
}

func TestPostAndListComments(t *testing.T) {
	router := newTestRouter(t)

	created := doRequest(t, router, http.MethodPost, "/api/comments/v1/docker-basics",
		`{"author": "Sam", "body": "Nice writeup."}`)
	require.Equal(t, http.StatusCreated, created.Code)

	var comment api.Comment
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &comment))
	assert.Equal(t, "Sam", comment.Author)
	assert.NotZero(t, comment.ID)

	anonymous := doRequest(t, router, http.MethodPost, "/api/comments/v1/docker-basics",
		`{"body": "Me too."}`)
	require.Equal(t, http.StatusCreated, anonymous.Code)

	listed := doRequest(t, router, http.MethodGet, "/api/comments/v1/docker-basics", "")
	require.Equal(t, http.StatusOK, listed.Code)

	var comments []api.Comment
	require.NoError(t, json.Unmarshal(listed.Body.Bytes(), &comments))
	require.Len(t, comments, 2)
	assert.Equal(t, "Anonymous", comments[1].Author)
}

func TestPostCommentRejectsEmptyBody(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodPost, "/api/comments/v1/docker-basics",
		`{"author": "Sam", "body": "   "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
