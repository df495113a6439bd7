package rest

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lokisoft/site/api"
	"github.com/lokisoft/site/blog/domain"
)

const defaultCommentAuthor = "Anonymous"

type CommentsHandler struct {
	repo domain.CommentRepository
}

func NewCommentsHandler(repo domain.CommentRepository) *CommentsHandler {
	return &CommentsHandler{repo: repo}
}

// PostComment stores a new comment on a post.
func (h *CommentsHandler) PostComment(c *gin.Context) {
	proto := &api.CommentProto{}
	if err := c.ShouldBindJSON(proto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	body := strings.TrimSpace(proto.Body)
	if body == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "comment body cannot be empty"})
		return
	}

	author := strings.TrimSpace(proto.Author)
	if author == "" {
		author = defaultCommentAuthor
	}

	comment := &domain.Comment{
		PostSlug: c.Param("slug"),
		Author:   author,
		Body:     body,
	}
	if err := h.repo.AddComment(c.Request.Context(), comment); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save comment"})
		return
	}

	c.JSON(http.StatusCreated, toComment(comment))
}

// GetComments lists a post's comments oldest first.
func (h *CommentsHandler) GetComments(c *gin.Context) {
	comments, err := h.repo.ListComments(c.Request.Context(), c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load comments"})
		return
	}

	out := make([]api.Comment, len(comments))
	for i, comment := range comments {
		out[i] = toComment(comment)
	}
	c.JSON(http.StatusOK, out)
}

func toComment(c *domain.Comment) api.Comment {
	return api.Comment{
		ID:        c.ID,
		Author:    c.Author,
		Body:      c.Body,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
}
