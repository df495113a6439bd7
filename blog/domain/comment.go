package domain

import (
	"context"
	"time"
)

// Comment is a reader comment attached to a post by slug.
type Comment struct {
	ID        int64
	PostSlug  string
	Author    string
	Body      string
	CreatedAt time.Time
}

type CommentRepository interface {
	AddComment(ctx context.Context, c *Comment) error
	ListComments(ctx context.Context, postSlug string) ([]*Comment, error)
}
