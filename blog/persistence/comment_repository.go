package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lokisoft/site/blog/domain"
	"github.com/lokisoft/site/shared/db"
)

var _ domain.CommentRepository = (*SQLiteCommentRepository)(nil)

// SQLiteCommentRepository implements domain.CommentRepository on SQLite.
// Comments are keyed by post slug; the post itself lives on disk, so there
// is no foreign key to a posts table.
type SQLiteCommentRepository struct {
	db *sql.DB
}

func NewCommentRepository(database *sql.DB) *SQLiteCommentRepository {
	return &SQLiteCommentRepository{db: database}
}

const insertCommentQuery = `
	INSERT INTO comments (post_slug, author, body, created_at)
	VALUES (?, ?, ?, ?)
`

// AddComment stores a comment and fills in its assigned ID.
func (r *SQLiteCommentRepository) AddComment(ctx context.Context, c *domain.Comment) error {
	if c == nil {
		return fmt.Errorf("comment cannot be nil")
	}
	if c.PostSlug == "" {
		return fmt.Errorf("comment post slug cannot be empty")
	}
	if c.Body == "" {
		return fmt.Errorf("comment body cannot be empty")
	}

	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	return db.RunInTransaction(ctx, r.db, func(txCtx context.Context) error {
		executor := db.GetExecutor(txCtx, r.db)
		result, err := executor.ExecContext(txCtx, insertCommentQuery,
			c.PostSlug,
			c.Author,
			c.Body,
			c.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert comment: %w", err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read comment id: %w", err)
		}
		c.ID = id

		return nil
	})
}

const listCommentsQuery = `
	SELECT id, post_slug, author, body, created_at
	FROM comments
	WHERE post_slug = ?
	ORDER BY created_at ASC, id ASC
`

// ListComments returns a post's comments oldest first.
func (r *SQLiteCommentRepository) ListComments(ctx context.Context, postSlug string) ([]*domain.Comment, error) {
	if postSlug == "" {
		return nil, fmt.Errorf("post slug cannot be empty")
	}

	rows, err := r.db.QueryContext(ctx, listCommentsQuery, postSlug)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	comments := []*domain.Comment{}
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.PostSlug, &c.Author, &c.Body, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate comments: %w", err)
	}

	return comments, nil
}
