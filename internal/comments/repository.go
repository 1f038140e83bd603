package comments

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkpost/inkpost/internal/platform/db"
	"github.com/inkpost/inkpost/internal/shared"
)

// Repository defines persistence operations for comments. Create and Delete
// maintain the post's denormalised comment count in the same transaction.
type Repository interface {
	Get(ctx context.Context, id int64) (*Comment, error)
	ListByPost(ctx context.Context, postID int64, page, limit int) ([]Comment, int, error)
	Create(ctx context.Context, postID, userID int64, body string) (*Comment, error)
	Update(ctx context.Context, id int64, body string) (*Comment, error)
	Delete(ctx context.Context, id int64) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const commentSelect = `
	SELECT c.id, c.post_id, c.user_id, u.name, u.profile_picture,
	       c.body, c.created_at, c.updated_at
	FROM comments c
	JOIN users u ON u.id = c.user_id`

func scanComment(row pgx.Row) (*Comment, error) {
	var c Comment
	err := row.Scan(
		&c.ID, &c.PostID, &c.User.ID, &c.User.Name, &c.User.ProfilePicture,
		&c.Body, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Get fetches a comment with its author summary.
func (r *PGRepository) Get(ctx context.Context, id int64) (*Comment, error) {
	return scanComment(r.pool.QueryRow(ctx, commentSelect+` WHERE c.id = $1`, id))
}

// ListByPost returns a page of a post's comments, newest first.
func (r *PGRepository) ListByPost(ctx context.Context, postID int64, page, limit int) ([]Comment, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM comments WHERE post_id = $1`, postID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, commentSelect+`
		WHERE c.post_id = $1
		ORDER BY c.created_at DESC
		LIMIT $2 OFFSET $3`,
		postID, limit, (page-1)*limit,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *c)
	}
	return result, total, rows.Err()
}

// Create inserts a comment and increments the post's comment count. A
// missing post surfaces as shared.ErrNotFound.
func (r *PGRepository) Create(ctx context.Context, postID, userID int64, body string) (*Comment, error) {
	var id int64
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE posts SET comments_count = comments_count + 1 WHERE id = $1`, postID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return shared.ErrNotFound
		}
		return tx.QueryRow(ctx, `
			INSERT INTO comments (post_id, user_id, body)
			VALUES ($1, $2, $3)
			RETURNING id`, postID, userID, body).Scan(&id)
	})
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

// Update replaces the comment body.
func (r *PGRepository) Update(ctx context.Context, id int64, body string) (*Comment, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE comments SET body = $2, updated_at = now() WHERE id = $1`, id, body)
	if err != nil {
		return nil, fmt.Errorf("comments: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, shared.ErrNotFound
	}
	return r.Get(ctx, id)
}

// Delete removes a comment and decrements the post's comment count.
func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var postID int64
		err := tx.QueryRow(ctx, `DELETE FROM comments WHERE id = $1 RETURNING post_id`, id).Scan(&postID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return shared.ErrNotFound
			}
			return err
		}
		_, err = tx.Exec(ctx, `
			UPDATE posts SET comments_count = GREATEST(comments_count - 1, 0) WHERE id = $1`, postID)
		return err
	})
}

var _ Repository = (*PGRepository)(nil)
