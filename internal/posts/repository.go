package posts

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkpost/inkpost/internal/platform/db"
	"github.com/inkpost/inkpost/internal/shared"
)

// Repository defines persistence operations for posts, likes and bookmarks.
type Repository interface {
	Get(ctx context.Context, id int64) (*Post, error)
	List(ctx context.Context, q ListQuery) ([]Post, int, error)
	Create(ctx context.Context, authorID int64, req CreatePostRequest) (*Post, error)
	Update(ctx context.Context, id int64, req UpdatePostRequest) (*Post, error)
	Delete(ctx context.Context, id int64) error
	ToggleLike(ctx context.Context, postID, userID int64) (liked bool, likes int, err error)
	ToggleBookmark(ctx context.Context, postID, userID int64) (bookmarked bool, err error)
	Flags(ctx context.Context, userID int64, postIDs []int64) (map[int64]Flags, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const postSelect = `
	SELECT p.id, p.author_id, u.name, u.profile_picture,
	       p.title, p.content, p.tags, p.image_url,
	       p.likes_count, p.comments_count, p.created_at, p.updated_at
	FROM posts p
	JOIN users u ON u.id = p.author_id`

func scanPost(row pgx.Row) (*Post, error) {
	var p Post
	err := row.Scan(
		&p.ID, &p.Author.ID, &p.Author.Name, &p.Author.ProfilePicture,
		&p.Title, &p.Content, &p.Tags, &p.ImageURL,
		&p.LikesCount, &p.CommentsCount, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return &p, nil
}

// Get fetches a post with its author summary.
func (r *PGRepository) Get(ctx context.Context, id int64) (*Post, error) {
	return scanPost(r.pool.QueryRow(ctx, postSelect+` WHERE p.id = $1`, id))
}

// List returns a page of posts, newest first, with the total match count.
func (r *PGRepository) List(ctx context.Context, q ListQuery) ([]Post, int, error) {
	var conditions []string
	var args []any
	argPos := 1

	if q.Tag != "" {
		conditions = append(conditions, fmt.Sprintf("$%d = ANY(p.tags)", argPos))
		args = append(args, q.Tag)
		argPos++
	}
	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		conditions = append(conditions, fmt.Sprintf("(p.title ILIKE $%d OR p.content ILIKE $%d)", argPos, argPos))
		args = append(args, pattern)
		argPos++
	}
	if q.AuthorID > 0 {
		conditions = append(conditions, fmt.Sprintf("p.author_id = $%d", argPos))
		args = append(args, q.AuthorID)
		argPos++
	}
	joinClause := ""
	if q.BookmarkedBy > 0 {
		joinClause = fmt.Sprintf(" JOIN bookmarks b ON b.post_id = p.id AND b.user_id = $%d", argPos)
		args = append(args, q.BookmarkedBy)
		argPos++
	}

	whereClause := ""
	for i, cond := range conditions {
		if i == 0 {
			whereClause = " WHERE " + cond
		} else {
			whereClause += " AND " + cond
		}
	}

	countQuery := `SELECT COUNT(*) FROM posts p` + joinClause + whereClause
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(postSelect+joinClause+whereClause+`
		ORDER BY p.created_at DESC
		LIMIT $%d OFFSET $%d`, argPos, argPos+1)
	args = append(args, q.Limit, (q.Page-1)*q.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *p)
	}
	return result, total, rows.Err()
}

// Create inserts a post and returns it with the author summary attached.
func (r *PGRepository) Create(ctx context.Context, authorID int64, req CreatePostRequest) (*Post, error) {
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO posts (author_id, title, content, tags, image_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		authorID, req.Title, req.Content, tags, req.ImageURL,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("posts: create: %w", err)
	}
	return r.Get(ctx, id)
}

// Update replaces the editable fields. author_id is never touched.
func (r *PGRepository) Update(ctx context.Context, id int64, req UpdatePostRequest) (*Post, error) {
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE posts
		SET title = $2, content = $3, tags = $4, image_url = $5, updated_at = now()
		WHERE id = $1`,
		id, req.Title, req.Content, tags, req.ImageURL,
	)
	if err != nil {
		return nil, fmt.Errorf("posts: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, shared.ErrNotFound
	}
	return r.Get(ctx, id)
}

// Delete removes a post together with its comments, likes and bookmarks.
func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM comments WHERE post_id = $1`, id); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM post_likes WHERE post_id = $1`, id); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM bookmarks WHERE post_id = $1`, id); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// ToggleLike flips the viewer's like membership and adjusts the count in the
// same transaction, so concurrent toggles cannot lose updates.
func (r *PGRepository) ToggleLike(ctx context.Context, postID, userID int64) (bool, int, error) {
	var liked bool
	var likes int
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var exists int64
		if err := tx.QueryRow(ctx, `SELECT id FROM posts WHERE id = $1 FOR UPDATE`, postID).Scan(&exists); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return shared.ErrNotFound
			}
			return err
		}

		tag, err := tx.Exec(ctx, `DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 1 {
			liked = false
			return tx.QueryRow(ctx, `
				UPDATE posts SET likes_count = GREATEST(likes_count - 1, 0)
				WHERE id = $1 RETURNING likes_count`, postID).Scan(&likes)
		}

		if _, err := tx.Exec(ctx, `INSERT INTO post_likes (post_id, user_id) VALUES ($1, $2)`, postID, userID); err != nil {
			return err
		}
		liked = true
		return tx.QueryRow(ctx, `
			UPDATE posts SET likes_count = likes_count + 1
			WHERE id = $1 RETURNING likes_count`, postID).Scan(&likes)
	})
	if err != nil {
		return false, 0, err
	}
	return liked, likes, nil
}

// ToggleBookmark flips the viewer's bookmark membership.
func (r *PGRepository) ToggleBookmark(ctx context.Context, postID, userID int64) (bool, error) {
	var bookmarked bool
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var exists int64
		if err := tx.QueryRow(ctx, `SELECT id FROM posts WHERE id = $1`, postID).Scan(&exists); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return shared.ErrNotFound
			}
			return err
		}

		tag, err := tx.Exec(ctx, `DELETE FROM bookmarks WHERE user_id = $1 AND post_id = $2`, userID, postID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 1 {
			bookmarked = false
			return nil
		}

		if _, err := tx.Exec(ctx, `INSERT INTO bookmarks (user_id, post_id) VALUES ($1, $2)`, userID, postID); err != nil {
			return err
		}
		bookmarked = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return bookmarked, nil
}

// Flags loads the viewer's like/bookmark state for a set of posts.
func (r *PGRepository) Flags(ctx context.Context, userID int64, postIDs []int64) (map[int64]Flags, error) {
	flags := make(map[int64]Flags, len(postIDs))
	if len(postIDs) == 0 {
		return flags, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT post_id, true AS liked, false AS bookmarked
		FROM post_likes WHERE user_id = $1 AND post_id = ANY($2)
		UNION ALL
		SELECT post_id, false, true
		FROM bookmarks WHERE user_id = $1 AND post_id = ANY($2)`,
		userID, postIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var postID int64
		var liked, bookmarked bool
		if err := rows.Scan(&postID, &liked, &bookmarked); err != nil {
			return nil, err
		}
		f := flags[postID]
		f.Liked = f.Liked || liked
		f.Bookmarked = f.Bookmarked || bookmarked
		flags[postID] = f
	}
	return flags, rows.Err()
}

var _ Repository = (*PGRepository)(nil)
