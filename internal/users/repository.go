package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkpost/inkpost/internal/shared"
)

// ProfileUpdate holds the fields a user may change on their own profile.
// Nil pointers mean "leave unchanged".
type ProfileUpdate struct {
	Name           *string
	Bio            *string
	ProfilePicture *string
}

// Repository defines persistence operations for user profiles.
type Repository interface {
	Get(ctx context.Context, id int64) (*Profile, error)
	UpdateProfile(ctx context.Context, id int64, update ProfileUpdate) (*Profile, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const profileSelect = `
	SELECT id, name, email, profile_picture, bio, created_at, updated_at
	FROM users`

func scanProfile(row pgx.Row) (*Profile, error) {
	var p Profile
	err := row.Scan(&p.ID, &p.Name, &p.Email, &p.ProfilePicture, &p.Bio, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Get fetches a public profile by user id.
func (r *PGRepository) Get(ctx context.Context, id int64) (*Profile, error) {
	return scanProfile(r.pool.QueryRow(ctx, profileSelect+` WHERE id = $1`, id))
}

// UpdateProfile applies the provided fields and returns the fresh profile.
// With no fields set it degenerates to a Get.
func (r *PGRepository) UpdateProfile(ctx context.Context, id int64, update ProfileUpdate) (*Profile, error) {
	sets := []string{"updated_at = now()"}
	args := []any{id}

	add := func(column string, value *string) {
		if value == nil {
			return
		}
		args = append(args, *value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("name", update.Name)
	add("bio", update.Bio)
	add("profile_picture", update.ProfilePicture)

	if len(args) == 1 {
		return r.Get(ctx, id)
	}

	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $1
		RETURNING id, name, email, profile_picture, bio, created_at, updated_at`,
		strings.Join(sets, ", "))
	return scanProfile(r.pool.QueryRow(ctx, query, args...))
}

var _ Repository = (*PGRepository)(nil)
