package comments

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/inkpost/inkpost/internal/shared"
)

type memoryRepo struct {
	comments map[int64]*Comment
	posts    map[int64]int // post id -> comment count
	nextID   int64
}

func newMemoryRepo(postIDs ...int64) *memoryRepo {
	repo := &memoryRepo{
		comments: make(map[int64]*Comment),
		posts:    make(map[int64]int),
	}
	for _, id := range postIDs {
		repo.posts[id] = 0
	}
	return repo
}

func (r *memoryRepo) Get(ctx context.Context, id int64) (*Comment, error) {
	if comment, ok := r.comments[id]; ok {
		copied := *comment
		return &copied, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memoryRepo) ListByPost(ctx context.Context, postID int64, page, limit int) ([]Comment, int, error) {
	var matched []Comment
	for _, comment := range r.comments {
		if comment.PostID == postID {
			matched = append(matched, *comment)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	total := len(matched)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (r *memoryRepo) Create(ctx context.Context, postID, userID int64, body string) (*Comment, error) {
	if _, ok := r.posts[postID]; !ok {
		return nil, shared.ErrNotFound
	}
	r.nextID++
	comment := &Comment{
		ID:        r.nextID,
		PostID:    postID,
		User:      Author{ID: userID, Name: "user"},
		Body:      body,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	r.comments[comment.ID] = comment
	r.posts[postID]++
	copied := *comment
	return &copied, nil
}

func (r *memoryRepo) Update(ctx context.Context, id int64, body string) (*Comment, error) {
	comment, ok := r.comments[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	comment.Body = body
	comment.UpdatedAt = time.Now()
	copied := *comment
	return &copied, nil
}

func (r *memoryRepo) Delete(ctx context.Context, id int64) error {
	comment, ok := r.comments[id]
	if !ok {
		return shared.ErrNotFound
	}
	delete(r.comments, id)
	r.posts[comment.PostID]--
	return nil
}

var _ Repository = (*memoryRepo)(nil)

func TestAddAndList(t *testing.T) {
	repo := newMemoryRepo(1)
	svc := NewService(repo)
	ctx := context.Background()

	comment, err := svc.Add(ctx, 1, 7, "First!")
	require.NoError(t, err)
	require.Equal(t, int64(1), comment.PostID)
	require.Equal(t, int64(7), comment.User.ID)
	require.Equal(t, 1, repo.posts[1])

	_, err = svc.Add(ctx, 999, 7, "Orphan")
	require.ErrorIs(t, err, shared.ErrNotFound)

	result, err := svc.List(ctx, 1, 0, 0)
	require.NoError(t, err)
	require.Len(t, result.Comments, 1)
	require.Equal(t, 1, result.Pagination.TotalItems)
	require.False(t, result.Pagination.HasMore)
}

func TestListPagination(t *testing.T) {
	repo := newMemoryRepo(1)
	svc := NewService(repo)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		_, err := svc.Add(ctx, 1, 7, "Comment")
		require.NoError(t, err)
	}

	result, err := svc.List(ctx, 1, 1, 0)
	require.NoError(t, err)
	require.Len(t, result.Comments, 20)
	require.True(t, result.Pagination.HasMore)

	result, err = svc.List(ctx, 1, 2, 0)
	require.NoError(t, err)
	require.Len(t, result.Comments, 5)
	require.False(t, result.Pagination.HasMore)
}

func TestUpdateOwnership(t *testing.T) {
	repo := newMemoryRepo(1)
	svc := NewService(repo)
	ctx := context.Background()

	comment, err := svc.Add(ctx, 1, 7, "Original")
	require.NoError(t, err)

	_, err = svc.Update(ctx, comment.ID, 8, "Hijacked")
	require.ErrorIs(t, err, shared.ErrForbidden)

	updated, err := svc.Update(ctx, comment.ID, 7, "Edited")
	require.NoError(t, err)
	require.Equal(t, "Edited", updated.Body)

	_, err = svc.Update(ctx, 999, 7, "Nope")
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestDeleteOwnership(t *testing.T) {
	repo := newMemoryRepo(1)
	svc := NewService(repo)
	ctx := context.Background()

	comment, err := svc.Add(ctx, 1, 7, "Original")
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(ctx, comment.ID, 8), shared.ErrForbidden)
	require.NoError(t, svc.Delete(ctx, comment.ID, 7))
	require.Equal(t, 0, repo.posts[1])
	require.ErrorIs(t, svc.Delete(ctx, comment.ID, 7), shared.ErrNotFound)
}
