package posts

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/inkpost/inkpost/internal/shared"
)

type memoryRepo struct {
	posts     map[int64]*Post
	likes     map[int64]map[int64]bool
	bookmarks map[int64]map[int64]bool
	nextID    int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		posts:     make(map[int64]*Post),
		likes:     make(map[int64]map[int64]bool),
		bookmarks: make(map[int64]map[int64]bool),
	}
}

func (r *memoryRepo) Get(ctx context.Context, id int64) (*Post, error) {
	if post, ok := r.posts[id]; ok {
		copied := *post
		return &copied, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memoryRepo) List(ctx context.Context, q ListQuery) ([]Post, int, error) {
	var matched []Post
	for _, post := range r.posts {
		if q.AuthorID > 0 && post.Author.ID != q.AuthorID {
			continue
		}
		if q.BookmarkedBy > 0 && !r.bookmarks[post.ID][q.BookmarkedBy] {
			continue
		}
		if q.Tag != "" {
			found := false
			for _, tag := range post.Tags {
				if tag == q.Tag {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		if q.Search != "" && !strings.Contains(strings.ToLower(post.Title), strings.ToLower(q.Search)) {
			continue
		}
		matched = append(matched, *post)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	total := len(matched)
	start := (q.Page - 1) * q.Limit
	if start > total {
		start = total
	}
	end := start + q.Limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (r *memoryRepo) Create(ctx context.Context, authorID int64, req CreatePostRequest) (*Post, error) {
	r.nextID++
	post := &Post{
		ID:        r.nextID,
		Title:     req.Title,
		Content:   req.Content,
		Tags:      req.Tags,
		Author:    Author{ID: authorID, Name: "author"},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	r.posts[post.ID] = post
	copied := *post
	return &copied, nil
}

func (r *memoryRepo) Update(ctx context.Context, id int64, req UpdatePostRequest) (*Post, error) {
	post, ok := r.posts[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	post.Title = req.Title
	post.Content = req.Content
	post.Tags = req.Tags
	post.UpdatedAt = time.Now()
	copied := *post
	return &copied, nil
}

func (r *memoryRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.posts[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.posts, id)
	delete(r.likes, id)
	delete(r.bookmarks, id)
	return nil
}

func (r *memoryRepo) ToggleLike(ctx context.Context, postID, userID int64) (bool, int, error) {
	post, ok := r.posts[postID]
	if !ok {
		return false, 0, shared.ErrNotFound
	}
	if r.likes[postID] == nil {
		r.likes[postID] = make(map[int64]bool)
	}
	if r.likes[postID][userID] {
		delete(r.likes[postID], userID)
		post.LikesCount--
		return false, post.LikesCount, nil
	}
	r.likes[postID][userID] = true
	post.LikesCount++
	return true, post.LikesCount, nil
}

func (r *memoryRepo) ToggleBookmark(ctx context.Context, postID, userID int64) (bool, error) {
	if _, ok := r.posts[postID]; !ok {
		return false, shared.ErrNotFound
	}
	if r.bookmarks[postID] == nil {
		r.bookmarks[postID] = make(map[int64]bool)
	}
	if r.bookmarks[postID][userID] {
		delete(r.bookmarks[postID], userID)
		return false, nil
	}
	r.bookmarks[postID][userID] = true
	return true, nil
}

func (r *memoryRepo) Flags(ctx context.Context, userID int64, postIDs []int64) (map[int64]Flags, error) {
	result := make(map[int64]Flags, len(postIDs))
	for _, id := range postIDs {
		result[id] = Flags{
			Liked:      r.likes[id][userID],
			Bookmarked: r.bookmarks[id][userID],
		}
	}
	return result, nil
}

var _ Repository = (*memoryRepo)(nil)

func validPost(title string) CreatePostRequest {
	return CreatePostRequest{
		Title:   title,
		Content: "Long enough content for a post.",
		Tags:    []string{"go"},
	}
}

func TestCreateAndGet(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)
	ctx := context.Background()

	post, err := svc.Create(ctx, 1, validPost("Hello"))
	require.NoError(t, err)
	require.Equal(t, "Hello", post.Title)
	require.Equal(t, int64(1), post.Author.ID)

	got, err := svc.Get(ctx, post.ID, 0)
	require.NoError(t, err)
	require.Equal(t, post.ID, got.ID)
	require.False(t, got.IsLiked)

	_, err = svc.Get(ctx, 999, 0)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestUpdateOwnership(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)
	ctx := context.Background()

	post, err := svc.Create(ctx, 1, validPost("Hello"))
	require.NoError(t, err)

	_, err = svc.Update(ctx, post.ID, 2, validPost("Hijacked"))
	require.ErrorIs(t, err, shared.ErrForbidden)

	updated, err := svc.Update(ctx, post.ID, 1, validPost("Edited"))
	require.NoError(t, err)
	require.Equal(t, "Edited", updated.Title)

	// Unknown posts 404 before the ownership check runs.
	_, err = svc.Update(ctx, 999, 2, validPost("Nope"))
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestDeleteOwnership(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)
	ctx := context.Background()

	post, err := svc.Create(ctx, 1, validPost("Hello"))
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(ctx, post.ID, 2), shared.ErrForbidden)
	require.NoError(t, svc.Delete(ctx, post.ID, 1))
	require.ErrorIs(t, svc.Delete(ctx, post.ID, 1), shared.ErrNotFound)
}

func TestToggleLike(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)
	ctx := context.Background()

	post, err := svc.Create(ctx, 1, validPost("Hello"))
	require.NoError(t, err)

	liked, likes, err := svc.ToggleLike(ctx, post.ID, 2)
	require.NoError(t, err)
	require.True(t, liked)
	require.Equal(t, 1, likes)

	got, err := svc.Get(ctx, post.ID, 2)
	require.NoError(t, err)
	require.True(t, got.IsLiked)

	// Second toggle is an unlike: back to zero.
	liked, likes, err = svc.ToggleLike(ctx, post.ID, 2)
	require.NoError(t, err)
	require.False(t, liked)
	require.Equal(t, 0, likes)

	_, _, err = svc.ToggleLike(ctx, 999, 2)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestToggleBookmarkAndList(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)
	ctx := context.Background()

	first, err := svc.Create(ctx, 1, validPost("First"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, 1, validPost("Second"))
	require.NoError(t, err)

	bookmarked, err := svc.ToggleBookmark(ctx, first.ID, 2)
	require.NoError(t, err)
	require.True(t, bookmarked)

	result, err := svc.ListBookmarked(ctx, 2, 1, 10)
	require.NoError(t, err)
	require.Len(t, result.Posts, 1)
	require.Equal(t, first.ID, result.Posts[0].ID)
	require.True(t, result.Posts[0].IsBookmarked)

	bookmarked, err = svc.ToggleBookmark(ctx, first.ID, 2)
	require.NoError(t, err)
	require.False(t, bookmarked)

	result, err = svc.ListBookmarked(ctx, 2, 1, 10)
	require.NoError(t, err)
	require.Empty(t, result.Posts)
}

func TestListPaginationAndFilters(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		req := validPost("Post")
		if i%2 == 0 {
			req.Tags = []string{"go", "web"}
		}
		_, err := svc.Create(ctx, 1, req)
		require.NoError(t, err)
	}

	result, err := svc.List(ctx, ListQuery{}, 0)
	require.NoError(t, err)
	require.Len(t, result.Posts, 10)
	require.Equal(t, 1, result.Pagination.CurrentPage)
	require.Equal(t, 2, result.Pagination.TotalPages)
	require.Equal(t, 15, result.Pagination.TotalItems)
	require.True(t, result.Pagination.HasMore)

	result, err = svc.List(ctx, ListQuery{Page: 2}, 0)
	require.NoError(t, err)
	require.Len(t, result.Posts, 5)
	require.False(t, result.Pagination.HasMore)

	result, err = svc.List(ctx, ListQuery{Tag: "web", Limit: 50}, 0)
	require.NoError(t, err)
	require.Len(t, result.Posts, 8)

	// Limits are capped server-side.
	result, err = svc.List(ctx, ListQuery{Limit: 500}, 0)
	require.NoError(t, err)
	require.Len(t, result.Posts, 15)
	require.Equal(t, 1, result.Pagination.TotalPages)
}

func TestListByAuthor(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, validPost("Mine"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, 2, validPost("Theirs"))
	require.NoError(t, err)

	result, err := svc.ListByAuthor(ctx, 1, 0, 1, 10)
	require.NoError(t, err)
	require.Len(t, result.Posts, 1)
	require.Equal(t, "Mine", result.Posts[0].Title)
}
