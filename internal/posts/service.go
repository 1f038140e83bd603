package posts

import (
	"context"
	"fmt"

	"github.com/inkpost/inkpost/internal/shared"
)

const (
	defaultPageSize = 10
	maxPageSize     = 50
)

// ListResult pairs a page of posts with its pagination metadata.
type ListResult struct {
	Posts      []Post            `json:"posts"`
	Pagination shared.Pagination `json:"pagination"`
}

// Service handles blog post business logic: CRUD with ownership checks and
// like/bookmark toggles. The feed cache may be nil.
type Service struct {
	repo  Repository
	cache *FeedCache
}

// NewService constructs a Service.
func NewService(repo Repository, cache *FeedCache) *Service {
	return &Service{repo: repo, cache: cache}
}

// Create stores a new post owned by the acting user.
func (s *Service) Create(ctx context.Context, authorID int64, req CreatePostRequest) (*Post, error) {
	post, err := s.repo.Create(ctx, authorID, req)
	if err != nil {
		return nil, err
	}
	s.cache.Bust(ctx)
	return post, nil
}

// Get fetches one post, with interaction flags when a viewer is present.
func (s *Service) Get(ctx context.Context, id, viewerID int64) (*Post, error) {
	post, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if viewerID > 0 {
		flags, err := s.repo.Flags(ctx, viewerID, []int64{post.ID})
		if err != nil {
			return nil, err
		}
		post.IsLiked = flags[post.ID].Liked
		post.IsBookmarked = flags[post.ID].Bookmarked
	}
	return post, nil
}

// List returns a feed page. Anonymous requests are served through the feed
// cache; authenticated ones go to the store so flags stay per-viewer.
func (s *Service) List(ctx context.Context, q ListQuery, viewerID int64) (*ListResult, error) {
	q = normalize(q)

	if viewerID == 0 && q.AuthorID == 0 && q.BookmarkedBy == 0 {
		key := fmt.Sprintf("feed:%d:%d:%s:%s", q.Page, q.Limit, q.Tag, q.Search)
		var result ListResult
		err := s.cache.Fetch(ctx, key, &result, func(ctx context.Context) (any, error) {
			return s.list(ctx, q)
		})
		if err != nil {
			return nil, err
		}
		return &result, nil
	}

	result, err := s.list(ctx, q)
	if err != nil {
		return nil, err
	}
	if viewerID > 0 {
		if err := s.applyFlags(ctx, viewerID, result.Posts); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// ListByAuthor returns a user's posts, newest first.
func (s *Service) ListByAuthor(ctx context.Context, authorID, viewerID int64, page, limit int) (*ListResult, error) {
	return s.List(ctx, ListQuery{Page: page, Limit: limit, AuthorID: authorID}, viewerID)
}

// ListBookmarked returns the acting user's bookmarked posts.
func (s *Service) ListBookmarked(ctx context.Context, userID int64, page, limit int) (*ListResult, error) {
	return s.List(ctx, ListQuery{Page: page, Limit: limit, BookmarkedBy: userID}, userID)
}

// Update replaces a post's editable fields after the ownership check.
func (s *Service) Update(ctx context.Context, id, actorID int64, req UpdatePostRequest) (*Post, error) {
	post, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := shared.Authorize(actorID, post.Author.ID); err != nil {
		return nil, err
	}
	updated, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.cache.Bust(ctx)
	return updated, nil
}

// Delete removes a post and everything hanging off it after the ownership
// check.
func (s *Service) Delete(ctx context.Context, id, actorID int64) error {
	post, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := shared.Authorize(actorID, post.Author.ID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Bust(ctx)
	return nil
}

// ToggleLike flips the viewer's like on a post. Toggle semantics: each call
// flips the state, two calls are a net no-op.
func (s *Service) ToggleLike(ctx context.Context, postID, actorID int64) (bool, int, error) {
	liked, likes, err := s.repo.ToggleLike(ctx, postID, actorID)
	if err != nil {
		return false, 0, err
	}
	s.cache.Bust(ctx)
	return liked, likes, nil
}

// ToggleBookmark flips the viewer's bookmark on a post.
func (s *Service) ToggleBookmark(ctx context.Context, postID, actorID int64) (bool, error) {
	return s.repo.ToggleBookmark(ctx, postID, actorID)
}

func (s *Service) list(ctx context.Context, q ListQuery) (*ListResult, error) {
	items, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []Post{}
	}
	return &ListResult{
		Posts:      items,
		Pagination: shared.NewPagination(q.Page, q.Limit, total),
	}, nil
}

func (s *Service) applyFlags(ctx context.Context, viewerID int64, items []Post) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]int64, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	flags, err := s.repo.Flags(ctx, viewerID, ids)
	if err != nil {
		return err
	}
	for i := range items {
		f := flags[items[i].ID]
		items[i].IsLiked = f.Liked
		items[i].IsBookmarked = f.Bookmarked
	}
	return nil
}

func normalize(q ListQuery) ListQuery {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = defaultPageSize
	}
	if q.Limit > maxPageSize {
		q.Limit = maxPageSize
	}
	return q
}
