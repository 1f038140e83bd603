package comments

import (
	"context"

	"github.com/inkpost/inkpost/internal/shared"
)

// ListResult is a page of comments with pagination metadata.
type ListResult struct {
	Comments   []Comment         `json:"comments"`
	Pagination shared.Pagination `json:"pagination"`
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Service implements comment use cases. Edits and deletes are restricted
// to the comment's author.
type Service struct {
	repo Repository
}

// NewService constructs a comment service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Add attaches a new comment to a post.
func (s *Service) Add(ctx context.Context, postID, userID int64, body string) (*Comment, error) {
	return s.repo.Create(ctx, postID, userID, body)
}

// List returns a page of a post's comments, newest first.
func (s *Service) List(ctx context.Context, postID int64, page, limit int) (*ListResult, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	comments, total, err := s.repo.ListByPost(ctx, postID, page, limit)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []Comment{}
	}
	return &ListResult{
		Comments:   comments,
		Pagination: shared.NewPagination(page, limit, total),
	}, nil
}

// Update edits a comment's text on behalf of its author.
func (s *Service) Update(ctx context.Context, id, actorID int64, body string) (*Comment, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := shared.Authorize(actorID, existing.User.ID); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, body)
}

// Delete removes a comment on behalf of its author.
func (s *Service) Delete(ctx context.Context, id, actorID int64) error {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := shared.Authorize(actorID, existing.User.ID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
