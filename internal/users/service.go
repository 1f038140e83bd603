package users

import "context"

// Service implements public profile use cases.
type Service struct {
	repo Repository
}

// NewService constructs a user profile service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns the public profile for a user.
func (s *Service) Get(ctx context.Context, id int64) (*Profile, error) {
	return s.repo.Get(ctx, id)
}

// UpdateProfile applies a partial profile update for the authenticated user.
func (s *Service) UpdateProfile(ctx context.Context, id int64, update ProfileUpdate) (*Profile, error) {
	return s.repo.UpdateProfile(ctx, id, update)
}
