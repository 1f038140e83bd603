package users

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/internal/posts"
	"github.com/inkpost/inkpost/internal/shared"
)

type memoryRepo struct {
	profiles map[int64]*Profile
}

func (r *memoryRepo) Get(ctx context.Context, id int64) (*Profile, error) {
	if profile, ok := r.profiles[id]; ok {
		copied := *profile
		return &copied, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memoryRepo) UpdateProfile(ctx context.Context, id int64, update ProfileUpdate) (*Profile, error) {
	profile, ok := r.profiles[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	if update.Name != nil {
		profile.Name = *update.Name
	}
	if update.Bio != nil {
		profile.Bio = update.Bio
	}
	if update.ProfilePicture != nil {
		profile.ProfilePicture = update.ProfilePicture
	}
	copied := *profile
	return &copied, nil
}

var _ Repository = (*memoryRepo)(nil)

type stubPostsRepo struct {
	posts []posts.Post
}

func (r *stubPostsRepo) Get(ctx context.Context, id int64) (*posts.Post, error) {
	return nil, shared.ErrNotFound
}

func (r *stubPostsRepo) List(ctx context.Context, q posts.ListQuery) ([]posts.Post, int, error) {
	var matched []posts.Post
	for _, post := range r.posts {
		if q.AuthorID > 0 && post.Author.ID != q.AuthorID {
			continue
		}
		if q.BookmarkedBy > 0 {
			continue
		}
		matched = append(matched, post)
	}
	return matched, len(matched), nil
}

func (r *stubPostsRepo) Create(ctx context.Context, authorID int64, req posts.CreatePostRequest) (*posts.Post, error) {
	return nil, shared.ErrNotFound
}

func (r *stubPostsRepo) Update(ctx context.Context, id int64, req posts.UpdatePostRequest) (*posts.Post, error) {
	return nil, shared.ErrNotFound
}

func (r *stubPostsRepo) Delete(ctx context.Context, id int64) error { return shared.ErrNotFound }

func (r *stubPostsRepo) ToggleLike(ctx context.Context, postID, userID int64) (bool, int, error) {
	return false, 0, shared.ErrNotFound
}

func (r *stubPostsRepo) ToggleBookmark(ctx context.Context, postID, userID int64) (bool, error) {
	return false, shared.ErrNotFound
}

func (r *stubPostsRepo) Flags(ctx context.Context, userID int64, postIDs []int64) (map[int64]posts.Flags, error) {
	return map[int64]posts.Flags{}, nil
}

type stubAuthRepo struct {
	users map[int64]*auth.User
}

func (r *stubAuthRepo) FindByID(ctx context.Context, id int64) (*auth.User, error) {
	if user, ok := r.users[id]; ok {
		return user, nil
	}
	return nil, shared.ErrNotFound
}

func (r *stubAuthRepo) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	return nil, shared.ErrNotFound
}

func (r *stubAuthRepo) FindByGoogleID(ctx context.Context, googleID string) (*auth.User, error) {
	return nil, shared.ErrNotFound
}

func (r *stubAuthRepo) Create(ctx context.Context, user *auth.User) error { return nil }

func (r *stubAuthRepo) LinkGoogleID(ctx context.Context, userID int64, googleID string) error {
	return nil
}

type usersTestEnv struct {
	router chi.Router
	tokens *auth.TokenIssuer
	repo   *memoryRepo
}

func newUsersTestEnv(t *testing.T) usersTestEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)

	repo := &memoryRepo{profiles: map[int64]*Profile{
		1: {ID: 1, Name: "Ada", Email: "ada@example.com"},
	}}
	authService := auth.NewService(&stubAuthRepo{users: map[int64]*auth.User{
		1: {ID: 1, Name: "Ada", Email: "ada@example.com"},
	}}, tokens, nil, nil)
	mw := auth.Middleware{Service: authService, Logger: logger}

	postsService := posts.NewService(&stubPostsRepo{posts: []posts.Post{
		{ID: 1, Title: "Mine", Author: posts.Author{ID: 1, Name: "Ada"}},
		{ID: 2, Title: "Theirs", Author: posts.Author{ID: 2, Name: "Grace"}},
	}}, nil)

	handler := NewHandler(logger, NewService(repo), postsService)
	r := chi.NewRouter()
	r.Route("/api/users", func(r chi.Router) {
		handler.MountRoutes(r, mw)
	})
	return usersTestEnv{router: r, tokens: tokens, repo: repo}
}

func (e usersTestEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestGetProfile(t *testing.T) {
	env := newUsersTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/users/1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		User Profile `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Equal(t, "Ada", payload.User.Name)

	rec = env.do(t, http.MethodGet, "/api/users/999", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateProfile(t *testing.T) {
	env := newUsersTestEnv(t)
	token, err := env.tokens.Issue(1)
	require.NoError(t, err)

	rec := env.do(t, http.MethodPut, "/api/users/profile", "", map[string]any{"bio": "hello"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPut, "/api/users/profile", token, map[string]any{"name": "A"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPut, "/api/users/profile", token, map[string]any{
		"name": "Ada Lovelace",
		"bio":  "first programmer",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Ada Lovelace", env.repo.profiles[1].Name)
	require.NotNil(t, env.repo.profiles[1].Bio)
	// Untouched fields stay as they were.
	require.Nil(t, env.repo.profiles[1].ProfilePicture)
}

func TestListUserPosts(t *testing.T) {
	env := newUsersTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/users/1/posts", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Posts []posts.Post `json:"posts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload.Posts, 1)
	require.Equal(t, "Mine", payload.Posts[0].Title)

	rec = env.do(t, http.MethodGet, "/api/users/999/posts", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
