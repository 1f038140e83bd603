package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// OAuthProfile is a normalized external identity returned by a provider.
type OAuthProfile struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// OAuthProvider abstracts the provider side of the authorization-code flow.
type OAuthProvider interface {
	AuthURL(state string) string
	FetchProfile(ctx context.Context, code string) (*OAuthProfile, error)
}

const googleUserinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleProvider implements OAuthProvider against Google.
type GoogleProvider struct {
	config *oauth2.Config
}

// NewGoogleProvider constructs a GoogleProvider from client credentials.
func NewGoogleProvider(clientID, clientSecret, callbackURL string) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
	}
}

// AuthURL returns the provider consent page URL for the given state nonce.
func (p *GoogleProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state)
}

// FetchProfile exchanges the authorization code and loads the userinfo
// document.
func (p *GoogleProvider) FetchProfile(ctx context.Context, code string) (*OAuthProfile, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("auth: oauth exchange: %w", err)
	}

	res, err := p.config.Client(ctx, token).Get(googleUserinfoURL)
	if err != nil {
		return nil, fmt.Errorf("auth: fetch userinfo: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth: userinfo status %d", res.StatusCode)
	}

	var profile OAuthProfile
	if err := json.NewDecoder(res.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("auth: decode userinfo: %w", err)
	}
	if profile.ID == "" || profile.Email == "" {
		return nil, errors.New("auth: incomplete oauth profile")
	}
	return &profile, nil
}

var _ OAuthProvider = (*GoogleProvider)(nil)

// StateStore issues and consumes one-time OAuth state nonces backed by Redis,
// tying the callback to the browser that started the flow.
type StateStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStateStore constructs a StateStore.
func NewStateStore(client *redis.Client, ttl time.Duration) *StateStore {
	return &StateStore{client: client, ttl: ttl}
}

func stateKey(state string) string {
	return "oauthstate:" + state
}

// Issue creates and persists a fresh state nonce.
func (s *StateStore) Issue(ctx context.Context) (string, error) {
	state := uuid.NewString()
	if err := s.client.Set(ctx, stateKey(state), 1, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("auth: store oauth state: %w", err)
	}
	return state, nil
}

// Consume validates and deletes a state nonce. It returns false for unknown
// or already-used values.
func (s *StateStore) Consume(ctx context.Context, state string) (bool, error) {
	if state == "" {
		return false, nil
	}
	err := s.client.GetDel(ctx, stateKey(state)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
