package auth

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationList records revoked token ids in Redis until their natural
// expiry. Bearer verification consults it so logout invalidates the token
// server-side even though the credential itself is stateless.
type RevocationList struct {
	client *redis.Client
}

// NewRevocationList constructs a RevocationList.
func NewRevocationList(client *redis.Client) *RevocationList {
	return &RevocationList{client: client}
}

func revocationKey(tokenID string) string {
	return "revoked:" + tokenID
}

// Revoke marks a token id as revoked until the given expiry.
func (rl *RevocationList) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	if rl == nil || rl.client == nil || tokenID == "" {
		return nil
	}
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return rl.client.Set(ctx, revocationKey(tokenID), 1, ttl).Err()
}

// IsRevoked reports whether the token id has been revoked.
func (rl *RevocationList) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if rl == nil || rl.client == nil || tokenID == "" {
		return false, nil
	}
	err := rl.client.Get(ctx, revocationKey(tokenID)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
