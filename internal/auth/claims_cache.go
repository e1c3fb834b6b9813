package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"ms-bakery/internal/models"
)

const (
	claimsKeyPrefix = "auth_claims:"
	claimsTTL       = 5 * time.Minute
)

// ClaimsCache caches verified token claims in Redis so repeat requests with
// the same bearer token skip signature verification. Entries expire well
// before any sane token lifetime.
type ClaimsCache struct {
	Client *redis.Client
}

func NewClaimsCache(client *redis.Client) *ClaimsCache {
	return &ClaimsCache{Client: client}
}

func claimsKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return claimsKeyPrefix + hex.EncodeToString(sum[:16])
}

// Get returns cached claims for a token, if present and unexpired.
func (c *ClaimsCache) Get(ctx context.Context, token string) (models.CurrentUser, bool) {
	if c.Client == nil {
		return models.CurrentUser{}, false
	}

	payload, err := c.Client.Get(ctx, claimsKey(token)).Result()
	if err != nil {
		// redis.Nil and transport errors both fall through to verification
		return models.CurrentUser{}, false
	}

	var user models.CurrentUser
	if err := json.Unmarshal([]byte(payload), &user); err != nil {
		return models.CurrentUser{}, false
	}
	return user, true
}

// Set stores verified claims under the token's hash.
func (c *ClaimsCache) Set(ctx context.Context, token string, user models.CurrentUser) error {
	if c.Client == nil {
		return nil
	}

	payload, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, claimsKey(token), payload, claimsTTL).Err()
}
