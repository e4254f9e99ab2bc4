package redis

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/civicgate/portal/internal/api/metrics"
)

const stateTTL = 10 * time.Minute

// StateStore issues and verifies OAuth state parameters backed by Redis.
// Key format: oauth_state:<state>
type StateStore struct {
	client *redis.Client
}

// NewStateStore creates a StateStore wrapping the given Redis client.
func NewStateStore(client *redis.Client) *StateStore {
	return &StateStore{client: client}
}

// Issue generates a random state parameter and records it with a TTL.
func (s *StateStore) Issue(ctx context.Context) (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	state := hex.EncodeToString(buf)

	if err := s.client.Set(ctx, s.key(state), "1", stateTTL).Err(); err != nil {
		return "", fmt.Errorf("store state: %w", err)
	}

	metrics.OAuthStateTotal.WithLabelValues("issued").Inc()
	return state, nil
}

// Consume verifies a callback state parameter and deletes it so it cannot be
// replayed. Returns false for unknown or expired states.
func (s *StateStore) Consume(ctx context.Context, state string) (bool, error) {
	n, err := s.client.Del(ctx, s.key(state)).Result()
	if err != nil {
		return false, fmt.Errorf("consume state: %w", err)
	}
	if n == 0 {
		metrics.OAuthStateTotal.WithLabelValues("invalid").Inc()
		return false, nil
	}
	metrics.OAuthStateTotal.WithLabelValues("valid").Inc()
	return true, nil
}

func (s *StateStore) key(state string) string {
	return "oauth_state:" + state
}
