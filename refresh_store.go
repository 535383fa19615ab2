package memberauth

import (
	"context"
	"strconv"
	"time"

	"github.com/sjpark-dev/memberauth/kv"
)

// refreshKeyPrefix keys the single live refresh token per user. Issuing a new
// token overwrites the record unconditionally, which revokes the old token
// without a compare-and-swap.
const refreshKeyPrefix = "RT:"

type refreshStore struct {
	store kv.Store
}

func newRefreshStore(store kv.Store) *refreshStore {
	return &refreshStore{store: store}
}

func refreshKey(userID int64) string {
	return refreshKeyPrefix + strconv.FormatInt(userID, 10)
}

// Save records token as the sole live refresh token for userID. The TTL is
// truncated to whole minutes, matching the store's granularity.
func (s *refreshStore) Save(ctx context.Context, userID int64, token string, ttl time.Duration) error {
	return s.store.SetMinutes(ctx, refreshKey(userID), token, minutes(ttl))
}

// Get returns the live refresh token for userID, or kv.ErrNotFound.
func (s *refreshStore) Get(ctx context.Context, userID int64) (string, error) {
	return s.store.Get(ctx, refreshKey(userID))
}

// Delete drops the refresh record. Idempotent.
func (s *refreshStore) Delete(ctx context.Context, userID int64) error {
	return s.store.Delete(ctx, refreshKey(userID))
}
