// Package sessions holds the Redis layout of login sessions and the
// invalidation rule applied when a user's role changes or the user is deleted.
package sessions

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const (
	// KeyPrefix prefixes the session payload key: session:<sid>.
	KeyPrefix = "session:"
	// UserSetPrefix prefixes the set of a user's session ids: user_sessions:<userID>.
	UserSetPrefix = "user_sessions:"
)

// DestroyUserSessions deletes every session of userID and the user_sessions set.
func DestroyUserSessions(ctx context.Context, rdb *redis.Client, userID string) {
	if rdb == nil || userID == "" {
		return
	}
	key := UserSetPrefix + userID
	sessionIDs, err := rdb.SMembers(ctx, key).Result()
	if err == nil {
		for _, sid := range sessionIDs {
			rdb.Del(ctx, KeyPrefix+sid)
		}
	}
	rdb.Del(ctx, key)
}
