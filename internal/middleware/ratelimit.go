package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/abhi-19-09-2006/AI-Presentation-coach/pkg/clientip"
	"github.com/redis/go-redis/v9"
)

const (
	// RateLimitWindow is the counting window for per-IP request totals.
	RateLimitWindow = 120 * time.Second
	// RateLimitMaxRequests is the maximum number of requests allowed in the window.
	RateLimitMaxRequests = 25
	// RateLimitKeyPrefix is the Redis key prefix for rate limiting.
	RateLimitKeyPrefix = "ratelimit:"
	// BlockedIPKeyPrefix is the Redis key prefix for blocked IPs.
	BlockedIPKeyPrefix = "blocked_ip:"
	// BlockedIPDuration is how long an IP stays blocked.
	BlockedIPDuration = 24 * time.Hour
)

// RateLimit provides Redis-backed rate limiting with temporary IP blocking.
// Redis failures fail open.
func RateLimit(rdb *redis.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ipAddress := clientip.ForwardedClientIP(r)
			ctx := r.Context()

			blockedKey := BlockedIPKeyPrefix + ipAddress
			isBlocked, err := rdb.Exists(ctx, blockedKey).Result()
			if err == nil && isBlocked > 0 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"success":false,"message":"Your IP has been temporarily blocked due to excessive requests. Please try again later."}`))
				return
			}

			rateLimitKey := RateLimitKeyPrefix + ipAddress

			newCount, err := rdb.Incr(ctx, rateLimitKey).Result()
			if err != nil {
				// If Redis fails, allow the request (fail open).
				next.ServeHTTP(w, r)
				return
			}
			if newCount == 1 {
				rdb.Expire(ctx, rateLimitKey, RateLimitWindow)
			}

			if newCount > RateLimitMaxRequests {
				rdb.Set(ctx, blockedKey, "1", BlockedIPDuration)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(fmt.Sprintf(`{"success":false,"message":"Rate limit exceeded. Your IP has been temporarily blocked. Please try again later.","retry_after":%d}`, int(RateLimitWindow.Seconds()))))
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(RateLimitMaxRequests))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(int64(RateLimitMaxRequests)-newCount, 10))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(RateLimitWindow).Unix(), 10))

			next.ServeHTTP(w, r)
		})
	}
}

// UnblockIP removes an IP from the blocked list.
func UnblockIP(rdb *redis.Client, ipAddress string) error {
	return rdb.Del(context.Background(), BlockedIPKeyPrefix+ipAddress).Err()
}

// IsIPBlocked checks if an IP is currently blocked.
func IsIPBlocked(rdb *redis.Client, ipAddress string) (bool, error) {
	count, err := rdb.Exists(context.Background(), BlockedIPKeyPrefix+ipAddress).Result()
	return count > 0, err
}
