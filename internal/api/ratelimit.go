package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"buildit/internal/api/middleware"
	"buildit/internal/errcode"
)

// RateCounter 是限流所需的 Redis 命令子集，*redis.Client 满足该接口。
type RateCounter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

func incrWithTTL(ctx context.Context, client RateCounter, key string, ttl time.Duration) (int64, error) {
	count, err := client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		_ = client.Expire(ctx, key, ttl).Err()
	}
	return count, nil
}

const rateLimitKeyPrefix = "buildit:ai:daily"

// DailyLimiter 按客户端 IP 限制每个 UTC 自然日的 AI 调用次数。
// limit 为 0 或未配置 Redis 时不限流；Redis 不可用时放行并记录日志。
type DailyLimiter struct {
	counter RateCounter
	limit   int64
	now     func() time.Time
}

func NewDailyLimiter(counter RateCounter, limit int64) *DailyLimiter {
	return &DailyLimiter{counter: counter, limit: limit, now: time.Now}
}

func (l *DailyLimiter) enabled() bool {
	return l != nil && l.counter != nil && l.limit > 0
}

// Middleware 返回挂载在 AI 路由上的 gin 中间件。
func (l *DailyLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.enabled() {
			c.Next()
			return
		}

		now := l.now().UTC()
		day := now.Format(time.DateOnly)
		reset := now.Truncate(24 * time.Hour).Add(24 * time.Hour)
		key := fmt.Sprintf("%s:%s:%s", rateLimitKeyPrefix, day, c.ClientIP())

		count, err := incrWithTTL(c.Request.Context(), l.counter, key, reset.Sub(now)+time.Minute)
		if err != nil {
			middleware.LoggerFromContext(c).Warn("rate limit counter unavailable, allowing request",
				slog.Any("error", err),
			)
			c.Next()
			return
		}

		remaining := l.limit - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.FormatInt(l.limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > l.limit {
			c.Header("Retry-After", strconv.Itoa(int(reset.Sub(now).Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Daily AI request limit reached",
				"code":  errcode.RateLimited,
			})
			return
		}
		c.Next()
	}
}
