package middlewares

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// LoginLimiter 按来源 IP 做滑动窗口限流，只挂在登录接口上，
// 让离线爆破密码的成本高于 argon2id 本身的计算成本
type LoginLimiter struct {
	requests map[string][]time.Time
	window   time.Duration
	limit    int
	mutex    sync.Mutex
}

func NewLoginLimiter(window time.Duration, limit int) *LoginLimiter {
	rl := &LoginLimiter{
		requests: make(map[string][]time.Time),
		window:   window,
		limit:    limit,
	}

	// 后台定期清理，不然只来过一次的 IP 会一直留在 map 里
	go rl.cleanupStaleEntries()
	return rl
}

func (rl *LoginLimiter) cleanupStaleEntries() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()

	for range ticker.C {
		rl.sweep()
	}
}

// sweep 丢掉窗口外的记录，整个来源都过期时直接删键
func (rl *LoginLimiter) sweep() {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	windowStart := time.Now().Add(-rl.window)
	for key, requests := range rl.requests {
		var validRequests []time.Time
		for _, reqTime := range requests {
			if reqTime.After(windowStart) {
				validRequests = append(validRequests, reqTime)
			}
		}

		if len(validRequests) == 0 {
			delete(rl.requests, key)
		} else {
			rl.requests[key] = validRequests
		}
	}
}

func (rl *LoginLimiter) allow(key string) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := time.Now()
	windowStart := now.Add(-rl.window)

	// 清掉窗口外的记录，顺便判断是否超限
	var validRequests []time.Time
	for _, reqTime := range rl.requests[key] {
		if reqTime.After(windowStart) {
			validRequests = append(validRequests, reqTime)
		}
	}

	if len(validRequests) >= rl.limit {
		rl.requests[key] = validRequests
		return false
	}

	rl.requests[key] = append(validRequests, now)
	return true
}

func LoginLimit(rl *LoginLimiter, l *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !rl.allow(c.RealIP()) {
				l.Warn("login rate limited", zap.String("ip", c.RealIP()))
				return c.NoContent(http.StatusTooManyRequests)
			}

			return next(c)
		}
	}
}
