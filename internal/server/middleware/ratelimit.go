package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/iudanet/medfichas/internal/server/handlers"
	"github.com/iudanet/medfichas/pkg/api"
)

// RateLimiter представляет rate limiter с фиксированным окном на каждый ключ
type RateLimiter struct {
	buckets  map[string]*bucket
	logger   *slog.Logger
	cleanupC chan struct{}
	now      func() time.Time
	rate     int
	window   time.Duration
	mu       sync.Mutex
	stopOnce sync.Once
}

// bucket счетчик запросов одного клиента в текущем окне
type bucket struct {
	windowStart time.Time
	tokens      int
}

// NewRateLimiter создает новый rate limiter.
// rate - максимальное количество запросов за window с одного адреса.
// Stop must be called to release the cleanup goroutine.
func NewRateLimiter(rate int, window time.Duration, logger *slog.Logger) *RateLimiter {
	rl := &RateLimiter{
		buckets:  make(map[string]*bucket),
		rate:     rate,
		window:   window,
		logger:   logger,
		now:      time.Now,
		cleanupC: make(chan struct{}),
	}

	go rl.cleanup()

	return rl
}

// cleanup периодически удаляет неактивные buckets
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.window * 2)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.removeIdle()
		case <-rl.cleanupC:
			return
		}
	}
}

func (rl *RateLimiter) removeIdle() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key, b := range rl.buckets {
		if now.Sub(b.windowStart) > rl.window*2 {
			delete(rl.buckets, key)
		}
	}
}

// Stop останавливает cleanup goroutine. Safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.cleanupC) })
}

// Allow проверяет, разрешен ли запрос для ключа.
// Returns false and the time left until the window resets when the limit is reached.
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, ok := rl.buckets[key]
	if !ok || now.Sub(b.windowStart) >= rl.window {
		b = &bucket{windowStart: now, tokens: rl.rate}
		rl.buckets[key] = b
	}

	if b.tokens > 0 {
		b.tokens--
		return true, 0
	}

	return false, rl.window - now.Sub(b.windowStart)
}

// RateLimitMiddleware ограничивает частоту запросов по адресу клиента
func RateLimitMiddleware(limiter *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIP(r)

			allowed, retryAfter := limiter.Allow(key)
			if !allowed {
				limiter.logger.Warn("Rate limit exceeded",
					"ip", key,
					"method", r.Method,
					"path", r.URL.Path,
				)

				seconds := int(retryAfter.Seconds())
				if seconds < 1 {
					seconds = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(seconds))
				handlers.WriteError(w, http.StatusTooManyRequests, api.ErrorResponse{
					Error: "rate limit exceeded, please try again later",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP извлекает IP адрес клиента из запроса.
// Учитывает X-Forwarded-For и X-Real-IP, порт из RemoteAddr отбрасывается.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
