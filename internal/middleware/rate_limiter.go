package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/tomasvarela21/ChapulinaApp/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// ipLimiter keeps one token bucket per client IP.
type ipLimiter struct {
	mu       sync.Mutex
	limiters map[string]*visitante
	limit    rate.Limit
	burst    int
}

type visitante struct {
	limiter *rate.Limiter
	visto   time.Time
}

func newIPLimiter(n int, per time.Duration) *ipLimiter {
	return &ipLimiter{
		limiters: make(map[string]*visitante),
		limit:    rate.Limit(float64(n) / per.Seconds()),
		burst:    n,
	}
}

func (l *ipLimiter) allow(ip string, now time.Time) bool {
	l.mu.Lock()
	v, ok := l.limiters[ip]
	if !ok {
		v = &visitante{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[ip] = v
	}
	v.visto = now
	l.mu.Unlock()
	return v.limiter.AllowN(now, 1)
}

// purge drops IPs idle for longer than ttl.
func (l *ipLimiter) purge(now time.Time, ttl time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for ip, v := range l.limiters {
		if now.Sub(v.visto) > ttl {
			delete(l.limiters, ip)
			n++
		}
	}
	return n
}

const purgeInterval = 5 * time.Minute

func (l *ipLimiter) purgeLoop(ctx context.Context, nombre string) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := l.purge(now, purgeInterval); n > 0 {
				log.Debug().Str("limiter", nombre).Int("purged", n).Msg("rate limiter entries purged")
			}
		}
	}
}

func limitar(l *ipLimiter, msg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.allow(c.ClientIP(), time.Now()) {
			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(msg))
			return
		}
		c.Next()
	}
}

// LoginRateLimiter allows 20 login attempts per minute per IP.
func LoginRateLimiter(ctx context.Context) gin.HandlerFunc {
	l := newIPLimiter(20, time.Minute)
	go l.purgeLoop(ctx, "login")
	return limitar(l, "Demasiados intentos de login. Intente en 1 minuto.")
}

// RateLimiter is the general per-IP limiter: limit requests per window,
// refilled continuously.
func RateLimiter(ctx context.Context, limit int, window time.Duration) gin.HandlerFunc {
	l := newIPLimiter(limit, window)
	go l.purgeLoop(ctx, "api")
	return limitar(l, "Demasiadas solicitudes. Intente nuevamente en un momento.")
}
