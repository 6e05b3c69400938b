package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/coffeepulse/internal/logger"
	"github.com/rs/zerolog"
)

// RequestLogger logs one structured line per request with method, route,
// status, latency and the request id injected by RequestID().
//
// 5xx responses are logged at error level and 4xx at warn level.
//
// Example log output:
//
//	{"level":"info","component":"http","request_id":"123e...","method":"GET","path":"/api/v1/price","status":200,"latency_ms":2}
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		rid, _ := c.Get(RequestIDKey)

		lg := logger.Component("http")
		ev := eventFor(&lg, status).
			Str("request_id", toString(rid)).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Int64("latency_ms", time.Since(start).Milliseconds()).
			Str("client_ip", c.ClientIP())
		if route := c.FullPath(); route != "" && route != path {
			ev = ev.Str("route", route)
		}
		if user := Username(c); user != "" {
			ev = ev.Str("user", user)
		}
		if len(c.Errors) > 0 {
			ev = ev.Str("errors", c.Errors.String())
		}
		ev.Msg("http_request")
	}
}

func eventFor(lg *zerolog.Logger, status int) *zerolog.Event {
	switch {
	case status >= http.StatusInternalServerError:
		return lg.Error()
	case status >= http.StatusBadRequest:
		return lg.Warn()
	default:
		return lg.Info()
	}
}

func toString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// client is one rate-limited caller.
type client struct {
	windowStart time.Time
	count       int
}

// RateLimiter allows up to limit requests per window for each client IP and
// answers 429 beyond that. Each call returns an independent limiter, so the
// login form can be throttled harder than the read API.
//
// Usage:
//
//	api.Use(middleware.RateLimiter(120, time.Minute))
//	r.POST("/login", middleware.RateLimiter(10, time.Minute), h.Login)
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	var (
		mu        sync.Mutex
		clients   = make(map[string]*client)
		lastPrune time.Time
	)
	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		mu.Lock()
		if now.Sub(lastPrune) > window {
			for k, cl := range clients {
				if now.Sub(cl.windowStart) > window {
					delete(clients, k)
				}
			}
			lastPrune = now
		}
		cl, ok := clients[ip]
		if !ok || now.Sub(cl.windowStart) > window {
			cl = &client{windowStart: now}
			clients[ip] = cl
		}
		cl.count++
		exceeded := cl.count > limit
		mu.Unlock()

		if exceeded {
			c.Header("Retry-After", retryAfter(window))
			AbortWithError(c, http.StatusTooManyRequests, "rate limit exceeded", nil)
			return
		}

		c.Next()
	}
}

func retryAfter(window time.Duration) string {
	secs := int(window.Round(time.Second) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}
