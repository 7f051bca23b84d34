package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"hushhush/observability"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const contextKeyUserID = "hushhush.userID"

// requestLogger logs every request and records its latency. The query string is left out so
// nothing sensitive ends up in the logs.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		duration := time.Since(start)
		status := c.Writer.Status()

		observability.GetMetrics().RecordHTTPRequest(c.Request.Method, route, status, duration)

		entry := log.WithFields(log.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   status,
			"latency":  duration.String(),
			"clientIP": c.ClientIP(),
		})
		switch {
		case status >= http.StatusInternalServerError:
			entry.Error("HTTP request")
		case status >= http.StatusBadRequest:
			entry.Warn("HTTP request")
		default:
			entry.Info("HTTP request")
		}
	}
}

// requireAuth rejects requests without a valid bearer token and stores the caller's id
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			abortWith(c, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		userID, err := s.tokens.Verify(token)
		if err != nil {
			log.WithFields(log.Fields{
				"path":  c.Request.URL.Path,
				"error": err,
			}).Debug("Token verification failed")
			abortWith(c, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		c.Set(contextKeyUserID, userID)
		c.Next()
	}
}

// callerID returns the authenticated user id set by requireAuth
func callerID(c *gin.Context) string {
	return c.GetString(contextKeyUserID)
}

func bearerToken(header string) (string, error) {
	if strings.TrimSpace(header) == "" {
		return "", errors.New("missing authorization header")
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization header format")
	}
	return parts[1], nil
}

// rateLimit limits requests per client IP on one route
func (s *Server) rateLimit(route string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 || s.limiter == nil {
			c.Next()
			return
		}

		decision := s.limiter.Allow(route+":ip:"+c.ClientIP(), limit, window)
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		remaining := limit - decision.count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !decision.allowed {
			retryAfter := int(time.Until(decision.windowEnd).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			observability.GetMetrics().RecordRateLimitHit(route)
			log.WithFields(log.Fields{
				"route":    route,
				"clientIP": c.ClientIP(),
			}).Warn("Rate limit exceeded")
			abortWith(c, http.StatusTooManyRequests, "Too many requests")
			return
		}
		c.Next()
	}
}
