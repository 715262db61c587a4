package server

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// SearchRateLimit throttles search per principal. Anonymous callers share a
// bucket keyed by client address.
func (s *Server) SearchRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.actionLimiter.Enabled() {
			c.Next()
			return
		}

		principal := c.ClientIP()
		if userID, ok := s.principal(c); ok {
			principal = strconv.FormatInt(int64(userID), 10)
		}

		result, err := s.actionLimiter.AllowSearch(c.Request.Context(), principal)
		if err != nil {
			// Redis being down must not take search with it.
			c.Next()
			return
		}

		s.metrics.RateLimitDecision("search", result.Allowed)
		if !result.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(result.RetryAfter.Seconds())+1))
			AbortWithError(c, ErrRateLimited)
			return
		}
		c.Next()
	}
}

// ClaimRateLimit throttles claim submissions per user. Runs after AuthRequired.
func (s *Server) ClaimRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.actionLimiter.Enabled() {
			c.Next()
			return
		}

		userID, ok := s.mustPrincipal(c)
		if !ok {
			return
		}

		result, err := s.actionLimiter.AllowClaim(c.Request.Context(), int64(userID))
		if err != nil {
			c.Next()
			return
		}

		s.metrics.RateLimitDecision("claim", result.Allowed)
		if !result.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(result.RetryAfter.Seconds())+1))
			AbortWithError(c, ErrRateLimited)
			return
		}
		c.Next()
	}
}
