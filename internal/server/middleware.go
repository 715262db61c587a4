package server

import (
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

const contextUserIDKey = "user_id"

// AuthRequired resolves the session cookie into the acting user. Handlers
// behind it read the principal with s.principal(c).
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := s.sessions.ReadToken(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		session, err := s.authSvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(contextUserIDKey, session.UserID)
		c.Next()
	}
}

// AdminRequired checks the is_admin flag on the principal's profile. It must
// run after AuthRequired.
func (s *Server) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := s.principal(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		profile, err := s.profileSvc.Get(c.Request.Context(), userID)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if !profile.IsAdmin {
			AbortWithError(c, ErrForbidden)
			return
		}
		c.Next()
	}
}

func (s *Server) principal(c *gin.Context) (snowflake.ID, bool) {
	value, exists := c.Get(contextUserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := value.(snowflake.ID)
	return id, ok
}

func (s *Server) mustPrincipal(c *gin.Context) (snowflake.ID, bool) {
	id, ok := s.principal(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
	}
	return id, ok
}

func parseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(raw)
	if err != nil {
		return 0, newValidationError("id", "invalid_id", "invalid id")
	}
	return id, nil
}

func pathID(c *gin.Context, name string) (snowflake.ID, bool) {
	id, err := parseID(c.Param(name))
	if err != nil {
		AbortWithError(c, err)
		return 0, false
	}
	return id, true
}
