package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type testCleanupRequest struct {
	Prefix string `json:"prefix"`
}

// TestCleanup removes fixture data created by end-to-end suites. Rows are
// matched by name or username prefix and deleted child-first.
func (s *Server) TestCleanup(c *gin.Context) {
	if s.cfg.Environment == "production" {
		AbortWithError(c, ErrNotFound)
		return
	}

	var req testCleanupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	prefix := strings.TrimSpace(req.Prefix)
	if prefix == "" {
		AbortWithError(c, newValidationError("prefix", "required", "prefix is required"))
		return
	}

	ctx := c.Request.Context()
	like := prefix + "%"

	var businessIDs []int64
	if err := s.db.WithContext(ctx).
		Table("businesses").
		Select("id").
		Where("name LIKE ?", like).
		Scan(&businessIDs).Error; err != nil {
		AbortWithError(c, err)
		return
	}

	if len(businessIDs) > 0 {
		for _, stmt := range []string{
			`DELETE FROM rating_photos WHERE rating_id IN (SELECT id FROM ratings WHERE product_id IN (SELECT id FROM products WHERE business_id IN ?))`,
			`DELETE FROM rating_likes WHERE rating_id IN (SELECT id FROM ratings WHERE product_id IN (SELECT id FROM products WHERE business_id IN ?))`,
			`DELETE FROM rating_comments WHERE rating_id IN (SELECT id FROM ratings WHERE product_id IN (SELECT id FROM products WHERE business_id IN ?))`,
			`DELETE FROM ratings WHERE product_id IN (SELECT id FROM products WHERE business_id IN ?)`,
			`DELETE FROM products WHERE business_id IN ?`,
			`DELETE FROM business_memberships WHERE business_id IN ?`,
			`DELETE FROM business_claims WHERE business_id IN ?`,
			`DELETE FROM business_follows WHERE business_id IN ?`,
			`DELETE FROM entity_follows WHERE follower_id IN ? OR following_id IN ?`,
			`DELETE FROM notifications WHERE business_id IN ?`,
			`DELETE FROM entities WHERE id IN ?`,
			`DELETE FROM businesses WHERE id IN ?`,
		} {
			if err := execCleanup(c, s, stmt, businessIDs); err != nil {
				return
			}
		}
	}

	var userIDs []int64
	if err := s.db.WithContext(ctx).
		Table("profiles").
		Select("id").
		Where("username LIKE ?", like).
		Scan(&userIDs).Error; err != nil {
		AbortWithError(c, err)
		return
	}

	if len(userIDs) > 0 {
		for _, stmt := range []string{
			`DELETE FROM rating_photos WHERE rating_id IN (SELECT id FROM ratings WHERE user_id IN ?)`,
			`DELETE FROM rating_likes WHERE rating_id IN (SELECT id FROM ratings WHERE user_id IN ?) OR user_id IN ?`,
			`DELETE FROM rating_comments WHERE rating_id IN (SELECT id FROM ratings WHERE user_id IN ?) OR user_id IN ?`,
			`DELETE FROM ratings WHERE user_id IN ?`,
			`DELETE FROM business_memberships WHERE user_id IN ?`,
			`DELETE FROM business_claims WHERE user_id IN ?`,
			`DELETE FROM business_follows WHERE user_id IN ?`,
			`DELETE FROM entity_follows WHERE follower_id IN ? OR following_id IN ?`,
			`DELETE FROM notifications WHERE user_id IN ?`,
			`DELETE FROM sessions WHERE user_id IN ?`,
			`DELETE FROM entities WHERE id IN ?`,
			`DELETE FROM profiles WHERE id IN ?`,
			`DELETE FROM users WHERE id IN ?`,
		} {
			if err := execCleanup(c, s, stmt, userIDs); err != nil {
				return
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"status": "ok"}})
}

func execCleanup(c *gin.Context, s *Server, stmt string, ids []int64) error {
	args := make([]any, strings.Count(stmt, "?"))
	for i := range args {
		args[i] = ids
	}

	if err := s.db.WithContext(c.Request.Context()).Exec(stmt, args...).Error; err != nil {
		AbortWithError(c, err)
		return err
	}
	return nil
}
