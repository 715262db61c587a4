package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	businessdomain "github.com/voozea/voozea/internal/business/domain"
	productdomain "github.com/voozea/voozea/internal/product/domain"
	profiledomain "github.com/voozea/voozea/internal/profile/domain"
	ratingdomain "github.com/voozea/voozea/internal/rating/domain"
)

type verifyBusinessRequest struct {
	Verified *bool `json:"verified"`
}

func (s *Server) VerifyBusiness(c *gin.Context) {
	businessID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req verifyBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if req.Verified == nil {
		AbortWithError(c, newValidationError("verified", "required", "verified is required"))
		return
	}

	if err := s.businessSvc.SetVerified(c.Request.Context(), businessID, *req.Verified); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"status": "ok"}})
}

func (s *Server) ListClaims(c *gin.Context) {
	status := businessdomain.ClaimStatus(strings.TrimSpace(c.Query("status")))
	if status == "" {
		status = businessdomain.ClaimPending
	}

	claims, err := s.businessSvc.ListClaims(c.Request.Context(), status)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": claims})
}

func (s *Server) ApproveClaim(c *gin.Context) {
	adminID, ok := s.mustPrincipal(c)
	if !ok {
		return
	}
	claimID, ok := pathID(c, "id")
	if !ok {
		return
	}

	release, ok := s.lockClaimReview(c, claimID)
	if !ok {
		return
	}
	defer release()

	if err := s.businessSvc.ApproveClaim(c.Request.Context(), adminID, claimID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"status": "ok"}})
}

type rejectClaimRequest struct {
	Notes string `json:"notes"`
}

func (s *Server) RejectClaim(c *gin.Context) {
	adminID, ok := s.mustPrincipal(c)
	if !ok {
		return
	}
	claimID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req rejectClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	release, ok := s.lockClaimReview(c, claimID)
	if !ok {
		return
	}
	defer release()

	if err := s.businessSvc.RejectClaim(c.Request.Context(), adminID, claimID, req.Notes); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"status": "ok"}})
}

// lockClaimReview serializes review of claims against the same business so two
// admins cannot approve competing claims at once. Without Redis the lock is a
// no-op and the transaction's unclaimed check is the only guard.
func (s *Server) lockClaimReview(c *gin.Context, claimID snowflake.ID) (func(), bool) {
	if !s.actionLimiter.Enabled() {
		return func() {}, true
	}

	claim, err := s.businessSvc.GetClaim(c.Request.Context(), claimID)
	if err != nil {
		AbortWithError(c, err)
		return nil, false
	}

	businessID := int64(claim.BusinessID)
	token, acquired, err := s.actionLimiter.TryLockClaim(c.Request.Context(), businessID)
	if err != nil {
		// Redis being down must not block admin review.
		return func() {}, true
	}
	if !acquired {
		AbortWithError(c, ErrConflict)
		return nil, false
	}

	return func() {
		_ = s.actionLimiter.ReleaseClaim(c.Request.Context(), businessID, token)
	}, true
}

func (s *Server) AdminStats(c *gin.Context) {
	ctx := c.Request.Context()

	var users, businesses, products, ratings, pendingClaims int64
	if err := s.db.WithContext(ctx).Model(&profiledomain.Profile{}).Count(&users).Error; err != nil {
		AbortWithError(c, err)
		return
	}
	if err := s.db.WithContext(ctx).Model(&businessdomain.Business{}).Count(&businesses).Error; err != nil {
		AbortWithError(c, err)
		return
	}
	if err := s.db.WithContext(ctx).Model(&productdomain.Product{}).Count(&products).Error; err != nil {
		AbortWithError(c, err)
		return
	}
	if err := s.db.WithContext(ctx).Model(&ratingdomain.Rating{}).Count(&ratings).Error; err != nil {
		AbortWithError(c, err)
		return
	}
	if err := s.db.WithContext(ctx).
		Model(&businessdomain.Claim{}).
		Where("status = ?", businessdomain.ClaimPending).
		Count(&pendingClaims).Error; err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"users":          users,
		"businesses":     businesses,
		"products":       products,
		"ratings":        ratings,
		"pending_claims": pendingClaims,
	}})
}
