package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	businessdomain "github.com/voozea/voozea/internal/business/domain"
)

type submitClaimRequest struct {
	Reason string `json:"reason"`
}

func (s *Server) SubmitClaim(c *gin.Context) {
	userID, ok := s.mustPrincipal(c)
	if !ok {
		return
	}
	businessID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req submitClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	claim, err := s.businessSvc.SubmitClaim(c.Request.Context(), businessdomain.SubmitClaimRequest{
		BusinessID: businessID,
		UserID:     userID,
		Reason:     req.Reason,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": claim})
}

func (s *Server) CancelClaim(c *gin.Context) {
	userID, ok := s.mustPrincipal(c)
	if !ok {
		return
	}
	claimID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := s.businessSvc.CancelClaim(c.Request.Context(), userID, claimID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"status": "ok"}})
}
