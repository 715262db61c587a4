package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	businessdomain "github.com/voozea/voozea/internal/business/domain"
)

func (s *Server) ListTeam(c *gin.Context) {
	businessID, ok := pathID(c, "id")
	if !ok {
		return
	}

	team, err := s.businessSvc.ListTeam(c.Request.Context(), businessID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": team})
}

type inviteManagerRequest struct {
	Username string `json:"username"`
}

func (s *Server) InviteManager(c *gin.Context) {
	userID, ok := s.mustPrincipal(c)
	if !ok {
		return
	}
	businessID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req inviteManagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	membership, err := s.businessSvc.InviteManager(c.Request.Context(), businessdomain.InviteManagerRequest{
		BusinessID: businessID,
		OwnerID:    userID,
		Username:   strings.TrimSpace(req.Username),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": membership})
}

func (s *Server) AcceptInvite(c *gin.Context) {
	userID, ok := s.mustPrincipal(c)
	if !ok {
		return
	}
	membershipID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := s.businessSvc.AcceptInvite(c.Request.Context(), userID, membershipID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"status": "ok"}})
}

func (s *Server) DeclineInvite(c *gin.Context) {
	userID, ok := s.mustPrincipal(c)
	if !ok {
		return
	}
	membershipID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := s.businessSvc.DeclineInvite(c.Request.Context(), userID, membershipID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"status": "ok"}})
}

type removeManagerRequest struct {
	UserID string `json:"user_id"`
}

func (s *Server) RemoveManager(c *gin.Context) {
	userID, ok := s.mustPrincipal(c)
	if !ok {
		return
	}
	businessID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req removeManagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	targetID, err := parseID(req.UserID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.businessSvc.RemoveManager(c.Request.Context(), businessdomain.RemoveManagerRequest{
		BusinessID: businessID,
		OwnerID:    userID,
		UserID:     targetID,
	}); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"status": "ok"}})
}

type transferOwnershipRequest struct {
	NewOwnerID string `json:"new_owner_id"`
}

func (s *Server) TransferOwnership(c *gin.Context) {
	userID, ok := s.mustPrincipal(c)
	if !ok {
		return
	}
	businessID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req transferOwnershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	newOwnerID, err := parseID(req.NewOwnerID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.businessSvc.TransferOwnership(c.Request.Context(), businessdomain.TransferOwnershipRequest{
		BusinessID: businessID,
		OwnerID:    userID,
		NewOwnerID: newOwnerID,
	}); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"status": "ok"}})
}
