package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	notificationdomain "github.com/voozea/voozea/internal/notification/domain"
)

func (s *Server) ListNotifications(c *gin.Context) {
	userID, ok := s.mustPrincipal(c)
	if !ok {
		return
	}

	pageSize, ok := queryInt(c, "page_size")
	if !ok {
		return
	}

	list, err := s.notificationSvc.List(c.Request.Context(), notificationdomain.ListRequest{
		UserID:    userID,
		PageToken: strings.TrimSpace(c.Query("page_token")),
		PageSize:  pageSize,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": list})
}

func (s *Server) UnreadNotificationCount(c *gin.Context) {
	userID, ok := s.mustPrincipal(c)
	if !ok {
		return
	}

	count, err := s.notificationSvc.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"count": count}})
}

func (s *Server) MarkNotificationRead(c *gin.Context) {
	userID, ok := s.mustPrincipal(c)
	if !ok {
		return
	}
	notificationID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := s.notificationSvc.MarkRead(c.Request.Context(), userID, notificationID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"status": "ok"}})
}

func (s *Server) MarkAllNotificationsRead(c *gin.Context) {
	userID, ok := s.mustPrincipal(c)
	if !ok {
		return
	}

	if err := s.notificationSvc.MarkAllRead(c.Request.Context(), userID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"status": "ok"}})
}
