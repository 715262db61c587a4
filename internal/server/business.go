package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	businessdomain "github.com/voozea/voozea/internal/business/domain"
	"gorm.io/datatypes"
)

type createBusinessRequest struct {
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	BusinessTypeID *string         `json:"business_type_id"`
	AvatarURL      string          `json:"avatar_url"`
	CoverURL       string          `json:"cover_url"`
	Phone          string          `json:"phone"`
	Website        string          `json:"website"`
	Address        string          `json:"address"`
	City           string          `json:"city"`
	Country        string          `json:"country"`
	Hours          json.RawMessage `json:"hours"`
}

func (s *Server) CreateBusiness(c *gin.Context) {
	userID, ok := s.mustPrincipal(c)
	if !ok {
		return
	}

	var req createBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	businessTypeID, err := parseOptionalID(req.BusinessTypeID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	business, err := s.businessSvc.Create(c.Request.Context(), businessdomain.CreateBusinessRequest{
		CreatorID:      userID,
		Name:           strings.TrimSpace(req.Name),
		Description:    strings.TrimSpace(req.Description),
		BusinessTypeID: businessTypeID,
		AvatarURL:      strings.TrimSpace(req.AvatarURL),
		CoverURL:       strings.TrimSpace(req.CoverURL),
		Phone:          strings.TrimSpace(req.Phone),
		Website:        strings.TrimSpace(req.Website),
		Address:        strings.TrimSpace(req.Address),
		City:           strings.TrimSpace(req.City),
		Country:        strings.TrimSpace(req.Country),
		Hours:          datatypes.JSON(req.Hours),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": business})
}

func (s *Server) GetBusiness(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	business, err := s.businessSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": business})
}

func (s *Server) GetBusinessBySlug(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))

	business, err := s.businessSvc.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": business})
}

type updateBusinessRequest struct {
	Name           *string          `json:"name"`
	Slug           *string          `json:"slug"`
	Description    *string          `json:"description"`
	BusinessTypeID *string          `json:"business_type_id"`
	AvatarURL      *string          `json:"avatar_url"`
	CoverURL       *string          `json:"cover_url"`
	Phone          *string          `json:"phone"`
	Website        *string          `json:"website"`
	Address        *string          `json:"address"`
	City           *string          `json:"city"`
	Country        *string          `json:"country"`
	Hours          *json.RawMessage `json:"hours"`
}

func (s *Server) UpdateBusiness(c *gin.Context) {
	userID, ok := s.mustPrincipal(c)
	if !ok {
		return
	}
	businessID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req updateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	businessTypeID, err := parseOptionalID(req.BusinessTypeID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var hours *datatypes.JSON
	if req.Hours != nil {
		value := datatypes.JSON(*req.Hours)
		hours = &value
	}

	business, err := s.businessSvc.Update(c.Request.Context(), businessdomain.UpdateBusinessRequest{
		BusinessID:     businessID,
		ActorID:        userID,
		Name:           req.Name,
		Slug:           req.Slug,
		Description:    req.Description,
		BusinessTypeID: businessTypeID,
		AvatarURL:      req.AvatarURL,
		CoverURL:       req.CoverURL,
		Phone:          req.Phone,
		Website:        req.Website,
		Address:        req.Address,
		City:           req.City,
		Country:        req.Country,
		Hours:          hours,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": business})
}

func (s *Server) GetBusinessRole(c *gin.Context) {
	userID, ok := s.mustPrincipal(c)
	if !ok {
		return
	}
	businessID, ok := pathID(c, "id")
	if !ok {
		return
	}

	role, err := s.businessSvc.RoleOf(c.Request.Context(), businessID, userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"role": role}})
}

func (s *Server) FollowBusiness(c *gin.Context) {
	userID, ok := s.mustPrincipal(c)
	if !ok {
		return
	}
	businessID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := s.businessSvc.FollowBusiness(c.Request.Context(), businessID, userID); err != nil {
		AbortWithError(c, err)
		return
	}

	s.metrics.FollowCreated()
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"status": "ok"}})
}

func (s *Server) UnfollowBusiness(c *gin.Context) {
	userID, ok := s.mustPrincipal(c)
	if !ok {
		return
	}
	businessID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := s.businessSvc.UnfollowBusiness(c.Request.Context(), businessID, userID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"status": "ok"}})
}

func parseOptionalID(raw *string) (*snowflake.ID, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	id, err := parseID(*raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
