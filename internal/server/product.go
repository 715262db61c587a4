package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	productdomain "github.com/voozea/voozea/internal/product/domain"
)

type createProductRequest struct {
	BusinessID  string         `json:"business_id"`
	CategoryID  *string        `json:"category_id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	PhotoURL    string         `json:"photo_url"`
	Attributes  map[string]any `json:"attributes"`
}

func (s *Server) CreateProduct(c *gin.Context) {
	userID, ok := s.mustPrincipal(c)
	if !ok {
		return
	}

	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	businessID, err := parseID(req.BusinessID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	categoryID, err := parseOptionalID(req.CategoryID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	product, err := s.productSvc.Create(c.Request.Context(), productdomain.CreateProductRequest{
		ActorID:     userID,
		BusinessID:  businessID,
		CategoryID:  categoryID,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		PhotoURL:    strings.TrimSpace(req.PhotoURL),
		Attributes:  req.Attributes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": product})
}

func (s *Server) GetProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	product, err := s.productSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": product})
}

type updateProductRequest struct {
	CategoryID  *string        `json:"category_id"`
	Name        *string        `json:"name"`
	Description *string        `json:"description"`
	PhotoURL    *string        `json:"photo_url"`
	Attributes  map[string]any `json:"attributes"`
}

func (s *Server) UpdateProduct(c *gin.Context) {
	userID, ok := s.mustPrincipal(c)
	if !ok {
		return
	}
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	categoryID, err := parseOptionalID(req.CategoryID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	product, err := s.productSvc.Update(c.Request.Context(), productdomain.UpdateProductRequest{
		ActorID:     userID,
		ProductID:   productID,
		CategoryID:  categoryID,
		Name:        req.Name,
		Description: req.Description,
		PhotoURL:    req.PhotoURL,
		Attributes:  req.Attributes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": product})
}

func (s *Server) DeleteProduct(c *gin.Context) {
	userID, ok := s.mustPrincipal(c)
	if !ok {
		return
	}
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := s.productSvc.Delete(c.Request.Context(), userID, productID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"status": "ok"}})
}

func (s *Server) ListBusinessProducts(c *gin.Context) {
	businessID, ok := pathID(c, "id")
	if !ok {
		return
	}

	products, err := s.productSvc.ListByBusiness(c.Request.Context(), businessID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": products})
}
