package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	categorydomain "github.com/voozea/voozea/internal/category/domain"
	"gorm.io/datatypes"
)

// ListCategories serves both trees. With no type filter the response carries
// business types and product categories side by side.
func (s *Server) ListCategories(c *gin.Context) {
	rawType := strings.TrimSpace(c.Query("type"))
	if rawType != "" {
		categoryType := categorydomain.CategoryType(rawType)
		categories, err := s.categorySvc.List(c.Request.Context(), categoryType)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": categories})
		return
	}

	businessTypes, err := s.categorySvc.List(c.Request.Context(), categorydomain.TypeBusiness)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	productCategories, err := s.categorySvc.List(c.Request.Context(), categorydomain.TypeProduct)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"business_types":     businessTypes,
		"product_categories": productCategories,
	}})
}

type createCategoryRequest struct {
	Name                     string          `json:"name"`
	CategoryType             string          `json:"category_type"`
	ParentID                 *string         `json:"parent_id"`
	DefaultProductCategoryID *string         `json:"default_product_category_id"`
	AttributeSchema          json.RawMessage `json:"attribute_schema"`
}

func (s *Server) CreateCategory(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	parentID, err := parseOptionalID(req.ParentID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	defaultProductCategoryID, err := parseOptionalID(req.DefaultProductCategoryID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	category, err := s.categorySvc.Create(c.Request.Context(), categorydomain.CreateCategoryRequest{
		Name:                     strings.TrimSpace(req.Name),
		CategoryType:             categorydomain.CategoryType(strings.TrimSpace(req.CategoryType)),
		ParentID:                 parentID,
		DefaultProductCategoryID: defaultProductCategoryID,
		AttributeSchema:          datatypes.JSON(req.AttributeSchema),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": category})
}

type updateCategoryRequest struct {
	Name                     *string          `json:"name"`
	ParentID                 *string          `json:"parent_id"`
	DefaultProductCategoryID *string          `json:"default_product_category_id"`
	AttributeSchema          *json.RawMessage `json:"attribute_schema"`
}

func (s *Server) UpdateCategory(c *gin.Context) {
	categoryID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req updateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	parentID, err := parseOptionalID(req.ParentID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	defaultProductCategoryID, err := parseOptionalID(req.DefaultProductCategoryID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var schema *datatypes.JSON
	if req.AttributeSchema != nil {
		value := datatypes.JSON(*req.AttributeSchema)
		schema = &value
	}

	category, err := s.categorySvc.Update(c.Request.Context(), categorydomain.UpdateCategoryRequest{
		CategoryID:               categoryID,
		Name:                     req.Name,
		ParentID:                 parentID,
		DefaultProductCategoryID: defaultProductCategoryID,
		AttributeSchema:          schema,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": category})
}

func (s *Server) DeleteCategory(c *gin.Context) {
	categoryID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := s.categorySvc.Delete(c.Request.Context(), categoryID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"status": "ok"}})
}
