package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	ratingdomain "github.com/voozea/voozea/internal/rating/domain"
)

type rateRequest struct {
	ProductID string   `json:"product_id"`
	Score     float64  `json:"score"`
	Comment   string   `json:"comment"`
	Photos    []string `json:"photos"`
}

func (s *Server) Rate(c *gin.Context) {
	userID, ok := s.mustPrincipal(c)
	if !ok {
		return
	}

	var req rateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	productID, err := parseID(req.ProductID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	rating, err := s.ratingSvc.Rate(c.Request.Context(), ratingdomain.RateRequest{
		UserID:    userID,
		ProductID: productID,
		Score:     req.Score,
		Comment:   req.Comment,
		Photos:    req.Photos,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": rating})
}

func (s *Server) DeleteRating(c *gin.Context) {
	userID, ok := s.mustPrincipal(c)
	if !ok {
		return
	}
	ratingID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := s.ratingSvc.Delete(c.Request.Context(), userID, ratingID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"status": "ok"}})
}

func (s *Server) ListProductRatings(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}

	ratings, err := s.ratingSvc.ListByProduct(c.Request.Context(), productID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": ratings})
}

func (s *Server) ListUserRatings(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	ratings, err := s.ratingSvc.ListByUser(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": ratings})
}

func (s *Server) LikeRating(c *gin.Context) {
	userID, ok := s.mustPrincipal(c)
	if !ok {
		return
	}
	ratingID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := s.ratingSvc.Like(c.Request.Context(), userID, ratingID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"status": "ok"}})
}

func (s *Server) UnlikeRating(c *gin.Context) {
	userID, ok := s.mustPrincipal(c)
	if !ok {
		return
	}
	ratingID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := s.ratingSvc.Unlike(c.Request.Context(), userID, ratingID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"status": "ok"}})
}

func (s *Server) ListRatingComments(c *gin.Context) {
	ratingID, ok := pathID(c, "id")
	if !ok {
		return
	}

	comments, err := s.ratingSvc.ListComments(c.Request.Context(), ratingID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": comments})
}

type addCommentRequest struct {
	Content string `json:"content"`
}

func (s *Server) AddRatingComment(c *gin.Context) {
	userID, ok := s.mustPrincipal(c)
	if !ok {
		return
	}
	ratingID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req addCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	comment, err := s.ratingSvc.AddComment(c.Request.Context(), ratingdomain.AddCommentRequest{
		UserID:   userID,
		RatingID: ratingID,
		Content:  req.Content,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": comment})
}

func (s *Server) DeleteRatingComment(c *gin.Context) {
	userID, ok := s.mustPrincipal(c)
	if !ok {
		return
	}
	commentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := s.ratingSvc.DeleteComment(c.Request.Context(), userID, commentID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"status": "ok"}})
}
