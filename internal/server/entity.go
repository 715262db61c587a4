package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	entitydomain "github.com/voozea/voozea/internal/entity/domain"
)

func (s *Server) ResolveEntity(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	entity, err := s.entitySvc.Resolve(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if entity == nil {
		AbortWithError(c, ErrNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entity})
}

func (s *Server) ListActableEntities(c *gin.Context) {
	userID, ok := s.mustPrincipal(c)
	if !ok {
		return
	}

	entities, err := s.entitySvc.ListActable(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entities})
}

type entityFollowRequest struct {
	FollowerID  string `json:"follower_id"`
	FollowingID string `json:"following_id"`
}

func (r entityFollowRequest) parse(principalID snowflake.ID) (entitydomain.FollowRequest, error) {
	req := entitydomain.FollowRequest{PrincipalID: principalID}

	// An omitted follower means the principal acts as itself.
	if strings.TrimSpace(r.FollowerID) == "" {
		req.FollowerID = principalID
	} else {
		followerID, err := parseID(r.FollowerID)
		if err != nil {
			return entitydomain.FollowRequest{}, err
		}
		req.FollowerID = followerID
	}

	followingID, err := parseID(r.FollowingID)
	if err != nil {
		return entitydomain.FollowRequest{}, err
	}
	req.FollowingID = followingID
	return req, nil
}

func (s *Server) FollowEntity(c *gin.Context) {
	userID, ok := s.mustPrincipal(c)
	if !ok {
		return
	}

	var body entityFollowRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	req, err := body.parse(userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.entitySvc.Follow(c.Request.Context(), req); err != nil {
		AbortWithError(c, err)
		return
	}

	// The service records the follow metric inside the write path.
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"status": "ok"}})
}

func (s *Server) UnfollowEntity(c *gin.Context) {
	userID, ok := s.mustPrincipal(c)
	if !ok {
		return
	}

	var body entityFollowRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	req, err := body.parse(userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.entitySvc.Unfollow(c.Request.Context(), req); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"status": "ok"}})
}

type followBatchRequest struct {
	TargetIDs []string `json:"target_ids"`
}

func (s *Server) FollowEntitiesBatch(c *gin.Context) {
	userID, ok := s.mustPrincipal(c)
	if !ok {
		return
	}

	var body followBatchRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	targetIDs := make([]snowflake.ID, 0, len(body.TargetIDs))
	for _, raw := range body.TargetIDs {
		id, err := parseID(raw)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		targetIDs = append(targetIDs, id)
	}

	if err := s.entitySvc.FollowBatch(c.Request.Context(), userID, targetIDs); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"status": "ok"}})
}

func (s *Server) IsFollowingEntity(c *gin.Context) {
	followerID, ok := pathID(c, "id")
	if !ok {
		return
	}
	followingID, ok := pathID(c, "target")
	if !ok {
		return
	}

	following, err := s.entitySvc.IsFollowing(c.Request.Context(), followerID, followingID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"is_following": following}})
}

func (s *Server) ListEntityFollowers(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	req, ok := listFollowsRequest(c, id)
	if !ok {
		return
	}

	list, err := s.entitySvc.Followers(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": list})
}

func (s *Server) ListEntityFollowing(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	req, ok := listFollowsRequest(c, id)
	if !ok {
		return
	}

	list, err := s.entitySvc.Following(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": list})
}

func listFollowsRequest(c *gin.Context, id snowflake.ID) (entitydomain.ListFollowsRequest, bool) {
	pageSize, ok := queryInt(c, "page_size")
	if !ok {
		return entitydomain.ListFollowsRequest{}, false
	}

	return entitydomain.ListFollowsRequest{
		EntityID:  id,
		PageToken: strings.TrimSpace(c.Query("page_token")),
		PageSize:  pageSize,
	}, true
}

func (s *Server) SearchEntities(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))

	var excludeIDs []snowflake.ID
	if raw := strings.TrimSpace(c.Query("exclude_ids")); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := parseID(strings.TrimSpace(part))
			if err != nil {
				AbortWithError(c, err)
				return
			}
			excludeIDs = append(excludeIDs, id)
		}
	}

	entities, err := s.entitySvc.Search(c.Request.Context(), entitydomain.SearchRequest{
		Query:      query,
		ExcludeIDs: excludeIDs,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entities})
}
