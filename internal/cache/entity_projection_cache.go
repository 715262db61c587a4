package cache

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	entitydomain "github.com/voozea/voozea/internal/entity/domain"
)

const defaultProjectionTTL = 5 * time.Minute

// EntityProjectionCache stores resolved entity projections for read paths.
// Authorization checks never consult this cache.
type EntityProjectionCache interface {
	Get(entityType entitydomain.EntityType, id snowflake.ID) (entitydomain.Entity, bool)
	Set(projection entitydomain.Entity)
	Invalidate(entityType entitydomain.EntityType, id snowflake.ID)
}

type entityProjectionCache struct {
	projections Cache[string, entitydomain.Entity]
	ttl         time.Duration
}

// NewEntityProjectionCache returns an in-memory projection cache.
func NewEntityProjectionCache() EntityProjectionCache {
	return &entityProjectionCache{
		projections: NewTTLCache[string, entitydomain.Entity](),
		ttl:         defaultProjectionTTL,
	}
}

func (c *entityProjectionCache) Get(entityType entitydomain.EntityType, id snowflake.ID) (entitydomain.Entity, bool) {
	return c.projections.Get(projectionKey(entityType, id))
}

func (c *entityProjectionCache) Set(projection entitydomain.Entity) {
	if projection.ID == 0 {
		return
	}
	c.projections.Set(projectionKey(projection.Type, projection.ID), projection, c.ttl)
}

func (c *entityProjectionCache) Invalidate(entityType entitydomain.EntityType, id snowflake.ID) {
	c.projections.Delete(projectionKey(entityType, id))
}

func projectionKey(entityType entitydomain.EntityType, id snowflake.ID) string {
	return fmt.Sprintf("%s|%d", strings.ToLower(string(entityType)), id)
}
