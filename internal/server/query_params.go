package server

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// queryInt reads a non-negative integer query parameter. An absent parameter
// yields zero, which callers treat as "use the default".
func queryInt(c *gin.Context, name string) (int, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, true
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		AbortWithError(c, newValidationError(name, "invalid_"+name, "invalid "+name))
		return 0, false
	}
	return value, true
}
