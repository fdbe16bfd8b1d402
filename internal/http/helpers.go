package http

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// parseLimitOffset reads the limit/offset query parameters. Both default to
// -1: unbounded and no skip.
func parseLimitOffset(c *gin.Context) (limit, offset int) {
	limit, offset = -1, -1
	if v, err := strconv.Atoi(c.Query("limit")); err == nil {
		limit = v
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil {
		offset = v
	}
	return limit, offset
}

// parseIDParam reads a numeric :id path parameter.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
