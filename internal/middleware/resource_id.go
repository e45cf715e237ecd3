package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-tracker-api/internal/constants"
	apierrors "github.com/yukikurage/project-tracker-api/internal/errors"
)

// RequireResourceID parses the :id path parameter. An id that is not a
// positive integer cannot match any row, so it is answered with the same 404
// as an unknown one.
func RequireResourceID(notFoundDetail string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil || id == 0 {
			apierrors.NotFound(c, notFoundDetail)
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyResourceID, id)
		c.Next()
	}
}

// GetResourceID returns the id parsed by RequireResourceID
func GetResourceID(c *gin.Context) (uint64, bool) {
	v, exists := c.Get(constants.ContextKeyResourceID)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint64)
	return id, ok
}
