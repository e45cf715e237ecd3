package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-tracker-api/internal/constants"
)

// PaginationParams holds the pagination parameters. Enabled is false when the
// client asked for neither page nor limit, in which case the full list is
// returned.
type PaginationParams struct {
	Enabled bool
	Page    int
	Limit   int
	Offset  int
}

// GetPaginationParams extracts and validates pagination parameters from the request
func GetPaginationParams(c *gin.Context) PaginationParams {
	_, hasPage := c.GetQuery("page")
	_, hasLimit := c.GetQuery("limit")
	if !hasPage && !hasLimit {
		return PaginationParams{}
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(constants.MinPageSize)))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(constants.DefaultPageSize)))

	if page < constants.MinPageSize {
		page = constants.MinPageSize
	}
	if page > constants.MaxPage {
		page = constants.MaxPage
	}
	if limit < constants.MinPageSize || limit > constants.MaxPageSize {
		limit = constants.DefaultPageSize
	}

	return PaginationParams{
		Enabled: true,
		Page:    page,
		Limit:   limit,
		Offset:  (page - 1) * limit,
	}
}
