// package utils provides utility functions to support various operations within the application.
package utils

import (
	"github.com/gin-gonic/gin"
	"strconv"
)

const (
	// DefaultPageSize matches the storefront's default listing size.
	DefaultPageSize = 15
)

// ParsePageParams extracts the 'page' and 'pageSize' parameters from the
// request's query parameters. It provides defaults and clamps both values so
// the page index is 1-based and the size is positive.
func ParsePageParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.Query(PageParamKey))
	if err != nil || page < 1 {
		page = 1
	}

	pageSize, err := strconv.Atoi(c.Query(PageSizeParamKey))
	if err != nil || pageSize < 1 {
		pageSize = DefaultPageSize
	}

	return page, pageSize
}

// ParseLimitParam extracts the 'limit' query parameter with a default.
func ParseLimitParam(c *gin.Context, defaultLimit int) int {
	limit, err := strconv.Atoi(c.Query(LimitParamKey))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}

	return limit
}
