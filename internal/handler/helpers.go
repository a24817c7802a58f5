package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// paginationParams reads page/limit query parameters with sane bounds
func paginationParams(c echo.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	if page <= 0 {
		page = 1
	}

	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 || limit > 100 {
		limit = 20 // Default limit
	}
	return page, limit
}

// paginationMeta builds the pagination envelope returned by list endpoints
func paginationMeta(page, limit int, total int64) echo.Map {
	return echo.Map{
		"current_page": page,
		"limit":        limit,
		"total":        total,
		"total_pages":  (int(total) + limit - 1) / limit,
	}
}
