package utils

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	maxPageLimit = 100
	// MaxPage giữ OFFSET trong int32 với limit tối đa
	MaxPage   = math.MaxInt32 / maxPageLimit
	maxOffset = math.MaxInt32
)

// ParseIDParam đọc path param dạng int64 dương
func ParseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ParsePagination đọc ?page=&limit=, clamp page trong [1, MaxPage] và limit trong [1, 100]
func ParsePagination(c *gin.Context, defaultLimit int) (page, limit int) {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	limit, err = strconv.Atoi(c.Query("limit"))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

// QueryFlag: "1" / "true" → true
func QueryFlag(c *gin.Context, name string) bool {
	v, err := strconv.ParseBool(c.Query(name))
	return err == nil && v
}

// Offset tính OFFSET từ page/limit (page bắt đầu từ 1), không vượt quá MaxInt32
func Offset(page, limit int) int {
	if page < 1 || limit < 1 {
		return 0
	}
	if page-1 > maxOffset/limit {
		return maxOffset
	}
	return (page - 1) * limit
}
