// Package orm carries the small query helpers shared by every
// repository: offset pagination and the explicit soft-delete scope.
package orm

import (
	"math"

	"gorm.io/gorm"
)

// Pagination is the metadata returned alongside every paged listing.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalCount int64 `json:"total_count"`
	TotalPages int   `json:"total_pages"`
}

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// ClampPage normalises page/size query parameters: page starts at 1,
// size falls back to the default and is capped.
func ClampPage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size
}

// Paginate runs a count plus an offset/limit find on the prepared query
// and fills dest with the requested page.
func Paginate(query *gorm.DB, page, size int, dest interface{}) (Pagination, error) {
	page, size = ClampPage(page, size)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return Pagination{}, err
	}

	if err := query.Offset((page - 1) * size).Limit(size).Find(dest).Error; err != nil {
		return Pagination{}, err
	}

	return Pagination{
		Page:       page,
		PageSize:   size,
		TotalCount: total,
		TotalPages: int(math.Ceil(float64(total) / float64(size))),
	}, nil
}

// NotDeleted is the soft-delete scope. Soft-deleted rows stay in the
// table so historical references (past orders) remain valid; every
// customer-facing read applies the scope explicitly:
//
//	db.Scopes(orm.NotDeleted).Find(&products)
//
// Admin reads that want deleted rows simply omit it.
func NotDeleted(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted = ?", false)
}
