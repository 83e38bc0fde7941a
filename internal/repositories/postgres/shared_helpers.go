package postgres

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/aulalink/lms-service/internal/repositories"
)

// handleDBError wraps gorm errors with the failing operation, mapping
// row-not-found onto the repositories sentinel.
func handleDBError(err error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, repositories.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// applyPaginationAndSort applies pagination and sorting with a column
// whitelist so caller-supplied sort keys cannot inject SQL.
func applyPaginationAndSort(query *gorm.DB, sortBy, sortOrder string, limit, offset int) *gorm.DB {
	allowedSortColumns := map[string]bool{
		"created_at": true,
		"updated_at": true,
		"name":       true,
		"code":       true,
		"email":      true,
	}

	if sortBy != "" && allowedSortColumns[sortBy] {
		order := "ASC"
		if strings.EqualFold(sortOrder, "desc") {
			order = "DESC"
		}
		query = query.Order(fmt.Sprintf("%s %s", sortBy, order))
	} else {
		query = query.Order("created_at DESC")
	}

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	return query
}
