package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/meridian-realty/dashboard-api/internal/auth"
	"gorm.io/gorm"
)

const (
	// DefaultPageSize is used when a list request does not specify one
	DefaultPageSize = 20
	// MaxPageSize is the maximum allowed page size for paginated queries
	MaxPageSize = 200
)

// NormalizePagination clamps page and pageSize to valid values
func NormalizePagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

func offset(page, pageSize int) int {
	return (page - 1) * pageSize
}

// SortOrder represents the sort direction
type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

// SortConfig holds sorting configuration for list queries
type SortConfig struct {
	Field string    // API field name
	Order SortOrder // asc or desc
}

// ParseSortOrder parses a string into SortOrder, defaulting to desc
func ParseSortOrder(s string) SortOrder {
	if strings.ToLower(s) == "asc" {
		return SortOrderAsc
	}
	return SortOrderDesc
}

// BuildOrderClause maps an API sort field to a whitelisted column.
// Unknown fields fall back to defaultColumn.
func BuildOrderClause(config SortConfig, fieldMap map[string]string, defaultColumn string) string {
	column, ok := fieldMap[config.Field]
	if !ok {
		column = defaultColumn
	}

	order := "DESC"
	if config.Order == SortOrderAsc {
		order = "ASC"
	}
	return column + " " + order
}

// ApplyAgencyFilter scopes a query to the agency of the request.
// Queries run without an agency scope (admins, background jobs) are unchanged.
func ApplyAgencyFilter(ctx context.Context, query *gorm.DB) *gorm.DB {
	return ApplyAgencyFilterWithColumn(ctx, query, "agency_id")
}

// ApplyAgencyFilterWithColumn applies the agency filter on a specific column,
// e.g. a table-qualified one in joins.
func ApplyAgencyFilterWithColumn(ctx context.Context, query *gorm.DB, columnName string) *gorm.DB {
	if agencyID := auth.GetEffectiveAgencyFilter(ctx); agencyID != nil {
		return query.Where(columnName+" = ?", *agencyID)
	}
	return query
}

// HasAgencyAccess reports whether a record of the given agency is visible in ctx
func HasAgencyAccess(ctx context.Context, agencyID uuid.UUID) bool {
	filter := auth.GetEffectiveAgencyFilter(ctx)
	return filter == nil || *filter == agencyID
}
