package persistence

import (
	"strings"

	"github.com/atelier/marketplace/internal/domain/shared"
	"gorm.io/gorm"
)

// sortable builds a whitelist of ORDER BY columns. Every table can be
// sorted by id and its timestamps.
func sortable(columns ...string) map[string]bool {
	allowed := map[string]bool{"id": true, "created_at": true, "updated_at": true}
	for _, c := range columns {
		allowed[c] = true
	}
	return allowed
}

var (
	UserSortFields     = sortable("email", "full_name", "role", "status", "last_login_at")
	ProductSortFields  = sortable("name", "price", "stock", "status")
	CouponSortFields   = sortable("code", "used_count", "ends_at")
	OrderSortFields    = sortable("order_number", "status", "total")
	EscrowSortFields   = sortable("release_at", "status", "net")
	AuditLogSortFields = sortable("action", "resource_type")
)

// sortDirection only ever yields ASC or DESC so it can be concatenated
// into SQL. Anything but "asc" means newest first.
func sortDirection(dir string) string {
	if strings.EqualFold(strings.TrimSpace(dir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// sortColumn returns field when whitelisted, fallback otherwise.
func sortColumn(field string, allowed map[string]bool, fallback string) string {
	field = strings.TrimSpace(field)
	if allowed[field] {
		return field
	}
	return fallback
}

// paginate applies whitelisted ordering plus offset and limit.
func paginate(query *gorm.DB, filter shared.Filter, allowed map[string]bool, fallback string) *gorm.DB {
	query = query.Order(sortColumn(filter.OrderBy, allowed, fallback) + " " + sortDirection(filter.OrderDir))
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	return query
}

// likePattern builds a LIKE pattern for LOWER(column) comparisons with the
// wildcard characters of the search term escaped.
func likePattern(search string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.ToLower(strings.TrimSpace(search)))
	return "%" + escaped + "%"
}
