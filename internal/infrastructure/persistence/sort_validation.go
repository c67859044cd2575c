package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// UserSortFields contains allowed sort fields for users
var UserSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"name":          true,
	"email":         true,
	"role":          true,
	"last_login_at": true,
}

// CustomerSortFields contains allowed sort fields for customers
var CustomerSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"company_name":   true,
	"contact_person": true,
}

// MachineSortFields contains allowed sort fields for machines
var MachineSortFields = map[string]bool{
	"id":                true,
	"created_at":        true,
	"updated_at":        true,
	"type":              true,
	"serial_number":     true,
	"installation_date": true,
}

// PartSortFields contains allowed sort fields for parts
var PartSortFields = map[string]bool{
	"id":                true,
	"created_at":        true,
	"updated_at":        true,
	"name":              true,
	"category":          true,
	"quantity_in_stock": true,
}

// TicketSortFields contains allowed sort fields for tickets
var TicketSortFields = map[string]bool{
	"id":                   true,
	"created_at":           true,
	"updated_at":           true,
	"ticket_number":        true,
	"status":               true,
	"scheduled_visit_date": true,
	"closed_at":            true,
}

// WorkLogSortFields contains allowed sort fields for work logs
var WorkLogSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"arrival_time": true,
	"hours_worked": true,
}
