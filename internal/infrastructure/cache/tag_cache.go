package cache

import "context"

// Cache tags used to group related entries for bulk invalidation.
// Writes to an aggregate invalidate the tags it touches; readers tag
// every entry they store with the data sets it was computed from.
const (
	TagTickets     = "tickets"
	TagWorkLogs    = "work_logs"
	TagTechnicians = "technicians"
	TagCustomers   = "customers"
	TagMachines    = "machines"
	TagParts       = "parts"
	TagReports     = "reports"
)

// CallAdminTag returns the per-user tag for a call admin's cached views
func CallAdminTag(userID string) string {
	return "call_admins:" + userID
}

// TicketWorkLogsTag returns the per-ticket tag for cached work log lists
func TicketWorkLogsTag(ticketID string) string {
	return "work_logs:" + ticketID
}

// TagCache is a cache whose entries carry tags and are evicted only by
// tag invalidation. Entries have no TTL; a value stays current until a
// write to one of its tagged data sets invalidates it.
type TagCache interface {
	// GetJSON loads the entry at key into dest. Returns false when the
	// key is absent.
	GetJSON(ctx context.Context, key string, dest any) (bool, error)

	// SetJSON stores value at key and associates it with the given tags.
	SetJSON(ctx context.Context, key string, value any, tags ...string) error

	// Invalidate removes every entry associated with any of the tags.
	Invalidate(ctx context.Context, tags ...string) error

	// Close releases any resources held by the cache
	Close() error
}
