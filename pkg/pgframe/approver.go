package pgframe

import "context"

// Approver asks for confirmation before a destructive catalog operation
// such as dropping a table.
type Approver interface {
	// RequestApproval reports whether the named table may be destroyed.
	RequestApproval(ctx context.Context, table string) (bool, error)
}
