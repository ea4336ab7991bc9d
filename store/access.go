package store

import "github.com/fintrackhq/fintrack-backend/models"

type Operation string

const (
	OpView   Operation = "view"
	OpCreate Operation = "create"
	OpDelete Operation = "delete"
)

// CanAccess is the ownership rule applied on every read and write path:
// a principal may view, create, or delete only transactions whose UserID
// matches its own identity. Anything else is denied, including any operation
// not listed above (there is no update).
func CanAccess(principal string, record models.Transaction, op Operation) bool {
	if principal == "" {
		return false
	}
	switch op {
	case OpView, OpCreate, OpDelete:
		return principal == record.UserID
	default:
		return false
	}
}
