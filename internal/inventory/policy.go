package inventory

import "sweetshop/backend/internal/model"

// Operation identifies an inventory endpoint for access checks.
type Operation string

const (
	OpListSweets   Operation = "sweets.list"
	OpSearchSweets Operation = "sweets.search"
	OpCreateSweet  Operation = "sweets.create"
	OpUpdateSweet  Operation = "sweets.update"
	OpDeleteSweet  Operation = "sweets.delete"
	OpPurchase     Operation = "sweets.purchase"
	OpRestock      Operation = "sweets.restock"
)

// Allowed is a pure function of (role, operation). It never looks at
// resource state. Anonymous callers (empty role) are denied everything.
func Allowed(role string, op Operation) bool {
	switch role {
	case model.RoleAdmin:
		return true
	case model.RoleUser:
		switch op {
		case OpListSweets, OpSearchSweets, OpPurchase:
			return true
		}
	}
	return false
}
