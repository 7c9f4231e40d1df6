package policy

import "github.com/KooroshTorabi/meal-planner-sub002/internal/model"

// Operation is a CRUD operation gated by the permission table.
type Operation string

const (
	OpCreate Operation = "create"
	OpRead   Operation = "read"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
	// OpEscalate is the manual escalation sweep on alerts. It is its own
	// operation so granting alert deletion never implies running the sweep.
	OpEscalate Operation = "escalate"
)

// Resource is an API resource gated by the permission table.
type Resource string

const (
	ResourceResidents   Resource = "residents"
	ResourceMealOrders  Resource = "meal_orders"
	ResourceUsers       Resource = "users"
	ResourceAlerts      Resource = "alerts"
	ResourceAuditLogs   Resource = "audit_logs"
	ResourceAggregation Resource = "aggregation"
)

// permissions is the whole access policy: role -> resource -> allowed
// operations. Anything absent is denied. Admin is handled in Can and
// does not appear here.
var permissions = map[model.Role]map[Resource][]Operation{
	model.RoleCaregiver: {
		ResourceResidents:  {OpRead},
		ResourceMealOrders: {OpCreate, OpRead, OpUpdate},
		ResourceAlerts:     {OpRead, OpUpdate},
	},
	model.RoleKitchen: {
		ResourceResidents:   {OpRead},
		ResourceMealOrders:  {OpRead, OpUpdate},
		ResourceAlerts:      {OpRead, OpUpdate},
		ResourceAggregation: {OpRead},
	},
}

// Can reports whether role may perform op on resource.
// Unknown roles (including the empty role of unauthenticated callers)
// are denied everything; admin is allowed everything.
func Can(role model.Role, resource Resource, op Operation) bool {
	if role == model.RoleAdmin {
		return true
	}
	ops, ok := permissions[role][resource]
	if !ok {
		return false
	}
	for _, allowed := range ops {
		if allowed == op {
			return true
		}
	}
	return false
}
