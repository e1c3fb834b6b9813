package models

// Back-office roles carried in the token's "role" claim.
const (
	RoleOwner      = "owner"
	RoleAccountant = "accountant"
	RoleBaker      = "baker"
	RoleSales      = "sales"
	RoleAdmin      = "admin"
)

// CurrentUser is the authenticated admin injected into request context.
type CurrentUser struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}
