// internal/models/profile.go
package models

type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleAgent      Role = "agent"
	RoleStaff      Role = "staff"
	RoleCustomer   Role = "customer"
)

// CanReview reports whether the role may approve or reject job reports and
// administer salary rates.
func (r Role) CanReview() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

type Profile struct {
	ID       string  `json:"id" db:"id"`
	FullName string  `json:"fullName" db:"full_name"`
	Role     Role    `json:"role" db:"role"`
	Phone    *string `json:"phone,omitempty" db:"phone"`
	Email    *string `json:"email,omitempty" db:"email"`
}

// Actor identifies who performs an administrative action.
type Actor struct {
	ID   string `json:"id" validate:"required"`
	Role Role   `json:"role" validate:"required"`
}

// Contact is the delivery addressing for a user.
type Contact struct {
	UserID   string
	FullName string
	Phone    string
	Email    string
}
