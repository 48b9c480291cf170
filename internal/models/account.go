package models

import "time"

// AccountRole represents the available roles for the RBAC system.
type AccountRole string

const (
	RoleSuperAdmin AccountRole = "SUPERADMIN"
	RoleAdmin      AccountRole = "ADMIN"
	RoleFaculty    AccountRole = "FACULTY"
	RoleStudent    AccountRole = "STUDENT"
)

// Account is an authentication identity stored in the accounts table.
// Student accounts are owned by their enrollee record: both are created in
// one transaction and neither may outlive the other.
type Account struct {
	ID                 string      `db:"id" json:"id"`
	Username           string      `db:"username" json:"username"`
	Email              string      `db:"email" json:"email"`
	PasswordHash       string      `db:"password_hash" json:"-"`
	Role               AccountRole `db:"role" json:"role"`
	Active             bool        `db:"active" json:"active"`
	MustChangePassword bool        `db:"must_change_password" json:"must_change_password"`
	LastLogin          *time.Time  `db:"last_login" json:"last_login,omitempty"`
	CreatedAt          time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time   `db:"updated_at" json:"updated_at"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
