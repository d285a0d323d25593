package domain

import "time"

// Account is a registered login. PasswordHash is the stored adaptive
// hash; a hash that fails to parse compares as a failed match, never as
// a server fault.
type Account struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Principal is the authenticated actor resolved from a verified
// credential. It is carried explicitly through every call of a request;
// nothing reads it from ambient state.
type Principal struct {
	AccountID int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
}

type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

type Team struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Membership links an account to a team. ID orders memberships for the
// deterministic default-tenant rule.
type Membership struct {
	ID        int64     `db:"id" json:"id"`
	TeamID    int64     `db:"team_id" json:"team_id"`
	AccountID int64     `db:"account_id" json:"account_id"`
	Role      Role      `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
