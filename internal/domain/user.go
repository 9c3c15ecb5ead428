package domain

import "time"

// Role enumerates the two account roles the backend issues. The set is
// closed: the guard and lifecycle model treat anything else as unknown.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleOfficer  Role = "OFFICER"
)

// Valid reports whether the role is one of the recognized values.
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleOfficer
}

// Principal is the authenticated identity driving authorization decisions.
// It is derived from the login response; the bearer token itself stays
// opaque and lives alongside the principal in the session store.
type Principal struct {
	CustomerID   string `json:"customerId"`
	CustomerName string `json:"customerName"`
	Email        string `json:"email"`
	Role         Role   `json:"role"`
}

// Valid reports whether the principal carries the minimum identity the
// session store requires: an identifier and a recognized role.
func (p Principal) Valid() bool {
	return p.CustomerID != "" && p.Role.Valid()
}

// User is the full account profile as returned by the backend.
type User struct {
	CustomerID   string    `json:"customerId"`
	CustomerName string    `json:"customerName"`
	Email        string    `json:"email"`
	CountryCode  string    `json:"countryCode"`
	MobileNumber string    `json:"mobileNumber"`
	Address      string    `json:"address"`
	Preferences  string    `json:"preferences,omitempty"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}
