package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrEmptyEmail   = errors.New("email is required")
	ErrInvalidEmail = errors.New("email must contain '@'")
	ErrInvalidRole  = errors.New("role must be customer, sales_rep or admin")
)

// Role is the coarse access level of a user.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleSalesRep Role = "sales_rep"
	RoleAdmin    Role = "admin"
)

// Capability names an action class checked by the transactional core.
type Capability string

const (
	// CapabilityPurchase allows placing customer orders.
	CapabilityPurchase Capability = "purchase"
	// CapabilityHoldCases allows holding and returning sales cases.
	CapabilityHoldCases Capability = "hold_cases"
	// CapabilityManage allows catalog, user and sales case administration.
	CapabilityManage Capability = "manage"
)

// Valid reports whether the role is known.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleSalesRep, RoleAdmin:
		return true
	default:
		return false
	}
}

// Can reports whether the role grants the capability. Admins hold every capability.
func (r Role) Can(c Capability) bool {
	switch r {
	case RoleAdmin:
		return true
	case RoleCustomer:
		return c == CapabilityPurchase
	case RoleSalesRep:
		return c == CapabilityHoldCases
	default:
		return false
	}
}

// User represents a back-office account.
type User struct {
	ID        int64
	Email     string
	FullName  string
	Role      Role
	CreatedAt time.Time
}

// NewUser builds a user ensuring required invariants. An empty role defaults to customer.
func NewUser(email, fullName string, role Role) (*User, error) {
	user := &User{FullName: strings.TrimSpace(fullName), Role: role}
	if user.Role == "" {
		user.Role = RoleCustomer
	}
	if err := user.SetEmail(email); err != nil {
		return nil, err
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	return user, nil
}

// SetEmail trims, lowercases and validates the email.
func (u *User) SetEmail(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return ErrEmptyEmail
	}
	if !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	u.Email = email
	return nil
}

// Validate re-applies core invariants for persistence.
func (u *User) Validate() error {
	if err := u.SetEmail(u.Email); err != nil {
		return err
	}
	if !u.Role.Valid() {
		return ErrInvalidRole
	}
	return nil
}

// Caller returns the identity used by the transactional core.
func (u *User) Caller() Caller {
	return Caller{ID: u.ID, Role: u.Role}
}

// Caller is the authenticated identity invoking an operation.
type Caller struct {
	ID   int64
	Role Role
}

// Can reports whether the caller holds the capability.
func (c Caller) Can(capability Capability) bool {
	return c.ID > 0 && c.Role.Can(capability)
}
