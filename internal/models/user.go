package models

import "time"

// User statuses.
const (
	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
)

// Address is a saved shipping address owned by one user.
type Address struct {
	ID         string `json:"id"`
	Type       string `json:"type" validate:"required"` // Home, Work, ...
	Street     string `json:"street" validate:"required"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state" validate:"required"`
	PostalCode string `json:"postalCode" validate:"required"`
}

// User represents a registered customer.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"password,omitempty"` // bcrypt hash
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	Addresses []Address `json:"addresses"`
	Status    string    `json:"status,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
	LastLogin time.Time `json:"lastLogin,omitzero"`
}

// IsSuspended reports whether the account may not log in.
func (u User) IsSuspended() bool {
	return u.Status == UserStatusSuspended
}

// Public returns a copy of the user without the password hash.
func (u User) Public() User {
	u.Password = ""
	addresses := make([]Address, len(u.Addresses))
	copy(addresses, u.Addresses)
	u.Addresses = addresses
	return u
}

// AuthSession is the authenticated or anonymous state of one client.
type AuthSession struct {
	IsAuthenticated bool   `json:"isAuthenticated"`
	CurrentUser     *User  `json:"currentUser,omitempty"`
	ClientID        string `json:"clientId,omitempty"`
	Token           string `json:"token,omitempty"`
}

// Anonymous returns an unauthenticated session for the client.
func Anonymous(clientID string) AuthSession {
	return AuthSession{ClientID: clientID}
}
