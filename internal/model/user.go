package model

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered customer. Account creation and credential
// handling live in the identity provider; this service only reads users.
type User struct {
	ID        uuid.UUID `json:"id" db:"id"`
	FirstName string    `json:"firstName" db:"first_name"`
	LastName  string    `json:"lastName" db:"last_name"`
	Email     string    `json:"email" db:"email"`
	Mobile    string    `json:"mobile" db:"mobile"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// FullName returns the customer's display name for gateway contact info.
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
