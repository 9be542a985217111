package domain

import "time"

// User owns zero or more accounts. Accounts are created together with the
// user at registration, one per starting currency.
type User struct {
	UserID       int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
