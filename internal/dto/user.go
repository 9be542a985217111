package dto

import "github.com/minibank/minibank/internal/core/domain"

// RegisterRequest defines the data needed to create a user.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// UserResponse defines the data returned for a user. The password hash never
// leaves the service layer.
type UserResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// ToUserResponse converts a domain user to its API shape.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:    u.UserID,
		Email: u.Email,
		Name:  u.Name,
	}
}
