package model

import (
	"time"

	"foodgram-backend/internal/shared"
)

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	Role         string    `json:"-"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

// UserResponse là shape công khai của user, is_subscribed tính theo viewer
type UserResponse struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

func (u *User) ToResponse(isSubscribed bool) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: isSubscribed,
	}
}

// SubscriptionResponse: author kèm recipes (đã cắt theo recipes_limit) và tổng số recipe
type SubscriptionResponse struct {
	UserResponse
	Recipes      []shared.RecipeShort `json:"recipes"`
	RecipesCount int                  `json:"recipes_count"`
}

type TokenResponse struct {
	AuthToken string `json:"auth_token"`
}
