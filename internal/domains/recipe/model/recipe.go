package model

import (
	"time"

	"github.com/shopspring/decimal"

	catalog "foodgram-backend/internal/domains/catalog/model"
)

// Recipe là row của bảng recipes (kèm thông tin author đã join)
type Recipe struct {
	ID          int64
	AuthorID    int64
	Name        string
	Text        string
	CookingTime int
	Image       string
	ImageKey    string // prefix trên object storage, không trả về client
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Author Author
}

// Author: user rút gọn nhúng trong recipe
type Author struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

// RecipeIngredient: ingredient + amount của một recipe
type RecipeIngredient struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	MeasurementUnit string          `json:"measurement_unit"`
	Amount          decimal.Decimal `json:"amount"`
}

// RecipeResponse là read shape đầy đủ
type RecipeResponse struct {
	ID               int64              `json:"id"`
	Tags             []catalog.Tag      `json:"tags"`
	Author           Author             `json:"author"`
	Ingredients      []RecipeIngredient `json:"ingredients"`
	IsFavorited      bool               `json:"is_favorited"`
	IsInShoppingCart bool               `json:"is_in_shopping_cart"`
	Name             string             `json:"name"`
	Image            string             `json:"image"`
	Text             string             `json:"text"`
	CookingTime      int                `json:"cooking_time"`
}

// ListFilter cho GET /recipes. ViewerID = 0 thì bỏ qua hai flag membership
type ListFilter struct {
	AuthorID         int64
	TagSlugs         []string
	ViewerID         int64
	IsFavorited      bool
	IsInShoppingCart bool
	Limit            int
	Offset           int
}
