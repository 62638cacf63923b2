package model

import "foodgram-backend/internal/shared/apperr"

// Kind chọn membership set. Được gắn cố định theo route, không lấy từ request
type Kind string

const (
	KindFavorite     Kind = "favorite"
	KindShoppingCart Kind = "shopping_cart"
)

func (k Kind) Valid() bool {
	return k == KindFavorite || k == KindShoppingCart
}

// Label dùng trong message lỗi
func (k Kind) Label() string {
	if k == KindShoppingCart {
		return "shopping cart"
	}
	return "favorites"
}

var (
	ErrAlreadyAdded = apperr.New(apperr.KindConflict, "RECIPE_ALREADY_ADDED", "recipe already added")
	ErrNotInList    = apperr.New(apperr.KindBadRequest, "RECIPE_NOT_IN_LIST", "recipe not found in list")
	ErrUnknownKind  = apperr.New(apperr.KindInternal, "UNKNOWN_MEMBERSHIP_KIND", "unknown membership kind")
)
