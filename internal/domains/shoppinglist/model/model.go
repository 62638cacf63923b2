package model

import (
	"github.com/shopspring/decimal"

	"foodgram-backend/internal/shared/apperr"
)

// Line là tổng lượng của một ingredient (name + unit) trên toàn giỏ
type Line struct {
	Name    string          `json:"name"`
	Unit    string          `json:"measurement_unit"`
	Total   decimal.Decimal `json:"total"`
	Display string          `json:"display"`
}

// Document là file export trả về client
type Document struct {
	FileName    string
	ContentType string
	Data        []byte
}

const (
	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"
)

var (
	ErrCartEmpty         = apperr.New(apperr.KindBadRequest, "SHOPPING_CART_EMPTY", "shopping cart is empty")
	ErrUnsupportedFormat = apperr.New(apperr.KindBadRequest, "UNSUPPORTED_EXPORT_FORMAT", "unsupported export format")
)
