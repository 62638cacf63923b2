package model

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Tag là reference data, chỉ admin tạo
type Tag struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Slug  string `json:"slug"`
}

// Ingredient: unique theo (name, measurement_unit)
type Ingredient struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

var (
	hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
	slugRe   = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

// CreateTagRequest - slug rỗng sẽ được sinh từ name
type CreateTagRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Slug  string `json:"slug"`
}

func (r CreateTagRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Color,
			validation.Required,
			validation.Match(hexColor).Error("must be a hex color like #E26C2D"),
		),
		validation.Field(&r.Slug,
			validation.Length(0, 200),
			validation.When(r.Slug != "", validation.Match(slugRe).Error("must contain only letters, digits, hyphens or underscores")),
		),
	)
}

type CreateIngredientRequest struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

func (r CreateIngredientRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.MeasurementUnit, validation.Required, validation.Length(1, 200)),
	)
}
