package service

import (
	"sort"

	"github.com/shopspring/decimal"

	recipeModel "foodgram-backend/internal/domains/recipe/model"
	"foodgram-backend/internal/domains/shoppinglist/model"
)

type lineKey struct {
	name string
	unit string
}

// Aggregate cộng dồn amount theo (name, unit) trên mọi recipe,
// sắp xếp theo name rồi unit
func Aggregate(byRecipe map[int64][]recipeModel.RecipeIngredient) []model.Line {
	totals := make(map[lineKey]decimal.Decimal)
	for _, ingredients := range byRecipe {
		for _, in := range ingredients {
			k := lineKey{name: in.Name, unit: in.MeasurementUnit}
			totals[k] = totals[k].Add(in.Amount)
		}
	}

	lines := make([]model.Line, 0, len(totals))
	for k, total := range totals {
		lines = append(lines, model.Line{
			Name:    k.name,
			Unit:    k.unit,
			Total:   total,
			Display: FormatQuantity(total),
		})
	}

	sort.Slice(lines, func(i, j int) bool {
		if lines[i].Name != lines[j].Name {
			return lines[i].Name < lines[j].Name
		}
		return lines[i].Unit < lines[j].Unit
	})
	return lines
}

// FormatQuantity: làm tròn 2 chữ số; phần lẻ bằng 0 thì in số nguyên.
// 12.00 → "12", 2.50 → "2.5", 0.333 → "0.33"
func FormatQuantity(d decimal.Decimal) string {
	rounded := d.Round(2)
	if rounded.Equal(rounded.Truncate(0)) {
		return rounded.StringFixed(0)
	}
	return rounded.String()
}
