package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

const (
	maxNameLength = 200
	maxTextLength = 10000

	// cột recipes.cooking_time là INTEGER
	MaxCookingTime = math.MaxInt32

	// Giới hạn exponent/độ dài hệ số trước khi so sánh:
	// decimal rescale khi Cmp, 1e20000000 sẽ tạo big.Int khổng lồ
	maxAmountExponent = 8
	minAmountExponent = -20
	maxAmountBits     = 128
)

var (
	MinAmount = decimal.RequireFromString("0.01")
	// NUMERIC(10,2)
	MaxAmount = decimal.RequireFromString("99999999.99")
)

// Rules là các ngưỡng validate lấy từ config
type Rules struct {
	MinNameLength  int
	MinTextLength  int
	MinCookingTime int
}

// =====================================================
// WRITE REQUEST
// =====================================================

// IngredientInput: {"id": 1, "amount": 12.5}
type IngredientInput struct {
	ID     int64           `json:"id"`
	Amount decimal.Decimal `json:"amount"`
}

func (i IngredientInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.ID, validation.Required),
		validation.Field(&i.Amount, validation.By(func(value interface{}) error {
			amount, _ := value.(decimal.Decimal)
			if err := amountMagnitude(amount); err != nil {
				return err
			}
			if amount.LessThan(MinAmount) {
				return fmt.Errorf("must be at least %s", MinAmount.String())
			}
			if amount.GreaterThan(MaxAmount) {
				return fmt.Errorf("must be at most %s", MaxAmount.String())
			}
			return nil
		})),
	)
}

// amountMagnitude chặn giá trị có exponent hoặc hệ số quá lớn, chỉ dùng phép toán O(1)
func amountMagnitude(amount decimal.Decimal) error {
	exp := amount.Exponent()
	switch {
	case exp > maxAmountExponent && amount.Sign() > 0:
		return fmt.Errorf("must be at most %s", MaxAmount.String())
	case exp > maxAmountExponent:
		return fmt.Errorf("must be at least %s", MinAmount.String())
	case exp < minAmountExponent || amount.Coefficient().BitLen() > maxAmountBits:
		return errors.New("has too many digits")
	}
	return nil
}

// CookingTime nhận số JSON hoặc chuỗi số ("15").
// Present = key có trong payload, Valid = parse được thành int
type CookingTime struct {
	Value   int
	Present bool
	Valid   bool
}

func (c *CookingTime) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	c.Present = raw != "null"
	c.Valid = false
	if !c.Present {
		return nil
	}

	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		raw = strings.TrimSpace(s)
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	c.Value, c.Valid = n, true
	return nil
}

func (c CookingTime) MarshalJSON() ([]byte, error) {
	if !c.Present || !c.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(c.Value)), nil
}

// RecipeWriteRequest dùng chung cho create (POST) và update (PATCH/PUT).
// Field scalar là pointer để phân biệt "không gửi" với "gửi rỗng"
type RecipeWriteRequest struct {
	Ingredients []IngredientInput `json:"ingredients"`
	Tags        []int64           `json:"tags"`
	Image       *string           `json:"image"`
	Name        *string           `json:"name"`
	Text        *string           `json:"text"`
	CookingTime CookingTime       `json:"cooking_time"`
}

// Normalize trim khoảng trắng hai đầu của name/text
func (r *RecipeWriteRequest) Normalize() {
	if r.Name != nil {
		trimmed := strings.TrimSpace(*r.Name)
		r.Name = &trimmed
	}
	if r.Text != nil {
		trimmed := strings.TrimSpace(*r.Text)
		r.Text = &trimmed
	}
}

// Validate gom lỗi của tất cả field.
// partial = true (update): scalar không bắt buộc, ingredients/tags vẫn bắt buộc.
// imageRule kiểm tra payload base64 của image
func (r *RecipeWriteRequest) Validate(rules Rules, partial bool, imageRule validation.Rule) error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.When(!partial || r.Name != nil, validation.Required),
			validation.RuneLength(rules.MinNameLength, maxNameLength),
			validation.By(firstWordCapitalized),
		),
		validation.Field(&r.Text,
			validation.When(!partial || r.Text != nil, validation.Required),
			validation.RuneLength(rules.MinTextLength, maxTextLength),
			validation.By(firstWordCapitalized),
		),
		validation.Field(&r.Image,
			validation.When(!partial || r.Image != nil, validation.Required),
			imageRule,
		),
		validation.Field(&r.CookingTime, validation.By(cookingTimeRule(rules.MinCookingTime, partial))),
		validation.Field(&r.Ingredients, validation.Required, validation.By(uniqueIngredients)),
		validation.Field(&r.Tags, validation.Required, validation.Each(validation.Min(int64(1)))),
	)
}

// TagIDs trả về tag id không trùng, giữ thứ tự xuất hiện đầu tiên
func (r *RecipeWriteRequest) TagIDs() []int64 {
	seen := make(map[int64]struct{}, len(r.Tags))
	ids := make([]int64, 0, len(r.Tags))
	for _, id := range r.Tags {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// IngredientIDs theo thứ tự payload
func (r *RecipeWriteRequest) IngredientIDs() []int64 {
	ids := make([]int64, 0, len(r.Ingredients))
	for _, in := range r.Ingredients {
		ids = append(ids, in.ID)
	}
	return ids
}

// =====================================================
// RULES
// =====================================================

// StringValue đọc string hoặc *string từ value mà ozzo truyền vào rule
func StringValue(value interface{}) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case *string:
		if v == nil {
			return "", false
		}
		return *v, true
	default:
		return "", false
	}
}

// firstWordCapitalized: từ đầu tiên phải bắt đầu bằng chữ in hoa
func firstWordCapitalized(value interface{}) error {
	s, ok := StringValue(value)
	if !ok {
		return nil
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}
	first, _ := utf8.DecodeRuneInString(words[0])
	if !unicode.IsUpper(first) {
		return errors.New("first word must start with a capital letter")
	}
	return nil
}

func cookingTimeRule(min int, partial bool) validation.RuleFunc {
	return func(value interface{}) error {
		ct, _ := value.(CookingTime)
		if !ct.Present {
			if partial {
				return nil
			}
			return errors.New("cannot be blank")
		}
		if !ct.Valid {
			return errors.New("must be an integer")
		}
		if ct.Value < min {
			return fmt.Errorf("must be no less than %d", min)
		}
		if ct.Value > MaxCookingTime {
			return fmt.Errorf("must be no greater than %d", MaxCookingTime)
		}
		return nil
	}
}

func uniqueIngredients(value interface{}) error {
	items, _ := value.([]IngredientInput)
	seen := make(map[int64]struct{}, len(items))
	for _, item := range items {
		if _, dup := seen[item.ID]; dup {
			return fmt.Errorf("ingredient %d is listed more than once", item.ID)
		}
		seen[item.ID] = struct{}{}
	}
	return nil
}
