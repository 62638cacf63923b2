package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugInvalid = regexp.MustCompile(`[^a-z0-9-]+`)
	slugDashes  = regexp.MustCompile(`-+`)
)

// GenerateSlug: "Завтрак Breakfast Đặc biệt" → "breakfast-dac-biet"
func GenerateSlug(input string) string {
	// Step 1: bỏ dấu (NFD + remove combining marks)
	ascii := RemoveDiacritics(input)

	// Step 2: lowercase, space → hyphen
	hyphenated := strings.Join(strings.Fields(strings.ToLower(ascii)), "-")

	// Step 3: chỉ giữ a-z, 0-9, hyphen
	cleaned := slugInvalid.ReplaceAllString(hyphenated, "")

	// Step 4: gộp hyphen liên tiếp, trim hai đầu
	return strings.Trim(slugDashes.ReplaceAllString(cleaned, "-"), "-")
}

// RemoveDiacritics bỏ dấu: "Phở bò" → "Pho bo"
func RemoveDiacritics(input string) string {
	// đ/Đ không phân rã được qua NFD
	input = strings.NewReplacer("đ", "d", "Đ", "D").Replace(input)

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, input)
	if err != nil {
		return input
	}
	return out
}
