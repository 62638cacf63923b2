package apperr

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// FromValidation chuyển ozzo validation.Errors thành Validation error.
// Error không phải validation.Errors được trả lại nguyên vẹn
func FromValidation(err error) error {
	if err == nil {
		return nil
	}

	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string]string, len(verrs))
	flatten("", verrs, fields)
	return Validation(fields)
}

func flatten(prefix string, verrs validation.Errors, out map[string]string) {
	for field, ferr := range verrs {
		if ferr == nil {
			continue
		}
		key := field
		if prefix != "" {
			key = prefix + "." + field
		}
		var nested validation.Errors
		if errors.As(ferr, &nested) {
			flatten(key, nested, out)
			continue
		}
		out[key] = ferr.Error()
	}
}
