package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		KindValidation:      http.StatusBadRequest,
		KindConflict:        http.StatusBadRequest,
		KindNotFound:        http.StatusNotFound,
		KindForbidden:       http.StatusForbidden,
		KindUnauthenticated: http.StatusUnauthorized,
		KindInternal:        http.StatusInternalServerError,
	}
	for kind, status := range cases {
		assert.Equal(t, status, kind.HTTPStatus())
	}
}

func TestIsMatchesClonedErrors(t *testing.T) {
	base := New(KindNotFound, "RECIPE_NOT_FOUND", "recipe not found")
	wrapped := fmt.Errorf("load: %w", base.WithMessage("recipe %d not found", 7))

	assert.True(t, errors.Is(wrapped, base))
	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestFromValidationFlattensNestedErrors(t *testing.T) {
	err := validation.Errors{
		"name": errors.New("must start with a capital letter"),
		"ingredients": validation.Errors{
			"0": validation.Errors{"amount": errors.New("must be no less than 0.01")},
		},
	}

	got := FromValidation(err)
	e, ok := As(got)
	require.True(t, ok)
	assert.Equal(t, KindValidation, e.Kind)
	assert.Equal(t, "must start with a capital letter", e.Fields["name"])
	assert.Equal(t, "must be no less than 0.01", e.Fields["ingredients.0.amount"])
}

func TestFromValidationPassesThroughOtherErrors(t *testing.T) {
	plain := errors.New("db down")
	assert.Same(t, plain, FromValidation(plain))
	assert.Nil(t, FromValidation(nil))
}
