package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodgram-backend/internal/shared/apperr"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func run(t *testing.T, fn gin.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	fn(c)
	return w
}

func TestErrorMapsDomainKinds(t *testing.T) {
	conflict := apperr.New(apperr.KindConflict, "ALREADY_ADDED", "recipe already added")

	w := run(t, func(c *gin.Context) { Error(c, fmt.Errorf("svc: %w", conflict)) })

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "recipe already added", body.Errors)
	assert.Equal(t, "ALREADY_ADDED", body.Code)
}

func TestErrorHidesInternalDetails(t *testing.T) {
	w := run(t, func(c *gin.Context) { Error(c, errors.New("pq: relation recipes does not exist")) })

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "relation")
}

func TestValidationIncludesFields(t *testing.T) {
	w := run(t, func(c *gin.Context) {
		Error(c, apperr.Validation(map[string]string{"name": "too short"}))
	})

	var body ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "too short", body.Fields["name"])
}

func TestNewPage(t *testing.T) {
	p := NewPage([]int{1, 2}, 13, 2, 6)
	assert.Equal(t, 3, p.TotalPages)

	empty := NewPage[int](nil, 0, 1, 6)
	assert.NotNil(t, empty.Results)
	assert.Equal(t, 0, empty.TotalPages)
}

func TestAttachmentSetsDisposition(t *testing.T) {
	w := run(t, func(c *gin.Context) { Attachment(c, "shopping_list.pdf", "application/pdf", []byte("%PDF")) })

	assert.Equal(t, `attachment; filename="shopping_list.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
}
