package response

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"foodgram-backend/internal/shared/apperr"
)

// ErrorBody là body chung cho mọi lỗi.
// "errors" giữ message tương thích với client cũ
type ErrorBody struct {
	Errors string            `json:"errors"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Page là envelope cho list có phân trang
type Page[T any] struct {
	Count      int64 `json:"count"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
	Results    []T   `json:"results"`
}

// NewPage tính total_pages từ count/limit
func NewPage[T any](results []T, count int64, page, limit int) Page[T] {
	if results == nil {
		results = []T{}
	}
	totalPages := 0
	if limit > 0 {
		totalPages = int((count + int64(limit) - 1) / int64(limit))
	}
	return Page[T]{
		Count:      count,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		Results:    results,
	}
}

// Success responses
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Attachment trả file download
func Attachment(c *gin.Context, fileName, contentType string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))
	c.Data(http.StatusOK, contentType, data)
}

// Error map domain error → HTTP status + body.
// Error không thuộc taxonomy → 500, message generic, chi tiết chỉ ghi log
func Error(c *gin.Context, err error) {
	if e, ok := apperr.As(err); ok {
		status := e.Kind.HTTPStatus()
		if status >= http.StatusInternalServerError {
			logInternal(c, err)
		}
		c.AbortWithStatusJSON(status, ErrorBody{
			Errors: e.Message,
			Code:   e.Code,
			Fields: e.Fields,
		})
		return
	}

	logInternal(c, err)
	InternalServerError(c)
}

func InternalServerError(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorBody{
		Errors: "internal server error",
		Code:   "INTERNAL_SERVER_ERROR",
	})
}

// BadRequest dùng khi body/query không parse được
func BadRequest(c *gin.Context, message string) {
	Error(c, apperr.ErrBadRequest.WithMessage("%s", message))
}

func logInternal(c *gin.Context, err error) {
	log.Error().
		Err(err).
		Str("request_id", c.GetString("request_id")).
		Str("method", c.Request.Method).
		Str("path", c.FullPath()).
		Msg("Request failed")
}
