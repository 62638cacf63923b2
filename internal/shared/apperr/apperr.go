// Package apperr định nghĩa error taxonomy dùng chung cho mọi domain.
// Handler map Kind → HTTP status qua response.Error.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindBadRequest
	KindNotFound
	KindConflict
	KindForbidden
	KindUnauthenticated
	KindTooManyRequests
)

// HTTPStatus map Kind sang status code.
// Conflict (đã tồn tại trong list, đã subscribe...) trả 400 như client hiện tại mong đợi
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation, KindBadRequest, KindConflict:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Error là domain error có Kind, Code ổn định và message cho client
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is so sánh theo Code, để errors.Is(err, ErrRecipeNotFound) vẫn đúng
// khi error đã được clone bằng WithErr/WithMessage
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithErr trả về bản copy có wrap cause
func (e *Error) WithErr(err error) *Error {
	cp := *e
	cp.Err = err
	return &cp
}

// WithMessage trả về bản copy với message khác, giữ Kind/Code
func (e *Error) WithMessage(format string, args ...any) *Error {
	cp := *e
	cp.Message = fmt.Sprintf(format, args...)
	return &cp
}

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Validation tạo error chứa toàn bộ lỗi theo field
func Validation(fields map[string]string) *Error {
	return &Error{
		Kind:    KindValidation,
		Code:    "VALIDATION_ERROR",
		Message: "validation failed",
		Fields:  fields,
	}
}

// As lấy *Error từ error chain
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf trả về KindInternal cho error không thuộc taxonomy
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindInternal
}

var (
	ErrUnauthenticated = New(KindUnauthenticated, "UNAUTHENTICATED", "authentication credentials were not provided")
	ErrForbidden       = New(KindForbidden, "FORBIDDEN", "you do not have permission to perform this action")
	ErrBadRequest      = New(KindBadRequest, "BAD_REQUEST", "invalid request")
	ErrTooManyRequests = New(KindTooManyRequests, "TOO_MANY_REQUESTS", "too many requests, please slow down")
)
