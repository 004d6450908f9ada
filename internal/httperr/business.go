package httperr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

type Kind int

const (
	KindValidation Kind = iota
	KindNotFound
	KindAuthentication
	KindAuthorization
	KindConflict
	KindRateLimited
	KindUnavailable
	KindServer
)

type BusinessError struct {
	Kind    Kind
	Code    string
	Message string
	Details map[string]string
}

func (e BusinessError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ErrBusiness builds a conflict-kind error, the common case for rule violations.
func ErrBusiness(code string) error {
	return BusinessError{Kind: KindConflict, Code: code}
}

func Validation(code, message string) error {
	return BusinessError{Kind: KindValidation, Code: code, Message: message}
}

func ValidationDetails(details map[string]string) error {
	return BusinessError{
		Kind:    KindValidation,
		Code:    "VALIDATION_ERROR",
		Message: "invalid request",
		Details: details,
	}
}

func NotFoundErr(code, message string) error {
	return BusinessError{Kind: KindNotFound, Code: code, Message: message}
}

func Conflict(code, message string) error {
	return BusinessError{Kind: KindConflict, Code: code, Message: message}
}

func Authentication(code, message string) error {
	return BusinessError{Kind: KindAuthentication, Code: code, Message: message}
}

func Authorization(code, message string) error {
	return BusinessError{Kind: KindAuthorization, Code: code, Message: message}
}

func Unavailable(code, message string) error {
	return BusinessError{Kind: KindUnavailable, Code: code, Message: message}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func AsBusiness(err error) (BusinessError, bool) {
	var be BusinessError
	ok := errors.As(err, &be)
	return be, ok
}

// IsExclusionConflict reports whether err comes from a unique or exclusion
// constraint guarding appointment slots.
func IsExclusionConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23505 unique_violation, 23P01 exclusion_violation
		return pgErr.Code == "23505" || pgErr.Code == "23P01"
	}
	return false
}
