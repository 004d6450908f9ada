package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbershop-booking/internal/logging"
)

type HTTPError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

type envelope struct {
	OK    bool      `json:"ok"`
	Error HTTPError `json:"error"`
}

// HideInternal suppresses server error messages in responses.
var HideInternal bool

func StatusFor(k Kind) int {
	switch k {
	case KindValidation, KindConflict:
		return http.StatusUnprocessableEntity
	case KindNotFound:
		return http.StatusNotFound
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func Write(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, envelope{
		Error: HTTPError{Code: code, Message: message},
	})
}

// Respond translates any error into the error envelope.
func Respond(c *gin.Context, err error) {
	if be, ok := AsBusiness(err); ok && be.Kind != KindServer {
		c.AbortWithStatusJSON(StatusFor(be.Kind), envelope{
			Error: HTTPError{Code: be.Code, Message: be.Message, Details: be.Details},
		})
		return
	}

	log := logging.FromContext(c.Request.Context())
	log.Error().Err(err).
		Str("method", c.Request.Method).
		Str("path", c.FullPath()).
		Msg("unhandled error")

	msg := err.Error()
	if HideInternal {
		msg = "internal server error"
	}
	Internal(c, "SERVER_ERROR", msg)
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusUnprocessableEntity, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

func TooManyRequests(c *gin.Context) {
	Write(c, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests")
}
