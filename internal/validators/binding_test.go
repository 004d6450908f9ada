package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
)

type sample struct {
	Date  string `json:"date" binding:"required,date"`
	Time  string `json:"time" binding:"required,hhmm"`
	Phone string `json:"client_phone" binding:"required,phone"`
	Email string `json:"client_email" binding:"omitempty,email"`
}

func bind(t *testing.T, body string) error {
	t.Helper()

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	var s sample
	return c.ShouldBindJSON(&s)
}

func TestCustomValidators(t *testing.T) {
	Register()
	Register()

	require.NoError(t, bind(t, `{"date":"2026-03-10","time":"14:30","client_phone":"+541155551234"}`))
	require.NoError(t, bind(t, `{"date":"2026-03-10","time":"09:00","client_phone":"11 5555-1234"}`))

	err := bind(t, `{"date":"10/03/2026","time":"2pm","client_phone":"123","client_email":"nope"}`)
	require.Error(t, err)

	be, ok := httperr.AsBusiness(BindingError(err))
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", be.Code)
	assert.Equal(t, map[string]string{
		"date":         "date",
		"time":         "hhmm",
		"client_phone": "phone",
		"client_email": "email",
	}, be.Details)
}

func TestBindingErrorMissingFields(t *testing.T) {
	Register()

	be, ok := httperr.AsBusiness(BindingError(bind(t, `{}`)))
	require.True(t, ok)
	assert.Equal(t, "required", be.Details["date"])
	assert.Equal(t, "required", be.Details["client_phone"])

	be, ok = httperr.AsBusiness(BindingError(bind(t, `{"date":`)))
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", be.Code)
}
