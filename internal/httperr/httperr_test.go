package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	cases := map[Kind]int{
		KindValidation:     422,
		KindConflict:       422,
		KindNotFound:       404,
		KindAuthentication: 401,
		KindAuthorization:  403,
		KindRateLimited:    429,
		KindUnavailable:    503,
		KindServer:         500,
	}
	for k, want := range cases {
		assert.Equal(t, want, StatusFor(k))
	}
}

func TestIsBusinessUnwraps(t *testing.T) {
	err := fmt.Errorf("create: %w", Conflict("BOOKING_FAILED", "slot taken"))

	assert.True(t, IsBusiness(err, "BOOKING_FAILED"))
	assert.False(t, IsBusiness(err, "INVALID_STATE"))
	assert.False(t, IsBusiness(errors.New("boom"), "BOOKING_FAILED"))
}

func TestIsExclusionConflict(t *testing.T) {
	assert.True(t, IsExclusionConflict(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.True(t, IsExclusionConflict(&pgconn.PgError{Code: "23P01"}))
	assert.False(t, IsExclusionConflict(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsExclusionConflict(errors.New("other")))
}

func respond(err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	Respond(c, err)
	return w
}

func TestRespondBusinessEnvelope(t *testing.T) {
	w := respond(ValidationDetails(map[string]string{"date": "required"}))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var body struct {
		OK    bool      `json:"ok"`
		Error HTTPError `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.OK)
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	assert.Equal(t, "required", body.Error.Details["date"])
}

func TestRespondHidesInternalMessage(t *testing.T) {
	HideInternal = true
	defer func() { HideInternal = false }()

	w := respond(errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "SERVER_ERROR")
	assert.NotContains(t, w.Body.String(), "connection refused")
}
