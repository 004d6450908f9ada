package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barbershop-booking/internal/db/dbtest"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
	"github.com/BruksfildServices01/barbershop-booking/internal/report"
	"github.com/BruksfildServices01/barbershop-booking/internal/timezone"
	"github.com/BruksfildServices01/barbershop-booking/internal/validators"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	timezone.SetDefault("UTC")
	validators.Register()
	os.Exit(m.Run())
}

func barberRouter(db *gorm.DB, domainOK bool) *gin.Engine {
	h := NewBarberHandler(db, nil, report.NewService(db), nil, nil)
	h.emailDomainOK = func(string) bool { return domainOK }

	r := gin.New()
	r.POST("/barbers", h.Create)
	r.PUT("/barbers/:id", h.Update)
	r.POST("/barbers/:id/create-user-access", h.CreateUserAccess)
	r.POST("/barbers/:id/change-password", h.ChangePassword)
	r.POST("/barbers/:id/upload-avatar", h.UploadAvatar)
	return r
}

func send(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	_ = json.NewEncoder(&buf).Encode(body)

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateBarber(t *testing.T) {
	db := dbtest.Open(t)
	r := barberRouter(db, true)

	w := send(r, http.MethodPost, "/barbers", gin.H{"name": "Juan", "earnings_type": "HOURLY"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"earnings_type":"oneof"`)

	w = send(r, http.MethodPost, "/barbers", gin.H{"name": "Juan", "earnings_type": "FIXED", "earnings_value": 2000})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var b models.Barber
	require.NoError(t, db.Where("name = ?", "Juan").First(&b).Error)
	assert.Equal(t, models.EarningsFixed, b.EarningsType)
	assert.True(t, b.Active)

	w = send(r, http.MethodPut, fmt.Sprintf("/barbers/%d", b.ID), gin.H{"active": false})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	require.NoError(t, db.First(&b, b.ID).Error)
	assert.False(t, b.Active)
}

func TestCreateUserAccess(t *testing.T) {
	db := dbtest.Open(t)
	barber := dbtest.SeedBarber(t, db, "Juan")
	path := fmt.Sprintf("/barbers/%d/create-user-access", barber.ID)

	w := send(barberRouter(db, false), http.MethodPost, path, gin.H{"email": "juan@nowhere.invalid", "password": "secret123"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"email":"domain"`)

	r := barberRouter(db, true)

	w = send(r, http.MethodPost, path, gin.H{"email": "Juan@Example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var user models.User
	require.NoError(t, db.Where("email = ?", "juan@example.com").First(&user).Error)
	assert.Equal(t, models.RoleBarber, user.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")))

	require.NoError(t, db.First(barber, barber.ID).Error)
	require.NotNil(t, barber.UserID)
	assert.Equal(t, user.ID, *barber.UserID)

	w = send(r, http.MethodPost, path, gin.H{"email": "other@example.com", "password": "secret123"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "BARBER_HAS_USER")

	// e-mail já usado por outro usuário
	other := dbtest.SeedBarber(t, db, "Pedro")
	w = send(r, http.MethodPost, fmt.Sprintf("/barbers/%d/create-user-access", other.ID),
		gin.H{"email": "juan@example.com", "password": "secret123"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "EMAIL_TAKEN")
}

func TestChangePasswordBumpsTokenVersion(t *testing.T) {
	db := dbtest.Open(t)
	r := barberRouter(db, true)
	barber := dbtest.SeedBarber(t, db, "Juan")
	path := fmt.Sprintf("/barbers/%d/change-password", barber.ID)

	w := send(r, http.MethodPost, path, gin.H{"password": "newsecret"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "BARBER_HAS_NO_USER")

	user := &models.User{Name: "Juan", Email: "juan@example.com", PasswordHash: "x", Role: models.RoleBarber}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Model(barber).Update("user_id", user.ID).Error)

	w = send(r, http.MethodPost, path, gin.H{"password": "123"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = send(r, http.MethodPost, path, gin.H{"password": "newsecret"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	require.NoError(t, db.First(user, user.ID).Error)
	assert.Equal(t, 1, user.TokenVersion)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("newsecret")))
}

func TestUploadAvatarWithoutStorage(t *testing.T) {
	db := dbtest.Open(t)
	barber := dbtest.SeedBarber(t, db, "Juan")

	w := send(barberRouter(db, true), http.MethodPost, fmt.Sprintf("/barbers/%d/upload-avatar", barber.ID), nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "STORAGE_DISABLED")
}

func TestBarberNotFound(t *testing.T) {
	db := dbtest.Open(t)

	w := send(barberRouter(db, true), http.MethodPost, "/barbers/99/change-password", gin.H{"password": "newsecret"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "BARBER_NOT_FOUND")

	w = send(barberRouter(db, true), http.MethodPost, "/barbers/abc/change-password", gin.H{"password": "newsecret"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_ID")
}
