package handlers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barbershop-booking/internal/audit"
	"github.com/BruksfildServices01/barbershop-booking/internal/config"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/httpresp"
	"github.com/BruksfildServices01/barbershop-booking/internal/logging"
	"github.com/BruksfildServices01/barbershop-booking/internal/middleware"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
	"github.com/BruksfildServices01/barbershop-booking/internal/validators"
)

// Revoker blacklists a token id until it expires.
type Revoker interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
}

type AuthHandler struct {
	db      *gorm.DB
	config  *config.Config
	revoker Revoker
	audit   *audit.Dispatcher
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config, revoker Revoker, audit *audit.Dispatcher) *AuthHandler {
	return &AuthHandler{db: db, config: cfg, revoker: revoker, audit: audit}
}

// --------- Requests ---------

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, validators.BindingError(err))
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Where("email = ?", email).
		First(&user).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "INVALID_CREDENTIALS", "invalid credentials")
			return
		}
		httperr.Respond(c, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "INVALID_CREDENTIALS", "invalid credentials")
		return
	}

	token, exp, err := middleware.IssueToken(h.config.JWTSecret, &user, h.config.JWTTTL)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &user.ID,
		Action:   "login",
		Entity:   "user",
		EntityID: &user.ID,
	})

	httpresp.OK(c, gin.H{
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
		"token":      token,
		"expires_at": exp,
	})
}

// Logout blacklists the current token id. Without redis the client just drops it.
func (h *AuthHandler) Logout(c *gin.Context) {
	jti := c.GetString(middleware.ContextTokenID)
	exp, _ := c.Get(middleware.ContextTokenExp)
	until, _ := exp.(time.Time)

	if h.revoker != nil {
		if err := h.revoker.Revoke(c.Request.Context(), jti, until); err != nil {
			// o token continua válido até expirar; não bloqueia o logout
			logging.FromContext(c.Request.Context()).Warn().Err(err).Msg("token revocation failed")
		}
	}

	writeAudit(c, h.audit, "logout", "user", actorID(c), nil)

	httpresp.OK(c, gin.H{"message": "Sesión cerrada exitosamente"})
}
