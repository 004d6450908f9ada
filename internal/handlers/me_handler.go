package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/httpresp"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

// GetMe returns the logged-in user and, for barbers, their profile.
func (h *MeHandler) GetMe(c *gin.Context) {
	uid := actorID(c)
	if uid == nil {
		httperr.Unauthorized(c, "UNAUTHENTICATED", "missing user")
		return
	}

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).First(&user, *uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "INVALID_TOKEN", "user no longer exists")
			return
		}
		httperr.Respond(c, err)
		return
	}

	resp := gin.H{
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	}

	if user.Role == models.RoleBarber {
		if barber, err := barberForUser(c, h.db); err == nil {
			resp["barber"] = barber
		}
	}

	httpresp.OK(c, resp)
}
