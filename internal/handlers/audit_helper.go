package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barbershop-booking/internal/audit"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/middleware"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

// actorID is the authenticated user, nil on public routes.
func actorID(c *gin.Context) *uint {
	v, ok := c.Get(middleware.ContextUserID)
	if !ok {
		return nil
	}
	id, ok := v.(uint)
	if !ok {
		return nil
	}
	return &id
}

func writeAudit(
	c *gin.Context,
	d *audit.Dispatcher,
	action string,
	entity string,
	entityID *uint,
	meta any,
) {
	d.Dispatch(audit.Event{
		UserID:   actorID(c),
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Metadata: meta,
	})
}

// barberForUser resolves the barber profile linked to the logged-in user.
func barberForUser(c *gin.Context, db *gorm.DB) (*models.Barber, error) {
	uid := actorID(c)
	if uid == nil {
		return nil, httperr.Authentication("UNAUTHENTICATED", "missing user")
	}

	var barber models.Barber
	err := db.WithContext(c.Request.Context()).
		Where("user_id = ?", *uid).
		First(&barber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.Authorization("BARBER_PROFILE_NOT_FOUND", "no barber profile for this user")
	}
	if err != nil {
		return nil, err
	}
	return &barber, nil
}
