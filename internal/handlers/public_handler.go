package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/httpresp"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

// PublicHandler serves the read-only catalog shown on the booking site.
type PublicHandler struct {
	db *gorm.DB
}

func NewPublicHandler(db *gorm.DB) *PublicHandler {
	return &PublicHandler{db: db}
}

////////////////////////////////////////////////////////
// SERVICES
////////////////////////////////////////////////////////

func (h *PublicHandler) ListServices(c *gin.Context) {
	var services []models.Service
	if err := h.db.WithContext(c.Request.Context()).
		Where("active = ?", true).
		Order("title ASC").
		Find(&services).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, services)
}

func (h *PublicHandler) GetService(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	var svc models.Service
	err = h.db.WithContext(c.Request.Context()).First(&svc, id).Error
	// inactivos não aparecem no site
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !svc.Active) {
		httperr.NotFound(c, "SERVICE_NOT_FOUND", "service not available")
		return
	}
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, svc)
}

////////////////////////////////////////////////////////
// BARBERS
////////////////////////////////////////////////////////

func (h *PublicHandler) ListBarbers(c *gin.Context) {
	var barbers []models.Barber
	if err := h.db.WithContext(c.Request.Context()).
		Where("active = ?", true).
		Order("name ASC").
		Find(&barbers).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, barbers)
}

func (h *PublicHandler) GetBarber(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	var barber models.Barber
	err = h.db.WithContext(c.Request.Context()).
		Preload("Schedules").
		First(&barber, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !barber.Active) {
		httperr.NotFound(c, "BARBER_NOT_FOUND", "barber not available")
		return
	}
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, barber)
}

////////////////////////////////////////////////////////
// GALLERY
////////////////////////////////////////////////////////

func (h *PublicHandler) ListGallery(c *gin.Context) {
	var items []models.GalleryItem
	if err := h.db.WithContext(c.Request.Context()).
		Where("active = ?", true).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, items)
}
