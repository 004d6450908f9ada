package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barbershop-booking/internal/audit"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/httpresp"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
	"github.com/BruksfildServices01/barbershop-booking/internal/validators"
)

type ServiceHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewServiceHandler(db *gorm.DB, audit *audit.Dispatcher) *ServiceHandler {
	return &ServiceHandler{db: db, audit: audit}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Title           string   `json:"title" binding:"required,max=255"`
	Description     string   `json:"description" binding:"max=1000"`
	DurationMinutes int      `json:"duration_minutes" binding:"required,oneof=30 60"`
	Price           *float64 `json:"price" binding:"required,min=0,max=999999.99"`
	Active          *bool    `json:"active"`
}

type UpdateServiceRequest struct {
	Title           *string  `json:"title" binding:"omitempty,min=1,max=255"`
	Description     *string  `json:"description" binding:"omitempty,max=1000"`
	DurationMinutes *int     `json:"duration_minutes" binding:"omitempty,oneof=30 60"`
	Price           *float64 `json:"price" binding:"omitempty,min=0,max=999999.99"`
	Active          *bool    `json:"active"`
}

// --------- Handlers ---------

// List shows inactive services too; the admin toggles them.
func (h *ServiceHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context())

	if query := strings.ToLower(strings.TrimSpace(c.Query("query"))); query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	switch c.Query("active") {
	case "true":
		q = q.Where("active = ?", true)
	case "false":
		q = q.Where("active = ?", false)
	}

	var services []models.Service
	if err := q.Order("created_at DESC").Find(&services).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, services)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, validators.BindingError(err))
		return
	}

	svc := models.Service{
		Title:           strings.TrimSpace(req.Title),
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Price:           *req.Price,
		Active:          true,
	}
	if req.Active != nil {
		svc.Active = *req.Active
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&svc).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	writeAudit(c, h.audit, "service_created", "service", &svc.ID, nil)

	httpresp.Created(c, gin.H{
		"service": svc,
		"message": "Servicio creado exitosamente",
	})
}

func (h *ServiceHandler) Update(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	ctx := c.Request.Context()

	var svc models.Service
	if err := h.db.WithContext(ctx).First(&svc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "SERVICE_NOT_FOUND", "service not found")
			return
		}
		httperr.Respond(c, err)
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, validators.BindingError(err))
		return
	}

	if req.Title != nil {
		svc.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.DurationMinutes != nil {
		svc.DurationMinutes = *req.DurationMinutes
	}
	if req.Price != nil {
		svc.Price = *req.Price
	}
	if req.Active != nil {
		svc.Active = *req.Active
	}

	if err := h.db.WithContext(ctx).Save(&svc).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	writeAudit(c, h.audit, "service_updated", "service", &svc.ID, nil)

	httpresp.OK(c, gin.H{
		"service": svc,
		"message": "Servicio actualizado exitosamente",
	})
}

// Delete refuses services referenced by appointments; deactivate them instead.
func (h *ServiceHandler) Delete(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	ctx := c.Request.Context()

	var svc models.Service
	if err := h.db.WithContext(ctx).First(&svc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "SERVICE_NOT_FOUND", "service not found")
			return
		}
		httperr.Respond(c, err)
		return
	}

	var count int64
	if err := h.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("service_id = ?", svc.ID).
		Count(&count).Error; err != nil {
		httperr.Respond(c, err)
		return
	}
	if count > 0 {
		httperr.Respond(c, httperr.Conflict("SERVICE_HAS_APPOINTMENTS", "service has appointments; deactivate it instead"))
		return
	}

	if err := h.db.WithContext(ctx).Delete(&svc).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	writeAudit(c, h.audit, "service_deleted", "service", &svc.ID, nil)

	httpresp.OK(c, gin.H{"message": "Servicio eliminado exitosamente"})
}
