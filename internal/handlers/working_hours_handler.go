package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/barbershop-booking/internal/audit"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/httpresp"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
	"github.com/BruksfildServices01/barbershop-booking/internal/timezone"
	"github.com/BruksfildServices01/barbershop-booking/internal/validators"
)

// BarberCache drops cached availability of a barber whose hours changed.
type BarberCache interface {
	InvalidateBarber(ctx context.Context, barberID uint)
}

type WorkingHoursHandler struct {
	db    *gorm.DB
	cache BarberCache
	audit *audit.Dispatcher
}

func NewWorkingHoursHandler(db *gorm.DB, cache BarberCache, audit *audit.Dispatcher) *WorkingHoursHandler {
	return &WorkingHoursHandler{db: db, cache: cache, audit: audit}
}

type WorkingDayConfig struct {
	Weekday    *int   `json:"weekday" binding:"required,min=0,max=6"`
	StartTime  string `json:"start_time" binding:"required,hhmm"`
	EndTime    string `json:"end_time" binding:"required,hhmm"`
	BreakStart string `json:"break_start" binding:"omitempty,hhmm"`
	BreakEnd   string `json:"break_end" binding:"omitempty,hhmm"`
}

type WorkingHoursUpdateRequest struct {
	Schedules []WorkingDayConfig `json:"schedules" binding:"required,dive"`
}

type TimeOffRequest struct {
	StartsAt string `json:"starts_at" binding:"required"`
	EndsAt   string `json:"ends_at" binding:"required"`
	Reason   string `json:"reason" binding:"max=255"`
}

func (h *WorkingHoursHandler) barber(c *gin.Context) (uint, bool) {
	id, err := idParam(c, "id")
	if err != nil {
		httperr.Respond(c, err)
		return 0, false
	}

	var count int64
	if err := h.db.WithContext(c.Request.Context()).
		Model(&models.Barber{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		httperr.Respond(c, err)
		return 0, false
	}
	if count == 0 {
		httperr.NotFound(c, "BARBER_NOT_FOUND", "barber not found")
		return 0, false
	}
	return id, true
}

func (h *WorkingHoursHandler) invalidate(ctx context.Context, barberID uint) {
	if h.cache != nil {
		h.cache.InvalidateBarber(ctx, barberID)
	}
}

// UpdateSchedules upserts one row per weekday; weekdays not sent are kept.
func (h *WorkingHoursHandler) UpdateSchedules(c *gin.Context) {
	barberID, ok := h.barber(c)
	if !ok {
		return
	}

	var req WorkingHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, validators.BindingError(err))
		return
	}

	rows := make([]models.BarberSchedule, 0, len(req.Schedules))
	for i, d := range req.Schedules {
		// HH:MM compara certo como string
		if d.EndTime <= d.StartTime {
			httperr.Respond(c, httperr.ValidationDetails(map[string]string{
				fmt.Sprintf("schedules[%d].end_time", i): "gtfield",
			}))
			return
		}

		// pausa precisa dos dois lados e dentro do expediente
		if (d.BreakStart == "") != (d.BreakEnd == "") ||
			(d.BreakStart != "" && (d.BreakStart >= d.BreakEnd || d.BreakStart < d.StartTime || d.BreakEnd > d.EndTime)) {
			httperr.Respond(c, httperr.ValidationDetails(map[string]string{
				fmt.Sprintf("schedules[%d].break_start", i): "break",
			}))
			return
		}

		rows = append(rows, models.BarberSchedule{
			BarberID:   barberID,
			Weekday:    *d.Weekday,
			StartTime:  d.StartTime,
			EndTime:    d.EndTime,
			BreakStart: d.BreakStart,
			BreakEnd:   d.BreakEnd,
		})
	}

	ctx := c.Request.Context()
	if len(rows) > 0 {
		if err := h.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "barber_id"}, {Name: "weekday"}},
				DoUpdates: clause.AssignmentColumns([]string{"start_time", "end_time", "break_start", "break_end", "updated_at"}),
			}).
			Create(&rows).Error; err != nil {
			httperr.Respond(c, err)
			return
		}
	}

	h.invalidate(ctx, barberID)
	writeAudit(c, h.audit, "barber_schedule_updated", "barber", &barberID, nil)

	var barber models.Barber
	if err := h.db.WithContext(ctx).
		Preload("Schedules", func(db *gorm.DB) *gorm.DB { return db.Order("weekday ASC") }).
		First(&barber, barberID).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, gin.H{"barber": barber})
}

func (h *WorkingHoursHandler) AddTimeOff(c *gin.Context) {
	barberID, ok := h.barber(c)
	if !ok {
		return
	}

	var req TimeOffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, validators.BindingError(err))
		return
	}

	loc := timezone.Business()
	start, err := timezone.ParseTimestamp(req.StartsAt, loc)
	if err != nil {
		httperr.Respond(c, httperr.ValidationDetails(map[string]string{"starts_at": "datetime"}))
		return
	}
	end, err := timezone.ParseTimestamp(req.EndsAt, loc)
	if err != nil {
		httperr.Respond(c, httperr.ValidationDetails(map[string]string{"ends_at": "datetime"}))
		return
	}
	if !end.After(start) {
		httperr.Respond(c, httperr.ValidationDetails(map[string]string{"ends_at": "gtfield"}))
		return
	}

	off := models.BarberTimeOff{
		BarberID: barberID,
		StartsAt: start,
		EndsAt:   end,
		Reason:   req.Reason,
	}

	ctx := c.Request.Context()
	if err := h.db.WithContext(ctx).Create(&off).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	h.invalidate(ctx, barberID)
	writeAudit(c, h.audit, "barber_time_off_added", "barber", &barberID, map[string]any{"time_off_id": off.ID})

	httpresp.Created(c, gin.H{"time_off": off})
}

func (h *WorkingHoursHandler) DeleteTimeOff(c *gin.Context) {
	barberID, ok := h.barber(c)
	if !ok {
		return
	}
	offID, err := idParam(c, "timeOffId")
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	ctx := c.Request.Context()

	var off models.BarberTimeOff
	if err := h.db.WithContext(ctx).
		Where("id = ? AND barber_id = ?", offID, barberID).
		First(&off).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "TIME_OFF_NOT_FOUND", "time off not found")
			return
		}
		httperr.Respond(c, err)
		return
	}

	if err := h.db.WithContext(ctx).Delete(&off).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	h.invalidate(ctx, barberID)
	writeAudit(c, h.audit, "barber_time_off_deleted", "barber", &barberID, map[string]any{"time_off_id": off.ID})

	httpresp.OK(c, gin.H{"message": "Ausencia eliminada"})
}
