package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/httpresp"
	"github.com/BruksfildServices01/barbershop-booking/internal/report"
	"github.com/BruksfildServices01/barbershop-booking/internal/timezone"
	"github.com/BruksfildServices01/barbershop-booking/internal/usecase/appointment"
	"github.com/BruksfildServices01/barbershop-booking/internal/validators"
)

// ======================================================
// HANDLER
// ======================================================

// BarberPanelHandler is the barber's own view. Every route resolves the
// barber from the logged-in user and only touches that barber's agenda.
type BarberPanelHandler struct {
	db           *gorm.DB
	reports      *report.Service
	list         *appointment.ListAppointments
	byDate       *appointment.ListAppointmentsByDate
	byMonth      *appointment.ListAppointmentsByMonth
	updateStatus *appointment.UpdateAppointmentStatus
}

func NewBarberPanelHandler(
	db *gorm.DB,
	reports *report.Service,
	list *appointment.ListAppointments,
	byDate *appointment.ListAppointmentsByDate,
	byMonth *appointment.ListAppointmentsByMonth,
	updateStatus *appointment.UpdateAppointmentStatus,
) *BarberPanelHandler {
	return &BarberPanelHandler{
		db:           db,
		reports:      reports,
		list:         list,
		byDate:       byDate,
		byMonth:      byMonth,
		updateStatus: updateStatus,
	}
}

type PanelStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=CONFIRMED CANCELLED"`
}

// ======================================================
// STATS
// ======================================================

func (h *BarberPanelHandler) Stats(c *gin.Context) {
	barber, err := barberForUser(c, h.db)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	stats, err := h.reports.PanelStats(c.Request.Context(), barber.ID, timezone.Now())
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"barber": barber,
		"stats":  stats,
	})
}

// ======================================================
// APPOINTMENTS
// ======================================================

func (h *BarberPanelHandler) Appointments(c *gin.Context) {
	barber, err := barberForUser(c, h.db)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	page := pageParam(c)
	apps, total, err := h.list.Execute(c.Request.Context(), appointment.ListAppointmentsInput{
		Status:   c.Query("status"),
		BarberID: barber.ID,
		From:     c.Query("date_from"),
		To:       c.Query("date_to"),
		Page:     page,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Page(c, apps, total, page, 20)
}

// Agenda lists a day (?date=YYYY-MM-DD) or a month (?month=YYYY-MM).
func (h *BarberPanelHandler) Agenda(c *gin.Context) {
	barber, err := barberForUser(c, h.db)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	ctx := c.Request.Context()

	if month := c.Query("month"); month != "" {
		m, err := time.Parse("2006-01", month)
		if err != nil {
			httperr.Respond(c, httperr.Validation("INVALID_MONTH", "month must be YYYY-MM"))
			return
		}

		items, err := h.byMonth.Execute(ctx, barber.ID, m.Year(), int(m.Month()))
		if err != nil {
			httperr.Respond(c, err)
			return
		}
		httpresp.List(c, items)
		return
	}

	date := c.DefaultQuery("date", timezone.Now().Format("2006-01-02"))
	items, err := h.byDate.Execute(ctx, barber.ID, date)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, items)
}

// UpdateStatus lets a barber confirm or cancel their own appointments only.
func (h *BarberPanelHandler) UpdateStatus(c *gin.Context) {
	barber, err := barberForUser(c, h.db)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	id, err := idParam(c, "id")
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	var req PanelStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, validators.BindingError(err))
		return
	}

	ap, err := h.updateStatus.Execute(c.Request.Context(), appointment.UpdateStatusInput{
		AppointmentID:  id,
		Status:         req.Status,
		UserID:         actorID(c),
		ActingBarberID: &barber.ID,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"appointment": ap,
		"message":     "Estado actualizado correctamente",
	})
}
