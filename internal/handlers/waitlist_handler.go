package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/httpresp"
	"github.com/BruksfildServices01/barbershop-booking/internal/usecase/waitlist"
	"github.com/BruksfildServices01/barbershop-booking/internal/validators"
)

// ======================================================
// HANDLER
// ======================================================

type WaitlistHandler struct {
	add     *waitlist.AddToWaitlist
	manage  *waitlist.ManageWaitlist
	convert *waitlist.ConvertToAppointment
}

func NewWaitlistHandler(
	add *waitlist.AddToWaitlist,
	manage *waitlist.ManageWaitlist,
	convert *waitlist.ConvertToAppointment,
) *WaitlistHandler {
	return &WaitlistHandler{add: add, manage: manage, convert: convert}
}

// ======================================================
// REQUESTS
// ======================================================

type JoinWaitlistRequest struct {
	ClientName  string `json:"client_name" binding:"required,max=255"`
	ClientPhone string `json:"client_phone" binding:"required,max=20"`
	ClientEmail string `json:"client_email" binding:"omitempty,email,max=255"`

	ServiceID uint  `json:"service_id" binding:"required"`
	BarberID  *uint `json:"barber_id"`

	PreferredDate      string `json:"preferred_date" binding:"required,date"`
	PreferredTimeStart string `json:"preferred_time_start" binding:"omitempty,hhmm"`
	PreferredTimeEnd   string `json:"preferred_time_end" binding:"omitempty,hhmm"`
}

type ConfirmWaitlistRequest struct {
	BarberID uint   `json:"barber_id" binding:"required"`
	StartsAt string `json:"starts_at" binding:"required"`
	EndsAt   string `json:"ends_at"`
}

// ======================================================
// PUBLIC
// ======================================================

func (h *WaitlistHandler) Join(c *gin.Context) {
	var req JoinWaitlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, validators.BindingError(err))
		return
	}

	entry, err := h.add.Execute(c.Request.Context(), waitlist.AddInput{
		ClientName:         req.ClientName,
		ClientPhone:        req.ClientPhone,
		ClientEmail:        req.ClientEmail,
		ServiceID:          req.ServiceID,
		BarberID:           req.BarberID,
		PreferredDate:      req.PreferredDate,
		PreferredTimeStart: req.PreferredTimeStart,
		PreferredTimeEnd:   req.PreferredTimeEnd,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, gin.H{
		"entry":   entry,
		"message": "¡Te agregamos a la lista de espera! Te notificaremos cuando haya un turno disponible.",
	})
}

func (h *WaitlistHandler) Show(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	entry, err := h.manage.Get(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, entry)
}

func (h *WaitlistHandler) Cancel(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if err := h.manage.Cancel(c.Request.Context(), id); err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, gin.H{"message": "Eliminado de lista de espera correctamente"})
}

// Confirm turns a NOTIFIED entry into a CONFIRMED appointment.
func (h *WaitlistHandler) Confirm(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	var req ConfirmWaitlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, validators.BindingError(err))
		return
	}

	ap, err := h.convert.Execute(c.Request.Context(), waitlist.ConvertInput{
		EntryID:  id,
		BarberID: req.BarberID,
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, gin.H{
		"appointment": ap,
		"message":     "¡Turno confirmado exitosamente!",
	})
}

// ======================================================
// ADMIN
// ======================================================

func (h *WaitlistHandler) List(c *gin.Context) {
	serviceID, err := optionalUint(c, "service_id")
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	res, err := h.manage.List(c.Request.Context(), waitlist.ListInput{
		Status:    c.Query("status"),
		Date:      c.Query("date"),
		ServiceID: serviceID,
		Page:      pageParam(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Page(c, res.Items, res.Total, res.Page, res.PerPage)
}

func (h *WaitlistHandler) Stats(c *gin.Context) {
	stats, err := h.manage.Stats(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, stats)
}
