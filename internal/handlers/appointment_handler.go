package handlers

import (
	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/httpresp"
	"github.com/BruksfildServices01/barbershop-booking/internal/payments"
	"github.com/BruksfildServices01/barbershop-booking/internal/usecase/appointment"
	"github.com/BruksfildServices01/barbershop-booking/internal/validators"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	availability *appointment.GetAvailability
	create       *appointment.CreateAppointment
	get          *appointment.GetAppointment
	list         *appointment.ListAppointments
	updateStatus *appointment.UpdateAppointmentStatus
	checkout     *payments.Checkout
}

func NewAppointmentHandler(
	availability *appointment.GetAvailability,
	create *appointment.CreateAppointment,
	get *appointment.GetAppointment,
	list *appointment.ListAppointments,
	updateStatus *appointment.UpdateAppointmentStatus,
	checkout *payments.Checkout,
) *AppointmentHandler {
	return &AppointmentHandler{
		availability: availability,
		create:       create,
		get:          get,
		list:         list,
		updateStatus: updateStatus,
		checkout:     checkout,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type AvailabilityQuery struct {
	Date      string `form:"date" json:"date" binding:"required,date"`
	ServiceID uint   `form:"service_id" json:"service_id"`
	BarberID  uint   `form:"barber_id" json:"barber_id"`
}

type CreateAppointmentRequest struct {
	ServiceID   uint   `json:"service_id" binding:"required"`
	BarberID    uint   `json:"barber_id" binding:"required"`
	Date        string `json:"date" binding:"required,date"` // YYYY-MM-DD
	Time        string `json:"time" binding:"required,hhmm"` // HH:mm
	ClientName  string `json:"client_name" binding:"required,min=2,max=255"`
	ClientPhone string `json:"client_phone" binding:"required,phone"`
	ClientEmail string `json:"client_email" binding:"omitempty,email,max=255"`
	Notes       string `json:"notes" binding:"max=500"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=PENDING CONFIRMED CANCELLED DONE"`
	Date   string `json:"date" binding:"omitempty,date"`
	Time   string `json:"time" binding:"omitempty,hhmm"`
}

// ======================================================
// PUBLIC
// ======================================================

func (h *AppointmentHandler) Availability(c *gin.Context) {
	var q AvailabilityQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.Respond(c, validators.BindingError(err))
		return
	}

	res, err := h.availability.Execute(c.Request.Context(), domain.AvailabilityInput{
		Date:      q.Date,
		ServiceID: q.ServiceID,
		BarberID:  q.BarberID,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"date":      res.Date,
		"barber_id": res.BarberID,
		"slots":     res.Slots,
	})
}

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, validators.BindingError(err))
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), appointment.CreateAppointmentInput{
		ServiceID:   req.ServiceID,
		BarberID:    req.BarberID,
		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
		ClientEmail: req.ClientEmail,
		Date:        req.Date,
		Time:        req.Time,
		Notes:       req.Notes,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, gin.H{
		"appointment": ap,
		"message":     "¡Turno reservado exitosamente!",
	})
}

func (h *AppointmentHandler) ShowByCode(c *gin.Context) {
	ap, err := h.get.ByCode(c.Request.Context(), c.Param("public_code"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, ap)
}

// Checkout returns a MercadoPago link to pay the appointment's service.
func (h *AppointmentHandler) Checkout(c *gin.Context) {
	ap, err := h.get.ByCode(c.Request.Context(), c.Param("public_code"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	link, err := h.checkout.Link(c.Request.Context(), ap)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, link)
}

// ======================================================
// ADMIN
// ======================================================

func (h *AppointmentHandler) List(c *gin.Context) {
	barberID, err := optionalUint(c, "barber_id")
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	page := pageParam(c)
	apps, total, err := h.list.Execute(c.Request.Context(), appointment.ListAppointmentsInput{
		Status:   c.Query("status"),
		BarberID: barberID,
		From:     c.Query("from"),
		To:       c.Query("to"),
		Page:     page,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Page(c, apps, total, page, 20)
}

func (h *AppointmentHandler) Show(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	ap, err := h.get.ByID(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, validators.BindingError(err))
		return
	}

	ap, err := h.updateStatus.Execute(c.Request.Context(), appointment.UpdateStatusInput{
		AppointmentID: id,
		Status:        req.Status,
		Date:          req.Date,
		Time:          req.Time,
		UserID:        actorID(c),
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
