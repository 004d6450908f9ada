package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/barbershop-booking/internal/audit"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/httpresp"
	"github.com/BruksfildServices01/barbershop-booking/internal/logging"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
	"github.com/BruksfildServices01/barbershop-booking/internal/report"
	"github.com/BruksfildServices01/barbershop-booking/internal/storage"
	"github.com/BruksfildServices01/barbershop-booking/internal/timezone"
	"github.com/BruksfildServices01/barbershop-booking/internal/usecase/appointment"
	"github.com/BruksfildServices01/barbershop-booking/internal/validators"
)

// ======================================================
// HANDLER
// ======================================================

type BarberHandler struct {
	db      *gorm.DB
	images  *storage.Images
	reports *report.Service
	list    *appointment.ListAppointments
	audit   *audit.Dispatcher

	// emailDomainOK is swapped in tests; the real check does an MX lookup.
	emailDomainOK func(email string) bool
}

func NewBarberHandler(
	db *gorm.DB,
	images *storage.Images,
	reports *report.Service,
	list *appointment.ListAppointments,
	audit *audit.Dispatcher,
) *BarberHandler {
	return &BarberHandler{
		db:            db,
		images:        images,
		reports:       reports,
		list:          list,
		audit:         audit,
		emailDomainOK: validators.IsEmailDomainValid,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBarberRequest struct {
	Name          string   `json:"name" binding:"required,max=100"`
	Active        *bool    `json:"active"`
	Phone         string   `json:"phone" binding:"max=30"`
	Email         string   `json:"email" binding:"omitempty,email,max=255"`
	EarningsType  string   `json:"earnings_type" binding:"omitempty,oneof=FIXED PERCENTAGE"`
	EarningsValue *float64 `json:"earnings_value" binding:"omitempty,min=0"`
}

type UpdateBarberRequest struct {
	Name          *string  `json:"name" binding:"omitempty,min=1,max=100"`
	Active        *bool    `json:"active"`
	Phone         *string  `json:"phone" binding:"omitempty,max=30"`
	Email         *string  `json:"email" binding:"omitempty,email,max=255"`
	EarningsType  *string  `json:"earnings_type" binding:"omitempty,oneof=FIXED PERCENTAGE"`
	EarningsValue *float64 `json:"earnings_value" binding:"omitempty,min=0"`
}

type CreateUserAccessRequest struct {
	Email    string `json:"email" binding:"required,email,max=100"`
	Password string `json:"password" binding:"required,min=6"`
}

type ChangePasswordRequest struct {
	Password string `json:"password" binding:"required,min=6"`
}

// barberRow adds today's appointment count to the admin list.
type barberRow struct {
	models.Barber
	AppointmentsToday int64 `json:"appointments_today"`
}

// ======================================================
// HELPERS
// ======================================================

func (h *BarberHandler) load(c *gin.Context) (*models.Barber, bool) {
	id, err := idParam(c, "id")
	if err != nil {
		httperr.Respond(c, err)
		return nil, false
	}

	var barber models.Barber
	if err := h.db.WithContext(c.Request.Context()).First(&barber, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "BARBER_NOT_FOUND", "barber not found")
			return nil, false
		}
		httperr.Respond(c, err)
		return nil, false
	}
	return &barber, true
}

// ======================================================
// CRUD
// ======================================================

func (h *BarberHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	var barbers []models.Barber
	if err := h.db.WithContext(ctx).Order("name ASC").Find(&barbers).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	dayFrom := startOfDay(timezone.Now())
	dayTo := dayFrom.AddDate(0, 0, 1)

	var counts []struct {
		BarberID uint
		Total    int64
	}
	if err := h.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Select("barber_id, COUNT(*) AS total").
		Where("starts_at >= ? AND starts_at < ?", dayFrom, dayTo).
		Group("barber_id").
		Scan(&counts).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	today := make(map[uint]int64, len(counts))
	for _, row := range counts {
		today[row.BarberID] = row.Total
	}

	rows := make([]barberRow, 0, len(barbers))
	for _, b := range barbers {
		rows = append(rows, barberRow{Barber: b, AppointmentsToday: today[b.ID]})
	}

	httpresp.List(c, rows)
}

func (h *BarberHandler) Show(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	var barber models.Barber
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Schedules", func(db *gorm.DB) *gorm.DB { return db.Order("weekday ASC") }).
		Preload("TimeOff", func(db *gorm.DB) *gorm.DB { return db.Order("starts_at ASC") }).
		First(&barber, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "BARBER_NOT_FOUND", "barber not found")
			return
		}
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, barber)
}

func (h *BarberHandler) Create(c *gin.Context) {
	var req CreateBarberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, validators.BindingError(err))
		return
	}

	barber := models.Barber{
		Name:          strings.TrimSpace(req.Name),
		Active:        true,
		Phone:         req.Phone,
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		EarningsType:  models.EarningsPercentage,
		EarningsValue: 0,
	}
	if req.Active != nil {
		barber.Active = *req.Active
	}
	if req.EarningsType != "" {
		barber.EarningsType = req.EarningsType
	}
	if req.EarningsValue != nil {
		barber.EarningsValue = *req.EarningsValue
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&barber).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	writeAudit(c, h.audit, "barber_created", "barber", &barber.ID, nil)

	httpresp.Created(c, gin.H{"barber": barber})
}

func (h *BarberHandler) Update(c *gin.Context) {
	barber, ok := h.load(c)
	if !ok {
		return
	}

	var req UpdateBarberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, validators.BindingError(err))
		return
	}

	if req.Name != nil {
		barber.Name = strings.TrimSpace(*req.Name)
	}
	if req.Active != nil {
		barber.Active = *req.Active
	}
	if req.Phone != nil {
		barber.Phone = *req.Phone
	}
	if req.Email != nil {
		barber.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.EarningsType != nil {
		barber.EarningsType = *req.EarningsType
	}
	if req.EarningsValue != nil {
		barber.EarningsValue = *req.EarningsValue
	}

	if err := h.db.WithContext(c.Request.Context()).Save(barber).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	writeAudit(c, h.audit, "barber_updated", "barber", &barber.ID, nil)

	httpresp.OK(c, gin.H{"barber": barber})
}

// Delete refuses barbers with any appointment history; deactivate them instead.
func (h *BarberHandler) Delete(c *gin.Context) {
	barber, ok := h.load(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var count int64
	if err := h.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("barber_id = ?", barber.ID).
		Count(&count).Error; err != nil {
		httperr.Respond(c, err)
		return
	}
	if count > 0 {
		httperr.Respond(c, httperr.Conflict("BARBER_HAS_APPOINTMENTS", "barber has appointments; deactivate it instead"))
		return
	}

	if err := h.db.WithContext(ctx).Select(clause.Associations).Delete(barber).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	if err := h.images.Remove(ctx, barber.AvatarPath); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("key", barber.AvatarPath).Msg("avatar delete failed")
	}

	writeAudit(c, h.audit, "barber_deleted", "barber", &barber.ID, nil)

	httpresp.OK(c, gin.H{"message": "Barbero eliminado"})
}

// ======================================================
// APPOINTMENTS / EARNINGS
// ======================================================

func (h *BarberHandler) Appointments(c *gin.Context) {
	barber, ok := h.load(c)
	if !ok {
		return
	}

	page := pageParam(c)
	apps, total, err := h.list.Execute(c.Request.Context(), appointment.ListAppointmentsInput{
		Status:   c.Query("status"),
		BarberID: barber.ID,
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

// Earnings defaults to the current calendar month.
func (h *BarberHandler) Earnings(c *gin.Context) {
	barber, ok := h.load(c)
	if !ok {
		return
	}

	monthFrom := startOfMonth(timezone.Now())
	monthLast := monthFrom.AddDate(0, 1, -1)

	from, to, err := dateRange(c, "from", "to", monthFrom, monthLast)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	earnings, err := h.reports.Earnings(c.Request.Context(), barber, from, to)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, earnings)
}

// ======================================================
// USER ACCESS
// ======================================================

func (h *BarberHandler) CreateUserAccess(c *gin.Context) {
	barber, ok := h.load(c)
	if !ok {
		return
	}

	var req CreateUserAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, validators.BindingError(err))
		return
	}

	if barber.UserID != nil {
		httperr.Respond(c, httperr.Conflict("BARBER_HAS_USER", "barber already has a user"))
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !h.emailDomainOK(email) {
		httperr.Respond(c, httperr.ValidationDetails(map[string]string{"email": "domain"}))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	user := models.User{
		Name:         barber.Name,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         models.RoleBarber,
	}

	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var taken int64
		if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return httperr.Conflict("EMAIL_TAKEN", "email already in use")
		}

		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return tx.Model(barber).Update("user_id", user.ID).Error
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	writeAudit(c, h.audit, "barber_access_created", "barber", &barber.ID, map[string]any{"user_id": user.ID})

	httpresp.OK(c, gin.H{
		"message": "Acceso creado exitosamente",
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

// ChangePassword also bumps the token version, logging the barber out everywhere.
func (h *BarberHandler) ChangePassword(c *gin.Context) {
	barber, ok := h.load(c)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, validators.BindingError(err))
		return
	}

	if barber.UserID == nil {
		httperr.Respond(c, httperr.Conflict("BARBER_HAS_NO_USER", "barber has no user"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	res := h.db.WithContext(c.Request.Context()).
		Model(&models.User{}).
		Where("id = ?", *barber.UserID).
		Updates(map[string]any{
			"password_hash": string(hashed),
			"token_version": gorm.Expr("token_version + 1"),
		})
	if res.Error != nil {
		httperr.Respond(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "USER_NOT_FOUND", "user not found")
		return
	}

	writeAudit(c, h.audit, "barber_password_changed", "barber", &barber.ID, nil)

	httpresp.OK(c, gin.H{"message": "Contraseña actualizada exitosamente"})
}

// ======================================================
// AVATAR
// ======================================================

func (h *BarberHandler) UploadAvatar(c *gin.Context) {
	barber, ok := h.load(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	key, url, err := uploadFormImage(c, h.images, "avatar", "avatars")
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	old := barber.AvatarPath
	if err := h.db.WithContext(ctx).Model(barber).Updates(map[string]any{
		"avatar_path": key,
		"avatar_url":  url,
	}).Error; err != nil {
		_ = h.images.Remove(ctx, key)
		httperr.Respond(c, err)
		return
	}

	if err := h.images.Remove(ctx, old); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("key", old).Msg("old avatar delete failed")
	}

	writeAudit(c, h.audit, "barber_avatar_uploaded", "barber", &barber.ID, nil)

	httpresp.OK(c, gin.H{
		"message":    "Foto actualizada exitosamente",
		"avatar_url": url,
	})
}

func (h *BarberHandler) RemoveAvatar(c *gin.Context) {
	barber, ok := h.load(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if barber.AvatarPath != "" || barber.AvatarURL != "" {
		if err := h.images.Remove(ctx, barber.AvatarPath); err != nil {
			logging.FromContext(ctx).Warn().Err(err).Str("key", barber.AvatarPath).Msg("avatar delete failed")
		}

		if err := h.db.WithContext(ctx).Model(barber).Updates(map[string]any{
			"avatar_path": "",
			"avatar_url":  "",
		}).Error; err != nil {
			httperr.Respond(c, err)
			return
		}
	}

	httpresp.OK(c, gin.H{"message": "Foto eliminada exitosamente"})
}
