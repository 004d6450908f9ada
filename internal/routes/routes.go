package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barbershop-booking/internal/audit"
	"github.com/BruksfildServices01/barbershop-booking/internal/cache"
	"github.com/BruksfildServices01/barbershop-booking/internal/config"
	domain "github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-booking/internal/handlers"
	infraRepo "github.com/BruksfildServices01/barbershop-booking/internal/infra/repository"
	"github.com/BruksfildServices01/barbershop-booking/internal/jobs"
	"github.com/BruksfildServices01/barbershop-booking/internal/middleware"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
	"github.com/BruksfildServices01/barbershop-booking/internal/notify"
	"github.com/BruksfildServices01/barbershop-booking/internal/payments"
	"github.com/BruksfildServices01/barbershop-booking/internal/report"
	"github.com/BruksfildServices01/barbershop-booking/internal/storage"
	ucAppointment "github.com/BruksfildServices01/barbershop-booking/internal/usecase/appointment"
	ucWaitlist "github.com/BruksfildServices01/barbershop-booking/internal/usecase/waitlist"
)

// Infra carries the process-wide singletons the routes are built from.
// Redis, Queue, Images and Checkout may be nil; the features they back
// then degrade instead of failing.
type Infra struct {
	DB       *gorm.DB
	Config   *config.Config
	Log      zerolog.Logger
	Redis    *redis.Client
	Notifier notify.Notifier
	Queue    *jobs.Queue
	Images   *storage.Images
	Checkout *payments.Checkout
	Audit    *audit.Dispatcher
}

func SlotPolicy(cfg *config.Config) domain.SlotPolicy {
	return domain.SlotPolicy{
		OpenAt:          cfg.Policy.Availability.OpenAt,
		CloseAt:         cfg.Policy.Availability.CloseAt,
		Interval:        cfg.Policy.SlotInterval(),
		EnforceSchedule: cfg.Policy.Availability.EnforceSchedule,
	}
}

func WaitlistOptions(cfg *config.Config) ucWaitlist.Options {
	return ucWaitlist.Options{
		NotificationWindow: cfg.Policy.NotificationWindow(),
		ExpiryDays:         cfg.Policy.WaitlistExpiry(),
	}
}

func RegisterRoutes(r *gin.Engine, in Infra) {
	cfg := in.Config
	db := in.DB

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)
	waitlistRepo := infraRepo.NewWaitlistGormRepository(db)

	availabilityCache := cache.NewAvailabilityCache(in.Redis, cfg.Redis.CacheTTL, in.Log)
	tokenBlacklist := cache.NewTokenBlacklist(in.Redis)

	reports := report.NewService(db)
	policy := SlotPolicy(cfg)
	waitlistOpts := WaitlistOptions(cfg)

	limiter := middleware.NewIPRateLimiter(cfg.Policy.RateLimit.PerMinute, cfg.Policy.RateLimit.Burst)

	// ======================================================
	// 🧠 USE CASES (WAITLIST)
	// ======================================================
	findMatchUC := ucWaitlist.NewFindMatchingWaitlist(waitlistRepo)
	notifyEntryUC := ucWaitlist.NewNotifyWaitlistEntry(waitlistRepo, in.Notifier)
	processCancelledUC := ucWaitlist.NewProcessCancelledAppointment(
		appointmentRepo,
		findMatchUC,
		notifyEntryUC,
		in.Log,
	)

	// sem fila, cancelamentos não disparam a lista de espera
	var listener ucAppointment.CancellationListener
	if in.Queue != nil {
		listener = ucWaitlist.NewCancellationListener(in.Queue, processCancelledUC, in.Log)
	}

	addToWaitlistUC := ucWaitlist.NewAddToWaitlist(waitlistRepo, appointmentRepo, waitlistOpts, in.Audit)
	manageWaitlistUC := ucWaitlist.NewManageWaitlist(waitlistRepo, in.Audit)
	convertUC := ucWaitlist.NewConvertToAppointment(
		waitlistRepo,
		in.Notifier,
		availabilityCache,
		in.Audit,
		waitlistOpts,
	)

	// ======================================================
	// 🧠 USE CASES (APPOINTMENTS)
	// ======================================================
	getAvailabilityUC := ucAppointment.NewGetAvailability(
		appointmentRepo,
		policy,
		ucAppointment.FirstActiveBarber{},
		availabilityCache,
	)
	createAppointmentUC := ucAppointment.NewCreateAppointment(
		appointmentRepo,
		policy,
		availabilityCache,
		in.Audit,
	)
	getAppointmentUC := ucAppointment.NewGetAppointment(appointmentRepo)
	listAppointmentsUC := ucAppointment.NewListAppointments(appointmentRepo)
	updateStatusUC := ucAppointment.NewUpdateAppointmentStatus(
		appointmentRepo,
		policy,
		availabilityCache,
		listener,
		in.Audit,
	)
	listAppointmentsByDateUC := ucAppointment.NewListAppointmentsByDate(appointmentRepo)
	listAppointmentsByMonthUC := ucAppointment.NewListAppointmentsByMonth(appointmentRepo)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	healthHandler := handlers.NewHealthHandler(db, in.Redis)
	publicHandler := handlers.NewPublicHandler(db)

	appointmentHandler := handlers.NewAppointmentHandler(
		getAvailabilityUC,
		createAppointmentUC,
		getAppointmentUC,
		listAppointmentsUC,
		updateStatusUC,
		in.Checkout,
	)
	waitlistHandler := handlers.NewWaitlistHandler(addToWaitlistUC, manageWaitlistUC, convertUC)

	authHandler := handlers.NewAuthHandler(db, cfg, tokenBlacklist, in.Audit)
	meHandler := handlers.NewMeHandler(db)
	barberHandler := handlers.NewBarberHandler(db, in.Images, reports, listAppointmentsUC, in.Audit)
	workingHoursHandler := handlers.NewWorkingHoursHandler(db, availabilityCache, in.Audit)
	serviceHandler := handlers.NewServiceHandler(db, in.Audit)
	galleryHandler := handlers.NewGalleryHandler(db, in.Images, in.Audit)
	clientHandler := handlers.NewClientHandler(reports)
	reportHandler := handlers.NewReportHandler(reports)
	auditLogsHandler := handlers.NewAuditLogsHandler(audit.New(db))

	barberPanelHandler := handlers.NewBarberPanelHandler(
		db,
		reports,
		listAppointmentsUC,
		listAppointmentsByDateUC,
		listAppointmentsByMonthUC,
		updateStatusUC,
	)

	// ======================================================
	// 📈 MÉTRICAS
	// ======================================================
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		api.GET("/health", healthHandler.Check)

		// ------------------------------
		// 🌐 API PÚBLICA
		// ------------------------------
		api.GET("/services", publicHandler.ListServices)
		api.GET("/services/:id", publicHandler.GetService)
		api.GET("/barbers", publicHandler.ListBarbers)
		api.GET("/barbers/:id", publicHandler.GetBarber)
		api.GET("/gallery", publicHandler.ListGallery)

		api.GET("/availability", appointmentHandler.Availability)
		api.GET("/appointments/:public_code", appointmentHandler.ShowByCode)

		api.GET("/waitlist/:id", waitlistHandler.Show)
		api.DELETE("/waitlist/:id", waitlistHandler.Cancel)

		limited := api.Group("/", limiter.Middleware())
		{
			limited.POST("/appointments", appointmentHandler.Create)
			limited.POST("/appointments/:public_code/checkout", appointmentHandler.Checkout)
			limited.POST("/waitlist", waitlistHandler.Join)
			limited.POST("/waitlist/:id/confirm", waitlistHandler.Confirm)
		}

		// ------------------------------
		// 🔐 ADMIN
		// ------------------------------
		admin := api.Group("/admin")
		admin.POST("/login", limiter.Middleware(), authHandler.Login)

		secured := admin.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg.JWTSecret, db, tokenBlacklist))
		{
			secured.POST("/logout", authHandler.Logout)
			secured.GET("/me", meHandler.GetMe)

			// ------------------------------
			// BARBER PANEL
			// ------------------------------
			panel := secured.Group("/barber-panel", middleware.RequireRole(models.RoleBarber))
			{
				panel.GET("/stats", barberPanelHandler.Stats)
				panel.GET("/appointments", barberPanelHandler.Appointments)
				panel.GET("/agenda", barberPanelHandler.Agenda)
				panel.PUT("/appointments/:id/status", barberPanelHandler.UpdateStatus)
			}

			adminOnly := secured.Group("/", middleware.RequireRole(models.RoleAdmin))
			{
				adminOnly.GET("/dashboard/stats", reportHandler.DashboardStats)
				adminOnly.GET("/dashboard/monthly-stats", reportHandler.MonthlyStats)

				adminOnly.GET("/appointments", appointmentHandler.List)
				adminOnly.GET("/appointments/:id", appointmentHandler.Show)
				adminOnly.PUT("/appointments/:id/status", appointmentHandler.UpdateStatus)

				adminOnly.GET("/barbers", barberHandler.List)
				adminOnly.POST("/barbers", barberHandler.Create)
				adminOnly.GET("/barbers/:id", barberHandler.Show)
				adminOnly.PUT("/barbers/:id", barberHandler.Update)
				adminOnly.DELETE("/barbers/:id", barberHandler.Delete)
				adminOnly.POST("/barbers/:id/schedules", workingHoursHandler.UpdateSchedules)
				adminOnly.POST("/barbers/:id/time-off", workingHoursHandler.AddTimeOff)
				adminOnly.DELETE("/barbers/:id/time-off/:timeOffId", workingHoursHandler.DeleteTimeOff)
				adminOnly.GET("/barbers/:id/appointments", barberHandler.Appointments)
				adminOnly.GET("/barbers/:id/earnings", barberHandler.Earnings)
				adminOnly.POST("/barbers/:id/create-user-access", barberHandler.CreateUserAccess)
				adminOnly.POST("/barbers/:id/change-password", barberHandler.ChangePassword)
				adminOnly.POST("/barbers/:id/upload-avatar", barberHandler.UploadAvatar)
				adminOnly.DELETE("/barbers/:id/remove-avatar", barberHandler.RemoveAvatar)

				adminOnly.GET("/clients", clientHandler.List)
				adminOnly.GET("/clients/:phone", clientHandler.Show)

				adminOnly.GET("/services", serviceHandler.List)
				adminOnly.POST("/services", serviceHandler.Create)
				adminOnly.PUT("/services/:id", serviceHandler.Update)
				adminOnly.DELETE("/services/:id", serviceHandler.Delete)

				adminOnly.POST("/gallery", galleryHandler.Create)
				adminOnly.DELETE("/gallery/:id", galleryHandler.Delete)

				adminOnly.GET("/reports", reportHandler.Reports)
				adminOnly.GET("/reports/export", reportHandler.Export)

				adminOnly.GET("/waitlist", waitlistHandler.List)
				adminOnly.GET("/waitlist/stats", waitlistHandler.Stats)

				adminOnly.GET("/audit-logs", auditLogsHandler.List)
			}
		}
	}
}
