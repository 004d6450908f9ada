package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/barbershop-booking/internal/audit"
	"github.com/BruksfildServices01/barbershop-booking/internal/cache"
	"github.com/BruksfildServices01/barbershop-booking/internal/config"
	dbpkg "github.com/BruksfildServices01/barbershop-booking/internal/db"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/infra/repository"
	"github.com/BruksfildServices01/barbershop-booking/internal/jobs"
	"github.com/BruksfildServices01/barbershop-booking/internal/logging"
	"github.com/BruksfildServices01/barbershop-booking/internal/middleware"
	"github.com/BruksfildServices01/barbershop-booking/internal/notify"
	"github.com/BruksfildServices01/barbershop-booking/internal/payments"
	"github.com/BruksfildServices01/barbershop-booking/internal/routes"
	"github.com/BruksfildServices01/barbershop-booking/internal/storage"
	"github.com/BruksfildServices01/barbershop-booking/internal/timezone"
	ucWaitlist "github.com/BruksfildServices01/barbershop-booking/internal/usecase/waitlist"
	"github.com/BruksfildServices01/barbershop-booking/internal/validators"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ======================================================
	// 1️⃣ CONFIG + LOG
	// ======================================================
	cfg, err := config.Load()
	if err != nil {
		boot := zerolog.New(os.Stderr)
		boot.Fatal().Err(err).Msg("config load failed")
	}

	log := logging.New(cfg.Env)
	httperr.HideInternal = cfg.IsProduction()
	timezone.SetDefault(cfg.Policy.Timezone)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// ======================================================
	// 2️⃣ DATABASE + REDIS
	// ======================================================
	db, err := dbpkg.NewDB(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("database init failed")
	}

	validators.Register()

	rdb, err := cache.NewClient(ctx, cfg)
	if err != nil {
		// cache é opcional: segue sem redis
		log.Warn().Err(err).Msg("redis unavailable, running without cache")
		rdb = nil
	}

	// ======================================================
	// 3️⃣ NOTIFICAÇÕES + FILA
	// ======================================================
	notifier := buildNotifier(cfg, log)

	queue := jobs.NewQueue(log, cfg.Policy.Jobs.QueueSize, cfg.Policy.Jobs.Workers, cfg.Policy.Jobs.MaxAttempts)
	// a fila vive além do sinal para drenar no Stop
	queue.Start(context.Background())

	auditDispatcher := audit.NewDispatcher(audit.New(db), log)

	// ======================================================
	// 4️⃣ STORAGE + PAGAMENTOS (opcionais)
	// ======================================================
	var images *storage.Images
	if s3 := storage.NewS3Store(cfg); s3 != nil {
		images = storage.NewImages(s3, 0)
	} else {
		log.Info().Msg("S3_BUCKET not set, image uploads disabled")
	}

	var checkout *payments.Checkout
	if cfg.MercadoPago.AccessToken != "" {
		checkout, err = payments.NewCheckout(cfg.MercadoPago.AccessToken, cfg.MercadoPago.BackURL)
		if err != nil {
			log.Warn().Err(err).Msg("mercadopago init failed, checkout disabled")
			checkout = nil
		}
	}

	// ======================================================
	// 5️⃣ JOBS AGENDADOS (lista de espera)
	// ======================================================
	scheduler := jobs.NewScheduler(log, timezone.Business())
	waitlistRepo := repository.NewWaitlistGormRepository(db)
	opts := routes.WaitlistOptions(cfg)

	clean := ucWaitlist.NewCleanExpiredEntries(waitlistRepo)
	revert := ucWaitlist.NewCheckNotificationExpiry(waitlistRepo, opts)

	if err := scheduler.Add(cfg.Policy.Waitlist.CleanupCron,
		jobs.Task{Name: "waitlist_clean_expired", Run: clean.Execute},
		jobs.Task{Name: "waitlist_notification_expiry", Run: revert.Execute},
	); err != nil {
		log.Fatal().Err(err).Str("spec", cfg.Policy.Waitlist.CleanupCron).Msg("invalid cleanup cron")
	}
	scheduler.Start()

	// ======================================================
	// 6️⃣ HTTP
	// ======================================================
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	routes.RegisterRoutes(r, routes.Infra{
		DB:       db,
		Config:   cfg,
		Log:      log,
		Redis:    rdb,
		Notifier: notifier,
		Queue:    queue,
		Images:   images,
		Checkout: checkout,
		Audit:    auditDispatcher,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Str("env", cfg.Env).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	scheduler.Stop()
	queue.Stop()
	auditDispatcher.Close()

	if rdb != nil {
		_ = rdb.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// buildNotifier sends email when SMTP is configured and falls back to the
// log otherwise; SMS rides along as a secondary channel.
func buildNotifier(cfg *config.Config, log zerolog.Logger) notify.Notifier {
	var primary notify.Notifier = notify.NewLogNotifier(log)
	if cfg.SMTP.Host != "" {
		primary = notify.NewEmailNotifier(notify.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		}, cfg.Policy.NotificationWindow(), log)
	}

	var secondary []notify.Notifier
	if cfg.Twilio.AccountSID != "" {
		secondary = append(secondary, notify.NewSMSNotifier(
			cfg.Twilio.AccountSID,
			cfg.Twilio.AuthToken,
			cfg.Twilio.From,
			log,
		))
	}

	return notify.NewFanout(log, primary, secondary...)
}
