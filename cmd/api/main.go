package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/spinnata-waitlist/internal/config"
	"github.com/xavierca1/spinnata-waitlist/internal/infra/database"
	"github.com/xavierca1/spinnata-waitlist/internal/infra/http/handlers"
	"github.com/xavierca1/spinnata-waitlist/internal/infra/http/middleware"
	"github.com/xavierca1/spinnata-waitlist/internal/infra/integration/mailchimp"
	"github.com/xavierca1/spinnata-waitlist/internal/infra/mail"
	"github.com/xavierca1/spinnata-waitlist/internal/infra/ratelimit"
	"github.com/xavierca1/spinnata-waitlist/internal/infra/worker"
	"github.com/xavierca1/spinnata-waitlist/internal/logger"
	"github.com/xavierca1/spinnata-waitlist/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Environment)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Banco + migrations
	db, driver, err := database.NewDBConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(ctx, db, driver); err != nil {
		log.Fatal("database migration failed", zap.Error(err))
	}

	leadRepo := database.NewLeadRepository(db)

	// 2. Integrações opcionais: só entram se configuradas
	var mailingList usecase.MailingListSubscriber
	if cfg.MailchimpEnabled() {
		mailingList = mailchimp.NewClient(
			cfg.MailchimpAPIKey, cfg.MailchimpAudienceID, cfg.MailchimpServerPrefix,
			mailchimp.WithRatePerSecond(cfg.MailchimpRatePerSec),
		)
	} else {
		log.Info("mailchimp not configured, skipping mailing list signup")
	}

	var notifier usecase.LeadNotifier
	if cfg.SMTPEnabled() {
		notifier = mail.NewEmailSender(mail.EmailSender{
			Host:     cfg.MailHost,
			Port:     cfg.MailPort,
			User:     cfg.MailUser,
			Password: cfg.MailPass,
			From:     cfg.MailFrom,
			To:       cfg.OwnerEmail,
		})
	} else {
		log.Info("smtp not configured, skipping lead notifications")
	}

	// 3. Rate limit + sweeper
	limiter := ratelimit.NewFixedWindow(cfg.RateLimit, cfg.RateWindow)
	sweeper := worker.NewRateLimitSweeper(limiter, cfg.RateSweepInterval, log.Named("sweeper"))
	sweeper.OnSweep = middleware.RecordRateLimitSweep
	go sweeper.Start(ctx)

	// 4. UseCase
	captureLeadUC := usecase.NewCaptureLeadUseCase(leadRepo, mailingList, notifier, log.Named("capture_lead"))
	captureLeadUC.RecordIntegrationError = middleware.RecordIntegrationError

	// 5. Handlers + router
	router := newRouter(routerDeps{
		LeadHandler:    handlers.NewLeadHandler(captureLeadUC, limiter, log.Named("lead_handler")),
		HealthHandler:  handlers.NewHealthHandler(db, cfg.MailchimpEnabled(), cfg.SMTPEnabled()),
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Logger:         log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("🔥 waitlist API listening", zap.String("addr", srv.Addr), zap.String("db", driver.Name))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}

	// notificações em andamento terminam antes do processo sair
	captureLeadUC.Wait()
}
