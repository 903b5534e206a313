package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/magnetic-studio/studio-api/internal/auth"
	"github.com/magnetic-studio/studio-api/internal/config"
	"github.com/magnetic-studio/studio-api/internal/database"
	"github.com/magnetic-studio/studio-api/internal/email"
	"github.com/magnetic-studio/studio-api/internal/enrollment"
	"github.com/magnetic-studio/studio-api/internal/handlers"
	"github.com/magnetic-studio/studio-api/internal/jobs"
	"github.com/magnetic-studio/studio-api/internal/logger"
	"github.com/magnetic-studio/studio-api/internal/metrics"
	"github.com/magnetic-studio/studio-api/internal/notifier"
	"github.com/magnetic-studio/studio-api/internal/store"
	"github.com/magnetic-studio/studio-api/internal/web"
)

func main() {
	// Load Configuration
	cfg := config.LoadConfig()

	zl, err := logger.FromAppConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zl.Sync()

	// Connect to Database
	db, err := database.Connect(cfg, zl)
	if err != nil {
		zl.Fatal("Database unavailable", zap.Error(err))
	}

	csrfKey, err := web.LoadCSRFKey(cfg.CSRFKey, cfg.IsProduction())
	if err != nil {
		zl.Fatal("Invalid CSRF key", zap.Error(err))
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	users := store.NewUserStore(db)
	registrations := store.NewRegistrationStore(db)
	invitations := store.NewInvitationStore(db)
	items := store.NewItemStore(db)

	var sender email.Sender = email.NewNoopSender(zl)
	if cfg.ResendAPIKey != "" {
		sender = email.NewResendSender(cfg.ResendAPIKey, cfg.EmailFrom, zl)
	} else {
		zl.Warn("RESEND_API_KEY not set, confirmation emails will only be logged")
	}
	mailer := email.NewMailer(sender, email.LoadAttachments(cfg.RulesPDFPath, cfg.LogoPath, zl), zl)

	var staff notifier.Notifier = notifier.Nop{}
	if cfg.DiscordBotToken != "" {
		session, err := discordgo.New("Bot " + cfg.DiscordBotToken)
		if err != nil {
			zl.Warn("Discord notifier not initialized", zap.Error(err))
		} else {
			staff = notifier.NewDiscordNotifier(session, cfg.DiscordNotificationsChannelID, zl)
		}
	}

	service := enrollment.NewService(enrollment.Deps{
		Registrations: registrations,
		Invitations:   invitations,
		Waitlist:      store.NewWaitlistStore(db),
		Mailer:        mailer,
		Notifier:      staff,
		Metrics:       m,
		Logger:        zl,
	})

	authHandler := auth.NewAuthHandler(cfg, users, zl)

	sweeper := jobs.NewInvitationSweeper(invitations, m, zl)
	if err := sweeper.Start(cfg.InvitationSweepSchedule); err != nil {
		zl.Fatal("Failed to start invitation sweeper", zap.Error(err))
	}

	// Initialize Router
	r := chi.NewRouter()

	// Register Routes
	handlers.RegisterRoutes(r, cfg, handlers.Handlers{
		Auth:          authHandler,
		Registrations: handlers.NewRegistrationHandler(service, zl),
		Waitlist:      handlers.NewWaitlistHandler(service),
		Items:         handlers.NewItemHandler(items, authHandler, zl),
		Beginners:     handlers.NewBeginnersHandler(store.NewBeginnersStore(db), authHandler, zl),
		Admin:         handlers.NewAdminHandler(registrations, invitations, cfg.InvitationTTL, zl),
		Pages: web.NewPages(web.Deps{
			Enrollment:    service,
			Registrations: registrations,
			Invitations:   invitations,
			Items:         items,
			AuthHandler:   authHandler,
			InvitationTTL: cfg.InvitationTTL,
			Logger:        zl,
		}),
		Metrics: promhttp.Handler(),
		CSRFKey: csrfKey,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		// Start Server
		zl.Info("Starting server", zap.String("port", cfg.Port), zap.String("env", cfg.AppEnv), zap.String("mode", cfg.AppMode))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	sweeper.Stop(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("Server shutdown failed", zap.Error(err))
	}
}
