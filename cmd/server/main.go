package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/Freeeeeet/interview_scheduler/internal/app"
	"github.com/Freeeeeet/interview_scheduler/internal/config"
	"github.com/Freeeeeet/interview_scheduler/internal/controller"
	"github.com/Freeeeeet/interview_scheduler/internal/controller/handlers"
	"github.com/Freeeeeet/interview_scheduler/internal/controller/web"
	"github.com/Freeeeeet/interview_scheduler/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/go-telegram/bot"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment, cfg.LogLevel)
	defer logger.Sync()

	logger.Sugar().Infow("Starting interview scheduler",
		"environment", cfg.Environment,
		"storage", cfg.StorageDriver,
		"addr", cfg.HTTPAddr,
		"telegram", cfg.TelegramEnabled())

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Server stopped with error", zap.Error(err))
	}

	logger.Info("Server stopped")
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reportLoc, err := time.LoadLocation(cfg.ReportTimezone)
	if err != nil {
		return err
	}

	store, closeStore, err := app.OpenStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	slotService := service.NewSlotService(store, logger)
	candidateService := service.NewCandidateService(store, logger)
	reportService := service.NewReportService(store, logger)

	g, gctx := errgroup.WithContext(ctx)

	var reservationOpts []service.ReservationOption
	if cfg.TelegramEnabled() {
		botController, err := newBotController(cfg, slotService, candidateService, reportService, reportLoc, logger)
		if err != nil {
			return err
		}
		if err := botController.RegisterHandlers(ctx); err != nil {
			// Меню команд не критично, бот работает и без него
			logger.Warn("Failed to register bot commands menu", zap.Error(err))
		}

		dispatcher := app.NewNotificationDispatcher(botController.SendBookingNotification, 64, logger)
		dispatcher.Start(gctx)
		defer dispatcher.Stop()

		reservationOpts = append(reservationOpts, service.WithNotifier(dispatcher))

		g.Go(func() error {
			return botController.Start(gctx)
		})
	}

	reservationService := service.NewReservationService(store, logger, reservationOpts...)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	webHandlers := web.NewHandlers(reservationService, slotService, candidateService, reportService, logger)
	router := web.NewRouter(webHandlers, web.Options{
		CORSOrigins:         cfg.CORSOrigins,
		SubmitRatePerMinute: cfg.SubmitRatePerMinute,
		SubmitRateBurst:     cfg.SubmitRateBurst,
		ReportLocation:      reportLoc,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		logger.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newBotController(
	cfg *config.Config,
	slotService *service.SlotService,
	candidateService *service.CandidateService,
	reportService *service.ReportService,
	reportLoc *time.Location,
	logger *zap.Logger,
) (*controller.BotController, error) {
	botInstance, err := bot.New(cfg.TelegramToken)
	if err != nil {
		return nil, err
	}

	cmdHandlers := handlers.NewHandlers(
		slotService,
		candidateService,
		reportService,
		cfg.TelegramStaffChatIDs,
		reportLoc,
		logger,
	)

	return controller.NewBotController(botInstance, cmdHandlers, cfg.TelegramStaffChatIDs, logger), nil
}
