package web

import (
	"net/http"
	"time"

	"github.com/Freeeeeet/interview_scheduler/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Options настройки HTTP-слоя
type Options struct {
	CORSOrigins         []string
	SubmitRatePerMinute int
	SubmitRateBurst     int
	ReportLocation      *time.Location
}

// Handlers HTTP-обработчики API
type Handlers struct {
	reservations *service.ReservationService
	slots        *service.SlotService
	candidates   *service.CandidateService
	reports      *service.ReportService
	logger       *zap.Logger
	reportLoc    *time.Location
	now          func() time.Time
}

func NewHandlers(
	reservations *service.ReservationService,
	slots *service.SlotService,
	candidates *service.CandidateService,
	reports *service.ReportService,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		reservations: reservations,
		slots:        slots,
		candidates:   candidates,
		reports:      reports,
		logger:       logger,
		reportLoc:    time.UTC,
		now:          time.Now,
	}
}

// NewRouter собирает gin-роутер со всеми маршрутами API
func NewRouter(h *Handlers, opts Options) *gin.Engine {
	if opts.ReportLocation != nil {
		h.reportLoc = opts.ReportLocation
	}

	router := gin.New()
	router.Use(RequestID(), Recovery(h.logger), AccessLog(h.logger))

	if len(opts.CORSOrigins) > 0 {
		router.Use(cors.New(corsConfig(opts.CORSOrigins)))
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		candidates := api.Group("/candidates")
		{
			candidates.POST("", RateLimit(opts.SubmitRatePerMinute, opts.SubmitRateBurst), h.CreateCandidate)
			candidates.GET("", h.ListCandidates)
			candidates.GET("/:id", h.GetCandidate)
		}

		timeSlots := api.Group("/time-slots")
		{
			timeSlots.GET("", h.ListAvailableSlots)
			timeSlots.GET("/all", h.ListAllSlots)
		}

		api.GET("/slots/availability", h.BookedSlots)

		reports := api.Group("/reports")
		{
			reports.GET("/summary", h.ReportSummary)
			reports.GET("/candidates.csv", h.ExportCandidatesCSV)
		}
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader, "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}

	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}
