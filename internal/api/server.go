// Package api serves the carelog JSON API over gin.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/carelog/internal/config"
	"github.com/julianstephens/carelog/internal/constants"
	"github.com/julianstephens/carelog/internal/logger"
	"github.com/julianstephens/carelog/internal/metrics"
	"github.com/julianstephens/carelog/internal/service"
)

const shutdownTimeout = 5 * time.Second

// Server wires the service layer to HTTP routes
type Server struct {
	svc     *service.Service
	cfg     config.Config
	metrics *metrics.Metrics
	engine  *gin.Engine
}

// New builds the router. m may be nil when metrics are disabled.
func New(svc *service.Service, cfg config.Config, m *metrics.Metrics) *Server {
	if cfg.Server.Release {
		gin.SetMode(gin.ReleaseMode)
	}
	s := &Server{svc: svc, cfg: cfg, metrics: m, engine: gin.New()}
	s.routes()
	return s
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() {
	r := s.engine
	r.Use(RequestIDMiddleware(), RecoveryMiddleware(), LoggingMiddleware())
	if s.metrics != nil && s.cfg.Metrics.Enabled {
		r.Use(MetricsMiddleware(s.metrics))
		r.GET(s.cfg.Metrics.Path, gin.WrapH(s.metrics.Handler()))
	}
	if len(s.cfg.Server.CORSOrigins) > 0 {
		r.Use(CORSMiddleware(s.cfg.Server.CORSOrigins))
	}
	if s.cfg.RateLimit.Enabled {
		r.Use(NewRateLimiter(s.cfg.RateLimit.RequestsPerSecond, s.cfg.RateLimit.Burst).Middleware())
	}

	r.GET("/healthz", s.health)

	v1 := r.Group(constants.APIPrefix, AuthMiddleware(s.svc))
	v1.GET("/me", s.me)
	v1.GET("/settings", s.getSettings)

	logs := v1.Group("/daily-logs")
	logs.GET("", s.listDailyLogs)
	logs.POST("", s.createDailyLog)
	logs.GET("/:date", s.getDailyLog)
	logs.PUT("/:date", s.updateDailyLog)
	logs.DELETE("/:date", s.deleteDailyLog)

	sleep := v1.Group("/sleep-logs")
	sleep.GET("", s.listSleepLogs)
	sleep.POST("", s.createSleepLog)
	sleep.GET("/available-dates", s.availableSleepDates)
	sleep.GET("/:id", s.getSleepLog)
	sleep.PUT("/:id", s.updateSleepLog)
	sleep.DELETE("/:id", s.deleteSleepLog)

	meds := v1.Group("/medications")
	meds.GET("", s.medicationHistory)
	meds.POST("", s.createMedicationBatch)
	meds.GET("/today", s.todayMedications)
	meds.POST("/today/take/:timing", s.takeAllInTiming)
	meds.GET("/stats", s.medicationStats)
	meds.GET("/:id", s.getMedication)
	meds.PUT("/:id", s.updateMedication)
	meds.PATCH("/:id/taken", s.setMedicationTaken)
	meds.DELETE("/:id", s.deleteMedication)

	analytics := v1.Group("/analytics")
	analytics.GET("/statistics", s.statistics)
	analytics.GET("/chart", s.chart)
	analytics.GET("/summary", s.summary)
	analytics.GET("/dashboard", s.dashboard)

	reports := v1.Group("/reports")
	reports.GET("", s.listReports)
	reports.POST("", s.generateReport)
	reports.GET("/:id", s.getReport)
	reports.GET("/:id/next", s.nextReport)
	reports.DELETE("/:id", s.deleteReport)

	appts := v1.Group("/appointments")
	appts.GET("", s.listAppointments)
	appts.POST("", s.createAppointment)
	appts.GET("/:id", s.getAppointment)
	appts.PUT("/:id", s.updateAppointment)
	appts.DELETE("/:id", s.deleteAppointment)
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Server.Addr,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", s.cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Info("shutting down http server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	return <-errCh
}

func (s *Server) health(c *gin.Context) {
	if _, err := s.svc.GetSettings(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": constants.Version})
}

func (s *Server) me(c *gin.Context) {
	HandleSuccess(c, http.StatusOK, currentUser(c), nil)
}

func (s *Server) getSettings(c *gin.Context) {
	settings, err := s.svc.GetSettings(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, http.StatusOK, settings, nil)
}
