package api

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/freshprince84/airbnbform/internal/api/middleware"
	"github.com/freshprince84/airbnbform/internal/pkg/config"
	"github.com/freshprince84/airbnbform/internal/pkg/logger"
	"github.com/freshprince84/airbnbform/internal/pkg/tracing"
)

type Server struct {
	Router   *gin.Engine
	Handlers *Handlers
	config   config.Config
	server   *http.Server
}

func NewServer(handlers *Handlers, cfg config.Config) *Server {
	router := gin.New()

	// Настройка лимитов
	router.MaxMultipartMemory = 8 << 20 // 8 MiB

	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.PrometheusMiddleware())
	router.Use(tracing.Middleware())

	// Middleware для таймаутов
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	return &Server{
		Router:   router,
		Handlers: handlers,
		config:   cfg,
	}
}

func (s *Server) SetupRoutes() {
	s.Router.GET("/health", s.Handlers.Health)

	// Метрики Prometheus
	s.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.Router.Group("/api")
	{
		api.POST("/generate-contract", s.Handlers.Contract.Generate)
		api.POST("/upload-signed-contract", s.Handlers.Contract.UploadSigned)

		admin := api.Group("/admin")
		admin.Use(middleware.AdminAuthMiddleware(s.config.AdminToken))
		{
			admin.GET("/files", s.Handlers.Admin.ListFiles)
			admin.GET("/contract-template", s.Handlers.Admin.GetTemplate)
			admin.POST("/contract-template", s.Handlers.Admin.SetTemplate)
			admin.GET("/host-settings", s.Handlers.Admin.GetHostSettings)
			admin.POST("/host-settings", s.Handlers.Admin.SetHostSettings)
			admin.GET("/download", s.Handlers.Admin.Download)
			admin.GET("/stats", s.Handlers.Admin.Stats)
		}
	}
}

func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:           addr,
		Handler:        s.Router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	errChan := make(chan error, 1)

	go func() {
		logger.Info("Starting server", logger.Field("addr", addr))
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-quit:
		logger.Info("Received signal", logger.Field("signal", sig.String()))
		return s.Stop()
	}
}

func (s *Server) Stop() error {
	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		logger.Info("Shutting down server")

		if err := s.server.Shutdown(ctx); err != nil {
			logger.Error("Server forced to shutdown", logger.Field("error", err.Error()))
			return err
		}
	}
	return nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
