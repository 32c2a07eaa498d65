package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/freshprince84/airbnbform/internal/api"
	"github.com/freshprince84/airbnbform/internal/domain/contract"
	"github.com/freshprince84/airbnbform/internal/pkg/config"
	"github.com/freshprince84/airbnbform/internal/pkg/docxgen"
	"github.com/freshprince84/airbnbform/internal/pkg/drive"
	"github.com/freshprince84/airbnbform/internal/pkg/fileindex"
	"github.com/freshprince84/airbnbform/internal/pkg/logger"
	"github.com/freshprince84/airbnbform/internal/pkg/statistics"
	"github.com/freshprince84/airbnbform/internal/pkg/storage"
	"github.com/freshprince84/airbnbform/internal/pkg/template"
	"github.com/freshprince84/airbnbform/internal/pkg/tracing"
)

func main() {
	// Переменные окружения из .env, если файл присутствует
	_ = godotenv.Load()

	cfg := config.Load()

	if err := logger.Init(cfg.LogLevel); err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Log.Sync()

	// Инициализируем трейсинг
	shutdown, err := tracing.InitTracer(tracing.Config{
		ServiceName:    "airbnbform",
		ServiceVersion: os.Getenv("VERSION"),
		Environment:    os.Getenv("OTEL_ENVIRONMENT"),
		CollectorURL:   cfg.OTLPEndpoint,
	})
	if err != nil {
		logger.Fatal("Failed to initialize tracer", logger.Field("error", err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(ctx); err != nil {
			logger.Error("Failed to shutdown tracer", logger.Field("error", err))
		}
	}()

	// Локальное хранилище и хранилища шаблонов
	local, err := storage.NewLocal(cfg.DataDir)
	if err != nil {
		logger.Fatal("Failed to initialize storage", logger.Field("error", err))
	}

	templates, err := template.NewStore(local.TemplatesPath())
	if err != nil {
		logger.Fatal("Failed to initialize template store", logger.Field("error", err))
	}
	settings := template.NewHostSettingsStore(local.TemplatesPath())

	// Индекс файлов по идентификаторам запросов
	index, err := fileindex.Open(filepath.Join(cfg.DataDir, "file_index.db"))
	if err != nil {
		logger.Fatal("Failed to open file index", logger.Field("error", err))
	}
	defer index.Close()

	// Статистика, при пустом DSN хранится только в памяти
	stats := statistics.NewRecorder(cfg.StatisticsDSN)
	defer stats.Close()

	// Клиент облачного хранилища
	uploader := drive.NewClientWithRetryAndCircuitBreaker(drive.ConfigFromEnv())
	if uploader.Enabled() {
		logger.Info("Drive upload enabled")
	} else {
		logger.Info("Drive upload disabled, contracts are stored locally only")
	}

	// Сборщик документов
	assembler := docxgen.NewAssembler(templates)
	assembler.CreateDefaultBinaryTemplate()

	service := contract.NewService(assembler, templates, settings, local, index, uploader, stats)
	logger.Info("Contract service created", logger.Field("data_dir", cfg.DataDir))

	server := api.NewServer(api.NewHandlers(service), cfg)
	server.SetupRoutes()
	logger.Info("Server configured and routes set up")

	if err := server.Start(cfg.Address); err != nil {
		logger.Fatal("Failed to start server", logger.Field("error", err))
	}
}
