package tracing

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Config содержит настройки для трейсинга
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	CollectorURL   string
	SamplingRate   float64 // Частота сэмплирования (0.0 - 1.0)
	BatchTimeout   int     // Таймаут для батча в секундах
	MaxExportBatch int     // Максимальный размер батча
	MaxQueueSize   int     // Максимальный размер очереди
}

// InitTracer инициализирует глобальный трейсер. Если CollectorURL пуст,
// трейсинг остается выключенным и возвращается no-op shutdown.
func InitTracer(cfg Config) (func(context.Context) error, error) {
	if cfg.CollectorURL == "" {
		return func(context.Context) error { return nil }, nil
	}

	ctx := context.Background()

	// Устанавливаем дефолтные значения
	if cfg.SamplingRate == 0 {
		cfg.SamplingRate = 1.0
	}
	if cfg.BatchTimeout == 0 {
		cfg.BatchTimeout = 5
	}
	if cfg.MaxExportBatch == 0 {
		cfg.MaxExportBatch = 512
	}
	if cfg.MaxQueueSize == 0 {
		cfg.MaxQueueSize = 2048
	}

	// Создаем клиент для отправки трейсов с таймаутом и ретраями
	opts := []otlptracegrpc.Option{
		otlptracegrpc.WithInsecure(),
		otlptracegrpc.WithEndpoint(cfg.CollectorURL),
		otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
		otlptracegrpc.WithTimeout(30 * time.Second),
		otlptracegrpc.WithRetry(otlptracegrpc.RetryConfig{
			Enabled:         true,
			InitialInterval: 1 * time.Second,
			MaxInterval:     5 * time.Second,
			MaxElapsedTime:  30 * time.Second,
		}),
	}

	client := otlptracegrpc.NewClient(opts...)
	exporter, err := otlptrace.New(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("failed to create exporter: %w", err)
	}

	hostname, _ := os.Hostname()

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(cfg.ServiceName),
		semconv.ServiceVersionKey.String(cfg.ServiceVersion),
		semconv.ServiceInstanceIDKey.String(hostname),
		semconv.DeploymentEnvironmentKey.String(cfg.Environment),
		semconv.HostNameKey.String(hostname),
		semconv.TelemetrySDKLanguageKey.String("go"),
		semconv.TelemetrySDKVersionKey.String(runtime.Version()),
		attribute.String("runtime.os", runtime.GOOS),
		attribute.String("runtime.arch", runtime.GOARCH),
	)

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter,
			sdktrace.WithBatchTimeout(time.Duration(cfg.BatchTimeout)*time.Second),
			sdktrace.WithMaxExportBatchSize(cfg.MaxExportBatch),
			sdktrace.WithMaxQueueSize(cfg.MaxQueueSize),
		),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(
			sdktrace.TraceIDRatioBased(cfg.SamplingRate),
		)),
	)

	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tracerProvider.Shutdown, nil
}
