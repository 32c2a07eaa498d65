package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal считает обработанные HTTP запросы
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contract_service_http_requests_total",
			Help: "The total number of processed HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration измеряет длительность HTTP запросов
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "contract_service_http_request_duration_seconds",
			Help:    "The duration of HTTP requests in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"method", "path"},
	)

	// ContractGenerationTotal считает попытки генерации договора
	ContractGenerationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contract_service_generation_total",
			Help: "The total number of contract generation attempts",
		},
		[]string{"status"},
	)

	// ContractGenerationDuration измеряет длительность сборки договора
	ContractGenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "contract_service_generation_duration_seconds",
			Help:    "The duration of contract assembly in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"path"},
	)

	// ContractFileSizeBytes измеряет размер сгенерированных документов
	ContractFileSizeBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "contract_service_file_size_bytes",
			Help:    "The size of generated contract documents in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 2, 10),
		},
	)

	// TemplateFallbackTotal считает переходы с бинарного шаблона на JSON
	TemplateFallbackTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "contract_service_template_fallback_total",
			Help: "The total number of fallbacks from the binary template to the built-in renderer",
		},
	)

	// DriveUploadsTotal считает загрузки в облачное хранилище
	DriveUploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contract_service_drive_uploads_total",
			Help: "The total number of uploads to the cloud storage",
		},
		[]string{"status"},
	)

	// DriveUploadDuration измеряет длительность загрузок
	DriveUploadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "contract_service_drive_upload_duration_seconds",
			Help:    "The duration of cloud storage uploads in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
	)
)
