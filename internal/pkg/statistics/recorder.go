package statistics

import (
	"fmt"
	"sync"
	"time"

	"github.com/freshprince84/airbnbform/internal/pkg/logger"
)

// Recorder собирает статистику работы сервиса в памяти и, при наличии
// подключения, дублирует записи в PostgreSQL. Нулевой указатель безопасен:
// все методы в этом случае ничего не делают.
type Recorder struct {
	mu    sync.RWMutex
	stats Stats

	totalDuration time.Duration
	totalSize     int64
	lastUpdated   time.Time

	db *PostgresDB
}

// NewRecorder создает сборщик статистики. Если dsn пуст, записи хранятся
// только в памяти. Ошибка подключения к базе не фатальна.
func NewRecorder(dsn string) *Recorder {
	r := &Recorder{}

	if dsn != "" {
		db, err := NewPostgresDB(dsn)
		if err != nil {
			logger.Warn("statistics database unavailable, using in-memory only",
				logger.Field("error", err.Error()),
			)
		} else {
			r.db = db
		}
	}

	return r
}

// TrackGeneration регистрирует генерацию договора
func (r *Recorder) TrackGeneration(requestID, guest string, duration time.Duration, size int64, uploaded, hasError bool) {
	if r == nil {
		return
	}

	r.mu.Lock()
	r.stats.Contracts.TotalGenerations++
	if hasError {
		r.stats.Contracts.ErrorGenerations++
	}
	if uploaded {
		r.stats.Contracts.UploadedToDrive++
	}
	r.totalDuration += duration
	r.totalSize += size
	r.stats.Contracts.LastGenerationTime = time.Now()
	r.lastUpdated = time.Now()
	r.mu.Unlock()

	if r.db != nil {
		if err := r.db.LogContract(time.Now(), requestID, guest, duration, size, uploaded, hasError); err != nil {
			logger.Warn("failed to persist contract statistics", logger.Field("error", err.Error()))
		}
	}
}

// TrackUpload регистрирует загрузку файла гостем
func (r *Recorder) TrackUpload(requestID, fileName, kind string) {
	if r == nil {
		return
	}

	r.mu.Lock()
	r.stats.Uploads.TotalUploads++
	switch kind {
	case "signed_contract":
		r.stats.Uploads.SignedContracts++
	case "passport":
		r.stats.Uploads.Passports++
	}
	r.lastUpdated = time.Now()
	r.mu.Unlock()

	if r.db != nil {
		if err := r.db.LogUpload(time.Now(), requestID, fileName, kind); err != nil {
			logger.Warn("failed to persist upload statistics", logger.Field("error", err.Error()))
		}
	}
}

// GetStatistics возвращает текущую статистику в формате для API.
// При наличии базы отдаются накопленные в ней агрегаты, они переживают
// перезапуски сервиса. Счетчики в памяти остаются резервным вариантом.
func (r *Recorder) GetStatistics() StatsResponse {
	var response StatsResponse
	if r == nil {
		return response
	}

	if r.db != nil {
		stats, err := r.db.GetStatistics(time.Time{})
		if err == nil {
			return responseFromStats(stats)
		}
		logger.Warn("failed to read persisted statistics, using in-memory counters",
			logger.Field("error", err.Error()),
		)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	response.Contracts.TotalGenerations = r.stats.Contracts.TotalGenerations
	response.Contracts.ErrorGenerations = r.stats.Contracts.ErrorGenerations
	response.Contracts.UploadedToDrive = r.stats.Contracts.UploadedToDrive
	if r.stats.Contracts.TotalGenerations > 0 {
		avg := r.totalDuration / time.Duration(r.stats.Contracts.TotalGenerations)
		response.Contracts.AverageDuration = avg.String()
		response.Contracts.AverageSize = formatBytes(r.totalSize / int64(r.stats.Contracts.TotalGenerations))
	}
	response.Uploads = r.stats.Uploads
	response.LastUpdated = r.lastUpdated

	return response
}

// responseFromStats переводит агрегаты из базы в формат для API
func responseFromStats(stats *Stats) StatsResponse {
	var response StatsResponse
	response.Contracts.TotalGenerations = stats.Contracts.TotalGenerations
	response.Contracts.ErrorGenerations = stats.Contracts.ErrorGenerations
	response.Contracts.UploadedToDrive = stats.Contracts.UploadedToDrive
	if stats.Contracts.TotalGenerations > 0 {
		response.Contracts.AverageDuration = stats.Contracts.AverageDuration.String()
		response.Contracts.AverageSize = formatBytes(stats.Contracts.AverageSize)
	}
	response.Uploads = stats.Uploads
	response.LastUpdated = stats.Contracts.LastGenerationTime
	return response
}

// Close закрывает соединение с базой статистики
func (r *Recorder) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// formatBytes форматирует размер в байтах в человекочитаемый формат
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
