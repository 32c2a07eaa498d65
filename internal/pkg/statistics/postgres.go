package statistics

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// PostgresDB представляет интерфейс для работы с PostgreSQL
type PostgresDB struct {
	db *sql.DB
}

// NewPostgresDB создает новое подключение к PostgreSQL по строке подключения
func NewPostgresDB(dsn string) (*PostgresDB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Проверяем подключение
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	postgresDB := &PostgresDB{db: db}

	// Инициализируем схему базы данных
	if err := postgresDB.InitSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return postgresDB, nil
}

// InitSchema инициализирует схему базы данных
func (p *PostgresDB) InitSchema() error {
	_, err := p.db.Exec(`
		CREATE TABLE IF NOT EXISTS contract_logs (
			id SERIAL PRIMARY KEY,
			timestamp TIMESTAMP WITH TIME ZONE NOT NULL,
			request_id TEXT NOT NULL,
			guest TEXT NOT NULL,
			duration_ns BIGINT NOT NULL,
			size_bytes BIGINT NOT NULL,
			uploaded BOOLEAN NOT NULL,
			has_error BOOLEAN NOT NULL
		);

		CREATE TABLE IF NOT EXISTS upload_logs (
			id SERIAL PRIMARY KEY,
			timestamp TIMESTAMP WITH TIME ZONE NOT NULL,
			request_id TEXT NOT NULL,
			file_name TEXT NOT NULL,
			kind TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_contract_logs_timestamp ON contract_logs(timestamp);
		CREATE INDEX IF NOT EXISTS idx_upload_logs_timestamp ON upload_logs(timestamp);
	`)

	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// LogContract записывает информацию о генерации договора
func (p *PostgresDB) LogContract(timestamp time.Time, requestID, guest string, duration time.Duration, size int64, uploaded, hasError bool) error {
	_, err := p.db.Exec(
		"INSERT INTO contract_logs (timestamp, request_id, guest, duration_ns, size_bytes, uploaded, has_error) VALUES ($1, $2, $3, $4, $5, $6, $7)",
		timestamp.UTC(), requestID, guest, duration.Nanoseconds(), size, uploaded, hasError,
	)
	return err
}

// LogUpload записывает информацию о загруженном файле
func (p *PostgresDB) LogUpload(timestamp time.Time, requestID, fileName, kind string) error {
	_, err := p.db.Exec(
		"INSERT INTO upload_logs (timestamp, request_id, file_name, kind) VALUES ($1, $2, $3, $4)",
		timestamp.UTC(), requestID, fileName, kind,
	)
	return err
}

// GetStatistics возвращает статистику за указанный период
func (p *PostgresDB) GetStatistics(since time.Time) (*Stats, error) {
	stats := &Stats{}

	var whereClause string
	var params []interface{}
	if !since.IsZero() {
		whereClause = "WHERE timestamp >= $1"
		params = []interface{}{since.UTC()}
	}

	contractQuery := fmt.Sprintf(`
		SELECT
			COALESCE(COUNT(*), 0) as total,
			COALESCE(SUM(CASE WHEN has_error = true THEN 1 ELSE 0 END), 0) as errors,
			COALESCE(SUM(CASE WHEN uploaded = true THEN 1 ELSE 0 END), 0) as uploaded,
			COALESCE(CAST(AVG(CAST(duration_ns AS FLOAT)) AS BIGINT), 0) as avg_duration,
			COALESCE(CAST(AVG(CAST(size_bytes AS FLOAT)) AS BIGINT), 0) as avg_size,
			MAX(timestamp) as last_generated
		FROM contract_logs
		%s
	`, whereClause)

	var avgDuration, avgSize int64
	var lastGenerated sql.NullTime
	if err := p.db.QueryRow(contractQuery, params...).Scan(
		&stats.Contracts.TotalGenerations,
		&stats.Contracts.ErrorGenerations,
		&stats.Contracts.UploadedToDrive,
		&avgDuration,
		&avgSize,
		&lastGenerated,
	); err != nil {
		return nil, fmt.Errorf("error scanning contract stats: %w", err)
	}

	stats.Contracts.AverageDuration = time.Duration(avgDuration)
	stats.Contracts.AverageSize = avgSize
	if lastGenerated.Valid {
		stats.Contracts.LastGenerationTime = lastGenerated.Time
	}

	uploadQuery := fmt.Sprintf(`
		SELECT
			COALESCE(COUNT(*), 0) as total,
			COALESCE(SUM(CASE WHEN kind = 'signed_contract' THEN 1 ELSE 0 END), 0) as signed,
			COALESCE(SUM(CASE WHEN kind = 'passport' THEN 1 ELSE 0 END), 0) as passports
		FROM upload_logs
		%s
	`, whereClause)

	if err := p.db.QueryRow(uploadQuery, params...).Scan(
		&stats.Uploads.TotalUploads,
		&stats.Uploads.SignedContracts,
		&stats.Uploads.Passports,
	); err != nil {
		return nil, fmt.Errorf("error scanning upload stats: %w", err)
	}

	return stats, nil
}

// Close закрывает соединение с базой данных
func (p *PostgresDB) Close() error {
	return p.db.Close()
}
