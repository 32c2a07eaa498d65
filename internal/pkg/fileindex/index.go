package fileindex

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/freshprince84/airbnbform/internal/pkg/logger"
)

// Entry запись индекса о сохраненном файле
type Entry struct {
	RequestID string
	Guest     string
	Kind      Kind
	FileName  string
	CreatedAt time.Time
}

// Index хранит соответствие идентификаторов запросов и файлов на диске.
// Используется встраиваемая база, отдельный сервер не требуется.
type Index struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS contract_files (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    request_id TEXT NOT NULL,
    guest      TEXT NOT NULL,
    kind       TEXT NOT NULL,
    file_name  TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_contract_files_request_id ON contract_files(request_id);
CREATE INDEX IF NOT EXISTS idx_contract_files_guest ON contract_files(guest);
`

// Open открывает индекс по указанному пути и создает схему при необходимости
func Open(path string) (*Index, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file index: %w", err)
	}

	// Встраиваемая база не поддерживает конкурентную запись
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize file index schema: %w", err)
	}

	return &Index{db: db}, nil
}

// Close закрывает соединение с базой
func (i *Index) Close() error {
	return i.db.Close()
}

// Record добавляет запись о сохраненном файле
func (i *Index) Record(ctx context.Context, requestID, guest string, kind Kind, fileName string) error {
	_, err := i.db.ExecContext(ctx,
		`INSERT INTO contract_files (request_id, guest, kind, file_name) VALUES (?, ?, ?, ?)`,
		requestID, guest, string(kind), fileName,
	)
	if err != nil {
		logger.Error("failed to record file in index",
			logger.Field("request_id", requestID),
			logger.Field("file_name", fileName),
			logger.Field("error", err.Error()),
		)
		return fmt.Errorf("failed to record file in index: %w", err)
	}
	return nil
}

// ByRequestID возвращает все файлы, относящиеся к одному запросу
func (i *Index) ByRequestID(ctx context.Context, requestID string) ([]Entry, error) {
	return i.query(ctx,
		`SELECT request_id, guest, kind, file_name, created_at FROM contract_files WHERE request_id = ? ORDER BY created_at`,
		requestID,
	)
}

// ByFileName возвращает запись о файле с данным именем
func (i *Index) ByFileName(ctx context.Context, fileName string) (Entry, bool, error) {
	entries, err := i.query(ctx,
		`SELECT request_id, guest, kind, file_name, created_at FROM contract_files WHERE file_name = ? ORDER BY created_at DESC LIMIT 1`,
		fileName,
	)
	if err != nil {
		return Entry{}, false, err
	}
	if len(entries) == 0 {
		return Entry{}, false, nil
	}
	return entries[0], true, nil
}

// ByGuest возвращает все файлы данного гостя
func (i *Index) ByGuest(ctx context.Context, guest string) ([]Entry, error) {
	return i.query(ctx,
		`SELECT request_id, guest, kind, file_name, created_at FROM contract_files WHERE guest = ? ORDER BY created_at`,
		SanitizeGuest(guest),
	)
}

func (i *Index) query(ctx context.Context, q string, args ...interface{}) ([]Entry, error) {
	rows, err := i.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query file index: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var kind string
		if err := rows.Scan(&e.RequestID, &e.Guest, &kind, &e.FileName, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan file index row: %w", err)
		}
		e.Kind = Kind(kind)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
