// Package drive загружает готовые договоры в Google Drive через
// multipart upload API и возвращает ссылку на документ.
package drive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"time"

	"github.com/freshprince84/airbnbform/internal/pkg/metrics"
)

const (
	defaultBaseURL = "https://www.googleapis.com"
	docxMimeType   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var (
	// ErrDisabled возвращается, когда загрузка в Drive не сконфигурирована
	ErrDisabled = errors.New("drive upload is not configured")
)

// Config содержит настройки клиента Google Drive
type Config struct {
	BaseURL     string
	AccessToken string
	FolderID    string
	Timeout     time.Duration
}

// ConfigFromEnv читает конфигурацию из переменных окружения
func ConfigFromEnv() Config {
	baseURL := os.Getenv("GOOGLE_DRIVE_API_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return Config{
		BaseURL:     baseURL,
		AccessToken: os.Getenv("GOOGLE_DRIVE_ACCESS_TOKEN"),
		FolderID:    os.Getenv("GOOGLE_DRIVE_FOLDER_ID"),
		Timeout:     getEnvDurationWithDefault("GOOGLE_DRIVE_TIMEOUT", 30*time.Second),
	}
}

// Client выполняет загрузку файлов в Google Drive
type Client struct {
	config Config
	client *http.Client
}

// NewClient создает нового клиента Google Drive
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	transport := &http.Transport{
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	return &Client{
		config: config,
		client: &http.Client{
			Transport: transport,
			Timeout:   config.Timeout,
		},
	}
}

// Enabled сообщает, сконфигурирована ли загрузка в Drive
func (c *Client) Enabled() bool {
	return c.config.AccessToken != ""
}

// Upload загружает документ и возвращает ссылку на него.
// Любая ошибка удаленного хранилища доводится до вызывающего кода,
// локальный файл при этом не теряется.
func (c *Client) Upload(ctx context.Context, content []byte, fileName string) (string, error) {
	if !c.Enabled() {
		return "", ErrDisabled
	}

	start := time.Now()
	defer func() {
		metrics.DriveUploadDuration.Observe(time.Since(start).Seconds())
	}()

	// Собираем multipart/related тело: метаданные + содержимое файла
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	meta := map[string]interface{}{"name": fileName}
	if c.config.FolderID != "" {
		meta["parents"] = []string{c.config.FolderID}
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		metrics.DriveUploadsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("failed to marshal file metadata: %w", err)
	}

	metaHeader := textproto.MIMEHeader{}
	metaHeader.Set("Content-Type", "application/json; charset=UTF-8")
	metaPart, err := writer.CreatePart(metaHeader)
	if err != nil {
		metrics.DriveUploadsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("failed to create metadata part: %w", err)
	}
	if _, err := metaPart.Write(metaJSON); err != nil {
		metrics.DriveUploadsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("failed to write metadata part: %w", err)
	}

	fileHeader := textproto.MIMEHeader{}
	fileHeader.Set("Content-Type", docxMimeType)
	filePart, err := writer.CreatePart(fileHeader)
	if err != nil {
		metrics.DriveUploadsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := filePart.Write(content); err != nil {
		metrics.DriveUploadsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("failed to write file content: %w", err)
	}

	if err := writer.Close(); err != nil {
		metrics.DriveUploadsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("failed to close writer: %w", err)
	}

	url := c.config.BaseURL + "/upload/drive/v3/files?uploadType=multipart&fields=id,webViewLink"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		metrics.DriveUploadsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "multipart/related; boundary="+writer.Boundary())
	req.Header.Set("Authorization", "Bearer "+c.config.AccessToken)

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.DriveUploadsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("failed to send upload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.DriveUploadsTotal.WithLabelValues("error").Inc()
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("upload failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var uploaded struct {
		ID          string `json:"id"`
		WebViewLink string `json:"webViewLink"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		metrics.DriveUploadsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("failed to parse upload response: %w", err)
	}

	metrics.DriveUploadsTotal.WithLabelValues("success").Inc()

	if uploaded.WebViewLink != "" {
		return uploaded.WebViewLink, nil
	}
	return fmt.Sprintf("https://drive.google.com/file/d/%s/view", uploaded.ID), nil
}
