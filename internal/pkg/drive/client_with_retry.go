package drive

import (
	"context"
	"time"

	"github.com/freshprince84/airbnbform/internal/pkg/logger"
	"github.com/freshprince84/airbnbform/internal/pkg/retry"
)

// ClientWithRetry оборачивает базовый клиент Drive механизмом повторных попыток
type ClientWithRetry struct {
	client  *Client
	retrier *retry.Retrier
}

// NewClientWithRetry создает нового клиента с retry механизмом
func NewClientWithRetry(config Config) *ClientWithRetry {
	return &ClientWithRetry{
		client: NewClient(config),
		retrier: retry.New(
			"drive_upload",
			logger.Log,
			retry.WithMaxAttempts(getEnvIntWithDefault("DRIVE_RETRY_MAX_ATTEMPTS", 3)),
			retry.WithInitialDelay(getEnvDurationWithDefault("DRIVE_RETRY_INITIAL_DELAY", 200*time.Millisecond)),
			retry.WithMaxDelay(getEnvDurationWithDefault("DRIVE_RETRY_MAX_DELAY", 2*time.Second)),
			retry.WithNonRetryableErrors([]error{ErrDisabled}),
		),
	}
}

// Enabled сообщает, сконфигурирована ли загрузка в Drive
func (c *ClientWithRetry) Enabled() bool {
	return c.client.Enabled()
}

// Upload загружает документ с повторными попытками при временных ошибках
func (c *ClientWithRetry) Upload(ctx context.Context, content []byte, fileName string) (string, error) {
	if !c.client.Enabled() {
		return "", ErrDisabled
	}

	var result string
	err := c.retrier.Do(ctx, func(ctx context.Context) error {
		var err error
		result, err = c.client.Upload(ctx, content, fileName)
		return err
	})
	return result, err
}
