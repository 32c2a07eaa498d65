package drive

import (
	"context"
	"time"

	"github.com/freshprince84/airbnbform/internal/pkg/circuitbreaker"
	"github.com/freshprince84/airbnbform/internal/pkg/logger"
	"github.com/freshprince84/airbnbform/internal/pkg/retry"
)

// Uploader общий интерфейс для клиентов загрузки
type Uploader interface {
	Upload(ctx context.Context, content []byte, fileName string) (string, error)
	Enabled() bool
}

// ClientWithRetryAndCircuitBreaker комбинирует retry и circuit breaker
// механизмы поверх базового клиента Drive
type ClientWithRetryAndCircuitBreaker struct {
	client  *Client
	cb      *circuitbreaker.CircuitBreaker
	retrier *retry.Retrier
}

// NewClientWithRetryAndCircuitBreaker создает нового клиента с retry и
// circuit breaker механизмами
func NewClientWithRetryAndCircuitBreaker(config Config) *ClientWithRetryAndCircuitBreaker {
	client := NewClient(config)

	cb := circuitbreaker.NewCircuitBreaker(circuitbreaker.Config{
		Name:             "drive",
		FailureThreshold: getEnvIntWithDefault("DRIVE_CIRCUIT_BREAKER_FAILURE_THRESHOLD", 5),
		ResetTimeout:     getEnvDurationWithDefault("DRIVE_CIRCUIT_BREAKER_RESET_TIMEOUT", 30*time.Second),
		HalfOpenMaxCalls: getEnvIntWithDefault("DRIVE_CIRCUIT_BREAKER_HALF_OPEN_MAX_CALLS", 2),
		SuccessThreshold: getEnvIntWithDefault("DRIVE_CIRCUIT_BREAKER_SUCCESS_THRESHOLD", 2),
	})

	retrier := retry.New(
		"drive_upload",
		logger.Log,
		retry.WithMaxAttempts(getEnvIntWithDefault("DRIVE_RETRY_MAX_ATTEMPTS", 3)),
		retry.WithInitialDelay(getEnvDurationWithDefault("DRIVE_RETRY_INITIAL_DELAY", 200*time.Millisecond)),
		retry.WithMaxDelay(getEnvDurationWithDefault("DRIVE_RETRY_MAX_DELAY", 2*time.Second)),
		retry.WithBackoffFactor(float64(getEnvIntWithDefault("DRIVE_RETRY_BACKOFF_FACTOR", 2))),
		// Отсутствие конфигурации не лечится повторами
		retry.WithNonRetryableErrors([]error{ErrDisabled}),
	)

	return &ClientWithRetryAndCircuitBreaker{
		client:  client,
		cb:      cb,
		retrier: retrier,
	}
}

// Enabled сообщает, сконфигурирована ли загрузка в Drive
func (c *ClientWithRetryAndCircuitBreaker) Enabled() bool {
	return c.client.Enabled()
}

// Upload загружает документ с использованием retry и circuit breaker механизмов
func (c *ClientWithRetryAndCircuitBreaker) Upload(ctx context.Context, content []byte, fileName string) (string, error) {
	if !c.client.Enabled() {
		return "", ErrDisabled
	}

	var result string
	err := c.retrier.Do(ctx, func(ctx context.Context) error {
		return c.cb.Execute(ctx, func() error {
			var err error
			result, err = c.client.Upload(ctx, content, fileName)
			return err
		})
	})
	return result, err
}

// State возвращает текущее состояние Circuit Breaker
func (c *ClientWithRetryAndCircuitBreaker) State() circuitbreaker.State {
	return c.cb.State()
}

// IsHealthy возвращает true, если Circuit Breaker в здоровом состоянии
func (c *ClientWithRetryAndCircuitBreaker) IsHealthy() bool {
	return c.cb.IsHealthy()
}
