package retry

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Operation представляет операцию, которую нужно повторить
type Operation func(ctx context.Context) error

// Retrier выполняет повторные попытки операции с экспоненциальной
// задержкой между ними
type Retrier struct {
	config    *Config
	logger    *zap.Logger
	operation string
}

// New создает новый экземпляр Retrier
func New(operation string, logger *zap.Logger, opts ...Option) *Retrier {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(config)
	}

	return &Retrier{
		config:    config,
		logger:    logger,
		operation: operation,
	}
}

// Do выполняет операцию с повторными попытками
func (r *Retrier) Do(ctx context.Context, op Operation) error {
	start := time.Now()
	var lastErr error

	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		retryAttempts.WithLabelValues(r.operation, "started").Inc()

		attemptStart := time.Now()
		err := op(ctx)

		if err == nil {
			retryAttempts.WithLabelValues(r.operation, "success").Inc()
			retryOperationDuration.WithLabelValues(r.operation, "success").Observe(time.Since(start).Seconds())
			return nil
		}

		lastErr = err
		retryAttempts.WithLabelValues(r.operation, "failed").Inc()
		r.logger.Warn("retry attempt failed",
			zap.String("operation", r.operation),
			zap.Int("attempt", attempt),
			zap.Error(err),
			zap.Duration("duration", time.Since(attemptStart)),
		)

		// Если контекст отменен, прекращаем попытки
		if ctx.Err() != nil {
			retryOperationDuration.WithLabelValues(r.operation, "cancelled").Observe(time.Since(start).Seconds())
			return ctx.Err()
		}

		// Если ошибка не подлежит retry, прекращаем попытки
		if !IsRetryable(err, r.config.NonRetryableErrors) {
			retryOperationDuration.WithLabelValues(r.operation, "non_retryable").Observe(time.Since(start).Seconds())
			return &RetryError{
				Attempt:       attempt,
				OriginalError: err,
			}
		}

		// Если это последняя попытка, не нужно ждать
		if attempt == r.config.MaxAttempts {
			break
		}

		delay := r.calculateDelay(attempt)
		retryBackoffDuration.WithLabelValues(r.operation).Observe(delay.Seconds())

		// Ждем с учетом контекста
		select {
		case <-ctx.Done():
			retryOperationDuration.WithLabelValues(r.operation, "cancelled").Observe(time.Since(start).Seconds())
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	retryOperationDuration.WithLabelValues(r.operation, "max_attempts").Observe(time.Since(start).Seconds())
	if lastErr != nil {
		return &RetryError{
			Attempt:       r.config.MaxAttempts,
			OriginalError: lastErr,
		}
	}
	return ErrMaxAttemptsReached
}

// calculateDelay вычисляет задержку для следующей попытки
func (r *Retrier) calculateDelay(attempt int) time.Duration {
	delay := float64(r.config.InitialDelay)
	for i := 1; i < attempt; i++ {
		delay *= r.config.BackoffFactor
	}

	if delay > float64(r.config.MaxDelay) {
		delay = float64(r.config.MaxDelay)
	}

	return time.Duration(delay)
}
