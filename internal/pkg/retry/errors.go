package retry

import (
	"errors"
	"fmt"
)

var (
	// ErrMaxAttemptsReached возникает когда исчерпаны все попытки
	ErrMaxAttemptsReached = errors.New("max retry attempts reached")
)

// RetryError содержит информацию об ошибке retry
type RetryError struct {
	// Attempt номер попытки, на которой произошла ошибка
	Attempt int
	// OriginalError исходная ошибка
	OriginalError error
}

func (e *RetryError) Error() string {
	return fmt.Sprintf("retry attempt %d failed: %v", e.Attempt, e.OriginalError)
}

// Unwrap возвращает оригинальную ошибку
func (e *RetryError) Unwrap() error {
	return e.OriginalError
}

// IsRetryable проверяет, нужно ли повторять операцию для данной ошибки.
// Пустой список NonRetryableErrors означает, что повторяются все ошибки.
func IsRetryable(err error, nonRetryable []error) bool {
	if err == nil {
		return false
	}

	for _, candidate := range nonRetryable {
		if errors.Is(err, candidate) {
			return false
		}
	}
	return true
}
