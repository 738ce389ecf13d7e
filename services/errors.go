package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type AppError struct {
	HTTPCode int
	Message  string
	Data     interface{}
	Err      error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newAppError(httpCode int, message string, err error) *AppError {
	return &AppError{HTTPCode: httpCode, Message: message, Err: err}
}

func newAppErrorWithData(httpCode int, message string, data interface{}, err error) *AppError {
	return &AppError{HTTPCode: httpCode, Message: message, Data: data, Err: err}
}

var (
	// ErrStorageUnavailable means the backing store could not be opened.
	// Fatal at startup; nothing recovers from it.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrDuplicateKey means an insert collided with an existing image id.
	ErrDuplicateKey = errors.New("duplicate image id")
	// ErrTransactionAborted means the store aborted a write (quota, io).
	ErrTransactionAborted = errors.New("transaction aborted")
	// ErrFetchFailed means a URL ingest could not retrieve its payload.
	ErrFetchFailed = errors.New("fetch failed")
	// ErrDecodeFailed means a payload could not be parsed as an image.
	ErrDecodeFailed = errors.New("decode failed")
)

// classifyStoreError maps a gorm write failure onto the per-item error
// taxonomy. Store errors never abort a batch; callers collect them.
func classifyStoreError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateKey
	}
	return fmt.Errorf("%w: %v", ErrTransactionAborted, err)
}
