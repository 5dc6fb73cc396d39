package storage

import (
	"context"

	"github.com/nteract/mythic-rtc/internal/models"
)

//go:generate moq -out journal_mock.go . Journal

// Journal хранит локальные изменения, которые не удалось записать на backend
type Journal interface {
	// RecordFailure appends a failed operation
	RecordFailure(ctx context.Context, op *models.FailedOperation) error

	// ListFailures returns failed operations in the order they were recorded
	ListFailures(ctx context.Context) ([]*models.FailedOperation, error)

	// ClearFailures removes all failed operations
	ClearFailures(ctx context.Context) error
}
