package storage

import (
	"context"

	"github.com/nteract/mythic-rtc/internal/models"
)

//go:generate moq -out session_mock.go . SessionStorage

// SessionStorage хранит последнюю сессию для каждого ноутбука
type SessionStorage interface {
	// SaveSession stores or replaces the record for rec.FilePath
	SaveSession(ctx context.Context, rec *models.SessionRecord) error

	// GetSession returns the record for filePath
	// Returns ErrSessionNotFound if none exists
	GetSession(ctx context.Context, filePath string) (*models.SessionRecord, error)
}
