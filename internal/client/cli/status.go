package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/nteract/mythic-rtc/internal/client/storage"
)

// ErrNoSessions returned when the client runs without local storage
var ErrNoSessions = errors.New("session storage is not configured")

// Status печатает последнюю сессию для ноутбука и число незаписанных изменений
func (c *Cli) Status(ctx context.Context, remotePath string) error {
	if c.deps.Sessions == nil {
		return ErrNoSessions
	}
	remotePath = filepath.ToSlash(remotePath)

	rec, err := c.deps.Sessions.GetSession(ctx, remotePath)
	switch {
	case errors.Is(err, storage.ErrSessionNotFound):
		c.io.Printf("%s has not been joined yet.\n", remotePath)
	case err != nil:
		return fmt.Errorf("failed to get session: %w", err)
	default:
		c.io.Printf("Notebook:    %s\n", rec.FilePath)
		c.io.Printf("Backend id:  %s\n", rec.NotebookID)
		c.io.Printf("Last joined: %s\n", rec.JoinedAt.Format(time.RFC3339))
	}

	if c.deps.Journal == nil {
		return nil
	}
	ops, err := c.deps.Journal.ListFailures(ctx)
	if err != nil {
		// не прерываем вывод статуса
		c.io.Printf("Warning: failed to read journal: %v\n", err)
		return nil
	}
	if len(ops) > 0 {
		c.io.Printf("Pending: %d change(s) not recorded, see 'mythic pending'\n", len(ops))
	}
	return nil
}
