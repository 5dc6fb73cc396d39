package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNoJournal returned when the client runs without local storage
var ErrNoJournal = errors.New("journal is not configured")

// PendingOptions параметры команды pending
type PendingOptions struct {
	Clear bool
	// Yes пропускает подтверждение очистки
	Yes bool
}

// Pending печатает изменения, которые не удалось записать на backend,
// и по запросу очищает журнал.
func (c *Cli) Pending(ctx context.Context, opts PendingOptions) error {
	if c.deps.Journal == nil {
		return ErrNoJournal
	}

	ops, err := c.deps.Journal.ListFailures(ctx)
	if err != nil {
		return fmt.Errorf("failed to list pending changes: %w", err)
	}

	if len(ops) == 0 {
		c.io.Println("No pending changes.")
		return nil
	}

	c.io.Printf("%d change(s) were not recorded by the backend:\n", len(ops))
	for _, op := range ops {
		c.io.Printf("  %s  %-12s cell %s: %s\n", op.At.Format(time.RFC3339), op.Operation, op.LocalID, op.Error)
	}

	if !opts.Clear {
		return nil
	}

	if !opts.Yes {
		answer, err := c.io.ReadInput("Clear the journal? [y/N]: ")
		if err != nil {
			return fmt.Errorf("failed to read answer: %w", err)
		}
		if a := strings.ToLower(answer); a != "y" && a != "yes" {
			c.io.Println("Journal kept.")
			return nil
		}
	}

	if err := c.deps.Journal.ClearFailures(ctx); err != nil {
		return fmt.Errorf("failed to clear journal: %w", err)
	}
	c.io.Println("Journal cleared.")
	return nil
}
