package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nteract/mythic-rtc/internal/client/actions"
	"github.com/nteract/mythic-rtc/internal/client/collab"
	"github.com/nteract/mythic-rtc/internal/client/store"
	"github.com/nteract/mythic-rtc/internal/models"
	"github.com/nteract/mythic-rtc/internal/nbformat"
	"github.com/nteract/mythic-rtc/internal/validation"
)

const (
	defaultPollInterval = time.Second
	defaultJoinTimeout  = 30 * time.Second
)

// JoinOptions параметры команды join
type JoinOptions struct {
	// RemotePath путь ноутбука на backend; по умолчанию путь файла
	RemotePath   string
	PollInterval time.Duration
	JoinTimeout  time.Duration
}

func (o JoinOptions) withDefaults(path string) JoinOptions {
	if o.RemotePath == "" {
		o.RemotePath = filepath.ToSlash(path)
	}
	if o.PollInterval <= 0 {
		o.PollInterval = defaultPollInterval
	}
	if o.JoinTimeout <= 0 {
		o.JoinTimeout = defaultJoinTimeout
	}
	return o
}

// Join подключает файл path к сессии совместной работы и держит их
// синхронизированными до отмены ctx. Удаленные правки записываются в файл,
// правки файла отправляются на backend.
func (c *Cli) Join(ctx context.Context, path string, opts JoinOptions) error {
	opts = opts.withDefaults(path)
	if err := validation.ValidateFilePath(opts.RemotePath); err != nil {
		return fmt.Errorf("invalid notebook path: %w", err)
	}

	nb, err := nbformat.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		c.io.Printf("%s does not exist, starting from an empty notebook\n", path)
		nb = models.NewNotebook()
	case err != nil:
		return err
	}

	logger := c.deps.Logger.With("file_path", opts.RemotePath)
	st := store.New(logger.With("component", "store"))
	sess := collab.New(st, collab.Deps{
		Gateway:  c.deps.Gateway,
		Metrics:  c.deps.Metrics,
		Journal:  c.deps.Journal,
		Sessions: c.deps.Sessions,
		Logger:   logger,
	})
	defer func() {
		if err := sess.Close(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("Failed to leave collaboration session", "error", err)
		}
	}()

	fs := newFileSync(path, st, logger.With("component", "filesync"))
	st.Use(fs.observe)
	st.Dispatch(actions.FetchContentFulfilled{FilePath: opts.RemotePath, Notebook: nb, Origin: actions.OriginLocal})

	notebookID, err := fs.waitJoined(ctx, opts.JoinTimeout)
	if err != nil {
		return err
	}
	c.io.Printf("Joined %s (notebook %s)\n", opts.RemotePath, notebookID)

	if err := fs.save(); err != nil {
		return err
	}

	// редакторы сохраняют через rename, поэтому наблюдаем за каталогом
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}
	name := filepath.Base(path)

	// ticker записывает удаленные правки и подстраховывает пропущенные события
	ticker := time.NewTicker(opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if err := fs.save(); err != nil {
				return err
			}
			c.io.Printf("Left %s\n", opts.RemotePath)
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != name || !event.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			if err := fs.sync(); err != nil {
				// файл мог быть записан не до конца, следующее событие прочитает его снова
				logger.Debug("File sync failed", "error", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("File watcher error", "error", err)
		case <-ticker.C:
			if err := fs.sync(); err != nil {
				logger.Warn("File sync failed", "error", err)
			}
		}
	}
}
