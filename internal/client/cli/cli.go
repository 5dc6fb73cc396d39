// Package cli реализует команды клиента: подключение .ipynb файла
// к сессии совместной работы и просмотр локального состояния.
package cli

import (
	"log/slog"

	"github.com/nteract/mythic-rtc/internal/client/api"
	"github.com/nteract/mythic-rtc/internal/client/iocli"
	"github.com/nteract/mythic-rtc/internal/client/metrics"
	"github.com/nteract/mythic-rtc/internal/client/storage"
)

// Deps зависимости команд. Journal и Sessions могут быть nil.
type Deps struct {
	Gateway  api.Gateway
	Journal  storage.Journal
	Sessions storage.SessionStorage
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
}

type Cli struct {
	io   iocli.IO
	deps Deps
}

func New(io iocli.IO, deps Deps) *Cli {
	return &Cli{io: io, deps: deps}
}
