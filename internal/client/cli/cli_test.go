package cli

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/nteract/mythic-rtc/internal/client/iocli"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// output собирает вывод команд
type output struct {
	buf bytes.Buffer
	mu  sync.Mutex
}

func (o *output) String() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.buf.String()
}

// newTestIO возвращает IO, который пишет в out и отвечает answer на вопросы
func newTestIO(answer string) (*iocli.IOMock, *output) {
	out := &output{}
	mock := &iocli.IOMock{
		PrintlnFunc: func(a ...any) {
			out.mu.Lock()
			defer out.mu.Unlock()
			_, _ = fmt.Fprintln(&out.buf, a...)
		},
		PrintfFunc: func(format string, a ...any) {
			out.mu.Lock()
			defer out.mu.Unlock()
			_, _ = fmt.Fprintf(&out.buf, format, a...)
		},
		ReadInputFunc: func(prompt string) (string, error) {
			return answer, nil
		},
	}
	return mock, out
}
