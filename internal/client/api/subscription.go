package api

import (
	"context"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/nteract/mythic-rtc/pkg/api"
)

// wsSubscription читает события из websocket в ограниченный буфер.
// Когда буфер полон, чтение из сокета останавливается до освобождения места.
type wsSubscription struct {
	err    error
	conn   *websocket.Conn
	logger *slog.Logger
	events chan api.Result
	done   chan struct{}
	op     api.Operation
	once   sync.Once
	mu     sync.Mutex
}

func newWSSubscription(conn *websocket.Conn, op api.Operation, buffer int, logger *slog.Logger) *wsSubscription {
	return &wsSubscription{
		conn:   conn,
		op:     op,
		logger: logger,
		events: make(chan api.Result, buffer),
		done:   make(chan struct{}),
	}
}

func (s *wsSubscription) Events() <-chan api.Result {
	return s.events
}

func (s *wsSubscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close останавливает подписку; повторный вызов безопасен
func (s *wsSubscription) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		err = s.conn.Close()
	})
	return err
}

func (s *wsSubscription) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		s.err = err
	}
}

func (s *wsSubscription) readLoop(ctx context.Context) {
	defer close(s.events)

	stop := context.AfterFunc(ctx, func() {
		_ = s.Close()
	})
	defer stop()

	for {
		var res api.Result
		if err := s.conn.ReadJSON(&res); err != nil {
			select {
			case <-s.done:
				// закрыта нами или отменой контекста
				if ctxErr := ctx.Err(); ctxErr != nil {
					s.setErr(ctxErr)
				}
			default:
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
					s.setErr(err)
				}
				_ = s.Close()
			}
			s.logger.Debug("Subscription stream ended", "operation", s.op, "error", err)
			return
		}

		if res.HasErrors() {
			s.setErr(&ExecuteError{Operation: s.op, Errors: res.Errors})
			_ = s.Close()
			return
		}

		select {
		case s.events <- res:
		case <-s.done:
			return
		}
	}
}
