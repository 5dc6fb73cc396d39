// Package hub fans out subscription events to the websocket streams of one notebook.
package hub

import (
	"log/slog"
	"sync"

	"github.com/nteract/mythic-rtc/internal/server/metrics"
	"github.com/nteract/mythic-rtc/pkg/api"
)

// DefaultBufferSize размер буфера подписчика по умолчанию
const DefaultBufferSize = 256

// Topic поток событий одной подписки ноутбука
type Topic struct {
	NotebookID string
	Operation  api.Operation
}

// Subscriber получатель событий одного topic
type Subscriber struct {
	events  chan api.Result
	done    chan struct{}
	topic   Topic
	session string
	once    sync.Once
}

// Events returns the buffered event channel. It is never closed; use Done.
func (s *Subscriber) Events() <-chan api.Result {
	return s.events
}

// Done закрывается, когда подписчик отписан или отключен за отставание
func (s *Subscriber) Done() <-chan struct{} {
	return s.done
}

// Hub рассылает события подписчикам. События не отправляются
// сессии, которая их вызвала: она уже применила изменение локально.
type Hub struct {
	subs       map[Topic]map[*Subscriber]struct{}
	metrics    *metrics.Metrics
	logger     *slog.Logger
	bufferSize int
	mu         sync.RWMutex
}

// New создает Hub. bufferSize <= 0 означает DefaultBufferSize.
func New(bufferSize int, m *metrics.Metrics, logger *slog.Logger) *Hub {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Hub{
		subs:       make(map[Topic]map[*Subscriber]struct{}),
		metrics:    m,
		logger:     logger,
		bufferSize: bufferSize,
	}
}

// Subscribe регистрирует подписчика сессии sessionID на topic
func (h *Hub) Subscribe(topic Topic, sessionID string) *Subscriber {
	s := &Subscriber{
		events:  make(chan api.Result, h.bufferSize),
		done:    make(chan struct{}),
		topic:   topic,
		session: sessionID,
	}

	h.mu.Lock()
	set, ok := h.subs[topic]
	if !ok {
		set = make(map[*Subscriber]struct{})
		h.subs[topic] = set
	}
	set[s] = struct{}{}
	h.mu.Unlock()

	h.metrics.Subscribers.Inc()
	h.logger.Debug("Subscriber added", "notebook_id", topic.NotebookID, "operation", topic.Operation, "session_id", sessionID)
	return s
}

// Unsubscribe удаляет подписчика; повторный вызов ничего не делает
func (h *Hub) Unsubscribe(s *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.remove(s)
}

// remove вызывается под h.mu
func (h *Hub) remove(s *Subscriber) {
	s.once.Do(func() {
		set := h.subs[s.topic]
		delete(set, s)
		if len(set) == 0 {
			delete(h.subs, s.topic)
		}
		close(s.done)
		h.metrics.Subscribers.Dec()
	})
}

// Publish отправляет событие всем подписчикам topic, кроме сессии originSession.
// Подписчик с заполненным буфером отключается, а не блокирует рассылку.
// Возвращает число получателей.
func (h *Hub) Publish(topic Topic, originSession string, ev api.Result) int {
	var (
		delivered int
		slow      []*Subscriber
	)

	h.mu.RLock()
	for s := range h.subs[topic] {
		if originSession != "" && s.session == originSession {
			continue
		}
		select {
		case s.events <- ev:
			delivered++
		default:
			slow = append(slow, s)
		}
	}
	h.mu.RUnlock()

	if len(slow) > 0 {
		h.mu.Lock()
		for _, s := range slow {
			h.remove(s)
			h.metrics.Dropped.Inc()
			h.logger.Warn("Slow subscriber dropped", "notebook_id", topic.NotebookID, "operation", topic.Operation, "session_id", s.session)
		}
		h.mu.Unlock()
	}

	h.metrics.Published.WithLabelValues(string(topic.Operation)).Add(float64(delivered))
	return delivered
}

// Len returns the number of subscribers of topic.
func (h *Hub) Len(topic Topic) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[topic])
}
