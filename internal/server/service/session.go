package service

import "context"

type contextKey string

const sessionKey contextKey = "session"

// Session клиентская сессия, привязанная к одному ноутбуку
type Session struct {
	ID       string
	FilePath string
}

// WithSession кладет сессию в контекст
func WithSession(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

// SessionFromContext returns the session stored by WithSession.
func SessionFromContext(ctx context.Context) (Session, bool) {
	sess, ok := ctx.Value(sessionKey).(Session)
	return sess, ok
}
