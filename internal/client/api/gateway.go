package api

import (
	"context"

	"github.com/nteract/mythic-rtc/pkg/api"
)

//go:generate moq -out gateway_mock.go . Gateway Subscription

// Gateway абстракция backend совместной работы: открыть сессию,
// выполнить query/mutation, подписаться на поток событий.
type Gateway interface {
	// Start открывает сессию для ресурса (пути ноутбука)
	Start(ctx context.Context, resourcePath string) error
	// Execute выполняет операцию; при успехе Data декодируется в result (если не nil).
	// Структурированные ошибки возвращаются как *ExecuteError.
	Execute(ctx context.Context, op api.Operation, variables any, result any) error
	// Subscribe открывает поток событий операции-подписки
	Subscribe(ctx context.Context, op api.Operation, variables any) (Subscription, error)
}

// Subscription поток событий одной подписки.
// Канал Events закрывается, когда поток завершен; причину возвращает Err.
type Subscription interface {
	Events() <-chan api.Result
	Err() error
	Close() error
}
