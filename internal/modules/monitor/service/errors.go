package service

import "github.com/pkg/errors"

var (
	// ErrNotificationFailure — уведомление не ушло, позиция не изменена, работа остановлена.
	ErrNotificationFailure = errors.New("notification failure")
	// ErrFeedClosed — поток закрылся без отмены контекста.
	ErrFeedClosed = errors.New("update feed closed unexpectedly")
)
