package service

import "github.com/pkg/errors"

var (
	// ErrInvalidBootstrap — пустая или неупорядоченная история, движок не стартует.
	ErrInvalidBootstrap = errors.New("invalid bootstrap")
	// ErrOutOfOrderUpdate — пришла новая свеча, а предыдущая не закрыта. Фатально для прогона.
	ErrOutOfOrderUpdate = errors.New("out of order update")
	// ErrStaleUpdate — дубль или старая свеча, игнорируем.
	ErrStaleUpdate = errors.New("stale update")
)
