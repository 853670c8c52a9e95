package models

import "fmt"

// Position — удерживаемая позиция движка: только flat или long.
type Position int

const (
	PositionFlat Position = 0
	PositionLong Position = 1
)

func ParsePosition(v int) (Position, error) {
	switch Position(v) {
	case PositionFlat, PositionLong:
		return Position(v), nil
	}
	return PositionFlat, fmt.Errorf("position must be 0 (flat) or 1 (long), got %d", v)
}

func (p Position) String() string {
	if p == PositionLong {
		return "long"
	}
	return "flat"
}
