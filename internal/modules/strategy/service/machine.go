package service

import "band_monitor/internal/models"

// Transition — решение автомата по закрытой свече.
type Transition struct {
	From   models.Position
	To     models.Position
	Action models.Action
	Class  models.Classification
}

func (t Transition) Fired() bool { return t.Action != models.ActionNone }

// Machine — двухпозиционный автомат flat/long с дебаунсом:
// из long выводит только overbought, в long вводит только oversold.
type Machine struct {
	pos models.Position
}

func NewMachine(initial models.Position) *Machine {
	return &Machine{pos: initial}
}

func (m *Machine) Position() models.Position { return m.pos }

// Decide не меняет состояние: позиция обновляется через Commit,
// только после того как уведомление ушло.
func (m *Machine) Decide(c models.Classification) Transition {
	t := Transition{From: m.pos, To: m.pos, Class: c}
	switch {
	case m.pos == models.PositionFlat && c == models.Oversold:
		t.To = models.PositionLong
		t.Action = models.ActionEnter
	case m.pos == models.PositionLong && c == models.Overbought:
		t.To = models.PositionFlat
		t.Action = models.ActionExit
	}
	return t
}

// Commit применяет переход, принятый на текущей позиции.
func (m *Machine) Commit(t Transition) bool {
	if !t.Fired() || t.From != m.pos {
		return false
	}
	m.pos = t.To
	return true
}
