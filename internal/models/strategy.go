package models

import "time"

// Classification — где закрытие последней свечи относительно полос.
type Classification int

const (
	Neutral    Classification = 0
	Oversold   Classification = 1
	Overbought Classification = -1
)

func (c Classification) String() string {
	switch c {
	case Oversold:
		return "oversold"
	case Overbought:
		return "overbought"
	default:
		return "neutral"
	}
}

type Action string

const (
	ActionNone  Action = ""
	ActionEnter Action = "enter"
	ActionExit  Action = "exit"
)

// SignalEvent — отправленное уведомление, уходит в журнал.
type SignalEvent struct {
	Symbol    string         `json:"symbol"`
	Timeframe Timeframe      `json:"timeframe"`
	Action    Action         `json:"action"`
	Class     Classification `json:"class"`
	OpenTime  time.Time      `json:"open_time"`
	Close     float64        `json:"close"`
	MA        float64        `json:"ma"`
	StdDev    float64        `json:"std_dev"`
	Upper     float64        `json:"upper"`
	Lower     float64        `json:"lower"`
	Message   string         `json:"message"`
	SentAt    time.Time      `json:"sent_at"`
}
