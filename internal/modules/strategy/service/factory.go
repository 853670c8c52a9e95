package service

import (
	"band_monitor/internal/modules/config"
)

func NewBandsFromConfig(cfg *config.Config) *Bands {
	return NewBands(BandsConfig{
		Window:     cfg.Strategy.Window,
		Multiplier: cfg.Strategy.Multiplier,
	})
}
