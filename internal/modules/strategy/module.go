package strategy

import (
	"band_monitor/internal/modules/strategy/service"

	"go.uber.org/fx"
)

// Module отдаёт расчёт полос. BarStore и Machine создаются на каждый прогон координатором.
func Module() fx.Option {
	return fx.Module("strategy",
		fx.Provide(
			service.NewBandsFromConfig, // *service.Bands
		),
	)
}
