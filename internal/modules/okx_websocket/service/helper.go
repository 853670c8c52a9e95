package service

import (
	"fmt"

	"band_monitor/internal/models"
)

// okxBar: наш таймфрейм -> параметр bar у OKX. 8h у OKX нет.
func okxBar(tf models.Timeframe) (string, error) {
	switch tf {
	case models.TF1m, models.TF3m, models.TF5m, models.TF15m, models.TF30m:
		return string(tf), nil
	case models.TF1h:
		return "1H", nil
	case models.TF2h:
		return "2H", nil
	case models.TF4h:
		return "4H", nil
	case models.TF6h:
		return "6Hutc", nil
	case models.TF12h:
		return "12Hutc", nil
	case models.TF1d:
		return "1Dutc", nil
	}
	return "", fmt.Errorf("unsupported timeframe for OKX bar: %q", tf)
}
