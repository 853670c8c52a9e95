package helper

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

func NormTF(raw string) string {
	s := strings.TrimSpace(strings.ToLower(raw))
	s = strings.TrimPrefix(s, "candle")
	switch s {
	case "60m", "1h":
		return "1h"
	default:
		return s
	}
}

// ParsePrice — биржи отдают цены строками.
func ParsePrice(s string) (float64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.Wrapf(err, "parse price %q", s)
	}
	return d.InexactFloat64(), nil
}

func UnixMilli(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
