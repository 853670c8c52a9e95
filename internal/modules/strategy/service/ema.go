package service

// emaState — EMA с затравкой: первые period значений усредняются (SMA),
// дальше обычное сглаживание alpha = 2/(period+1).
type emaState struct {
	period int
	alpha  float64
	value  float64
	sum    float64
	seen   int
}

func newEMA(period int) emaState {
	if period <= 1 {
		period = 1
	}
	return emaState{
		period: period,
		alpha:  2.0 / (float64(period) + 1),
	}
}

func (e *emaState) Update(price float64) {
	e.seen++
	if e.seen <= e.period {
		e.sum += price
		if e.seen == e.period {
			e.value = e.sum / float64(e.period)
		}
		return
	}
	e.value = e.alpha*price + (1-e.alpha)*e.value
}

func (e *emaState) Ready() bool    { return e.seen >= e.period }
func (e *emaState) Value() float64 { return e.value }
