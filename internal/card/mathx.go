package card

import "math"

// round rounds to three decimals.
func round(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

// clampPercent clamps to [0, 100].
func clampPercent(v float64) float64 {
	return clamp(v, 0, 100)
}

// adjust linearly remaps v from [fromMin, fromMax] to [toMin, toMax].
func adjust(v, fromMin, fromMax, toMin, toMax float64) float64 {
	return round(toMin + (toMax-toMin)*(v-fromMin)/(fromMax-fromMin))
}

// PopoverScale is the enlargement for a card of size cardW x cardH in a
// viewport of viewW x viewH: fit the smaller axis, cap at 1.75x, then take
// 90% of that.
func PopoverScale(viewW, viewH, cardW, cardH float64) float64 {
	if cardW <= 0 || cardH <= 0 {
		return 1
	}
	return math.Min(math.Min(viewW/cardW, viewH/cardH), maxPopoverScale) * popoverFill
}
