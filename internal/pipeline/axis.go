package pipeline

import (
	"math"

	"chartlab/domain/chart"
)

// AxisDomain pads a raw [min, max] range by 10% on each side so rendered
// marks never sit on the chart edge. For a zero-width range the padding
// falls back to max(|min| * 0.1, 1).
func AxisDomain(min, max float64) chart.AxisDomain {
	if min == max {
		pad := math.Abs(min) * 0.1
		if pad < 1 {
			pad = 1
		}
		return chart.AxisDomain{Min: min - pad, Max: max + pad}
	}
	pad := (max - min) * 0.1
	return chart.AxisDomain{Min: min - pad, Max: max + pad}
}

func axisDomainPtr(min, max float64) *chart.AxisDomain {
	d := AxisDomain(min, max)
	return &d
}
