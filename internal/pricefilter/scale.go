// Package pricefilter maps the handles of the dual-handle price slider to
// prices on a logarithmic scale, so that the cheap end of the market gets as
// much slider travel as the expensive end.
package pricefilter

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
)

// Step is the rounding granularity for prices between the endpoints.
const Step = 1000

// Scale is a logarithmic price axis from Min to Max. Both must be positive
// and Min < Max.
type Scale struct {
	Min float64
	Max float64
}

// DefaultScale spans $25,000 to $50,000,000.
var DefaultScale = Scale{Min: 25_000, Max: 50_000_000}

// Validate reports an unusable scale.
func (s Scale) Validate() error {
	if !(s.Min > 0) || !(s.Max > s.Min) || math.IsInf(s.Max, 0) {
		return fmt.Errorf("invalid price scale [%v, %v]", s.Min, s.Max)
	}
	return nil
}

// PositionToPrice converts a handle position in [0, 1] to a price. Positions
// outside the range are clamped. The endpoints map exactly to Min and Max;
// in between the price is rounded to the nearest Step, kept inside
// [Min, Max], and never decreases as the position grows.
func (s Scale) PositionToPrice(p float64) float64 {
	switch {
	case math.IsNaN(p) || p <= 0:
		return s.Min
	case p >= 1:
		return s.Max
	}
	raw := s.Min * math.Pow(s.Max/s.Min, p)
	price := math.Round(raw/Step) * Step
	return math.Min(math.Max(price, s.Min), s.Max)
}

// PriceToPosition is the inverse of PositionToPrice, clamped to [0, 1].
func (s Scale) PriceToPosition(price float64) float64 {
	switch {
	case math.IsNaN(price) || price <= s.Min:
		return 0
	case price >= s.Max:
		return 1
	}
	return math.Log(price/s.Min) / math.Log(s.Max/s.Min)
}

// FormatPrice renders a price as "$1,234,000".
func FormatPrice(price float64) string {
	return "$" + humanize.Comma(int64(math.Round(price)))
}
