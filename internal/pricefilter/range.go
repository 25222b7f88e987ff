package pricefilter

// Range is the state of the dual-handle slider. Low never exceeds High.
type Range struct {
	scale Scale
	low   float64
	high  float64
}

// NewRange starts with both handles at the ends of the scale.
func NewRange(s Scale) *Range {
	return &Range{scale: s, low: 0, high: 1}
}

func (r *Range) Scale() Scale { return r.scale }

// Positions returns the handle positions.
func (r *Range) Positions() (low, high float64) { return r.low, r.high }

// SetLow moves the lower handle, clamped to [0, high].
func (r *Range) SetLow(p float64) {
	r.low = clamp(p, 0, r.high)
}

// SetHigh moves the upper handle, clamped to [low, 1].
func (r *Range) SetHigh(p float64) {
	r.high = clamp(p, r.low, 1)
}

// SetPrices positions both handles from prices, swapping them if reversed.
func (r *Range) SetPrices(low, high float64) {
	if low > high {
		low, high = high, low
	}
	r.low = r.scale.PriceToPosition(low)
	r.high = r.scale.PriceToPosition(high)
}

// Prices returns the bound pair for the current handle positions.
func (r *Range) Prices() (low, high float64) {
	return r.scale.PositionToPrice(r.low), r.scale.PositionToPrice(r.high)
}

// Unbounded reports whether the upper handle sits at the end of the scale,
// in which case the filter has no upper price limit.
func (r *Range) Unbounded() bool { return r.high >= 1 }

// Label renders the range, e.g. "$25,000 – $50,000,000+".
func (r *Range) Label() string {
	low, high := r.Prices()
	label := FormatPrice(low) + " – " + FormatPrice(high)
	if r.Unbounded() {
		label += "+"
	}
	return label
}

func clamp(v, lo, hi float64) float64 {
	if v != v || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
