// Package tier derives a user's reputation tier from their points.
package tier

// Tier is ordered: a higher value is a better tier.
type Tier int

const (
	Bronze Tier = iota
	Silver
	Gold
	Platinum
)

type threshold struct {
	tier   Tier
	points int
}

// thresholds is sorted by descending points.
var thresholds = []threshold{
	{Platinum, 2000},
	{Gold, 500},
	{Silver, 100},
	{Bronze, 0},
}

// For returns the tier for points. Negative points are Bronze.
func For(points int) Tier {
	for _, t := range thresholds {
		if points >= t.points {
			return t.tier
		}
	}
	return Bronze
}

// MinPoints is the points needed to reach t.
func MinPoints(t Tier) int {
	for _, th := range thresholds {
		if th.tier == t {
			return th.points
		}
	}
	return 0
}

// Next returns the next tier and the points still missing to reach it.
// ok is false at the top tier.
func Next(points int) (next Tier, missing int, ok bool) {
	cur := For(points)
	if cur == Platinum {
		return Platinum, 0, false
	}
	next = cur + 1
	return next, MinPoints(next) - points, true
}

func (t Tier) String() string {
	switch t {
	case Bronze:
		return "Bronze"
	case Silver:
		return "Silver"
	case Gold:
		return "Gold"
	case Platinum:
		return "Platinum"
	default:
		return "Unknown"
	}
}

// Color is the hex accent used for the tier badge.
func (t Tier) Color() string {
	switch t {
	case Silver:
		return "#A8A9AD"
	case Gold:
		return "#D4AF37"
	case Platinum:
		return "#7FD1E0"
	default:
		return "#CD7F32"
	}
}
