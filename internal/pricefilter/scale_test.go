package pricefilter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionToPrice_ExactEndpoints(t *testing.T) {
	assert.Equal(t, 25_000.0, DefaultScale.PositionToPrice(0))
	assert.Equal(t, 50_000_000.0, DefaultScale.PositionToPrice(1))
}

func TestPositionToPrice_Clamps(t *testing.T) {
	assert.Equal(t, 25_000.0, DefaultScale.PositionToPrice(-3))
	assert.Equal(t, 50_000_000.0, DefaultScale.PositionToPrice(7))
	assert.Equal(t, 25_000.0, DefaultScale.PositionToPrice(math.NaN()))
}

func TestPositionToPrice_Monotonic(t *testing.T) {
	prev := DefaultScale.PositionToPrice(0)
	for i := 1; i <= 10_000; i++ {
		p := DefaultScale.PositionToPrice(float64(i) / 10_000)
		require.GreaterOrEqual(t, p, prev, "position %d", i)
		require.GreaterOrEqual(t, p, DefaultScale.Min)
		require.LessOrEqual(t, p, DefaultScale.Max)
		prev = p
	}
}

func TestPositionToPrice_RoundsToStep(t *testing.T) {
	p := DefaultScale.PositionToPrice(0.5)
	assert.Zero(t, math.Mod(p, Step))
	// geometric mean of the bounds is ~1,118,034
	assert.Equal(t, 1_118_000.0, p)
}

func TestPriceToPosition_Inverse(t *testing.T) {
	assert.Equal(t, 0.0, DefaultScale.PriceToPosition(1))
	assert.Equal(t, 1.0, DefaultScale.PriceToPosition(1e12))
	for _, pos := range []float64{0.1, 0.25, 0.5, 0.9} {
		price := DefaultScale.PositionToPrice(pos)
		assert.InDelta(t, pos, DefaultScale.PriceToPosition(price), 0.001)
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, DefaultScale.Validate())
	require.Error(t, Scale{Min: 0, Max: 10}.Validate())
	require.Error(t, Scale{Min: 10, Max: 10}.Validate())
	require.Error(t, Scale{Min: 10, Max: math.Inf(1)}.Validate())
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "$25,000", FormatPrice(25_000))
	assert.Equal(t, "$50,000,000", FormatPrice(50_000_000))
}
