package tier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFor(t *testing.T) {
	tests := []struct {
		points int
		want   Tier
	}{
		{-5, Bronze},
		{0, Bronze},
		{99, Bronze},
		{100, Silver},
		{499, Silver},
		{500, Gold},
		{1999, Gold},
		{2000, Platinum},
		{1_000_000, Platinum},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, For(tt.points), "points=%d", tt.points)
	}
}

func TestNext(t *testing.T) {
	next, missing, ok := Next(120)
	assert.True(t, ok)
	assert.Equal(t, Gold, next)
	assert.Equal(t, 380, missing)

	_, _, ok = Next(2500)
	assert.False(t, ok)
}

func TestStringAndColor(t *testing.T) {
	assert.Equal(t, "Platinum", Platinum.String())
	assert.Equal(t, "Unknown", Tier(9).String())
	assert.Equal(t, "#CD7F32", Bronze.Color())
	assert.NotEqual(t, Gold.Color(), Silver.Color())
}
