package grades

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScaleIsDescending(t *testing.T) {
	require.Len(t, Scale, 29)
	assert.Equal(t, 100, Scale[0].Mark)
	assert.Equal(t, 0, Scale[len(Scale)-1].Mark)
	for i := 1; i < len(Scale); i++ {
		assert.Less(t, Scale[i].Mark, Scale[i-1].Mark)
	}
}

func TestAdjust(t *testing.T) {
	tests := []struct {
		name string
		mark float64
		adj  Adjustment
		want float64
	}{
		{"zero", 72, Adjustment{Percentage, 0}, 72},
		{"percent up", 50, Adjustment{Percentage, 10}, 55},
		{"percent down", 50, Adjustment{Percentage, -10}, 45},
		{"absolute up", 50, Adjustment{Absolute, 3}, 53},
		{"absolute down", 52, Adjustment{Absolute, -3}, 49},
		{"clamp high", 100, Adjustment{Percentage, 3}, 100},
		{"clamp low", 2, Adjustment{Absolute, -5}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Adjust(tt.mark, tt.adj), 1e-9)
		})
	}
}

func TestSnap(t *testing.T) {
	assert.Equal(t, 75, Snap(74.16))
	assert.Equal(t, 48, Snap(49))
	assert.Equal(t, 100, Snap(97.5))
	assert.Equal(t, 52, Snap(50))
	assert.Equal(t, 0, Snap(0.4))
}

func TestLookup(t *testing.T) {
	g, ok := Lookup(73)
	require.True(t, ok)
	assert.Equal(t, 72, g.Mark)
	assert.Equal(t, "Low 1st", g.UG)

	g, ok = Lookup(0)
	require.True(t, ok)
	assert.Equal(t, "Non-engagement", g.PGT)

	_, ok = Lookup(-1)
	assert.False(t, ok)
}

func TestTableWithoutAdjustment(t *testing.T) {
	rows := Table(Adjustment{})
	require.Len(t, rows, len(Scale))
	for _, r := range rows {
		assert.False(t, r.Mark.Changed)
		assert.False(t, r.UG.Changed)
	}
	assert.Equal(t, "-", rows[1].UG.Original)
	assert.Equal(t, "95", rows[1].Mark.String())
}

func TestTableDefaultInterval(t *testing.T) {
	rows := NewCalculator().Rows()

	// 72 * 1.03 = 74.16 snaps to 75.
	low1st := rows[6]
	assert.True(t, low1st.Mark.Changed)
	assert.Equal(t, "72 → 75", low1st.Mark.String())
	assert.Equal(t, "Low 1st → Mid 1st", low1st.UG.String())
	assert.Equal(t, "4.0 → 4.5", low1st.GPA.String())
	assert.False(t, low1st.Singapore.Changed)

	top := rows[0]
	assert.False(t, top.Mark.Changed)
	assert.False(t, top.UG.Changed)
}

func TestCalculator(t *testing.T) {
	c := NewCalculator()
	assert.Equal(t, "+3.0 (percentage)", c.Label())

	for i := 0; i < 8; i++ {
		c.Decrease()
	}
	c.ToggleKind()
	assert.Equal(t, "-1.0 (absolute)", c.Label())
	assert.Equal(t, Adjustment{Kind: Absolute, Value: -1}, c.Adjustment())

	c.Increase()
	c.ToggleKind()
	assert.Equal(t, "-0.5 (percentage)", c.Label())
}
