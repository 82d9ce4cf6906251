package seis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollectMetrics_CountsNullCellsAndLocatedEvents(t *testing.T) {
	// GIVEN a two-event cube where the second event is fully gated
	cube := []float32{1.5, NullF, 2.5, NullF, NullF, NullF}
	bestNode := []int32{0, Null}
	residual := []float32{1.5, float32(math.Inf(1))}

	m := CollectMetrics(cube, 3, bestNode, residual)

	assert.Equal(t, 2, m.Events)
	assert.Equal(t, 1, m.Located)
	assert.InDelta(t, 1.0/3, m.NullFraction[0], 1e-12)
	assert.InDelta(t, 1.0, m.NullFraction[1], 1e-12)
	assert.Equal(t, []float64{1.5}, m.Residuals)
	assert.InDelta(t, 1.0, m.WorstNullFraction(), 1e-12)
	assert.InDelta(t, 1.5, m.MedianResidual(), 1e-12)
}

func TestCollectMetrics_NoEvents(t *testing.T) {
	m := CollectMetrics(nil, 5, nil, nil)

	assert.Equal(t, 0, m.Events)
	assert.Equal(t, 0, m.Located)
	assert.Equal(t, 0.0, m.WorstNullFraction())
	assert.True(t, math.IsNaN(m.MedianResidual()))
	m.Print() // must not panic on the empty run
}
