package seis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRayTime_VerticalTwoLayerShot(t *testing.T) {
	// GIVEN the S4 scenario: two layers, source (0, 500), receiver (0, -500)
	m := twoLayerModel()

	// WHEN solving with accuracy 1 and frequency 1000
	tau, ok := rayTime(m, 0, 500, 0, -500, 1, 1000)

	// THEN the travel time is 500/2000*1000 + 500/3000*1000 = 416 samples (+-1)
	require.True(t, ok)
	assert.InDelta(t, 416, float64(tau), 1)
}

func TestRayTime_SingleLayerStraightLine(t *testing.T) {
	// GIVEN a source and receiver inside one layer, laterally offset
	m := twoLayerModel()

	// WHEN solving for a receiver 500 away at the surface of the layer
	tau, ok := rayTime(m, 0, -500, 500, 0, 1, 1000)

	// THEN the straight-line time sqrt(500^2+500^2)/3000 lands within a sample
	require.True(t, ok)
	want := math.Hypot(500, 500) / 3000 * 1000
	assert.InDelta(t, want, float64(tau), 1)
}

func TestRayTime_RefractedPathBeatsStraightLine(t *testing.T) {
	// GIVEN a two-layer span with a lateral offset
	m := twoLayerModel()

	tau, ok := rayTime(m, 0, -500, 400, 500, 2, 10000)

	// THEN the solved time cannot exceed the single-velocity straight line
	// through the slow layer and cannot undercut it through the fast one
	require.True(t, ok)
	straightSlow := math.Hypot(400, 1000) / 2000 * 10000
	straightFast := math.Hypot(400, 1000) / 3000 * 10000
	assert.Less(t, float64(tau), straightSlow+1)
	assert.Greater(t, float64(tau), straightFast-1)
}

func TestRayTime_SourceOutsideModel(t *testing.T) {
	m := twoLayerModel()

	_, ok := rayTime(m, 0, 5000, 100, 0, 1, 1000)
	assert.False(t, ok)
}

func TestRayTime_UnreachableOffsetGivesNoTime(t *testing.T) {
	// GIVEN a distant receiver behind a fast shallow layer: every probe angle
	// steep enough to reach it breaks Snell's refraction and reflects
	m := Model{
		{Bottom: 0, Top: 1000, Vp: 6000},
		{Bottom: -1000, Top: 0, Vp: 1000},
	}

	_, ok := rayTime(m, 0, -500, 5000, 500, 0.5, 1000)
	assert.False(t, ok)
}

func TestRayTime_NegativeLateralReceiver(t *testing.T) {
	// GIVEN a receiver on the negative side of the source
	m := twoLayerModel()

	plus, okP := rayTime(m, 0, -500, 400, 0, 1, 1000)
	minus, okM := rayTime(m, 0, -500, -400, 0, 1, 1000)

	// THEN the mirrored geometry solves to the same travel time
	require.True(t, okP)
	require.True(t, okM)
	assert.Equal(t, plus, minus)
}
