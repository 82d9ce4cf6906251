package seis

import (
	"math"
	"sort"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"
)

// Metrics summarizes a localization run: how many events resolved to a node
// and how degenerate the residual cubes were. The per-event NullFraction is
// the quality signal a production deployment watches — a cube that is mostly
// NullF means the geometry or the measured delays rarely agreed.
type Metrics struct {
	Events       int
	Located      int
	NullFraction []float64 // per event, fraction of NullF cube cells
	Residuals    []float64 // residuals of located events only
}

// CollectMetrics derives run metrics from the residual cube and the reducer
// outputs.
func CollectMetrics(cube []float32, nodes int, bestNode []int32, residual []float32) *Metrics {
	m := &Metrics{Events: len(bestNode)}
	for e := range bestNode {
		row := cube[e*nodes : (e+1)*nodes]
		null := lo.CountBy(row, func(v float32) bool { return v == NullF })
		m.NullFraction = append(m.NullFraction, float64(null)/float64(nodes))
		if bestNode[e] != Null {
			m.Located++
			m.Residuals = append(m.Residuals, float64(residual[e]))
		}
	}
	return m
}

// MedianResidual is the median residual over located events, NaN when no
// event located.
func (m *Metrics) MedianResidual() float64 {
	if len(m.Residuals) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(m.Residuals))
	copy(sorted, m.Residuals)
	sort.Float64s(sorted)
	return stat.Quantile(0.5, stat.Empirical, sorted, nil)
}

// WorstNullFraction is the highest per-event NullF cell fraction, 0 when
// there were no events.
func (m *Metrics) WorstNullFraction() float64 {
	if len(m.NullFraction) == 0 {
		return 0
	}
	return lo.Max(m.NullFraction)
}

// Print reports the run summary through the package logger.
func (m *Metrics) Print() {
	logrus.Infof("located %d/%d events", m.Located, m.Events)
	if m.Located > 0 {
		logrus.Infof("median residual: %.3f", m.MedianResidual())
	}
	if m.Events > 0 {
		logrus.Infof("worst null-cell fraction: %.2f", m.WorstNullFraction())
	}
}
