package seis

import "math"

// RealDelays is the [Samples, Stations+1] int32 result matrix of the delay
// estimator. Column 0 of a row is the validity flag (0/1); column s+1 holds
// station s's best integer lag relative to the base station, or Null. The
// base station's own column is reserved and never written.
type RealDelays struct {
	Data     []int32
	Samples  int
	Stations int
}

// NewRealDelays allocates a zeroed delay matrix. Rows the kernel never
// touches (the tail excluded by the window and scanner sizes) must stay
// zero, so the buffer is created rather than reused.
func NewRealDelays(samples, stations int) RealDelays {
	return RealDelays{
		Data:     make([]int32, samples*(stations+1)),
		Samples:  samples,
		Stations: stations,
	}
}

func (d RealDelays) stride() int {
	return d.Stations + 1
}

// Valid reports whether time index t carries enough corroborating stations.
func (d RealDelays) Valid(t int) bool {
	return d.Data[t*d.stride()] == 1
}

// Delay returns station s's lag at time index t, which may be Null.
func (d RealDelays) Delay(t, s int) int32 {
	return d.Data[t*d.stride()+s+1]
}

// Row returns the full [validity, lags...] row for time index t.
func (d RealDelays) Row(t int) []int32 {
	off := t * d.stride()
	return d.Data[off : off+d.stride()]
}

// accum is the accumulator type of the correlation sums. The device reference
// accumulates in float32; DelayConfig.Wide selects float64.
type accum interface {
	~float32 | ~float64
}

// delayKernel computes the best per-station lags for one time index and
// writes one row of out. It is the work-item body of the estimator: t is the
// global work-item id and indices beyond the scannable range return
// immediately.
func delayKernel(sig Signals, cfg DelayConfig, out RealDelays, t int) {
	if cfg.Wide {
		delayItem[float64](sig, cfg, out, t)
	} else {
		delayItem[float32](sig, cfg, out, t)
	}
}

func delayItem[F accum](sig Signals, cfg DelayConfig, out RealDelays, t int) {
	w := cfg.Window
	if t > sig.Samples-w-cfg.Scanner-1 {
		return
	}

	base := cfg.Base*sig.Samples + t
	if !sig.segmentGood(base, w) {
		return
	}

	var sumA, sumSqA F
	minV, maxV := sig.Data[base], sig.Data[base]
	for i := 0; i < w; i++ {
		v := sig.Data[base+i]
		sumA += F(v)
		sumSqA += F(v) * F(v)
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	if minV == maxV {
		return
	}

	count := F(w)
	varA := count*sumSqA - sumA*sumA
	minCorr := F(cfg.MinCorrelation)

	stride := sig.Stations + 1
	selected := 0
	for s := 0; s < sig.Stations; s++ {
		if s == cfg.Base {
			continue
		}
		bestLag := Null
		var bestR F
		for d := 0; d < cfg.Scanner; d++ {
			c := s*sig.Samples + t + d
			if !sig.segmentGood(c, w) {
				continue
			}
			var sumB, sumSqB, sumAB F
			for i := 0; i < w; i++ {
				a := F(sig.Data[base+i])
				b := F(sig.Data[c+i])
				sumB += b
				sumSqB += b * b
				sumAB += a * b
			}
			num := count*sumAB - sumA*sumB
			if num < 0 {
				// Anticorrelated windows never describe the same arrival.
				continue
			}
			den := F(math.Sqrt(float64(varA * (count*sumSqB - sumB*sumB))))
			if den == 0 {
				continue
			}
			r := num / den
			// Strict > keeps the earlier lag on a correlation tie.
			if r >= minCorr && r > bestR {
				bestR, bestLag = r, int32(d)
			}
		}
		out.Data[t*stride+s+1] = bestLag
		if bestLag != Null {
			selected++
		}
	}
	if selected > minSelectedStations {
		out.Data[t*stride] = 1
	} else {
		out.Data[t*stride] = 0
	}
}
