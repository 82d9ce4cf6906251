package seis

import "fmt"

// Signals is a station-major waveform block: Stations contiguous channels of
// Samples float32 values each. Channel s occupies Data[s*Samples : (s+1)*Samples].
type Signals struct {
	Data     []float32
	Stations int
	Samples  int
}

// NewSignals wraps a flat station-major buffer.
func NewSignals(data []float32, stations, samples int) (Signals, error) {
	if stations < 1 || samples < 1 {
		return Signals{}, fmt.Errorf("signals %dx%d: need at least one station and one sample", stations, samples)
	}
	if len(data) != stations*samples {
		return Signals{}, fmt.Errorf("signals buffer has %d values, want %d", len(data), stations*samples)
	}
	return Signals{Data: data, Stations: stations, Samples: samples}, nil
}

// At returns sample i of the given station channel.
func (s Signals) At(station, i int) float32 {
	return s.Data[station*s.Samples+i]
}

// segmentGood reports whether the window of length w starting at the flat
// offset start contains no two equal adjacent samples. Flat or clipped
// segments yield zero-variance correlations and must be excluded before any
// sums are formed. The caller guarantees start+w stays inside the buffer.
func (s Signals) segmentGood(start, w int) bool {
	for j := start; j < start+w-1; j++ {
		if s.Data[j] == s.Data[j+1] {
			return false
		}
	}
	return true
}
