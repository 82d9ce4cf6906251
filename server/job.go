package server

import (
	"fmt"

	"github.com/seislocate/seislocate/seis"
)

// Job is the wire form of one processing request: inline waveforms plus the
// network, model, and engine parameters.
type Job struct {
	ID               string          `json:"id,omitempty"`
	Signals          [][]float32     `json:"signals"` // one slice per station, equal lengths
	Stations         []seis.Station  `json:"stations"`
	StationsAltitude float64         `json:"stations_altitude"`
	VelocityModel    seis.Model      `json:"velocity_model"`
	Delay            seis.DelaySpec  `json:"delay"`
	Grid             seis.GridSpec   `json:"grid"`
	Search           seis.SearchSpec `json:"search"`
	OriginOffset     [3]float32      `json:"origin_offset"`
}

// Validate checks the wire payload before it is queued.
func (j *Job) Validate() error {
	if len(j.Signals) != len(j.Stations) {
		return fmt.Errorf("%d signal channels for %d stations", len(j.Signals), len(j.Stations))
	}
	if len(j.Signals) == 0 {
		return fmt.Errorf("no signal channels")
	}
	samples := len(j.Signals[0])
	if samples == 0 {
		return fmt.Errorf("empty signal channels")
	}
	for s, ch := range j.Signals {
		if len(ch) != samples {
			return fmt.Errorf("channel %d has %d samples, channel 0 has %d", s, len(ch), samples)
		}
	}
	return j.spec().Validate()
}

// spec views the job through the JobSpec validation and conversion helpers.
func (j *Job) spec() *seis.JobSpec {
	return &seis.JobSpec{
		Stations:         j.Stations,
		StationsAltitude: j.StationsAltitude,
		VelocityModel:    j.VelocityModel,
		Delay:            j.Delay,
		Grid:             j.Grid,
		Search:           j.Search,
		OriginOffset:     j.OriginOffset,
	}
}

// signals flattens the per-station channels into the station-major block the
// engine consumes.
func (j *Job) signals() (seis.Signals, error) {
	samples := len(j.Signals[0])
	data := make([]float32, 0, len(j.Signals)*samples)
	for _, ch := range j.Signals {
		data = append(data, ch...)
	}
	return seis.NewSignals(data, len(j.Signals), samples)
}

// Job statuses stored in the result cache.
const (
	StatusQueued = "queued"
	StatusDone   = "done"
	StatusFailed = "failed"
)

// Result is the cached outcome of a job.
type Result struct {
	ID     string        `json:"id"`
	Status string        `json:"status"`
	Error  string        `json:"error,omitempty"`
	Events []EventResult `json:"events,omitempty"`
}

// EventResult is one detected event's localization. Node is the NULL
// sentinel and Located false when no grid node was admissible.
type EventResult struct {
	Time     int     `json:"time"`
	Located  bool    `json:"located"`
	Node     int32   `json:"node"`
	Residual float32 `json:"residual,omitempty"`
	X        float32 `json:"x,omitempty"`
	Y        float32 `json:"y,omitempty"`
	Z        float32 `json:"z,omitempty"`
}
