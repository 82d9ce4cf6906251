package seis

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jobYAML = `signals: %s
stations:
  - {x: 0, y: 0}
  - {x: 500, y: 0}
  - {x: -500, y: 0}
stations_altitude: 0
velocity_model:
  - {bottom: 0, top: 1000, vp: 2000}
  - {bottom: -1000, top: 0, vp: 3000}
delay: {window: 4, scanner: 2, min_correlation: 0.85, base: 0}
grid: {dx: 50, dy: 50, dz: 50, nx: 3, ny: 3, nz: 3}
search: {accuracy: 1, frequency: 1000}
origin_offset: [-50, -50, -550]
`

func writeJobFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	signals := filepath.Join(dir, "waves.csv")
	require.NoError(t, os.WriteFile(signals, []byte("0.5,1.5,2.5\n1.0,2.0,3.0\n-0.5,0.5,1.5\n"), 0o644))
	job := filepath.Join(dir, "job.yaml")
	require.NoError(t, os.WriteFile(job, []byte(fmt.Sprintf(jobYAML, signals)), 0o644))
	return job
}

func TestLoadJobSpec_RoundTrip(t *testing.T) {
	path := writeJobFixture(t)

	spec, err := LoadJobSpec(path)
	require.NoError(t, err)

	assert.Len(t, spec.Stations, 3)
	assert.Equal(t, 4, spec.Delay.Window)
	assert.Equal(t, Model{
		{Bottom: 0, Top: 1000, Vp: 2000},
		{Bottom: -1000, Top: 0, Vp: 3000},
	}, spec.VelocityModel)
	assert.Equal(t, [3]float32{-50, -50, -550}, spec.OriginOffset)

	// the origin offsets apply to the base station position
	assert.Equal(t, [3]float32{-50, -50, -550}, spec.Origin())
}

func TestLoadJobSpec_SignalsAreColumnMajorPerStation(t *testing.T) {
	path := writeJobFixture(t)
	spec, err := LoadJobSpec(path)
	require.NoError(t, err)

	sig, err := spec.LoadSignals()
	require.NoError(t, err)

	assert.Equal(t, 3, sig.Stations)
	assert.Equal(t, 3, sig.Samples)
	// CSV rows are samples; channel 1 is the second column top to bottom
	assert.Equal(t, []float32{1.5, 2.0, 0.5}, sig.Data[3:6])
}

func TestLoadJobSpec_RejectsInconsistentSpecs(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*JobSpec)
	}{
		{name: "one station", mutate: func(s *JobSpec) { s.Stations = s.Stations[:1] }},
		{name: "bad model", mutate: func(s *JobSpec) { s.VelocityModel = Model{} }},
		{name: "stations above model", mutate: func(s *JobSpec) { s.StationsAltitude = 5000 }},
		{name: "window too small", mutate: func(s *JobSpec) { s.Delay.Window = 1 }},
		{name: "empty grid", mutate: func(s *JobSpec) { s.Grid.Nx = 0 }},
		{name: "zero accuracy", mutate: func(s *JobSpec) { s.Search.Accuracy = 0 }},
		{name: "base out of range", mutate: func(s *JobSpec) { s.Delay.Base = 3 }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			spec, err := LoadJobSpec(writeJobFixture(t))
			require.NoError(t, err)
			c.mutate(spec)
			assert.Error(t, spec.Validate())
		})
	}
}

func TestStationDistances(t *testing.T) {
	spec, err := LoadJobSpec(writeJobFixture(t))
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 500, 500}, spec.StationDistances())
}
