package seis

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// JobSpec is the YAML description of one processing job: where the waveforms
// live, the station network, the velocity model, and the engine parameters.
type JobSpec struct {
	SignalsFile      string     `yaml:"signals"`
	Stations         []Station  `yaml:"stations"`
	StationsAltitude float64    `yaml:"stations_altitude"`
	VelocityModel    Model      `yaml:"velocity_model"`
	Delay            DelaySpec  `yaml:"delay"`
	Grid             GridSpec   `yaml:"grid"`
	Search           SearchSpec `yaml:"search"`
	OriginOffset     [3]float32 `yaml:"origin_offset"`
}

// DelaySpec is the YAML form of DelayConfig.
type DelaySpec struct {
	Window         int     `yaml:"window" json:"window"`
	Scanner        int     `yaml:"scanner" json:"scanner"`
	MinCorrelation float64 `yaml:"min_correlation" json:"min_correlation"`
	Base           int     `yaml:"base" json:"base"`
	Wide           bool    `yaml:"wide,omitempty" json:"wide,omitempty"`
}

// GridSpec is the YAML form of GridConfig.
type GridSpec struct {
	Dx float32 `yaml:"dx" json:"dx"`
	Dy float32 `yaml:"dy" json:"dy"`
	Dz float32 `yaml:"dz" json:"dz"`
	Nx int     `yaml:"nx" json:"nx"`
	Ny int     `yaml:"ny" json:"ny"`
	Nz int     `yaml:"nz" json:"nz"`
}

// SearchSpec is the YAML form of SearchConfig.
type SearchSpec struct {
	Accuracy  float64 `yaml:"accuracy" json:"accuracy"`
	Frequency int     `yaml:"frequency" json:"frequency"`
}

// LoadJobSpec reads and validates a YAML job file.
func LoadJobSpec(path string) (*JobSpec, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read job spec: %w", err)
	}
	var spec JobSpec
	if err := yaml.Unmarshal(raw, &spec); err != nil {
		return nil, fmt.Errorf("parse job spec %s: %w", path, err)
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("job spec %s: %w", path, err)
	}
	return &spec, nil
}

// Validate checks the job spec for internal consistency.
func (s *JobSpec) Validate() error {
	if len(s.Stations) < 2 {
		return fmt.Errorf("need at least 2 stations, got %d", len(s.Stations))
	}
	if err := s.VelocityModel.Validate(); err != nil {
		return fmt.Errorf("velocity model: %w", err)
	}
	if s.StationsAltitude < s.VelocityModel.Floor() || s.StationsAltitude > s.VelocityModel.Ceiling() {
		return fmt.Errorf("stations altitude %g outside model [%g, %g]",
			s.StationsAltitude, s.VelocityModel.Floor(), s.VelocityModel.Ceiling())
	}
	if err := s.DelayConfig().Validate(len(s.Stations)); err != nil {
		return err
	}
	if err := s.GridConfig().Validate(); err != nil {
		return err
	}
	return s.SearchConfig().Validate()
}

// DelayConfig converts the YAML delay section.
func (s *JobSpec) DelayConfig() DelayConfig {
	return DelayConfig{
		Window:         s.Delay.Window,
		Scanner:        s.Delay.Scanner,
		MinCorrelation: s.Delay.MinCorrelation,
		Base:           s.Delay.Base,
		Wide:           s.Delay.Wide,
	}
}

// GridConfig converts the YAML grid section.
func (s *JobSpec) GridConfig() GridConfig {
	return NewGridConfig(s.Grid.Dx, s.Grid.Dy, s.Grid.Dz, s.Grid.Nx, s.Grid.Ny, s.Grid.Nz)
}

// SearchConfig converts the YAML search section.
func (s *JobSpec) SearchConfig() SearchConfig {
	return NewSearchConfig(s.Search.Accuracy, s.Search.Frequency)
}

// Origin is the search-grid origin: the configured offset applied to the
// base station's position.
func (s *JobSpec) Origin() [3]float32 {
	base := s.Stations[s.Delay.Base]
	return [3]float32{
		float32(base.X) + s.OriginOffset[0],
		float32(base.Y) + s.OriginOffset[1],
		float32(s.StationsAltitude) + s.OriginOffset[2],
	}
}

// LoadSignals reads the waveform CSV referenced by the spec: one row per
// sample, one column per station, matching the station list order.
func (s *JobSpec) LoadSignals() (Signals, error) {
	f, err := os.Open(s.SignalsFile)
	if err != nil {
		return Signals{}, fmt.Errorf("open signals: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(s.Stations)
	rows, err := r.ReadAll()
	if err != nil {
		return Signals{}, fmt.Errorf("read signals %s: %w", s.SignalsFile, err)
	}
	if len(rows) == 0 {
		return Signals{}, fmt.Errorf("signals %s: no samples", s.SignalsFile)
	}

	stations, samples := len(s.Stations), len(rows)
	data := make([]float32, stations*samples)
	for t, row := range rows {
		for st, field := range row {
			v, err := strconv.ParseFloat(field, 32)
			if err != nil {
				return Signals{}, fmt.Errorf("signals %s row %d column %d: %w", s.SignalsFile, t, st, err)
			}
			data[st*samples+t] = float32(v)
		}
	}
	return NewSignals(data, stations, samples)
}

// StationDistances returns each station's lateral distance to the base
// station, in station order. Useful when sanity-checking a network layout.
func (s *JobSpec) StationDistances() []float64 {
	base := s.Stations[s.Delay.Base]
	return lo.Map(s.Stations, func(st Station, _ int) float64 {
		return math.Hypot(st.X-base.X, st.Y-base.Y)
	})
}
