package seis

import "fmt"

// minSelectedStations is the validity gate of the delay estimator: a time
// index is flagged valid only when strictly more than this many stations
// produced a delay.
const minSelectedStations = 3

// minLocateStations is the minimum number of contributing stations for a
// residual-cube cell.
const minLocateStations = 3

// DelayConfig groups delay-estimator parameters.
type DelayConfig struct {
	Window         int     // samples per correlation window (>= 2)
	Scanner        int     // number of lags searched, 0..Scanner-1 samples (>= 1)
	MinCorrelation float64 // lower bound for an accepted Pearson r, in [0,1]
	Base           int     // reference station for differential delays
	Wide           bool    // accumulate correlation sums in float64 instead of float32
}

// NewDelayConfig creates a DelayConfig.
func NewDelayConfig(window, scanner int, minCorrelation float64, base int) DelayConfig {
	return DelayConfig{
		Window:         window,
		Scanner:        scanner,
		MinCorrelation: minCorrelation,
		Base:           base,
	}
}

// Validate checks the estimator parameters against a station count.
func (c DelayConfig) Validate(stations int) error {
	if c.Window < 2 {
		return fmt.Errorf("window size %d: must be >= 2", c.Window)
	}
	if c.Scanner < 1 {
		return fmt.Errorf("scanner size %d: must be >= 1", c.Scanner)
	}
	if c.MinCorrelation < 0 || c.MinCorrelation > 1 {
		return fmt.Errorf("min correlation %g: must be in [0,1]", c.MinCorrelation)
	}
	if c.Base < 0 || c.Base >= stations {
		return fmt.Errorf("base station %d: must be in [0,%d)", c.Base, stations)
	}
	return nil
}

// GridConfig describes the per-event search grid: spacing and node counts
// along each axis. Node k decodes as (k%Nx, (k/Nx)%Ny, k/(Nx*Ny)).
type GridConfig struct {
	Dx, Dy, Dz float32 // node spacing, model units
	Nx, Ny, Nz int     // node counts (>= 1)
}

// NewGridConfig creates a GridConfig.
func NewGridConfig(dx, dy, dz float32, nx, ny, nz int) GridConfig {
	return GridConfig{Dx: dx, Dy: dy, Dz: dz, Nx: nx, Ny: ny, Nz: nz}
}

// Nodes is the linearized node count of one event's grid.
func (g GridConfig) Nodes() int {
	return g.Nx * g.Ny * g.Nz
}

// Validate checks the grid dimensions.
func (g GridConfig) Validate() error {
	if g.Nx < 1 || g.Ny < 1 || g.Nz < 1 {
		return fmt.Errorf("grid %dx%dx%d: all dimensions must be >= 1", g.Nx, g.Ny, g.Nz)
	}
	return nil
}

// SearchConfig groups ray-time solver parameters.
type SearchConfig struct {
	Accuracy  float64 // lateral landing tolerance of the bisection, model units
	Frequency int     // sampling rate: multiplies travel seconds into samples
}

// NewSearchConfig creates a SearchConfig.
func NewSearchConfig(accuracy float64, frequency int) SearchConfig {
	return SearchConfig{Accuracy: accuracy, Frequency: frequency}
}

// Validate checks the solver parameters.
func (c SearchConfig) Validate() error {
	if c.Accuracy <= 0 {
		return fmt.Errorf("accuracy %g: must be > 0", c.Accuracy)
	}
	if c.Frequency < 1 {
		return fmt.Errorf("frequency %d: must be >= 1", c.Frequency)
	}
	return nil
}
