package seis

import (
	"context"
	"fmt"
	"runtime"

	"github.com/alitto/pond"
	"github.com/sirupsen/logrus"
)

// launchBlock is the fixed work-group size the driver linearizes work-item
// counts into. Kernels still carry their own out-of-range guard, mirroring
// the device convention of launching a covering grid.
const launchBlock = 256

// Engine is the host driver: it owns the worker pool the kernels execute on
// and stitches the stages of a job together. Buffers are allocated per call;
// the pool is shared across jobs until Close.
type Engine struct {
	pool *pond.WorkerPool
}

// NewEngine creates an Engine with the given parallelism. workers <= 0 uses
// one worker per CPU. The context cancels in-flight blocks when the caller
// abandons the engine.
func NewEngine(ctx context.Context, workers int) *Engine {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Engine{
		pool: pond.New(workers, 0, pond.MinWorkers(workers), pond.Context(ctx)),
	}
}

// Close stops the pool after draining submitted blocks.
func (e *Engine) Close() {
	e.pool.StopAndWait()
}

// launch runs kernel once per global work-item id in [0, items), split into
// launchBlock-sized blocks over the pool, and blocks until every block
// finished. This is the stage barrier: the next launch observes all writes
// of this one.
func (e *Engine) launch(items int, kernel func(g int)) {
	group := e.pool.Group()
	for start := 0; start < items; start += launchBlock {
		start := start
		end := min(start+launchBlock, items)
		group.Submit(func() {
			for g := start; g < end; g++ {
				kernel(g)
			}
		})
	}
	group.Wait()
}

// EstimateDelays scans the waveform block and fills the [T, S+1] delay
// matrix: one work-item per scannable time index. Rows beyond the scannable
// range keep their zero initialization.
func (e *Engine) EstimateDelays(ctx context.Context, sig Signals, cfg DelayConfig) (RealDelays, error) {
	if err := cfg.Validate(sig.Stations); err != nil {
		return RealDelays{}, fmt.Errorf("estimate delays: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return RealDelays{}, err
	}

	out := NewRealDelays(sig.Samples, sig.Stations)
	items := sig.Samples - cfg.Window - cfg.Scanner
	if items < 0 {
		items = 0
	}
	logrus.Debugf("delay estimator: %d stations, %d samples, %d work-items", sig.Stations, sig.Samples, items)
	e.launch(items, func(t int) {
		delayKernel(sig, cfg, out, t)
	})
	return out, nil
}

// LocateEvents evaluates the residual cube for every event and reduces it to
// the best node per event. delays is the flat [events, stations+1] matrix of
// measured lags (column 0 the validity flag); origins the flat [events, 3]
// grid origins. It returns the per-event best node index (Null when every
// node is invalid), its residual (+Inf when none), and the full cube for
// quality inspection.
func (e *Engine) LocateEvents(ctx context.Context, model Model, delays []int32, coords []Station, stationsAlt float64, origins []float32, grid GridConfig, search SearchConfig, base int) ([]int32, []float32, []float32, error) {
	if err := model.Validate(); err != nil {
		return nil, nil, nil, fmt.Errorf("locate events: %w", err)
	}
	if err := grid.Validate(); err != nil {
		return nil, nil, nil, fmt.Errorf("locate events: %w", err)
	}
	if err := search.Validate(); err != nil {
		return nil, nil, nil, fmt.Errorf("locate events: %w", err)
	}
	if base < 0 || base >= len(coords) {
		return nil, nil, nil, fmt.Errorf("locate events: base station %d out of range", base)
	}
	stride := len(coords) + 1
	if len(delays)%stride != 0 {
		return nil, nil, nil, fmt.Errorf("locate events: delay matrix length %d not a multiple of %d", len(delays), stride)
	}
	events := len(delays) / stride
	if len(origins) != events*3 {
		return nil, nil, nil, fmt.Errorf("locate events: %d origins for %d events", len(origins)/3, events)
	}

	job := &locateJob{
		model:       model,
		coords:      coords,
		stationsAlt: stationsAlt,
		delays:      delays,
		origins:     origins,
		grid:        grid,
		search:      search,
		base:        base,
		events:      events,
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, nil, err
	}
	nodes := grid.Nodes()
	cube := make([]float32, events*nodes)
	logrus.Debugf("residual cube: %d events x %d nodes", events, nodes)
	e.launch(events*nodes, func(g int) {
		job.diffKernel(cube, g)
	})

	if err := ctx.Err(); err != nil {
		return nil, nil, nil, err
	}
	bestNode := make([]int32, events)
	residual := make([]float32, events)
	e.launch(events, func(ev int) {
		reduceKernel(cube, nodes, bestNode, residual, ev)
	})
	return bestNode, residual, cube, nil
}

// Event couples one valid delay row with the time index it was detected at.
type Event struct {
	Time   int
	Delays []int32 // [stations+1] row, column 0 the validity flag
}

// ExtractEvents collects the valid rows of a delay matrix into per-event
// flat buffers for LocateEvents. Every event shares the given search-grid
// origin.
func ExtractEvents(d RealDelays, origin [3]float32) (events []Event, delays []int32, origins []float32) {
	for t := 0; t < d.Samples; t++ {
		if !d.Valid(t) {
			continue
		}
		row := d.Row(t)
		events = append(events, Event{Time: t, Delays: row})
		delays = append(delays, row...)
		origins = append(origins, origin[0], origin[1], origin[2])
	}
	return events, delays, origins
}

// NodePosition decodes a linear node index into model coordinates for the
// given origin.
func NodePosition(grid GridConfig, origin [3]float32, node int32) (x, y, z float32) {
	ix := int(node) % grid.Nx
	iy := (int(node) / grid.Nx) % grid.Ny
	iz := int(node) / (grid.Nx * grid.Ny)
	x = float32(ix)*grid.Dx + origin[0]
	y = float32(iy)*grid.Dy + origin[1]
	z = float32(iz)*grid.Dz + origin[2]
	return x, y, z
}
