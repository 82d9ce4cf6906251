package server

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/seislocate/seislocate/seis"
)

// pollTimeout is how long one queue pop blocks before the worker rechecks
// its stop channel.
const pollTimeout = time.Second

// Worker drains the job queue through the numeric engine and caches each
// job's result. One worker per process is enough: the engine itself fans the
// kernels out over the pool.
type Worker struct {
	queue  *Queue
	engine *seis.Engine
	stop   chan struct{}
	done   chan struct{}
}

// NewWorker couples a queue with an engine.
func NewWorker(queue *Queue, engine *seis.Engine) *Worker {
	return &Worker{
		queue:  queue,
		engine: engine,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start runs the drain loop in a goroutine until Stop.
func (w *Worker) Start() {
	go func() {
		defer close(w.done)
		ctx := context.Background()
		for {
			select {
			case <-w.stop:
				return
			default:
			}
			job, err := w.queue.Dequeue(ctx, pollTimeout)
			if err != nil {
				logrus.Errorf("worker: %v", err)
				continue
			}
			if job == nil {
				continue
			}
			res := w.run(ctx, job)
			if err := w.queue.SetResult(ctx, res); err != nil {
				logrus.Errorf("worker: %v", err)
			}
		}
	}()
}

// Stop requests the loop to exit and waits for the in-flight job to finish.
func (w *Worker) Stop() {
	close(w.stop)
	<-w.done
}

// run executes one job end to end. Failures are reported in the result and
// the job is never retried.
func (w *Worker) run(ctx context.Context, job *Job) *Result {
	logrus.Infof("job %s: %d stations", job.ID, len(job.Stations))
	events, err := Process(ctx, w.engine, job)
	if err != nil {
		logrus.Warnf("job %s failed: %v", job.ID, err)
		return &Result{ID: job.ID, Status: StatusFailed, Error: err.Error()}
	}
	logrus.Infof("job %s: %d events", job.ID, len(events))
	return &Result{ID: job.ID, Status: StatusDone, Events: events}
}

// Process runs the full pipeline for one job: delay estimation, event
// extraction, and grid-search localization.
func Process(ctx context.Context, engine *seis.Engine, job *Job) ([]EventResult, error) {
	if err := job.Validate(); err != nil {
		return nil, err
	}
	sig, err := job.signals()
	if err != nil {
		return nil, err
	}
	spec := job.spec()

	delayMatrix, err := engine.EstimateDelays(ctx, sig, spec.DelayConfig())
	if err != nil {
		return nil, err
	}

	origin := spec.Origin()
	detected, delays, origins := seis.ExtractEvents(delayMatrix, origin)
	if len(detected) == 0 {
		return nil, nil
	}

	grid := spec.GridConfig()
	bestNode, residual, cube, err := engine.LocateEvents(ctx, job.VelocityModel, delays,
		job.Stations, job.StationsAltitude, origins, grid, spec.SearchConfig(), job.Delay.Base)
	if err != nil {
		return nil, err
	}
	seis.CollectMetrics(cube, grid.Nodes(), bestNode, residual).Print()

	results := make([]EventResult, len(detected))
	for i, ev := range detected {
		r := EventResult{Time: ev.Time, Node: bestNode[i]}
		if bestNode[i] != seis.Null {
			r.Located = true
			r.Residual = residual[i]
			r.X, r.Y, r.Z = seis.NodePosition(grid, origin, bestNode[i])
		}
		results[i] = r
	}
	return results, nil
}
