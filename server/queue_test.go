package server

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seislocate/seislocate/seis"
)

func newTestQueue(t *testing.T) *Queue {
	t.Helper()
	mr := miniredis.RunT(t)
	q := NewQueue(mr.Addr())
	t.Cleanup(func() { _ = q.Close() })
	return q
}

func smallJob() *Job {
	return &Job{
		ID:      "abc123",
		Signals: [][]float32{{0, 1, 2, 3, 2, 1, 0, 1}, {1, 2, 3, 2, 1, 0, 1, 2}},
		Stations: []seis.Station{
			{X: 0, Y: 0},
			{X: 100, Y: 0},
		},
		StationsAltitude: 0,
		VelocityModel: seis.Model{
			{Bottom: 0, Top: 1000, Vp: 2000},
			{Bottom: -1000, Top: 0, Vp: 3000},
		},
		Delay:        seis.DelaySpec{Window: 4, Scanner: 2, MinCorrelation: 0.5, Base: 0},
		Grid:         seis.GridSpec{Dx: 100, Dy: 100, Dz: 100, Nx: 1, Ny: 1, Nz: 1},
		Search:       seis.SearchSpec{Accuracy: 1, Frequency: 1000},
		OriginOffset: [3]float32{0, 0, -500},
	}
}

func TestQueue_EnqueueDequeueRoundTrip(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, smallJob()))

	got, err := q.Dequeue(ctx, 100*time.Millisecond)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, smallJob(), got)
}

func TestQueue_DequeueTimesOutEmpty(t *testing.T) {
	q := newTestQueue(t)

	got, err := q.Dequeue(context.Background(), 50*time.Millisecond)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestQueue_DequeueIsFIFO(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()

	first := smallJob()
	first.ID = "first"
	second := smallJob()
	second.ID = "second"
	require.NoError(t, q.Enqueue(ctx, first))
	require.NoError(t, q.Enqueue(ctx, second))

	got, err := q.Dequeue(ctx, 100*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, "first", got.ID)
}

func TestQueue_ResultRoundTrip(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()

	res := &Result{
		ID:     "abc123",
		Status: StatusDone,
		Events: []EventResult{{Time: 7, Located: true, Node: 3, Residual: 0.5, Z: -500}},
	}
	require.NoError(t, q.SetResult(ctx, res))

	got, found, err := q.Result(ctx, "abc123")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, res, got)
}

func TestQueue_ResultUnknownID(t *testing.T) {
	q := newTestQueue(t)

	_, found, err := q.Result(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestQueue_Ping(t *testing.T) {
	q := newTestQueue(t)
	assert.NoError(t, q.Ping(context.Background()))
}
