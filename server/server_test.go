package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_Ping(t *testing.T) {
	srv := NewServer(newTestQueue(t))

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}

func TestServer_SubmitQueuesJob(t *testing.T) {
	q := newTestQueue(t)
	srv := NewServer(q)

	body, err := json.Marshal(smallJob())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/jobs", bytes.NewReader(body)))

	require.Equal(t, http.StatusAccepted, rec.Code)
	var reply map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	id := reply["id"]
	require.NotEmpty(t, id)

	// the job is queued and its status is visible immediately
	res, found, err := q.Result(context.Background(), id)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, StatusQueued, res.Status)

	queued, err := q.Dequeue(context.Background(), 100*time.Millisecond)
	require.NoError(t, err)
	require.NotNil(t, queued)
	assert.Equal(t, id, queued.ID)
}

func TestServer_SubmitRejectsMalformedBody(t *testing.T) {
	srv := NewServer(newTestQueue(t))

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/jobs", strings.NewReader("{not json")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_SubmitRejectsInvalidJob(t *testing.T) {
	srv := NewServer(newTestQueue(t))

	job := smallJob()
	job.Signals = job.Signals[:1] // one channel for two stations
	body, err := json.Marshal(job)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/jobs", bytes.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_ResultUnknownJob(t *testing.T) {
	srv := NewServer(newTestQueue(t))

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs/deadbeef", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddr_DefaultsAndEnvironment(t *testing.T) {
	t.Setenv("SERVICE_HOST", "")
	t.Setenv("SERVICE_PORT", "")
	assert.Equal(t, "0.0.0.0:8080", Addr())

	t.Setenv("SERVICE_HOST", "127.0.0.1")
	t.Setenv("SERVICE_PORT", "9090")
	assert.Equal(t, "127.0.0.1:9090", Addr())
}
