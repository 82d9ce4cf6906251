package server

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"os"

	"github.com/sirupsen/logrus"
)

// Server is the HTTP frontend: a health endpoint plus job submission and
// result polling backed by the queue.
type Server struct {
	queue *Queue
	mux   *http.ServeMux
}

// NewServer wires the routes.
func NewServer(queue *Queue) *Server {
	s := &Server{queue: queue, mux: http.NewServeMux()}
	s.mux.HandleFunc("GET /ping", s.handlePing)
	s.mux.HandleFunc("POST /jobs", s.handleSubmit)
	s.mux.HandleFunc("GET /jobs/{id}", s.handleResult)
	return s
}

// ServeHTTP dispatches to the route table.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Addr resolves the listen address from SERVICE_HOST / SERVICE_PORT.
func Addr() string {
	host := os.Getenv("SERVICE_HOST")
	if host == "" {
		host = "0.0.0.0"
	}
	port := os.Getenv("SERVICE_PORT")
	if port == "" {
		port = "8080"
	}
	return host + ":" + port
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte("pong"))
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var job Job
	if err := json.NewDecoder(r.Body).Decode(&job); err != nil {
		http.Error(w, "malformed job: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := job.Validate(); err != nil {
		http.Error(w, "invalid job: "+err.Error(), http.StatusBadRequest)
		return
	}
	job.ID = newJobID()

	ctx := r.Context()
	if err := s.queue.SetResult(ctx, &Result{ID: job.ID, Status: StatusQueued}); err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	if err := s.queue.Enqueue(ctx, &job); err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	logrus.Infof("queued job %s", job.ID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(map[string]string{"id": job.ID})
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	res, found, err := s.queue.Result(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	if !found {
		http.Error(w, "unknown job "+id, http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(res)
}

func newJobID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
