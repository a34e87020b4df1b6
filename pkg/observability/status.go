package observability

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// StatusServer exposes health, metrics and the last run report over HTTP.
// It is used by long-running invocations; one-shot runs don't start it.
type StatusServer struct {
	server *http.Server
	log    *logrus.Entry

	mu     sync.RWMutex
	report any
}

// NewStatusServer creates a status server bound to addr.
func NewStatusServer(addr string, metrics *Metrics, log *logrus.Entry) *StatusServer {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	s := &StatusServer{log: log}

	router := mux.NewRouter()
	router.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/report", s.handleReport).Methods(http.MethodGet)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s
}

// Start serves until Shutdown is called. Errors other than a clean close
// are logged.
func (s *StatusServer) Start() {
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.WithError(err).Error("Status server failed")
		}
	}()
	s.log.WithField("addr", s.server.Addr).Info("Status server listening")
}

// Shutdown stops the server gracefully.
func (s *StatusServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// SetReport publishes the report served at /report.
func (s *StatusServer) SetReport(report any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.report = report
}

func (s *StatusServer) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *StatusServer) handleReport(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	report := s.report
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	if report == nil {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "no run completed yet"})
		return
	}
	json.NewEncoder(w).Encode(report)
}
