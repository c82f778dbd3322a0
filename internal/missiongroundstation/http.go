package missiongroundstation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	ctrlmetrics "sigs.k8s.io/controller-runtime/pkg/metrics"

	"cloupeer.io/missiontransfer/internal/missioncontroller"
	"cloupeer.io/missiontransfer/pkg/log"
)

// httpServer exposes health checks and a small diagnostic API over the
// set of vehicle links the ground station is carrying.
type httpServer struct {
	server *http.Server
}

func newHTTPServer(addr string, registry *missioncontroller.Registry) *httpServer {
	router := mux.NewRouter()

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	router.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	router.HandleFunc("/api/v1/vehicles", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(registry.Names()); err != nil {
			log.Error(err, "failed to encode vehicle list response")
		}
	}).Methods(http.MethodGet)

	router.Handle("/metrics", promhttp.HandlerFor(ctrlmetrics.Registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	return &httpServer{
		server: &http.Server{Addr: addr, Handler: router},
	}
}

// Start implements the server interface shared with the controller
// manager and the do-work ticker, so all three can be driven from one
// errgroup.
func (s *httpServer) Start(ctx context.Context) error {
	log.Info("ground station HTTP listening", "addr", s.server.Addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	}
}
