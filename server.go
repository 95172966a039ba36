package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Pipeline is the part of the Processor the web UI drives
type Pipeline interface {
	Run(ctx context.Context, req RankRequest) (*RankResult, error)
	MaxArticles() int
}

type server struct {
	pipeline Pipeline
	renderer *Renderer
}

// newRouter builds the web UI routes
func newRouter(pipeline Pipeline, renderer *Renderer) http.Handler {
	s := &server{pipeline: pipeline, renderer: renderer}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/health", s.handleHealth)
	return r
}

func (s *server) handleIndex(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	data := pageData{
		Preference: strings.TrimSpace(query.Get("preference")),
		Count:      1,
		Counts:     countOptions(s.pipeline.MaxArticles()),
	}
	status := http.StatusOK

	if raw := strings.TrimSpace(query.Get("count")); raw != "" {
		count, err := strconv.Atoi(raw)
		if err != nil {
			status = http.StatusBadRequest
			data.Error = "count must be a whole number"
		} else {
			data.Count = count
		}
	}

	if data.Preference != "" && data.Error == "" {
		result, err := s.pipeline.Run(r.Context(), RankRequest{Preference: data.Preference, Count: data.Count})
		switch {
		case errors.Is(err, ErrInvalidRequest):
			status = http.StatusBadRequest
			data.Error = err.Error()
		case err != nil:
			status = http.StatusBadGateway
			data.Error = "Ranking failed: " + err.Error()
		default:
			data.Result = result
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.renderer.Page(w, data); err != nil {
		log.Printf("✗ Rendering page: %v", err)
	}
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// serve runs the web UI until ctx is cancelled
func serve(ctx context.Context, addr string, handler http.Handler) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// A ranking pass makes one model call and one fetch per article, so
		// responses are not bounded by a write timeout.
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("→ Serving on http://%s", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Printf("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
