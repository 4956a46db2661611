package collapsed

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/fss-lab/collapse-core/pkg/config"
)

// Server exposes the search store and executor over HTTP/JSON. This is
// the surface external plotting tools consume; it only ever serializes
// numeric arrays and never renders anything itself.
type Server struct {
	store    *Store
	executor *Executor
}

func NewServer(store *Store, executor *Executor) *Server {
	return &Server{store: store, executor: executor}
}

// Handler builds the router. Plotting frontends are browser-based, so
// the API is CORS-open for reads and writes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealthz)
	r.Route("/v1/collapses", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Get("/", s.handleList)
		r.Get("/{id}", s.handleGet)
		r.Get("/{id}/surface", s.handleSurface)
	})
	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleCreate accepts a job specification and starts it.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var job config.Job
	if err := json.NewDecoder(r.Body).Decode(&job); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := config.ValidateJob(&job); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := s.executor.Submit(&job)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to submit search: "+err.Error())
		return
	}
	s.writeJSON(w, http.StatusAccepted, map[string]string{"id": id})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	recs, err := s.store.List(limit)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to list searches: "+err.Error())
		return
	}
	if recs == nil {
		recs = []*Record{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"searches": recs})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	rec, err := s.fetch(w, chi.URLParam(r, "id"))
	if rec == nil || err != nil {
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

// handleSurface serves only the residual surface of a completed
// search, the payload contour/line plotters poll for.
func (s *Server) handleSurface(w http.ResponseWriter, r *http.Request) {
	rec, err := s.fetch(w, chi.URLParam(r, "id"))
	if rec == nil || err != nil {
		return
	}
	if rec.Outcome == nil {
		s.writeError(w, http.StatusConflict, "search has no result yet")
		return
	}

	out := map[string]any{
		"mode":         rec.Outcome.Mode,
		"v1":           rec.Outcome.V1,
		"best_v1":      rec.Outcome.BestV1,
		"min_residual": rec.Outcome.MinResidual,
	}
	if rec.Outcome.Mode == config.ModeTwoParam {
		out["v2"] = rec.Outcome.V2
		out["best_v2"] = rec.Outcome.BestV2
		out["surface"] = rec.Outcome.Surface
	} else {
		out["residuals"] = rec.Outcome.Residuals
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) fetch(w http.ResponseWriter, id string) (*Record, error) {
	rec, err := s.store.Get(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "search not found: "+id)
		} else {
			s.writeError(w, http.StatusInternalServerError, "failed to load search: "+err.Error())
		}
		return nil, err
	}
	return rec, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
