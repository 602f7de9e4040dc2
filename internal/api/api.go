// Package api implements the mindgrid HTTP API.
//
// The API exposes layout optimization and document storage over JSON:
//
//	POST   /api/v1/layout          optimize a document's layout
//	GET    /api/v1/documents       list stored document IDs
//	PUT    /api/v1/documents/{id}  store a document
//	GET    /api/v1/documents/{id}  fetch a document
//	DELETE /api/v1/documents/{id}  delete a document
//	GET    /healthz                liveness probe
//
// Layout results are cached under a namespace separate from the CLI's, so
// clearing one does not evict the other.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mindgrid/mindgrid/pkg/document"
	apperrors "github.com/mindgrid/mindgrid/pkg/errors"
	"github.com/mindgrid/mindgrid/pkg/pipeline"
	"github.com/mindgrid/mindgrid/pkg/store"
)

// maxBodySize caps request bodies. Documents carry base64 images, so the
// limit is generous.
const maxBodySize = 32 << 20

// Server handles API requests.
type Server struct {
	store  store.Store
	runner *pipeline.Runner
	logger *log.Logger
}

// NewServer creates an API server. A nil logger falls back to the default
// logger.
func NewServer(st store.Store, runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{store: st, runner: runner, logger: logger}
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Get("/documents", s.handleListDocuments)
		r.Put("/documents/{id}", s.handlePutDocument)
		r.Get("/documents/{id}", s.handleGetDocument)
		r.Delete("/documents/{id}", s.handleDeleteDocument)
	})

	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten())
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleLayout optimizes the posted document and returns the placed copy.
// Query parameters aspect, edge-length, and seed override the defaults.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.readDocument(w, r)
	if !ok {
		return
	}

	opts, err := layoutOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	opts.Logger = s.logger

	result, err := s.runner.Run(r.Context(), doc, opts)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(result.Artifacts[pipeline.FormatJSON])
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"ids": ids})
}

func (s *Server) handlePutDocument(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.readDocument(w, r)
	if !ok {
		return
	}
	doc.ID = chi.URLParam(r, "id")

	if err := apperrors.ValidateDocumentID(doc.ID); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := doc.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, apperrors.Wrap(apperrors.ErrCodeInvalidDocument, err, "document failed validation"))
		return
	}
	if err := s.store.Put(r.Context(), doc); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": doc.ID})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	data, err := document.Marshal(doc)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	err := s.store.Delete(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// readDocument decodes the request body into a document, reporting decode
// failures to the client.
func (s *Server) readDocument(w http.ResponseWriter, r *http.Request) (*document.Document, bool) {
	doc, err := document.Read(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return nil, false
	}
	return doc, true
}

// layoutOptions parses the optional query parameters of the layout endpoint.
func layoutOptions(r *http.Request) (pipeline.Options, error) {
	opts := pipeline.Options{Formats: []string{pipeline.FormatJSON}}
	q := r.URL.Query()

	if v := q.Get("aspect"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, errors.New("invalid aspect parameter")
		}
		opts.AspectRatio = f
	}
	if v := q.Get("edge-length"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, errors.New("invalid edge-length parameter")
		}
		opts.MinEdgeLength = f
	}
	if v := q.Get("seed"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return opts, errors.New("invalid seed parameter")
		}
		opts.Seed = n
	}
	if v := q.Get("no-cache"); v == "true" || v == "1" {
		opts.NoCache = true
	}
	return opts, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError reports the failure as JSON, including the machine-readable
// code when the error carries one.
func writeError(w http.ResponseWriter, status int, err error) {
	body := map[string]string{"error": err.Error()}
	if code := apperrors.GetCode(err); code != "" {
		body["code"] = string(code)
	}
	writeJSON(w, status, body)
}
