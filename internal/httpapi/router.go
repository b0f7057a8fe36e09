// Package httpapi exposes the service over HTTP with chi.
package httpapi

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/goliatone/go-formdoc/internal/service"
	"github.com/goliatone/go-formdoc/pkg/renderers/html"
	"github.com/goliatone/go-formdoc/pkg/store"
)

const defaultMaxRequestBytes = 8 << 20

// Option configures the router.
type Option func(*Router)

// WithLogger sets the request and error logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Router) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMaxRequestBytes caps request bodies. Images travel inline as data URIs
// so the default is generous.
func WithMaxRequestBytes(n int64) Option {
	return func(r *Router) {
		if n > 0 {
			r.maxRequestBytes = n
		}
	}
}

// WithAssets overrides the filesystem served under /assets/.
func WithAssets(fsys fs.FS) Option {
	return func(r *Router) {
		r.assets = fsys
	}
}

type Router struct {
	svc             *service.Service
	logger          *zap.Logger
	maxRequestBytes int64
	assets          fs.FS
}

// NewRouter builds the HTTP handler.
func NewRouter(svc *service.Service, opts ...Option) http.Handler {
	r := &Router{
		svc:             svc,
		logger:          zap.NewNop(),
		maxRequestBytes: defaultMaxRequestBytes,
		assets:          html.AssetsFS(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}

	mux := chi.NewRouter()
	mux.Use(middleware.RequestID)
	mux.Use(r.requestLogger)
	mux.Use(middleware.Recoverer)

	mux.Get("/healthz", r.handleHealth)
	if r.assets != nil {
		mux.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(r.assets))))
	}

	mux.Route("/api/templates", func(tr chi.Router) {
		tr.Get("/", r.handleListTemplates)
		tr.Post("/", r.handleCreateTemplate)
		tr.Route("/{id}", func(one chi.Router) {
			one.Get("/", r.handleGetTemplate)
			one.Put("/", r.handleUpdateTemplate)
			one.Delete("/", r.handleDeleteTemplate)
			one.Get("/schema", r.handleFormSchema)
			one.Get("/submission-schema", r.handleSubmissionSchema)
			one.Post("/fields", r.handleInsertField)
			one.Put("/fields/{fieldID}", r.handleUpdateField)
			one.Post("/preview", r.handlePreview)
			one.Get("/submissions", r.handleListTemplateSubmissions)
			one.Post("/submissions", r.handleSubmit)
		})
	})

	mux.Route("/api/submissions", func(sr chi.Router) {
		sr.Get("/", r.handleListSubmissions)
		sr.Get("/export", r.handleExportSubmissions)
		sr.Get("/{id}", r.handleGetSubmission)
		sr.Delete("/{id}", r.handleDeleteSubmission)
		sr.Get("/{id}/export", r.handleExportSubmission)
		sr.Get("/{id}/document", r.handleSubmissionDocument)
	})

	return mux
}

func (r *Router) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDocument(w http.ResponseWriter, doc service.Rendered, download bool) {
	w.Header().Set("Content-Type", doc.ContentType)
	if download && doc.FileName != "" {
		w.Header().Set("Content-Disposition", `attachment; filename="`+doc.FileName+`"`)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc.Body)
}

// writeError maps service errors onto status codes: not found → 404,
// validation → 422, invalid input → 400, anything else → 500.
func (r *Router) writeError(w http.ResponseWriter, req *http.Request, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  "validation failed",
			"issues": verr.Result.Issues,
			"fields": verr.Result.Payload(),
		})
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		r.logger.Error("request failed",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}
