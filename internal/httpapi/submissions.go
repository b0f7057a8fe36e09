package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-formdoc/internal/service"
	"github.com/goliatone/go-formdoc/pkg/model"
)

type submitRequest struct {
	Data model.Values `json:"data"`
}

func (r *Router) handleSubmit(w http.ResponseWriter, req *http.Request) {
	var body submitRequest
	if err := r.decodeJSON(w, req, &body); err != nil {
		writeDecodeError(w, err)
		return
	}
	sub, err := r.svc.Submit(req.Context(), chi.URLParam(req, "id"), body.Data)
	if err != nil {
		r.writeError(w, req, err)
		return
	}
	w.Header().Set("Location", "/api/submissions/"+sub.ID)
	writeJSON(w, http.StatusCreated, sub)
}

func (r *Router) handleListTemplateSubmissions(w http.ResponseWriter, req *http.Request) {
	id := chi.URLParam(req, "id")
	if _, err := r.svc.GetTemplate(req.Context(), id); err != nil {
		r.writeError(w, req, err)
		return
	}
	subs, err := r.svc.ListSubmissions(req.Context(), id)
	if err != nil {
		r.writeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

func (r *Router) handleListSubmissions(w http.ResponseWriter, req *http.Request) {
	subs, err := r.svc.ListSubmissions(req.Context(), req.URL.Query().Get("template"))
	if err != nil {
		r.writeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

func (r *Router) handleGetSubmission(w http.ResponseWriter, req *http.Request) {
	sub, err := r.svc.GetSubmission(req.Context(), chi.URLParam(req, "id"))
	if err != nil {
		r.writeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (r *Router) handleDeleteSubmission(w http.ResponseWriter, req *http.Request) {
	if err := r.svc.DeleteSubmission(req.Context(), chi.URLParam(req, "id")); err != nil {
		r.writeError(w, req, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (r *Router) handleExportSubmission(w http.ResponseWriter, req *http.Request) {
	doc, err := r.svc.ExportSubmission(req.Context(), chi.URLParam(req, "id"), req.URL.Query().Get("format"))
	if err != nil {
		r.writeError(w, req, err)
		return
	}
	writeDocument(w, doc, true)
}

func (r *Router) handleExportSubmissions(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	doc, err := r.svc.ExportSubmissions(req.Context(), q.Get("template"), q.Get("format"), time.Now())
	if err != nil {
		r.writeError(w, req, err)
		return
	}
	writeDocument(w, doc, true)
}

func (r *Router) handleSubmissionDocument(w http.ResponseWriter, req *http.Request) {
	fragment, _ := strconv.ParseBool(req.URL.Query().Get("fragment"))
	doc, err := r.svc.RenderSubmission(req.Context(), chi.URLParam(req, "id"), service.PreviewRequest{
		Renderer:     req.URL.Query().Get("renderer"),
		Fragment:     fragment,
		ThemeName:    req.URL.Query().Get("theme"),
		ThemeVariant: req.URL.Query().Get("variant"),
	})
	if err != nil {
		r.writeError(w, req, err)
		return
	}
	download, _ := strconv.ParseBool(req.URL.Query().Get("download"))
	writeDocument(w, doc, download)
}
