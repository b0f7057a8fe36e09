package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-formdoc/internal/service"
	"github.com/goliatone/go-formdoc/pkg/model"
	"github.com/goliatone/go-formdoc/pkg/token"
)

func (r *Router) handleListTemplates(w http.ResponseWriter, req *http.Request) {
	templates, err := r.svc.ListTemplates(req.Context())
	if err != nil {
		r.writeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, templates)
}

func (r *Router) handleCreateTemplate(w http.ResponseWriter, req *http.Request) {
	var body service.TemplateInput
	if err := r.decodeJSON(w, req, &body); err != nil {
		writeDecodeError(w, err)
		return
	}
	tpl, err := r.svc.CreateTemplate(req.Context(), body)
	if err != nil {
		r.writeError(w, req, err)
		return
	}
	w.Header().Set("Location", "/api/templates/"+tpl.ID)
	writeJSON(w, http.StatusCreated, tpl)
}

func (r *Router) handleGetTemplate(w http.ResponseWriter, req *http.Request) {
	tpl, err := r.svc.GetTemplate(req.Context(), chi.URLParam(req, "id"))
	if err != nil {
		r.writeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, tpl)
}

func (r *Router) handleUpdateTemplate(w http.ResponseWriter, req *http.Request) {
	var body service.TemplateInput
	if err := r.decodeJSON(w, req, &body); err != nil {
		writeDecodeError(w, err)
		return
	}
	tpl, err := r.svc.UpdateTemplate(req.Context(), chi.URLParam(req, "id"), body)
	if err != nil {
		r.writeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, tpl)
}

func (r *Router) handleDeleteTemplate(w http.ResponseWriter, req *http.Request) {
	if err := r.svc.DeleteTemplate(req.Context(), chi.URLParam(req, "id")); err != nil {
		r.writeError(w, req, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (r *Router) handleFormSchema(w http.ResponseWriter, req *http.Request) {
	form, err := r.svc.Form(req.Context(), chi.URLParam(req, "id"))
	if err != nil {
		r.writeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

func (r *Router) handleSubmissionSchema(w http.ResponseWriter, req *http.Request) {
	schema, err := r.svc.SubmissionSchema(req.Context(), chi.URLParam(req, "id"))
	if err != nil {
		r.writeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, schema)
}

func (r *Router) handleInsertField(w http.ResponseWriter, req *http.Request) {
	var body service.InsertFieldRequest
	if err := r.decodeJSON(w, req, &body); err != nil {
		writeDecodeError(w, err)
		return
	}
	tpl, tok, err := r.svc.InsertField(req.Context(), chi.URLParam(req, "id"), body)
	if err != nil {
		r.writeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"template": tpl,
		"field":    tok,
		"token":    tok.String(),
	})
}

type updateFieldRequest struct {
	Type        token.Kind         `json:"type"`
	Label       string             `json:"label"`
	Format      token.NumberFormat `json:"format,omitempty"`
	Placeholder string             `json:"placeholder,omitempty"`
	Optional    bool               `json:"optional,omitempty"`
}

func (r *Router) handleUpdateField(w http.ResponseWriter, req *http.Request) {
	var body updateFieldRequest
	if err := r.decodeJSON(w, req, &body); err != nil {
		writeDecodeError(w, err)
		return
	}
	kind, _ := token.ParseKind(string(body.Type))
	attrs := token.Token{
		ID:          chi.URLParam(req, "fieldID"),
		Kind:        kind,
		Label:       body.Label,
		Format:      body.Format,
		Placeholder: body.Placeholder,
		Required:    !body.Optional,
	}.Normalize()
	tpl, err := r.svc.UpdateField(req.Context(), chi.URLParam(req, "id"), attrs)
	if err != nil {
		r.writeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, tpl)
}

type previewRequest struct {
	Values  model.Values        `json:"values"`
	Errors  map[string][]string `json:"errors,omitempty"`
	Theme   string              `json:"theme,omitempty"`
	Variant string              `json:"variant,omitempty"`
}

// handlePreview renders the template with the posted values. The renderer is
// chosen with ?renderer= and ?fragment=true drops the page chrome.
func (r *Router) handlePreview(w http.ResponseWriter, req *http.Request) {
	var body previewRequest
	if err := r.decodeJSON(w, req, &body); err != nil && !isEmptyBody(err) {
		writeDecodeError(w, err)
		return
	}
	fragment, _ := strconv.ParseBool(req.URL.Query().Get("fragment"))
	doc, err := r.svc.Preview(req.Context(), chi.URLParam(req, "id"), service.PreviewRequest{
		Renderer:     req.URL.Query().Get("renderer"),
		Values:       body.Values,
		Errors:       body.Errors,
		Fragment:     fragment,
		ThemeName:    body.Theme,
		ThemeVariant: body.Variant,
	})
	if err != nil {
		r.writeError(w, req, err)
		return
	}
	download, _ := strconv.ParseBool(req.URL.Query().Get("download"))
	writeDocument(w, doc, download)
}
