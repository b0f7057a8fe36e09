package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-formdoc/internal/service"
	"github.com/goliatone/go-formdoc/pkg/store"
	"github.com/goliatone/go-formdoc/pkg/store/memory"
)

const laudo = "# Laudo\n\nCliente: {{cliente:text:label:Cliente}}\n\nValor: {{valor:number:label:Valor|format:currency}}"

func newTestServer(t *testing.T) (http.Handler, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)
	svc := service.New(memory.NewTemplates(), memory.NewSubmissions(), service.WithLogger(logger))
	return NewRouter(svc, WithLogger(logger), WithMaxRequestBytes(1<<20)), logs
}

func doJSON(t *testing.T, ts http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		buf = bytes.NewBuffer(b)
	} else {
		buf = &bytes.Buffer{}
	}
	req, _ := http.NewRequest(method, path, buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	ts.ServeHTTP(rr, req)
	return rr
}

func createTemplate(t *testing.T, ts http.Handler) store.Template {
	t.Helper()
	rr := doJSON(t, ts, "POST", "/api/templates", map[string]string{"title": "Laudo", "markup": laudo})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rr.Code, rr.Body.String())
	}
	var tpl store.Template
	if err := json.Unmarshal(rr.Body.Bytes(), &tpl); err != nil {
		t.Fatalf("decode template: %v", err)
	}
	if rr.Header().Get("Location") != "/api/templates/"+tpl.ID {
		t.Fatalf("unexpected location %q", rr.Header().Get("Location"))
	}
	return tpl
}

func TestHealthAndAssets(t *testing.T) {
	ts, logs := newTestServer(t)

	rr := doJSON(t, ts, "GET", "/healthz", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("health status: %d", rr.Code)
	}
	entries := logs.FilterMessage("request").All()
	if len(entries) != 1 || entries[0].ContextMap()["status"] != int64(http.StatusOK) {
		t.Fatalf("expected one request log with status, got %+v", entries)
	}

	rr = doJSON(t, ts, "GET", "/assets/formdoc.css", nil)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), ".field-slot") {
		t.Fatalf("stylesheet not served: %d", rr.Code)
	}
}

func TestTemplateCRUD(t *testing.T) {
	ts, _ := newTestServer(t)
	tpl := createTemplate(t, ts)
	if len(tpl.Fields) != 2 {
		t.Fatalf("expected fields on created template, got %+v", tpl.Fields)
	}

	rr := doJSON(t, ts, "GET", "/api/templates", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("list: %d", rr.Code)
	}
	var list []store.Template
	_ = json.Unmarshal(rr.Body.Bytes(), &list)
	if len(list) != 1 {
		t.Fatalf("expected one template, got %d", len(list))
	}

	rr = doJSON(t, ts, "PUT", "/api/templates/"+tpl.ID, map[string]string{"title": "Laudo", "markup": "{{a:text}}"})
	if rr.Code != http.StatusOK {
		t.Fatalf("update: %d %s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, ts, "GET", "/api/templates/"+tpl.ID+"/schema", nil)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"id":"a"`) {
		t.Fatalf("schema: %d %s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, ts, "DELETE", "/api/templates/"+tpl.ID, nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete: %d", rr.Code)
	}
	rr = doJSON(t, ts, "GET", "/api/templates/"+tpl.ID, nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rr.Code)
	}
}

func TestTemplateBadRequests(t *testing.T) {
	ts, _ := newTestServer(t)

	req, _ := http.NewRequest("POST", "/api/templates", strings.NewReader("{"))
	rr := httptest.NewRecorder()
	ts.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid json, got %d", rr.Code)
	}

	rr = doJSON(t, ts, "POST", "/api/templates", map[string]string{"markup": "x"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing title, got %d", rr.Code)
	}
}

func TestSubmitValidationAndExport(t *testing.T) {
	ts, _ := newTestServer(t)
	tpl := createTemplate(t, ts)

	rr := doJSON(t, ts, "POST", "/api/templates/"+tpl.ID+"/submissions", map[string]any{"data": map[string]any{"cliente": "ACME"}})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d %s", rr.Code, rr.Body.String())
	}
	var failure struct {
		Fields map[string][]string `json:"fields"`
	}
	_ = json.Unmarshal(rr.Body.Bytes(), &failure)
	if len(failure.Fields["valor"]) == 0 {
		t.Fatalf("expected issue for valor, got %s", rr.Body.String())
	}

	rr = doJSON(t, ts, "POST", "/api/templates/"+tpl.ID+"/submissions", map[string]any{"data": map[string]any{"cliente": "ACME", "valor": 150075}})
	if rr.Code != http.StatusCreated {
		t.Fatalf("submit: %d %s", rr.Code, rr.Body.String())
	}
	var sub store.Submission
	_ = json.Unmarshal(rr.Body.Bytes(), &sub)

	rr = doJSON(t, ts, "GET", "/api/templates/"+tpl.ID+"/submissions", nil)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), sub.ID) {
		t.Fatalf("list submissions: %d %s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, ts, "GET", "/api/submissions/"+sub.ID+"/export?format=csv", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("export: %d %s", rr.Code, rr.Body.String())
	}
	if got := rr.Body.String(); got != "cliente,valor\nACME,150075\n" {
		t.Fatalf("unexpected csv %q", got)
	}
	if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, "submission_"+sub.ID+".csv") {
		t.Fatalf("unexpected content disposition %q", cd)
	}

	rr = doJSON(t, ts, "GET", "/api/submissions/export?format=json", nil)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), sub.ID) {
		t.Fatalf("batch export: %d %s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, ts, "GET", "/api/submissions/"+sub.ID+"/document?renderer=markdown&fragment=true", nil)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "Valor: R$ 1.500,75") {
		t.Fatalf("submission document: %d %s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, ts, "GET", "/api/submissions/"+sub.ID+"/export?format=xml", nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown format, got %d", rr.Code)
	}

	rr = doJSON(t, ts, "DELETE", "/api/submissions/"+sub.ID, nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete submission: %d", rr.Code)
	}
	rr = doJSON(t, ts, "GET", "/api/submissions/"+sub.ID, nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestPreview(t *testing.T) {
	ts, _ := newTestServer(t)
	tpl := createTemplate(t, ts)

	rr := doJSON(t, ts, "POST", "/api/templates/"+tpl.ID+"/preview?renderer=html", map[string]any{
		"values": map[string]any{"cliente": "<b>ACME</b>"},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("preview: %d %s", rr.Code, rr.Body.String())
	}
	if !strings.HasPrefix(rr.Header().Get("Content-Type"), "text/html") {
		t.Fatalf("unexpected content type %q", rr.Header().Get("Content-Type"))
	}
	body := rr.Body.String()
	if !strings.Contains(body, "&lt;b&gt;ACME&lt;/b&gt;") || strings.Contains(body, "<b>ACME</b>") {
		t.Fatalf("value not escaped: %s", body)
	}
	if !strings.Contains(body, "<!DOCTYPE html>") {
		t.Fatalf("expected full page: %s", body)
	}

	rr = doJSON(t, ts, "POST", "/api/templates/"+tpl.ID+"/preview?renderer=markdown&fragment=true&download=true", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("markdown preview: %d %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "Cliente: [Cliente]") {
		t.Fatalf("expected empty slot, got %q", rr.Body.String())
	}
	if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, "Laudo_preenchido.md") {
		t.Fatalf("unexpected content disposition %q", cd)
	}

	rr = doJSON(t, ts, "POST", "/api/templates/"+tpl.ID+"/preview?renderer=pdf", nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown renderer, got %d", rr.Code)
	}
}

func TestInsertAndUpdateField(t *testing.T) {
	ts, _ := newTestServer(t)
	tpl := createTemplate(t, ts)

	rr := doJSON(t, ts, "POST", "/api/templates/"+tpl.ID+"/fields", map[string]any{
		"id": "data", "type": "date", "label": "Data",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("insert field: %d %s", rr.Code, rr.Body.String())
	}
	var inserted struct {
		Template store.Template `json:"template"`
		Token    string         `json:"token"`
	}
	_ = json.Unmarshal(rr.Body.Bytes(), &inserted)
	if inserted.Token != "{{data:date:label:Data}}" || !strings.HasSuffix(inserted.Template.Markup, inserted.Token) {
		t.Fatalf("unexpected insert response: %s", rr.Body.String())
	}

	rr = doJSON(t, ts, "PUT", "/api/templates/"+tpl.ID+"/fields/data", map[string]any{
		"type": "date", "label": "Data do laudo", "optional": true,
	})
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "{{data:date:label:Data do laudo|optional}}") {
		t.Fatalf("update field: %d %s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, ts, "POST", "/api/templates/"+tpl.ID+"/fields", map[string]any{"id": "bad id", "type": "text"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid id, got %d", rr.Code)
	}

	rr = doJSON(t, ts, "PUT", "/api/templates/"+tpl.ID+"/fields/ghost", map[string]any{"type": "text"})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown field, got %d", rr.Code)
	}

	rr = doJSON(t, ts, "GET", "/api/templates/"+tpl.ID+"/submission-schema", nil)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"data"`) {
		t.Fatalf("submission schema: %d %s", rr.Code, rr.Body.String())
	}
}
