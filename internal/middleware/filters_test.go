package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/emicklei/go-restful/v3"
	"github.com/povarna/generative-ai-agents/recipe-agent/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newContainer(m *metrics.Metrics) *restful.Container {
	container := restful.NewContainer()
	container.Filter(Logger)
	container.Filter(RecoverPanic)
	container.Filter(Metrics(m))

	ws := new(restful.WebService)
	ws.Path("/api/v1").Produces(restful.MIME_JSON)
	ws.Route(ws.GET("/boom").To(func(req *restful.Request, resp *restful.Response) {
		panic("boom")
	}))
	ws.Route(ws.GET("/items/{id}").To(func(req *restful.Request, resp *restful.Response) {
		HandleError(resp, fmt.Errorf("lookup %s: %w", req.PathParameter("id"), ErrRecipeNotFound), http.StatusNotFound)
	}))
	container.Add(ws)
	return container
}

func jsonRequest(path string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Accept", restful.MIME_JSON)
	return req
}

func TestRecoverPanic(t *testing.T) {
	rec := httptest.NewRecorder()
	newContainer(metrics.New()).ServeHTTP(rec, jsonRequest("/api/v1/boom"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error != "internal server error" || body.Code != 500 {
		t.Errorf("unexpected body %+v", body)
	}
}

func TestHandleErrorDetails(t *testing.T) {
	m := metrics.New()
	rec := httptest.NewRecorder()
	newContainer(m).ServeHTTP(rec, jsonRequest("/api/v1/items/42"))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error != "lookup 42: recipe not found" {
		t.Errorf("error = %q", body.Error)
	}
	if body.Details != ErrRecipeNotFound.Error() {
		t.Errorf("details = %q", body.Details)
	}

	n, err := testutil.GatherAndCount(m.Registry(), "recipe_agent_http_requests_total")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if n != 1 {
		t.Errorf("http request series = %d, want 1", n)
	}
}

func TestHandleErrorWithoutWrappedCause(t *testing.T) {
	rec := httptest.NewRecorder()
	resp := restful.NewResponse(rec)
	resp.SetRequestAccepts(restful.MIME_JSON)

	HandleError(resp, errors.New("bad"), http.StatusBadRequest)

	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Details != "" {
		t.Errorf("details = %q, want empty", body.Details)
	}
}
