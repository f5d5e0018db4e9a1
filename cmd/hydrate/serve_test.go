package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vango-dev/hydrate/internal/config"
)

func newTestServer(t *testing.T, mutate func(*config.Config)) (*server, *bytes.Buffer) {
	t.Helper()
	cfg := config.New()
	if mutate != nil {
		mutate(cfg)
	}
	var logs bytes.Buffer
	s, err := newServer(cfg, slog.New(slog.NewTextHandler(&logs, nil)))
	if err != nil {
		t.Fatalf("newServer: %v", err)
	}
	return s, &logs
}

func do(s *server, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func checkBody(t *testing.T, req checkRequest) string {
	t.Helper()
	data, err := json.Marshal(req)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("error body is not JSON: %v\n%s", err, rec.Body.String())
	}
	return body.Error.Code
}

func TestServeHealthz(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rec := do(s, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok\n" {
		t.Errorf("healthz = %d %q", rec.Code, rec.Body.String())
	}
}

func TestServeCheck(t *testing.T) {
	tests := []struct {
		name      string
		req       checkRequest
		wantOK    bool
		wantScope string
		wantCodes []string
	}{
		{"match", checkRequest{Server: `<p>a</p>`, Client: `<p>a</p>`}, true, "local", nil},
		{"text repaired", checkRequest{Server: `<p>a</p>`, Client: `<p>b</p>`}, true, "local", []string{"E041"}},
		{"safety override", checkRequest{Server: `<p>a</p>`, Client: `<p>b</p>`, Mode: "safety"}, false, "tree", []string{"E049", "E041"}},
		{"boundary", checkRequest{Server: `<!--$!--><p>wait</p><!--/$-->`, Client: `<!--$--><p>done</p><!--/$-->`}, false, "boundary", []string{"E045"}},
		{"document", checkRequest{Server: `<html><body><p>x</p></body></html>`, Client: `<html><body><p>x</p></body></html>`, Document: true}, true, "local", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestServer(t, nil)
			rec := do(s, http.MethodPost, "/v1/check", checkBody(t, tt.req))
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}

			var rep report
			if err := json.Unmarshal(rec.Body.Bytes(), &rep); err != nil {
				t.Fatal(err)
			}
			if rep.OK != tt.wantOK || rep.Scope != tt.wantScope {
				t.Errorf("ok=%v scope=%s, want ok=%v scope=%s", rep.OK, rep.Scope, tt.wantOK, tt.wantScope)
			}
			var codes []string
			for _, d := range rep.Diagnostics {
				codes = append(codes, d.Code)
			}
			if strings.Join(codes, " ") != strings.Join(tt.wantCodes, " ") {
				t.Errorf("codes = %v, want %v", codes, tt.wantCodes)
			}
		})
	}
}

func TestServeCheckErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"malformed body", `{"server":`, http.StatusBadRequest, "E140"},
		{"bad mode", `{"server":"<p>a</p>","client":"<p>a</p>","mode":"strict"}`, http.StatusBadRequest, "E121"},
		{"unbalanced server", `{"server":"<!--$--><p>a</p>","client":"<p>a</p>"}`, http.StatusUnprocessableEntity, "E048"},
		{"unbalanced client", `{"server":"<p>a</p>","client":"<p>a</p><!--/$-->"}`, http.StatusUnprocessableEntity, "E048"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestServer(t, nil)
			rec := do(s, http.MethodPost, "/v1/check", tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body.String())
			}
			if got := errorCode(t, rec); got != tt.code {
				t.Errorf("code = %q, want %q", got, tt.code)
			}
		})
	}
}

func TestServeBodyLimit(t *testing.T) {
	s, _ := newTestServer(t, func(c *config.Config) { c.Serve.MaxBodyBytes = 16 })
	body := checkBody(t, checkRequest{Server: strings.Repeat("<p>a</p>", 10), Client: `<p>a</p>`})
	rec := do(s, http.MethodPost, "/v1/check", body)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", rec.Code)
	}
	if got := errorCode(t, rec); got != "E140" {
		t.Errorf("code = %q", got)
	}
}

func TestServeMethodNotAllowed(t *testing.T) {
	s, _ := newTestServer(t, nil)
	if rec := do(s, http.MethodGet, "/v1/check", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestServeMetrics(t *testing.T) {
	s, _ := newTestServer(t, func(c *config.Config) { c.Metrics.Namespace = "test" })
	do(s, http.MethodPost, "/v1/check", checkBody(t, checkRequest{Server: `<p>a</p>`, Client: `<p>a</p>`}))
	do(s, http.MethodPost, "/v1/check", checkBody(t, checkRequest{Server: `<p>a</p>`, Client: `<p>b</p>`, Mode: "safety"}))
	do(s, http.MethodPost, "/v1/check", `{"server":"<!--$-->","client":""}`)

	rec := do(s, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`test_hydration_attempts_total{outcome="ok"} 1`,
		`test_hydration_attempts_total{outcome="tree"} 1`,
		`test_hydration_attempts_total{outcome="error"} 1`,
		`test_hydration_escalations_total{scope="tree"} 1`,
		`test_hydration_mismatches_total{kind="TextMismatch"} 1`,
		`test_hydration_provider_failures_total{side="server"} 1`,
		`go_goroutines`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestServeMetricsDisabled(t *testing.T) {
	s, _ := newTestServer(t, func(c *config.Config) { c.Metrics.Enabled = false })
	if s.opts.Metrics != nil {
		t.Error("metrics created while disabled")
	}
	if rec := do(s, http.MethodGet, "/metrics", ""); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestServeLogsRequests(t *testing.T) {
	s, logs := newTestServer(t, nil)
	do(s, http.MethodPost, "/v1/check", checkBody(t, checkRequest{Server: `<p dir="rtl">a</p>`, Client: `<p dir="ltr">a</p>`}))

	out := logs.String()
	for _, want := range []string{"msg=\"http request\"", "path=/v1/check", "status=200", "request_id=", "code=E042"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}
