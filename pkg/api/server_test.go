package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tagcloud/pkg/errors"
	"github.com/matzehuels/tagcloud/pkg/pipeline"
)

const sampleBody = `{"text": "gopher gopher gopher cloud cloud words", "options": {"width": 300, "height": 200}}`

func newTestServer(t *testing.T, opts ...Option) *httptest.Server {
	t.Helper()
	logger := log.New(io.Discard)
	s := New(pipeline.NewRunner(nil, nil, logger), logger, opts...)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func decodeError(t *testing.T, resp *http.Response) ErrorResponse {
	t.Helper()
	var e ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return e
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body map[string]string
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if body["status"] != "ok" {
		t.Errorf("status = %q, want ok", body["status"])
	}
	if body["version"] == "" || body["go"] == "" {
		t.Errorf("health should report build info, got %v", body)
	}
	if resp.Header.Get(RequestIDHeader) == "" {
		t.Error("response should carry a request ID")
	}
}

func TestRequestIDPassthrough(t *testing.T) {
	ts := newTestServer(t)
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("%s = %q, want abc-123", RequestIDHeader, got)
	}
}

func TestCreateCloudJSON(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Post(ts.URL+"/v1/clouds", "application/json", strings.NewReader(sampleBody))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body CloudResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.ID == "" {
		t.Error("response should carry an id")
	}
	if body.Cloud == nil || len(body.Cloud.Tags) != 3 {
		t.Fatalf("cloud = %+v, want 3 tags", body.Cloud)
	}
	if body.Cloud.Tags[0].Word != "gopher" {
		t.Errorf("first tag = %q, want gopher", body.Cloud.Tags[0].Word)
	}
	if body.Cloud.Width != 300 || body.Cloud.Height != 200 {
		t.Errorf("size = %dx%d, want 300x200", body.Cloud.Width, body.Cloud.Height)
	}
}

func TestCreateCloudSVG(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Post(ts.URL+"/v1/clouds?format=svg", "application/json", strings.NewReader(sampleBody))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if resp.Header.Get(CloudIDHeader) == "" {
		t.Error("svg response should carry a cloud ID")
	}
	data, _ := io.ReadAll(resp.Body)
	if !bytes.HasPrefix(data, []byte("<svg")) || !bytes.Contains(data, []byte(">gopher<")) {
		t.Errorf("unexpected svg body: %.80s", data)
	}
}

func TestCreateCloudErrors(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		body   string
		status int
		code   errors.Code
	}{
		{"bad json", "", `{"text": `, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"unknown field", "", `{"text": "a b c", "colour": "red"}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"empty text", "", `{"text": "  "}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad format", "?format=gif", sampleBody, http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"file font", "", `{"text": "words", "options": {"font": "/etc/passwd"}}`, http.StatusBadRequest, errors.ErrCodeInvalidFont},
		{"bad size", "", `{"text": "words", "options": {"width": -3}}`, http.StatusBadRequest, errors.ErrCodeInvalidSize},
		{"bad colour", "", `{"text": "words", "options": {"background": "blue"}}`, http.StatusBadRequest, errors.ErrCodeInvalidColor},
	}
	ts := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/v1/clouds"+tt.query, "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if e := decodeError(t, resp); e.Code != tt.code {
				t.Errorf("code = %s, want %s (%s)", e.Code, tt.code, e.Message)
			}
		})
	}
}

func TestCreateCloudBodyLimit(t *testing.T) {
	ts := newTestServer(t, WithMaxBodyBytes(16))
	resp, err := http.Post(ts.URL+"/v1/clouds", "application/json", strings.NewReader(sampleBody))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestNotFound(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/nope")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	if e := decodeError(t, resp); e.Code != errors.ErrCodeNotFound || e.RequestID == "" {
		t.Errorf("error = %+v", e)
	}
}
