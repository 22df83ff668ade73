package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/matzehuels/tagcloud/pkg/buildinfo"
	"github.com/matzehuels/tagcloud/pkg/cloud"
	"github.com/matzehuels/tagcloud/pkg/errors"
	"github.com/matzehuels/tagcloud/pkg/fonts"
	"github.com/matzehuels/tagcloud/pkg/pipeline"
)

// CloudIDHeader carries the cloud ID for binary responses.
const CloudIDHeader = "X-Cloud-ID"

// CloudRequest is the body of POST /v1/clouds.
type CloudRequest struct {
	Text    string           `json:"text"`
	Options pipeline.Options `json:"options"`
}

// CloudResponse is the JSON response of POST /v1/clouds.
type CloudResponse struct {
	ID     string       `json:"id"`
	Cloud  *cloud.Cloud `json:"cloud"`
	Cached bool         `json:"cached"`
}

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Code      errors.Code `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
}

var contentTypes = map[string]string{
	pipeline.FormatJSON: "application/json",
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
}

type healthResponse struct {
	Status string `json:"status"`
	buildinfo.Info
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Info: buildinfo.Get()})
}

func (s *Server) handleCreateCloud(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = pipeline.FormatJSON
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}

	req, err := s.decodeRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := req.Options
	opts.Text = req.Text
	opts.Formats = []string{format}
	opts.Logger = s.logger.With("request_id", RequestID(r.Context()))

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	id := uuid.NewString()
	cached := result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit
	if format == pipeline.FormatJSON {
		writeJSON(w, http.StatusOK, CloudResponse{ID: id, Cloud: result.Cloud, Cached: cached})
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set(CloudIDHeader, id)
	if cached {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

// decodeRequest reads and checks the request body. Fonts are restricted to
// the built-in set so clients cannot make the server read arbitrary files.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request) (*CloudRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req CloudRequest
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "request body exceeds %d bytes", s.maxBody)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	if strings.TrimSpace(req.Text) == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "text is required")
	}
	if f := req.Options.Font; f != "" && !slices.Contains(fonts.Builtin(), f) {
		return nil, errors.New(errors.ErrCodeInvalidFont, "unknown font %q (must be one of: %s)",
			f, strings.Join(fonts.Builtin(), ", "))
	}
	return &req, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	msg := errors.UserMessage(err)
	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		code, msg = errors.ErrCodeTimeout, "request timed out"
	case code == "":
		s.logger.Error("request failed", "error", err, "request_id", RequestID(r.Context()))
		code, msg = errors.ErrCodeInternal, "internal error"
	}
	writeJSON(w, errors.HTTPStatus(code), ErrorResponse{
		Code:      code,
		Message:   msg,
		RequestID: RequestID(r.Context()),
	})
}

func notFound(path string) error {
	return errors.New(errors.ErrCodeNotFound, "no route for %s", path)
}
