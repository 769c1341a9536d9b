// Package server implements the circuitgraph HTTP API.
//
// Routes:
//
//	POST /v1/reduce              reduce a description document, answer graph JSON
//	POST /v1/render?format=svg   reduce and render (dot, svg, png, pdf, json)
//	GET  /healthz                liveness and build version
//
// Request bodies are description documents. The syntax is taken from the
// ?syntax= parameter, else from Content-Type (application/toml,
// application/hcl), else JSON. Errors are answered as
// {"code": "...", "message": "..."} with the status derived from the code.
package server

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/matzehuels/circuitgraph/pkg/buildinfo"
	apperr "github.com/matzehuels/circuitgraph/pkg/errors"
	"github.com/matzehuels/circuitgraph/pkg/io"
	"github.com/matzehuels/circuitgraph/pkg/pipeline"
)

// MaxBodyBytes bounds the size of a request document.
const MaxBodyBytes = 1 << 20

// Options configures the server.
type Options struct {
	// RateLimit is the sustained requests per second allowed per client
	// address. Zero disables limiting.
	RateLimit float64
	// Burst is the number of requests a client may issue at once.
	Burst int
	// TrustProxy takes the client address from X-Forwarded-For and
	// X-Real-IP instead of the connection peer. Without it those headers
	// are ignored.
	TrustProxy bool
	// ServiceName names the otel spans of incoming requests.
	ServiceName string
}

type server struct {
	runner *pipeline.Runner
	logger *log.Logger
}

// New returns the API handler.
func New(runner *pipeline.Runner, logger *log.Logger, opts Options) http.Handler {
	if logger == nil {
		logger = log.Default()
	}
	if opts.ServiceName == "" {
		opts.ServiceName = "circuitgraph"
	}
	s := &server{runner: runner, logger: logger}

	r := chi.NewRouter()
	if opts.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(requestID)
	r.Use(logRequests(logger))
	r.Use(recoverer(logger))
	if opts.RateLimit > 0 {
		r.Use(newLimiter(opts.RateLimit, opts.Burst).middleware)
	}

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/reduce", s.handleReduce)
		r.Post("/render", s.handleRender)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, apperr.New(apperr.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		err := apperr.New(apperr.ErrCodeUnsupported, "method %s not allowed on %s", r.Method, r.URL.Path)
		writeErrorStatus(w, r, http.StatusMethodNotAllowed, err.Code, err)
	})

	return otelhttp.NewHandler(r, opts.ServiceName)
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *server) handleReduce(w http.ResponseWriter, r *http.Request) {
	res, hit, err := s.reduce(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("X-Cache", cacheStatus(hit))
	writeJSON(w, http.StatusOK, res.GraphFile())
}

func (s *server) handleRender(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = pipeline.DefaultFormat
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		writeError(w, r, apperr.Wrap(apperr.ErrCodeInvalidFormat, err, "format"))
		return
	}
	detailed, err := boolParam(q.Get("detailed"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	res, _, err := s.reduce(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	data, hit, err := s.runner.Render(r.Context(), res, format, pipeline.RenderOptions{Detailed: detailed})
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", pipeline.ContentTypes[format])
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("X-Cache", cacheStatus(hit))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *server) reduce(w http.ResponseWriter, r *http.Request) (*pipeline.Result, bool, error) {
	syntax, err := documentSyntax(r)
	if err != nil {
		return nil, false, err
	}
	refresh, err := boolParam(r.URL.Query().Get("refresh"))
	if err != nil {
		return nil, false, err
	}
	body := http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	doc, err := io.DecodeDocument(body, syntax, "request body")
	if err != nil {
		return nil, false, err
	}
	return s.runner.Reduce(r.Context(), doc, pipeline.Options{Refresh: refresh})
}

func documentSyntax(r *http.Request) (io.Format, error) {
	if v := r.URL.Query().Get("syntax"); v != "" {
		switch f := io.Format(v); f {
		case io.FormatJSON, io.FormatTOML, io.FormatHCL:
			return f, nil
		}
		return "", apperr.New(apperr.ErrCodeInvalidFormat, "unknown syntax %q (want json, toml or hcl)", v)
	}
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch ct {
	case "application/toml":
		return io.FormatTOML, nil
	case "application/hcl":
		return io.FormatHCL, nil
	}
	return io.FormatJSON, nil
}

func boolParam(v string) (bool, error) {
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "invalid boolean %q", v)
	}
	return b, nil
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Code      apperr.Code `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := apperr.GetCode(err)
	if code == "" {
		code = apperr.ErrCodeInternal
	}
	var rl *apperr.RateLimitedError
	if errors.As(err, &rl) {
		code = rl.Code()
		if rl.RetryAfter > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(rl.RetryAfter))
		}
	}
	writeErrorStatus(w, r, apperr.HTTPStatus(code), code, err)
}

func writeErrorStatus(w http.ResponseWriter, r *http.Request, status int, code apperr.Code, err error) {
	writeJSON(w, status, errorBody{
		Code:      code,
		Message:   apperr.UserMessage(err),
		RequestID: requestIDFrom(r.Context()),
	})
}
