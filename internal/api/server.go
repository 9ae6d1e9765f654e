// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api serves extraction and generation over HTTP.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/bartekus/specgen/internal/codegen"
	"github.com/bartekus/specgen/internal/linesource"
	"github.com/bartekus/specgen/pkg/spec"
)

// DocxMediaType is the Content-Type of Word documents.
const DocxMediaType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// DefaultMaxBodySize bounds request bodies.
const DefaultMaxBodySize = linesource.DefaultMaxFileSize

// NoSpecsWarning accompanies extraction responses with no records.
const NoSpecsWarning = "no specifications found"

// Options configures a Server.
type Options struct {
	// HeaderMode is used when a request does not name one.
	HeaderMode  spec.HeaderMode
	MaxBodySize int64
	Logger      *zap.Logger
}

// Server routes HTTP requests to the extractor and a code generator.
type Server struct {
	router     chi.Router
	generator  codegen.Generator
	headerMode spec.HeaderMode
	maxBody    int64
	logger     *zap.Logger
}

// ExtractResponse is the body returned by POST /v1/extract.
type ExtractResponse struct {
	Records []spec.Record `json:"records"`
	Ignored int           `json:"ignored"`
	Warning string        `json:"warning,omitempty"`
}

// GenerateResponse is the body returned by POST /v1/generate.
type GenerateResponse struct {
	Name     string `json:"name"`
	Provider string `json:"provider"`
	Code     string `json:"code"`
}

// NewServer builds a Server. gen may be nil, in which case /v1/generate
// answers 503.
func NewServer(gen codegen.Generator, opts Options) *Server {
	if opts.HeaderMode == "" {
		opts.HeaderMode = spec.HeaderLenient
	}
	if opts.MaxBodySize <= 0 {
		opts.MaxBodySize = DefaultMaxBodySize
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	s := &Server{
		router:     chi.NewRouter(),
		generator:  gen,
		headerMode: opts.HeaderMode,
		maxBody:    opts.MaxBodySize,
		logger:     opts.Logger,
	}
	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			s.logger.Debug("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("dur", time.Since(start)),
			)
		})
	})

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	s.router.Post("/v1/extract", s.handleExtract)
	s.router.Post("/v1/generate", s.handleGenerate)
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	mode := s.headerMode
	if q := r.URL.Query().Get("header_mode"); q != "" {
		parsed, err := spec.ParseHeaderMode(q)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
		mode = parsed
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge, err)
			return
		}
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("reading body: %w", err))
		return
	}

	lines, err := readLines(r.Header.Get("Content-Type"), body)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, linesource.ErrUnsupportedFormat) {
			status = http.StatusUnsupportedMediaType
		}
		s.writeError(w, status, err)
		return
	}

	res := spec.Extractor{Mode: mode}.Extract(lines)
	resp := ExtractResponse{Records: res.Records, Ignored: res.Ignored}
	if len(res.Records) == 0 {
		resp.Warning = NoSpecsWarning
	}
	s.logger.Debug("extracted",
		zap.Int("lines", len(lines)),
		zap.Int("records", len(res.Records)),
		zap.Int("ignored", res.Ignored),
	)
	writeJSON(w, http.StatusOK, resp)
}

func readLines(contentType string, body []byte) ([]string, error) {
	mediaType := "text/plain"
	if contentType != "" {
		parsed, _, err := mime.ParseMediaType(contentType)
		if err != nil {
			return nil, fmt.Errorf("invalid Content-Type: %w", err)
		}
		mediaType = parsed
	}

	switch {
	case mediaType == DocxMediaType:
		return linesource.ReadDocx(bytes.NewReader(body), int64(len(body)))
	case strings.HasPrefix(mediaType, "text/"):
		return linesource.ReadText(bytes.NewReader(body))
	default:
		return nil, fmt.Errorf("%w: %s", linesource.ErrUnsupportedFormat, mediaType)
	}
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if s.generator == nil {
		s.writeError(w, http.StatusServiceUnavailable, errors.New("code generation is not configured"))
		return
	}

	var rec spec.Record
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err := dec.Decode(&rec); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("decoding record: %w", err))
		return
	}
	if strings.TrimSpace(rec.Name) == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("record name is required"))
		return
	}
	rec = rec.Normalized()

	code, err := s.generator.Generate(r.Context(), rec)
	if err != nil {
		s.writeError(w, http.StatusBadGateway, fmt.Errorf("generating %s: %w", rec.Name, err))
		return
	}
	writeJSON(w, http.StatusOK, GenerateResponse{
		Name:     rec.Name,
		Provider: s.generator.Name(),
		Code:     code,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Int("status", status), zap.Error(err))
	} else {
		s.logger.Warn("request failed", zap.Int("status", status), zap.Error(err))
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
