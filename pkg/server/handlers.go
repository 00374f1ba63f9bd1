package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/docgraph/pkg/errors"
	"github.com/matzehuels/docgraph/pkg/layout"
	"github.com/matzehuels/docgraph/pkg/pipeline"
	"github.com/matzehuels/docgraph/pkg/positions"
)

// CurrentKey is the position key alias for the served root.
const CurrentKey = "current"

// maxPositionsBody caps PUT bodies.
const maxPositionsBody = 8 << 20

var contentTypes = map[string]string{
	pipeline.FormatJSON: "application/json",
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
}

type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	opts := s.defaults
	q := r.URL.Query()

	paged := q.Has("max_nodes") || q.Has("offset") || q.Has("external")
	if err := applyQuery(&opts, q); err != nil {
		s.writeError(w, err)
		return
	}

	if !paged {
		g, err := s.current(r.Context())
		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, g)
		return
	}

	g, err := s.runner.Build(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts := s.defaults
	opts.Engine = chi.URLParam(r, "engine")
	// Per-engine fields don't carry over from the defaults' engine.
	opts.Center = ""
	q := r.URL.Query()
	if err := applyQuery(&opts, q); err != nil {
		s.writeError(w, err)
		return
	}

	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatJSON
	}
	if _, ok := contentTypes[format]; !ok {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "format must be json, svg or dot, got %q", format))
		return
	}

	if err := opts.ValidateForLayout(); err != nil {
		s.writeError(w, err)
		return
	}

	g, err := s.current(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	l, hit, err := s.runner.LayoutWithCacheInfo(r.Context(), g, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("X-Cache", cacheHeader(hit))

	if format == pipeline.FormatJSON {
		writeJSON(w, http.StatusOK, l)
		return
	}

	opts.Formats = []string{format}
	artifacts, err := s.runner.Render(r.Context(), l, opts)
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format))
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

func (s *Server) handleGetPositions(w http.ResponseWriter, r *http.Request) {
	key, err := s.positionKey(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	points, ok := s.runner.Positions.Get(key)
	if !ok {
		s.writeError(w, errors.New(errors.ErrCodeNotFound, "no positions stored for %q", key))
		return
	}
	writeJSON(w, http.StatusOK, points)
}

func (s *Server) handlePutPositions(w http.ResponseWriter, r *http.Request) {
	key, err := s.positionKey(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var points map[string]layout.Point
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPositionsBody))
	if err := dec.Decode(&points); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode positions"))
		return
	}

	s.runner.Positions.Put(key, points)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeletePositions(w http.ResponseWriter, r *http.Request) {
	key, err := s.positionKey(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.runner.Positions.Clear(key)
	w.WriteHeader(http.StatusNoContent)
}

// positionKey unescapes the {key} parameter and resolves the current alias.
func (s *Server) positionKey(r *http.Request) (string, error) {
	key, err := url.PathUnescape(chi.URLParam(r, "key"))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "position key")
	}
	if key == CurrentKey {
		return positions.Key(s.defaults.RootPath), nil
	}
	if err := errors.ValidatePositionKey(key); err != nil {
		return "", err
	}
	return key, nil
}

// applyQuery overrides opts with recognised query parameters.
func applyQuery(opts *pipeline.Options, q url.Values) error {
	ints := []struct {
		name string
		dst  *int
	}{
		{"max_nodes", &opts.MaxNodes},
		{"offset", &opts.Offset},
		{"max_depth", &opts.MaxDepth},
	}
	for _, p := range ints {
		if !q.Has(p.name) {
			continue
		}
		v, err := strconv.Atoi(q.Get(p.name))
		if err != nil || v < 0 {
			return errors.New(errors.ErrCodeInvalidInput, "%s must be a non-negative integer", p.name)
		}
		*p.dst = v
	}

	if q.Has("external") {
		v, err := strconv.ParseBool(q.Get("external"))
		if err != nil {
			return errors.New(errors.ErrCodeInvalidInput, "external must be a boolean")
		}
		opts.IncludeExternal = v
	}
	if q.Has("center") {
		opts.Center = q.Get("center")
	}
	if q.Has("rank_dir") {
		opts.RankDir = q.Get("rank_dir")
	}
	return nil
}

func cacheHeader(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}

// statusFor maps error codes to HTTP statuses.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidEngine, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeRootUnreadable:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorResponse{Error: errors.UserMessage(err), Code: code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
