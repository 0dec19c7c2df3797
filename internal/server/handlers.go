package server

import (
	"encoding/json"
	stderrors "errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/matzehuels/gridwire/pkg/buildinfo"
	"github.com/matzehuels/gridwire/pkg/errors"
	"github.com/matzehuels/gridwire/pkg/pipeline"
	"github.com/matzehuels/gridwire/pkg/sheet"
)

// contentTypes maps output formats to response content types.
var contentTypes = map[string]string{
	pipeline.FormatSVG:      "image/svg+xml",
	pipeline.FormatTopology: "image/svg+xml",

	pipeline.FormatTopologyPNG: "image/png",
	pipeline.FormatPNG:      "image/png",
	pipeline.FormatPDF:      "application/pdf",
	pipeline.FormatJSON:     "application/json",
	pipeline.FormatDOT:      "text/vnd.graphviz; charset=utf-8",
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Version: buildinfo.Version})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	sh, opts, err := s.decodeRequest(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	doc, hit, err := s.runner.RouteWithCacheInfo(r.Context(), sh, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	setCacheHeader(w, hit)
	s.writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, err)
		return
	}

	sh, opts, err := s.decodeRequest(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	opts.Sheet = sh
	opts.Formats = []string{format}
	if opts.Channels, err = queryBool(r, "channels"); err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Run-ID", result.RunID)
	setCacheHeader(w, result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Artifacts[format]); err != nil {
		s.logger.Warn("write response", "format", format, "err", err)
	}
}

func (s *Server) handleChannels(w http.ResponseWriter, r *http.Request) {
	sh, opts, err := s.decodeRequest(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	doc, hit, err := s.runner.RouteWithCacheInfo(r.Context(), sh, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	setCacheHeader(w, hit)
	s.writeJSON(w, http.StatusOK, ChannelsResponse{
		Rows:       doc.Rows,
		Cols:       doc.Cols,
		Capacities: doc.Capacities,
		Channels:   doc.Channels,
	})
}

// =============================================================================
// Request Decoding
// =============================================================================

// decodeRequest reads the posted sheet and the options shared by every
// pipeline route.
func (s *Server) decodeRequest(r *http.Request) (*sheet.Sheet, pipeline.Options, error) {
	opts := pipeline.Options{Config: s.cfg, Logger: s.logger}

	refresh, err := queryBool(r, "refresh")
	if err != nil {
		return nil, opts, err
	}
	opts.Refresh = refresh

	f, err := sheetFormat(r)
	if err != nil {
		return nil, opts, err
	}
	sh, err := sheet.Decode(r.Body, f)
	if err != nil {
		return nil, opts, err
	}
	return sh, opts, nil
}

// sheetFormat picks the sheet encoding from ?sheet= or the Content-Type.
func sheetFormat(r *http.Request) (sheet.Format, error) {
	if name := r.URL.Query().Get("sheet"); name != "" {
		return sheet.ParseFormat(name)
	}
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return sheet.FormatJSON, nil
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidFormat, err, "content type %q", ct)
	}
	switch mt {
	case "application/yaml", "application/x-yaml", "text/yaml":
		return sheet.FormatYAML, nil
	case "application/toml":
		return sheet.FormatTOML, nil
	case "application/json", "text/plain":
		return sheet.FormatJSON, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported content type %q", mt)
	}
}

func queryBool(r *http.Request, name string) (bool, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeInvalidInput, err, "query parameter %s", name)
	}
	return b, nil
}

// =============================================================================
// Response Helpers
// =============================================================================

func setCacheHeader(w http.ResponseWriter, hit bool) {
	if hit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode JSON", "err", err)
	}
}

// writeError answers with the status of the error's code. Oversized bodies
// get 413 regardless of how deep the read error is wrapped.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		status = http.StatusRequestEntityTooLarge
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	s.writeJSON(w, status, ErrorResponse{
		Error: errors.UserMessage(err),
		Code:  string(errors.GetCode(err)),
	})
}
