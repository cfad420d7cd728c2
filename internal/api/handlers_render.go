package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dgallion1/corepassmd/internal/coreid"
	"github.com/dgallion1/corepassmd/internal/parser"
	"github.com/dgallion1/corepassmd/internal/pipeline"
)

// maxValidateIDs bounds one /api/validate request.
const maxValidateIDs = 1000

// handleRender rewrites the raw request body synchronously.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	opts, err := s.requestOptions(q)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	format, err := pipeline.ParseFormat(q.Get("format"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	input := strings.ToLower(strings.TrimPrefix(q.Get("input"), "."))
	if input == "" {
		input = "md"
	}
	filename := "input." + input
	if !parser.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported input type: %s", input), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read body", http.StatusBadRequest)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("body exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	res, err := s.orchestrator.Run(r.Context(), pipeline.Input{
		Filename: filename,
		Data:     data,
		Format:   format,
		Options:  opts,
	})
	if err != nil {
		s.log.Warn("render failed", "input", input, "error", err)
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	h := w.Header()
	h.Set("Content-Type", format.ContentType())
	h.Set("X-Corepass-Valid", strconv.Itoa(res.Stats.Valid))
	h.Set("X-Corepass-Invalid", strconv.Itoa(res.Stats.Invalid))
	h.Set("X-Corepass-Bare", strconv.Itoa(res.Stats.Bare))
	w.Write(res.Output)
}

type validateRequest struct {
	IDs []string `json:"ids"`
}

// handleValidate reports on each id without rewriting a document.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	opts, err := s.requestOptions(r.URL.Query())
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req validateRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		jsonError(w, "invalid json body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.IDs) == 0 {
		jsonError(w, "ids is required", http.StatusBadRequest)
		return
	}
	if len(req.IDs) > maxValidateIDs {
		jsonError(w, fmt.Sprintf("too many ids (max %d)", maxValidateIDs), http.StatusBadRequest)
		return
	}

	results := make([]coreid.Inspection, 0, len(req.IDs))
	allValid := true
	for _, id := range req.IDs {
		in := coreid.Inspect(id, opts)
		allValid = allValid && in.Valid
		results = append(results, in)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"valid":   allValid,
		"results": results,
	})
}

var errBadBool = errors.New("must be true or false")

// requestOptions layers query overrides on the server defaults.
func (s *Server) requestOptions(q url.Values) (coreid.Options, error) {
	opts := s.defaults
	if v := q.Get("ican_check"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, fmt.Errorf("ican_check: %w", errBadBool)
		}
		opts.EnableValidityCheck = b
	}
	if v := q.Get("skip_override"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, fmt.Errorf("skip_override: %w", errBadBool)
		}
		opts.EnableSkipOverride = b
	}
	if v := q.Get("negation"); v != "" {
		style, err := coreid.ParseNegationStyle(v)
		if err != nil {
			return opts, err
		}
		opts.Negation = style
	}
	return opts, nil
}
