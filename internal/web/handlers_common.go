package web

// handlers_common.go holds request parsing helpers shared by the handlers.

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/tablekeeper/internal/core"
)

// maxJSONBody caps JSON request bodies. Table documents travel as JSON, so
// the cap matches the import file limit.
func (s *Server) maxJSONBody() int64 {
	if n := s.tables.MaxFileSize(); n > 0 {
		return n
	}
	return core.DefaultMaxFileSize
}

// decodeJSON reads a single JSON value from the request body into v.
// Unknown fields are rejected.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxJSONBody())

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return core.ErrFileTooLarge
		}
		if errors.Is(err, core.ErrInvalidInput) {
			return err
		}
		return fmt.Errorf("decode request body: %v: %w", err, core.ErrInvalidInput)
	}
	if dec.More() {
		return fmt.Errorf("decode request body: trailing data: %w", core.ErrInvalidInput)
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("decode request body: trailing data: %w", core.ErrInvalidInput)
	}
	return nil
}

// ownerAndContext returns the authenticated user ID and a context carrying
// audit metadata.
func ownerAndContext(r *http.Request) (string, *http.Request) {
	ctx := WithRequestMetadata(r.Context(), r)
	return core.UserIDFromContext(ctx), r.WithContext(ctx)
}

// indexParam parses a non-negative integer path parameter.
func indexParam(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	i, err := strconv.Atoi(raw)
	if err != nil || i < 0 {
		return 0, fmt.Errorf("%s %q is not a valid position: %w", name, raw, core.ErrIndexOutOfRange)
	}
	return i, nil
}
