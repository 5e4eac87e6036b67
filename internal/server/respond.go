package server

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/BuDozKeN/aicouncil/internal/store"
)

const maxRequestBodySize = 1 << 20 // 1MB

// writeJSON marshals v and writes it. GET responses carry an ETag and
// answer If-None-Match with 304, so the client's caching transport can
// revalidate instead of re-downloading.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal", "failed to encode response")
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if r.Method == http.MethodGet && status == http.StatusOK {
		etag := fmt.Sprintf(`"%x"`, sha256.Sum256(body))
		w.Header().Set("ETag", etag)
		w.Header().Set("Cache-Control", "private, no-cache")
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}

	w.WriteHeader(status)
	w.Write(body) //nolint:errcheck
}

// writeError emits the structured error envelope.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, format string, args ...any) {
	message := fmt.Sprintf(format, args...)

	if status >= 500 {
		zerolog.Ctx(r.Context()).Error().Str("code", code).Msg(message)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
		"error": map[string]string{"code": code, "message": message},
	})
}

// writeStoreError maps store sentinel errors to HTTP statuses.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrCompanyNotFound),
		errors.Is(err, store.ErrDepartmentNotFound),
		errors.Is(err, store.ErrConversationNotFound),
		errors.Is(err, store.ErrProjectNotFound),
		errors.Is(err, store.ErrContextDocNotFound):
		writeError(w, r, http.StatusNotFound, "not_found", "%v", err)
	case errors.Is(err, store.ErrCompanyAlreadyExists):
		writeError(w, r, http.StatusConflict, "already_exists", "%v", err)
	case errors.Is(err, store.ErrInvalidStatus):
		writeError(w, r, http.StatusBadRequest, "invalid_status", "%v", err)
	default:
		writeError(w, r, http.StatusInternalServerError, "internal", "%v", err)
	}
}

// decodeBody decodes a JSON request body into v with a size cap.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	defer r.Body.Close() //nolint:errcheck

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "invalid request body: %v", err)
		return false
	}
	return true
}

// pathUUID parses a UUID path parameter, writing a 400 on failure.
func pathUUID(w http.ResponseWriter, r *http.Request, raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "invalid identifier %q", raw)
		return uuid.Nil, false
	}
	return id, true
}
