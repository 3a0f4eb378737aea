package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dsmirnov/authkeeper/internal/common"
)

type apiError struct {
	Type string `json:"type"`
	Msg  string `json:"msg"`
	Path string `json:"path,omitempty"`
}

type errorEnvelope struct {
	Errors []apiError `json:"errors"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, errType, msg string) {
	writeJSON(w, status, errorEnvelope{Errors: []apiError{{Type: errType, Msg: msg}}})
}

func writeFieldErrors(w http.ResponseWriter, fieldErrs []apiError) {
	writeJSON(w, http.StatusBadRequest, errorEnvelope{Errors: fieldErrs})
}

// writeServiceError maps service-level sentinel errors to boundary status
// codes. Messages stay generic: internal detail (driver errors, key
// material, the concrete reason a token failed) never reaches a response.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrorInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid_credentials", common.ErrorInvalidCredentials.Error())
	case errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrTokenRevoked):
		writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
	case errors.Is(err, common.ErrorAlreadyExists):
		writeError(w, http.StatusConflict, "conflict", "email already exists")
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, "not_found", "not found")
	default:
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
	}
}
