package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/Tomlord1122/project-backend/internal/domain"
	"github.com/Tomlord1122/project-backend/internal/service"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads a single JSON object into dst. On failure it writes a
// 400 response and returns false.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	err := decoder.Decode(dst)
	if err == nil {
		return true
	}

	var syntaxError *json.SyntaxError
	var unmarshalTypeError *json.UnmarshalTypeError
	var maxBytesError *http.MaxBytesError
	switch {
	case errors.As(err, &syntaxError):
		msg := fmt.Sprintf("Request body contains badly-formed JSON (at position %d)", syntaxError.Offset)
		respondWithError(w, http.StatusBadRequest, msg)
	case errors.Is(err, io.ErrUnexpectedEOF):
		respondWithError(w, http.StatusBadRequest, "Request body contains badly-formed JSON")
	case errors.As(err, &unmarshalTypeError):
		msg := fmt.Sprintf("Request body contains an invalid value for the %q field (at position %d)", unmarshalTypeError.Field, unmarshalTypeError.Offset)
		respondWithError(w, http.StatusBadRequest, msg)
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Request body contains unknown field %s", fieldName))
	case errors.Is(err, io.EOF):
		respondWithError(w, http.StatusBadRequest, "Request body must not be empty")
	case errors.As(err, &maxBytesError):
		respondWithError(w, http.StatusRequestEntityTooLarge, "Request body is too large")
	default:
		s.log.WithError(err).Error("decode request body")
		respondWithError(w, http.StatusInternalServerError, "Error processing request")
	}
	return false
}

// pathID parses the {id} URL parameter as a positive integer.
func pathID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		return 0, domain.NewValidationError("id", "must be a positive integer")
	}
	return uint(id), nil
}

// pageParams reads ?skip and ?limit, defaulting to 0 and 10.
func pageParams(r *http.Request) (service.Page, error) {
	page := service.Page{Skip: 0, Limit: service.DefaultLimit}
	q := r.URL.Query()
	if v := q.Get("skip"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return page, domain.NewValidationError("skip", "must be an integer")
		}
		page.Skip = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return page, domain.NewValidationError("limit", "must be an integer")
		}
		page.Limit = n
	}
	return page, page.Validate()
}

// respondWithServiceError maps domain errors to status codes. Anything
// unrecognised is logged and reported as a generic 500.
func (s *Server) respondWithServiceError(w http.ResponseWriter, r *http.Request, err error, op string) {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		respondWithError(w, http.StatusUnprocessableEntity, vErr.Error())
	case errors.Is(err, domain.ErrUnauthenticated):
		respondUnauthenticated(w)
	case errors.Is(err, domain.ErrForbidden):
		respondWithError(w, http.StatusForbidden, "Not allowed to modify this task")
	case errors.Is(err, domain.ErrUserNotFound):
		respondWithError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, domain.ErrTaskNotFound):
		respondWithError(w, http.StatusNotFound, "Task not found")
	case errors.Is(err, domain.ErrOwnerNotFound):
		respondWithError(w, http.StatusNotFound, "Owner not found")
	case errors.Is(err, domain.ErrDuplicateEmail):
		respondWithError(w, http.StatusBadRequest, "Email already registered")
	case errors.Is(err, domain.ErrInvalidCredentials):
		respondWithError(w, http.StatusBadRequest, "Incorrect email or password")
	default:
		s.log.WithFields(logrus.Fields{
			"op":         op,
			"request_id": middleware.GetReqID(r.Context()),
		}).WithError(err).Error("request failed")
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func respondUnauthenticated(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	respondWithError(w, http.StatusUnauthorized, "Could not validate credentials")
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"detail": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail":"Internal server error preparing response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}
