// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON API. Handlers parse and validate
// requests, call the hierarchy engine or the book catalog, and map domain
// error kinds to HTTP status codes without adding business rules.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"bookshelf/internal/domain"
	"bookshelf/internal/models"
)

// maxBodyBytes caps request bodies; catalog payloads are tiny.
const maxBodyBytes = 1 << 20

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes v as JSON with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// statusFor maps a domain error kind to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrParentNotFound),
		errors.Is(err, domain.ErrCategoryNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateName),
		errors.Is(err, domain.ErrSelfParent),
		errors.Is(err, domain.ErrCircularReference):
		return http.StatusConflict
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// handleError writes the response for err. Only the client-safe message is
// sent; server errors are logged with their cause.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", chimw.GetReqID(r.Context()),
			"error", err,
		)
	}
	writeJSON(w, status, errorResponse{Error: domain.Message(err)})
}

// badRequest writes a 400 with msg.
func badRequest(w http.ResponseWriter, r *http.Request, msg string) {
	handleError(w, r, domain.New(domain.ErrValidation, "%s", msg))
}

// decodeJSON reads the request body into v and validates it.
func decodeJSON(w http.ResponseWriter, r *http.Request, v request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		badRequest(w, r, "invalid JSON body")
		return false
	}
	v.normalize()
	if err := validate.Struct(v); err != nil {
		badRequest(w, r, validationMessage(err))
		return false
	}
	return true
}

// pathID parses the named URL parameter as a UUID, writing a 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		badRequest(w, r, "invalid "+param)
		return uuid.Nil, false
	}
	return id, true
}

// pagination reads page and limit from the query string. Missing or
// malformed values become zero and are defaulted by the service.
func pagination(r *http.Request) models.Pagination {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return models.Pagination{Page: page, Limit: limit}
}
