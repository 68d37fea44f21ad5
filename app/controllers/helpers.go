// Package controllers holds the HTTP handlers. Controllers stay thin:
// decode and validate the request, call a service, translate the
// result into the JSON envelope.
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/chenweihao/weishop/app/services"
	"github.com/chenweihao/weishop/pkg/logger"
	"github.com/chenweihao/weishop/pkg/middleware"
	"github.com/chenweihao/weishop/pkg/response"
	"github.com/go-chi/chi/v5"
)

// pathID parses a numeric path parameter. Returns 0 when missing or
// not a number; callers treat that as a bad request.
func pathID(r *http.Request, key string) uint {
	n, err := strconv.ParseUint(chi.URLParam(r, key), 10, 64)
	if err != nil {
		return 0
	}
	return uint(n)
}

// queryInt parses an integer query parameter, falling back to def.
func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// currentUserID returns the authenticated caller's id. The auth
// middleware guarantees it is set on protected routes.
func currentUserID(r *http.Request) uint {
	id, _ := middleware.UserIDFromCtx(r)
	return id
}

// writeServiceError maps the service error taxonomy onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	var unavailable *services.ProductUnavailableError
	var stock *services.InsufficientStockError

	switch {
	case errors.Is(err, services.ErrValidation):
		response.Error(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &unavailable):
		response.Error(w, http.StatusConflict, unavailable.Error())
	case errors.As(err, &stock):
		response.Error(w, http.StatusConflict, stock.Error())
	case errors.Is(err, services.ErrInvalidAddress):
		response.Error(w, http.StatusBadRequest, "Invalid shipping address")
	case errors.Is(err, services.ErrInvalidTransition):
		response.Error(w, http.StatusConflict, "Order state does not allow this")
	case errors.Is(err, services.ErrConcurrency):
		response.Error(w, http.StatusConflict, "Conflicting update, please retry")
	case errors.Is(err, services.ErrEmailTaken):
		response.Error(w, http.StatusConflict, "Email already registered")
	case errors.Is(err, services.ErrBadCredentials):
		response.Error(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, services.ErrAccountLocked):
		response.Error(w, http.StatusForbidden, "Account is locked")
	case errors.Is(err, services.ErrNotFound):
		response.NotFound(w)
	default:
		logger.Error("unhandled service error", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
