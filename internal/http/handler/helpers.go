package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/lcolonia21/BizGuide-Final-System/internal/domain"
	"github.com/lcolonia21/BizGuide-Final-System/internal/http/middleware"
	"github.com/lcolonia21/BizGuide-Final-System/internal/http/response"
	"github.com/lcolonia21/BizGuide-Final-System/internal/repository"
	"github.com/lcolonia21/BizGuide-Final-System/internal/service"
)

var errInvalidPayload = errors.New("invalid payload")

// decodeJSON reads exactly one JSON value into dst. Unknown fields are
// rejected so identity columns cannot be smuggled into a payload.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errInvalidPayload, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: trailing data", errInvalidPayload)
	}
	return nil
}

func parsePathID(input string) (uint, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(input), 10, 64)
	if err != nil || v == 0 {
		return 0, fmt.Errorf("invalid id %q", input)
	}
	return uint(v), nil
}

func parsePageRequest(r *http.Request) (repository.PageRequest, error) {
	page := repository.DefaultPage
	pageSize := repository.DefaultPageSize
	if raw := strings.TrimSpace(r.URL.Query().Get("page")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return repository.PageRequest{}, errors.New("page must be a positive integer")
		}
		page = v
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("page_size")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return repository.PageRequest{}, errors.New("page_size must be a positive integer")
		}
		if v > repository.MaxPageSize {
			return repository.PageRequest{}, fmt.Errorf("page_size must be <= %d", repository.MaxPageSize)
		}
		pageSize = v
	}
	return repository.PageRequest{Page: page, PageSize: pageSize}, nil
}

func paginatedData[T any](res repository.PageResult[T]) map[string]any {
	items := res.Items
	if items == nil {
		items = []T{}
	}
	return map[string]any{
		"items": items,
		"pagination": map[string]any{
			"page":        res.Page,
			"page_size":   res.PageSize,
			"total":       res.Total,
			"total_pages": res.TotalPages,
		},
	}
}

// identity returns the caller set by middleware.Authenticate, writing a 401
// when the route was mounted without it.
func identity(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	user, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		middleware.Unauthorized(w, r, service.ErrUnauthenticated.Error())
		return nil, false
	}
	return user, true
}

func idString(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// writeServiceError maps service sentinels onto the response envelope.
// Anything unrecognised is logged and reported as a bare 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var throttled *service.LoginThrottledError
	switch {
	case errors.Is(err, service.ErrDuplicateEmail):
		response.Error(w, r, http.StatusBadRequest, "EMAIL_ALREADY_REGISTERED", service.ErrDuplicateEmail.Error(), nil)
	case errors.As(err, &throttled):
		w.Header().Set("Retry-After", strconv.Itoa(max(int(math.Ceil(throttled.RetryAfter.Seconds())), 1)))
		response.Error(w, r, http.StatusTooManyRequests, "RATE_LIMITED", service.ErrLoginThrottled.Error(), nil)
	case errors.Is(err, service.ErrAuthenticationFailed):
		middleware.Unauthorized(w, r, service.ErrAuthenticationFailed.Error())
	case errors.Is(err, service.ErrUnauthenticated):
		middleware.Unauthorized(w, r, service.ErrUnauthenticated.Error())
	case errors.Is(err, service.ErrForbidden):
		response.Error(w, r, http.StatusForbidden, "FORBIDDEN", service.ErrForbidden.Error(), nil)
	case errors.Is(err, service.ErrBusinessNotFound),
		errors.Is(err, service.ErrReviewNotFound),
		errors.Is(err, service.ErrLogoNotFound):
		response.Error(w, r, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case errors.Is(err, service.ErrLogoTooLarge):
		response.Error(w, r, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", err.Error(), nil)
	case errors.Is(err, service.ErrLogoStorageDisabled),
		errors.Is(err, service.ErrLogoStorageUnavailable):
		response.Error(w, r, http.StatusServiceUnavailable, "UNAVAILABLE", err.Error(), nil)
	case errors.Is(err, service.ErrInvalidBusinessInput),
		errors.Is(err, service.ErrInvalidReviewInput),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrWeakPassword),
		errors.Is(err, service.ErrMissingFullName),
		errors.Is(err, service.ErrInvalidLogoType),
		errors.Is(err, errInvalidPayload):
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	default:
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
	}
}

// auditOutcome classifies a service error for the audit trail.
func auditOutcome(err error) (outcome, reason string) {
	switch {
	case err == nil:
		return "success", ""
	case errors.Is(err, service.ErrForbidden):
		return "denied", "not_owner"
	case errors.Is(err, service.ErrBusinessNotFound), errors.Is(err, service.ErrReviewNotFound), errors.Is(err, service.ErrLogoNotFound):
		return "failure", "not_found"
	case errors.Is(err, service.ErrInvalidBusinessInput), errors.Is(err, service.ErrInvalidReviewInput), errors.Is(err, service.ErrInvalidLogoType), errors.Is(err, service.ErrLogoTooLarge):
		return "failure", "invalid_input"
	default:
		return "failure", "internal"
	}
}
