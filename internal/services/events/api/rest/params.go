package rest

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/louisbranch/eventdesk/internal/platform/errors"
	"github.com/louisbranch/eventdesk/internal/services/events/domain/event"
	"github.com/louisbranch/eventdesk/internal/services/events/query"
)

const civilDateLayout = "2006-01-02"

// parseListParams reads the listing query string. On the public path the
// status filter is dropped here and forced by the service.
func parseListParams(r *http.Request, public bool) (query.Params, error) {
	values := r.URL.Query()
	var params query.Params
	var violations []apperrors.FieldViolation

	if raw := strings.TrimSpace(values.Get("dateFrom")); raw != "" {
		parsed, err := time.ParseInLocation(civilDateLayout, raw, time.UTC)
		if err != nil {
			violations = append(violations, apperrors.FieldViolation{Field: "dateFrom", Message: "Must be a date in YYYY-MM-DD format"})
		} else {
			params.DateFrom = parsed
		}
	}
	if raw := strings.TrimSpace(values.Get("dateTo")); raw != "" {
		parsed, err := time.ParseInLocation(civilDateLayout, raw, time.UTC)
		if err != nil {
			violations = append(violations, apperrors.FieldViolation{Field: "dateTo", Message: "Must be a date in YYYY-MM-DD format"})
		} else {
			params.DateTo = parsed
		}
	}

	if raw := strings.TrimSpace(values.Get("locations")); raw != "" {
		for _, location := range strings.Split(raw, ",") {
			if location = strings.TrimSpace(location); location != "" {
				params.Locations = append(params.Locations, location)
			}
		}
	}

	if raw := strings.TrimSpace(values.Get("status")); raw != "" && !public {
		for _, value := range strings.Split(raw, ",") {
			status, err := event.ParseStatus(strings.TrimSpace(value))
			if err != nil {
				violations = append(violations, apperrors.FieldViolation{Field: "status", Message: "Invalid status value"})
				continue
			}
			params.Statuses = append(params.Statuses, status)
		}
	}

	if raw := strings.TrimSpace(values.Get("page")); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			violations = append(violations, apperrors.FieldViolation{Field: "page", Message: "Must be a positive integer"})
		} else {
			params.Page = page
		}
	}
	if raw := strings.TrimSpace(values.Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			violations = append(violations, apperrors.FieldViolation{Field: "limit", Message: "Must be a positive integer"})
		} else {
			params.Limit = limit
		}
	}

	if len(violations) > 0 {
		return query.Params{}, apperrors.WithDetails(apperrors.CodeValidation, "Validation failed", violations)
	}
	return params, nil
}
