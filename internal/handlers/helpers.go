package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/diewo77/go-energy/internal/apperr"
	"github.com/diewo77/go-energy/internal/auth"
)

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Validation("Invalid JSON.")
	}
	return nil
}

func pathID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Validation("Invalid id.")
	}
	return uint(id), nil
}

// callerID returns the authenticated user id. Routes behind RequireAuth
// always have one; 0 means unauthenticated.
func callerID(r *http.Request) uint {
	uid, _ := auth.UserIDFromContext(r.Context())
	return uid
}

func errBadFilter(name string) error {
	return apperr.Validation("Invalid value for filter " + name + ".")
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseTimestamp accepts the occurrence timestamp in RFC3339, a naive
// datetime, or a bare date.
func parseTimestamp(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
