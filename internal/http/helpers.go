package http

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPage  = 1
	defaultLimit = 10

	defaultStartBound = "1970-01-01"
	dateOnlyLayout    = "2006-01-02"
	boundTimeLayout   = "2006-01-02T15:04:05.000Z"
)

// writeJSON serializes v with the right content type.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes the API error shape: {"error": message}.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// parsePagination extracts page and limit query parameters with their
// defaults. Non-numeric or non-positive values fall back to the defaults.
func parsePagination(query url.Values) (page, limit int) {
	page, limit = defaultPage, defaultLimit
	if v := strings.TrimSpace(query.Get("page")); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			page = p
		}
	}
	if v := strings.TrimSpace(query.Get("limit")); v != "" {
		if l, err := strconv.Atoi(v); err == nil && l > 0 {
			limit = l
		}
	}
	return page, limit
}

// normalizeRange turns optional startDate/endDate parameters into lexical
// bounds for the TEXT date column. The start bound defaults to 1970-01-01 and
// the end bound to now (UTC). A date-only end bound gets an end-of-day suffix
// so the range stays inclusive for both date-only and datetime-suffixed
// stored values.
func normalizeRange(startDate, endDate string) (start, end string) {
	start = strings.TrimSpace(startDate)
	if start == "" {
		start = defaultStartBound
	}

	end = strings.TrimSpace(endDate)
	if end == "" {
		end = time.Now().UTC().Format(boundTimeLayout)
	} else if _, err := time.Parse(dateOnlyLayout, end); err == nil {
		end += "T23:59:59.999Z"
	}

	return start, end
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
