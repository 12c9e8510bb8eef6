package models

import (
	"fmt"
	"strconv"
)

// StatusKind classifies the outcome of a status check.
type StatusKind string

const (
	StatusOK                  StatusKind = "ok"
	StatusEmptyURL            StatusKind = "empty_url"
	StatusKeyTooLong          StatusKind = "key_too_long"
	StatusCacheUnavailable    StatusKind = "cache_unavailable"
	StatusDNS                 StatusKind = "dns"
	StatusTimeout             StatusKind = "timeout"
	StatusUnsupportedScheme   StatusKind = "unsupported_scheme"
	StatusInvalidURL          StatusKind = "invalid_url"
	StatusForbidden           StatusKind = "forbidden"
	StatusUnauthorized        StatusKind = "unauthorized"
	StatusNotFound            StatusKind = "not_found"
	StatusInternalServerError StatusKind = "internal_server_error"
	StatusUnclassified        StatusKind = "unclassified"
	// StatusVerbatim carries a cached value that is not a plain status code.
	StatusVerbatim StatusKind = "verbatim"
)

// maxErrorDetailLength bounds how much of a raw transport error is surfaced.
const maxErrorDetailLength = 100

var statusMessages = map[StatusKind]string{
	StatusEmptyURL:            "Error: Empty URL",
	StatusKeyTooLong:          "Error: URL too long for caching",
	StatusDNS:                 "Error: Hostname not found (DNS error)",
	StatusTimeout:             "Error: Connection timeout",
	StatusUnsupportedScheme:   "Error: Unsupported URL format",
	StatusInvalidURL:          "Error: Invalid URL",
	StatusForbidden:           "Error: Access forbidden (403)",
	StatusUnauthorized:        "Error: Unauthorized access (401)",
	StatusNotFound:            "Error: Page not found (404)",
	StatusInternalServerError: "Error: Internal server error (500)",
}

// StatusResult is the tagged outcome of a status check. It is flattened to a
// display string only when written to the tracking sheet.
type StatusResult struct {
	Kind   StatusKind
	Code   int
	Detail string
}

// StatusCode builds a successful result.
func StatusCode(code int) StatusResult {
	return StatusResult{Kind: StatusOK, Code: code}
}

// StatusFailure builds a failed result of the given kind.
func StatusFailure(kind StatusKind, detail string) StatusResult {
	return StatusResult{Kind: kind, Detail: detail}
}

// StatusFromCache rebuilds a result from a cached value.
func StatusFromCache(value string) StatusResult {
	if code, err := strconv.Atoi(value); err == nil {
		return StatusCode(code)
	}
	return StatusResult{Kind: StatusVerbatim, Detail: value}
}

// IsOK reports whether the check produced an HTTP status code.
func (s StatusResult) IsOK() bool {
	return s.Kind == StatusOK
}

// String renders the result the way it is stored in the sheet.
func (s StatusResult) String() string {
	switch s.Kind {
	case StatusOK:
		return strconv.Itoa(s.Code)
	case StatusVerbatim:
		return s.Detail
	case StatusCacheUnavailable:
		return "Error: Cache issue - " + s.Detail
	case StatusUnclassified:
		return "Error: Unable to fetch URL - " + truncateRunes(s.Detail, maxErrorDetailLength)
	}

	if msg, ok := statusMessages[s.Kind]; ok {
		return msg
	}
	return "Error: Unable to fetch URL"
}

// StatusString coerces a sheet value to its string form so that a numeric
// cell and its textual form compare equal.
func StatusString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case StatusResult:
		return val.String()
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
