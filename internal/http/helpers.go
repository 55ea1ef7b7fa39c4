package http

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// formatPounds formats cents as an Egyptian pound string (e.g. "12.34 ج.م").
// Whole amounts drop the fraction to match how the dashboard displays totals.
func formatPounds(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	pounds := cents / 100
	rem := cents % 100
	var s string
	if rem == 0 {
		s = strconv.FormatInt(pounds, 10)
	} else {
		s = strconv.FormatInt(pounds, 10) + "." + fmt.Sprintf("%02d", rem)
	}
	if neg {
		s = "-" + s
	}
	return s + " ج.م"
}

// sanitizeInput removes potentially dangerous characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

// queryParam returns a trimmed query parameter value.
func queryParam(r *http.Request, name string) string {
	return strings.TrimSpace(r.URL.Query().Get(name))
}

// formValue returns a sanitized form value.
func formValue(r *http.Request, name string) string {
	return sanitizeInput(r.Form.Get(name))
}

// barWidth scales a value against the largest value into a rounded percent,
// clamped so small non-zero bars stay visible.
func barWidth(cents, maxCents int64) int {
	if maxCents <= 0 || cents <= 0 {
		return 0
	}
	width := int((cents*100 + maxCents/2) / maxCents)
	if width > 0 && width < 2 {
		width = 2
	}
	if width > 100 {
		width = 100
	}
	return width
}
