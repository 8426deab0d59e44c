// Package ident normalizes heterogeneous identifiers. Connection
// payloads and legacy rows carry model ids as small integers, JSON
// numbers, or UUID strings; comparing them raw produces 3 != "3" class
// mismatches. Every comparison goes through Key instead.
package ident

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// missingKey is returned for nil or blank identifiers. It can never
// collide with real data: real keys are never empty.
const missingKey = ""

// Key returns the comparable string form of an identifier of any
// origin. It is total: unknown types stringify via fmt, nil and blank
// values map to a sentinel that matches nothing.
func Key(v any) string {
	switch id := v.(type) {
	case nil:
		return missingKey
	case string:
		return strings.TrimSpace(id)
	case json.Number:
		return normalizeNumeric(id.String())
	case float64:
		// JSON numbers decode as float64; 3.0 must key the same as "3".
		if id == math.Trunc(id) && !math.IsInf(id, 0) {
			return strconv.FormatInt(int64(id), 10)
		}
		return strconv.FormatFloat(id, 'f', -1, 64)
	case float32:
		return Key(float64(id))
	case int:
		return strconv.Itoa(id)
	case int32:
		return strconv.FormatInt(int64(id), 10)
	case int64:
		return strconv.FormatInt(id, 10)
	case fmt.Stringer:
		return strings.TrimSpace(id.String())
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", id))
	}
}

// Missing reports whether a key is the absent-identifier sentinel.
func Missing(key string) bool {
	return key == missingKey
}

// LooksNumeric reports whether s parses as a plain integer, the shape
// of legacy hashed ids.
func LooksNumeric(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

func normalizeNumeric(s string) string {
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) {
		return strconv.FormatInt(int64(f), 10)
	}
	return s
}
