// Package sanitize strips hostile shapes out of a deserialized JSON Logic
// rule value before it is parsed into a Rule tree: prototype-polluting keys
// are dropped, cyclic object graphs are rejected, and the identifier grammar
// used to validate column lexemes lives here for reuse by the compiler
// driver when it builds column expressions.
package sanitize

import (
	"strings"

	"github.com/Nam088/json-logic-to-sql/errs"
)

// prohibitedKeys are dropped from any object encountered while sanitizing,
// regardless of depth. "__proto__" is JavaScript's; the others cover the
// equivalent class-pollution identifiers in other host runtimes a JSON
// Logic payload might have passed through before reaching this process.
var prohibitedKeys = map[string]bool{
	"__proto__":   true,
	"constructor": true,
	"prototype":   true,
}

// Sanitize walks an arbitrary deserialized value (the result of
// json.Unmarshal into `any`) and returns a structurally identical tree with
// prohibited keys removed. Cycles in the object graph (by Go pointer/slice
// identity, tracked via the underlying map/slice header) are rejected.
func Sanitize(v any) (any, error) {
	seen := make(map[any]bool)
	out, err := sanitizeValue(v, seen)
	if err != nil {
		return nil, err
	}
	if m, ok := out.(map[string]any); ok && len(m) == 0 {
		if orig, ok := v.(map[string]any); ok && len(orig) > 0 {
			return nil, errs.Input("InvalidInput", "object is empty after stripping prohibited keys")
		}
	}
	return out, nil
}

// identityOf returns a value usable as a map key to detect cycles for maps
// and slices. Scalars never participate in cycles and return nil (no
// tracking needed).
func identityOf(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return identityKey{kind: "map", ptr: mapIdentity(t)}
	case []any:
		return identityKey{kind: "slice", ptr: sliceIdentity(t)}
	default:
		return nil
	}
}

type identityKey struct {
	kind string
	ptr  uintptr
}

func sanitizeValue(v any, path map[any]bool) (any, error) {
	id := identityOf(v)
	if id != nil {
		if path[id] {
			return nil, errs.Input("CircularReference", "cyclic reference detected while sanitizing rule")
		}
		path[id] = true
		defer delete(path, id)
	}

	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			if prohibitedKeys[k] {
				continue
			}
			sv, err := sanitizeValue(val, path)
			if err != nil {
				return nil, err
			}
			out[k] = sv
		}
		return out, nil

	case []any:
		out := make([]any, 0, len(t))
		for _, val := range t {
			sv, err := sanitizeValue(val, path)
			if err != nil {
				return nil, err
			}
			out = append(out, sv)
		}
		return out, nil

	default:
		return v, nil
	}
}

// ValidIdentifier reports whether name is safe to emit literally into SQL
// (after dialect-specific quoting): each dot-separated segment must start
// with a letter or underscore, contain only ASCII letters/digits/underscore,
// and there must be at most three segments total (§4.2, §3 invariant 4).
func ValidIdentifier(name string) bool {
	if name == "" {
		return false
	}
	parts := strings.Split(name, ".")
	if len(parts) > 3 {
		return false
	}
	for _, p := range parts {
		if !validSegment(p) {
			return false
		}
	}
	return true
}

func validSegment(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
		isDigit := r >= '0' && r <= '9'
		if i == 0 {
			if !isLetter {
				return false
			}
			continue
		}
		if !isLetter && !isDigit {
			return false
		}
	}
	return true
}

// CheckParameterValue rejects string values carrying an embedded NUL byte
// (§4.5); non-string values pass through untouched.
func CheckParameterValue(v any) error {
	if s, ok := v.(string); ok && strings.ContainsRune(s, 0) {
		return errs.Parameter("string parameter contains a NUL byte", "")
	}
	return nil
}
