package pagination

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Cursor marks a position in an ordered result set. Value is the ordering
// column's value for the boundary row, SecondaryValue the tie-break value
// when one is configured, and Reverse flags a backward-navigation cursor.
//
// A cursor is only meaningful against the same ordering configuration that
// produced it. Cursors are not versioned: changing the ordering silently
// invalidates tokens already handed out.
type Cursor struct {
	Value          any  `json:"value"`
	SecondaryValue any  `json:"secondary_value,omitempty"`
	Reverse        bool `json:"reverse"`
}

// EncodeCursor serializes a cursor to its opaque wire form: JSON wrapped in
// unpadded base64url. Times are serialized as ISO-8601, UUIDs as strings.
func EncodeCursor(c Cursor) string {
	c.Value = normalizeValue(c.Value)
	c.SecondaryValue = normalizeValue(c.SecondaryValue)

	raw, err := json.Marshal(c)
	if err != nil {
		// Cursor values are primitives produced by key extractors; this
		// cannot fail for any supported value type.
		return ""
	}

	return base64.RawURLEncoding.EncodeToString(raw)
}

// DecodeCursor parses an opaque cursor string. It reports ok=false for any
// malformed input (empty string, bad base64, bad JSON, missing value) so
// callers can fall back to the first page instead of erroring.
func DecodeCursor(s string) (Cursor, bool) {
	if s == "" {
		return Cursor{}, false
	}

	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		// Tolerate padded tokens produced by other encoders.
		raw, err = base64.URLEncoding.DecodeString(s)
		if err != nil {
			return Cursor{}, false
		}
	}

	var c Cursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return Cursor{}, false
	}

	if c.Value == nil {
		return Cursor{}, false
	}

	return c, true
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case time.Time:
		return t.UTC().Format(time.RFC3339Nano)
	case uuid.UUID:
		return t.String()
	default:
		return v
	}
}

// ParseFunc converts a decoded cursor primitive (string, float64, bool) back
// into the native type the storage layer compares against. Returning an
// error marks the cursor malformed, which degrades to the first page.
type ParseFunc func(raw any) (any, error)

// ParseTime decodes an ISO-8601 cursor value back into a time.Time.
func ParseTime(raw any) (any, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("cursor value %v is not a timestamp", raw)
	}

	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil, fmt.Errorf("parse cursor timestamp %q: %w", s, err)
	}

	return t, nil
}

// ParseUUID decodes a string cursor value back into a uuid.UUID.
func ParseUUID(raw any) (any, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("cursor value %v is not a UUID", raw)
	}

	id, err := uuid.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("parse cursor UUID %q: %w", s, err)
	}

	return id, nil
}
