package graph

import (
	"strconv"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
)

// NodeProps extracts the property bag from a value returned by the driver.
// Accepts a dbtype.Node, a *dbtype.Node or a bare map (tests, collect()
// aggregates). Returns false for null columns from OPTIONAL MATCH.
func NodeProps(value any) (map[string]any, bool) {
	switch v := value.(type) {
	case dbtype.Node:
		return v.Props, true
	case *dbtype.Node:
		if v == nil {
			return nil, false
		}
		return v.Props, true
	case map[string]any:
		return v, true
	default:
		return nil, false
	}
}

// lookup returns a property by its canonical lowerCamel key, falling back to
// the legacy PascalCase spelling still present on nodes written before the
// schema repair.
func lookup(props map[string]any, key string) (any, bool) {
	if v, ok := props[key]; ok && v != nil {
		return v, true
	}
	if key == "" {
		return nil, false
	}
	pascal := strings.ToUpper(key[:1]) + key[1:]
	if v, ok := props[pascal]; ok && v != nil {
		return v, true
	}
	return nil, false
}

// StringProp reads a string property, empty when absent.
func StringProp(props map[string]any, key string) string {
	return StringPropOr(props, key, "")
}

// StringPropOr reads a string property with an explicit fallback.
func StringPropOr(props map[string]any, key, fallback string) string {
	v, ok := lookup(props, key)
	if !ok {
		return fallback
	}
	switch s := v.(type) {
	case string:
		return s
	case int64:
		return strconv.FormatInt(s, 10)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return fallback
	}
}

// BoolProp reads a bool property, false when absent.
func BoolProp(props map[string]any, key string) bool {
	return BoolPropOr(props, key, false)
}

// BoolPropOr reads a bool property with an explicit fallback.
func BoolPropOr(props map[string]any, key string, fallback bool) bool {
	v, ok := lookup(props, key)
	if !ok {
		return fallback
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		if parsed, err := strconv.ParseBool(b); err == nil {
			return parsed
		}
		return fallback
	default:
		return fallback
	}
}

// IntProp coerces a numeric property to int64. Legacy nodes store numbers as
// int, float or string interchangeably, so all three are tolerated.
func IntProp(props map[string]any, key string) int64 {
	v, ok := lookup(props, key)
	if !ok {
		return 0
	}
	return CoerceInt(v)
}

// FloatProp coerces a numeric property to float64 with the same tolerance.
func FloatProp(props map[string]any, key string) float64 {
	v, ok := lookup(props, key)
	if !ok {
		return 0
	}
	return CoerceFloat(v)
}

// CoerceInt converts any stored numeric representation to int64.
func CoerceInt(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	case string:
		if parsed, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64); err == nil {
			return parsed
		}
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return int64(parsed)
		}
		return 0
	default:
		return 0
	}
}

// CoerceFloat converts any stored numeric representation to float64.
func CoerceFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	case string:
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return parsed
		}
		return 0
	default:
		return 0
	}
}

// TimeProp parses an ISO-8601 timestamp property, zero time when absent or
// unparseable.
func TimeProp(props map[string]any, key string) time.Time {
	v, ok := lookup(props, key)
	if !ok {
		return time.Time{}
	}
	return coerceTime(v)
}

// OptionalTimeProp parses a nullable timestamp property.
func OptionalTimeProp(props map[string]any, key string) *time.Time {
	v, ok := lookup(props, key)
	if !ok {
		return nil
	}
	t := coerceTime(v)
	if t.IsZero() {
		return nil
	}
	return &t
}

func coerceTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if t == "" {
			return time.Time{}
		}
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return parsed
		}
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed
		}
		// Second fallback for timestamps written without an offset.
		if parsed, err := time.Parse("2006-01-02T15:04:05", t); err == nil {
			return parsed
		}
		return time.Time{}
	case dbtype.Time:
		return t.Time()
	case dbtype.LocalDateTime:
		return t.Time()
	default:
		return time.Time{}
	}
}

// FormatTime renders timestamps the way every node property stores them.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// FormatOptionalTime renders a nullable timestamp, nil stays nil.
func FormatOptionalTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return FormatTime(*t)
}
