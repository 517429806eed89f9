package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/elliotchance/pie/v2"
)

// Lookup returns the first present key of args.
func Lookup(args map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := args[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// String accepts strings and numbers.
func String(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64, int, json.Number, bool:
		return fmt.Sprint(t)
	}
	return ""
}

// StringList accepts a JSON array of scalars or a comma-separated string.
func StringList(v any) []string {
	switch t := v.(type) {
	case string:
		return strings.Split(t, ",")
	case []string:
		return t
	case []any:
		return pie.Map(t, String)
	}
	return nil
}

// Bool accepts booleans and "true"/"false"/"yes"/"no"/"1"/"0" strings.
func Bool(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case float64:
		return t != 0, true
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "1":
			return true, true
		case "false", "no", "0":
			return false, true
		}
	}
	return false, false
}

// Int accepts JSON numbers and numeric strings, truncating fractions.
// Values beyond the int32 range saturate; NaN is rejected.
func Int(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		return truncate(t)
	case int:
		return t, true
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		return truncate(f)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return 0, false
		}
		return truncate(f)
	}
	return 0, false
}

func truncate(f float64) (int, bool) {
	switch {
	case math.IsNaN(f):
		return 0, false
	case f >= math.MaxInt32:
		return math.MaxInt32, true
	case f <= math.MinInt32:
		return math.MinInt32, true
	}
	return int(f), true
}

// NormalizeSkills trims, drops empties and removes case-insensitive
// duplicates, keeping the first spelling.
func NormalizeSkills(skills []string) []string {
	trimmed := pie.FilterNot(pie.Map(skills, strings.TrimSpace), func(s string) bool { return s == "" })

	seen := make(map[string]bool, len(trimmed))
	out := make([]string, 0, len(trimmed))
	for _, s := range trimmed {
		key := strings.ToLower(s)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}
