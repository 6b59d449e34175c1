package normalize

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"time"
)

// isoDate matches a complete ISO-8601 date-time with a mandatory zone designator.
var isoDate = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})T(\d{2}):(\d{2}):(\d{2})(?:\.(\d+))?(Z|[+-][\d:]*)$`)

// minDateLen is the length of the shortest string isoDate can match ("2006-01-02T15:04:05Z").
const minDateLen = 20

// Value returns a normalized copy of a decoded JSON value.
//
// Slices and maps are copied element by element, strings that parse as ISO-8601
// date-times become time.Time, and every other value is returned unchanged.
func Value(v any) any {
	switch typed := v.(type) {
	case nil:
		return nil
	case []any:
		if typed == nil {
			return typed
		}
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = Value(item)
		}
		return out
	case map[string]any:
		if typed == nil {
			return typed
		}
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[key] = Value(item)
		}
		return out
	case string:
		if t, ok := ParseDate(typed); ok {
			return t
		}
		return typed
	default:
		return v
	}
}

// ParseDate reports whether s is an ISO-8601 date-time and returns the instant it describes.
//
// A trailing "Z" yields a UTC time; a signed offset ("+02", "+0200" or "+02:00") yields a
// time in a fixed zone with that offset.
func ParseDate(s string) (time.Time, bool) {
	if len(s) < minDateLen || s[4] != '-' || s[10] != 'T' {
		return time.Time{}, false
	}

	m := isoDate.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}

	year, month, day := atoi(m[1]), atoi(m[2]), atoi(m[3])
	hour, minute, sec := atoi(m[4]), atoi(m[5]), atoi(m[6])

	if month < 1 || month > 12 {
		return time.Time{}, false
	}
	if day < 1 || day > daysIn(year, time.Month(month)) {
		return time.Time{}, false
	}
	if hour > 23 || minute > 59 || sec > 59 {
		return time.Time{}, false
	}

	loc, ok := parseZone(m[8])
	if !ok {
		return time.Time{}, false
	}

	return time.Date(year, time.Month(month), day, hour, minute, sec, fraction(m[7]), loc), true
}

// Decode parses a JSON document and returns its normalized tree.
// Numbers are kept as json.Number so large integers survive unchanged.
// An empty or whitespace-only body decodes to nil.
func Decode(data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("normalize: decode body: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("normalize: decode body: unexpected data after top-level value")
	}

	return Value(raw), nil
}

// Into stores a normalized tree in the value pointed to by out.
//
// Typed destinations are filled through a JSON round trip, so time.Time values land in
// time.Time fields and json.Number values in any numeric field. A destination of type
// *any receives the tree itself.
func Into(tree any, out any) error {
	if out == nil {
		return errors.New("normalize: destination is nil")
	}
	if p, ok := out.(*any); ok {
		*p = tree
		return nil
	}

	data, err := json.Marshal(tree)
	if err != nil {
		return fmt.Errorf("normalize: encode tree: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("normalize: decode into %T: %w", out, err)
	}
	return nil
}

func parseZone(zone string) (*time.Location, bool) {
	if zone == "Z" {
		return time.UTC, true
	}

	sign := 1
	if zone[0] == '-' {
		sign = -1
	}

	digits := make([]byte, 0, 4)
	for i := 1; i < len(zone); i++ {
		if zone[i] != ':' {
			digits = append(digits, zone[i])
		}
	}

	var hours, minutes int
	switch len(digits) {
	case 2:
		hours = atoi(string(digits))
	case 4:
		hours = atoi(string(digits[:2]))
		minutes = atoi(string(digits[2:]))
	default:
		return nil, false
	}
	if hours > 23 || minutes > 59 {
		return nil, false
	}

	offset := sign * (hours*3600 + minutes*60)
	if offset == 0 {
		return time.UTC, true
	}
	return time.FixedZone("", offset), true
}

// fraction converts the digits after the decimal point into nanoseconds.
func fraction(digits string) int {
	if digits == "" {
		return 0
	}
	if len(digits) > 9 {
		digits = digits[:9]
	}
	ns := atoi(digits)
	for i := len(digits); i < 9; i++ {
		ns *= 10
	}
	return ns
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// atoi parses a string the regexp already restricted to ASCII digits.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
