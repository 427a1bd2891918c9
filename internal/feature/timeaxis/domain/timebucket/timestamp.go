package timebucket

import (
	"encoding/json"
	"math"
	"strings"
	"time"
)

// DefaultTimezone is used when a series carries no results timezone.
const DefaultTimezone = "Etc/UTC"

// maxMillis bounds float epoch milliseconds that fit in an int64.
const maxMillis = float64(math.MaxInt64)

// timestampLayouts are tried in order for string values.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	time.DateTime,
	time.DateOnly,
	"2006-01",
}

// ResolveTimezone loads the named location, falling back to DefaultTimezone
// (and then to time.UTC) when name is empty or unknown.
func ResolveTimezone(name string) *time.Location {
	name = strings.TrimSpace(name)
	if name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	if loc, err := time.LoadLocation(DefaultTimezone); err == nil {
		return loc
	}
	return time.UTC
}

// ParseTimestamp reads a timestamp-like value: a time.Time, epoch
// milliseconds as a number, or a date string. Zone-less strings are read in
// the bucketer's location. Booleans, nil, unparseable values and numbers
// outside the int64 millisecond range report false.
func (b *Bucketer) ParseTimestamp(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, !x.IsZero()
	case *time.Time:
		if x == nil {
			return time.Time{}, false
		}
		return *x, !x.IsZero()
	case int:
		return time.UnixMilli(int64(x)), true
	case int64:
		return time.UnixMilli(x), true
	case float64:
		if math.IsNaN(x) || x >= maxMillis || x < -maxMillis {
			return time.Time{}, false
		}
		return time.UnixMilli(int64(x)), true
	case json.Number:
		ms, err := x.Int64()
		if err != nil {
			f, ferr := x.Float64()
			if ferr != nil {
				return time.Time{}, false
			}
			return b.ParseTimestamp(f)
		}
		return time.UnixMilli(ms), true
	case string:
		return b.parseString(x)
	default:
		return time.Time{}, false
	}
}

func (b *Bucketer) parseString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, b.loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseTimestamp reads v with the default UTC bucketer.
func ParseTimestamp(v any) (time.Time, bool) {
	return defaultBucketer.ParseTimestamp(v)
}
