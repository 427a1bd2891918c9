package timebucket_test

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"chart_backend/internal/feature/timeaxis/domain/timebucket"
)

func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	ref := time.Date(2024, time.January, 2, 3, 4, 5, 0, time.UTC)
	refMillis := ref.UnixMilli()

	tests := []struct {
		name   string
		input  any
		want   time.Time
		wantOK bool
	}{
		{name: "time value", input: ref, want: ref, wantOK: true},
		{name: "time pointer", input: &ref, want: ref, wantOK: true},
		{name: "nil time pointer", input: (*time.Time)(nil), wantOK: false},
		{name: "zero time", input: time.Time{}, wantOK: false},
		{name: "int millis", input: int(refMillis), want: ref, wantOK: true},
		{name: "int64 millis", input: refMillis, want: ref, wantOK: true},
		{name: "float millis from JSON", input: float64(refMillis), want: ref, wantOK: true},
		{name: "json number", input: json.Number("1704164645000"), want: ref, wantOK: true},
		{name: "json number with fraction", input: json.Number("1704164645000.0"), want: ref, wantOK: true},
		{name: "NaN", input: math.NaN(), wantOK: false},
		{name: "positive infinity", input: math.Inf(1), wantOK: false},
		{name: "float beyond int64", input: 1e300, wantOK: false},
		{name: "negative float beyond int64", input: -1e19, wantOK: false},
		{name: "json number beyond int64", input: json.Number("1e300"), wantOK: false},
		{name: "negative float millis", input: float64(-86400000), want: time.Date(1969, time.December, 31, 0, 0, 0, 0, time.UTC), wantOK: true},
		{name: "RFC3339", input: "2024-01-02T03:04:05Z", want: ref, wantOK: true},
		{name: "RFC3339 with offset", input: "2024-01-02T12:04:05+09:00", want: ref, wantOK: true},
		{name: "zone-less ISO", input: "2024-01-02T03:04:05", want: ref, wantOK: true},
		{name: "date time", input: "2024-01-02 03:04:05", want: ref, wantOK: true},
		{name: "date only", input: "2024-01-02", want: time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC), wantOK: true},
		{name: "year month", input: "2024-01", want: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), wantOK: true},
		{name: "empty string", input: "", wantOK: false},
		{name: "garbage string", input: "yesterday", wantOK: false},
		{name: "boolean", input: true, wantOK: false},
		{name: "nil", input: nil, wantOK: false},
		{name: "map", input: map[string]any{"t": 1}, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := timebucket.ParseTimestamp(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.True(t, tt.want.Equal(got), "got %v, want %v", got, tt.want)
			}
		})
	}
}

// TestParseTimestamp_ZonelessUsesLocation はタイムゾーンなしの文字列がバケッターのロケーションで解釈されることを検証します。
func TestParseTimestamp_ZonelessUsesLocation(t *testing.T) {
	t.Parallel()

	jst := time.FixedZone("JST", 9*60*60)
	b := timebucket.New(jst, timebucket.DefaultLabelMetrics)

	got, ok := b.ParseTimestamp("2024-01-02 09:00:00")
	assert.True(t, ok)
	assert.True(t, time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC).Equal(got))
}

func TestResolveTimezone(t *testing.T) {
	t.Parallel()

	instant := time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)

	for _, name := range []string{"", "  ", "Not/AZone"} {
		loc := timebucket.ResolveTimezone(name)
		_, offset := instant.In(loc).Zone()
		assert.Zero(t, offset, "fallback for %q should be UTC", name)
	}

	tokyo := timebucket.ResolveTimezone("Asia/Tokyo")
	if tokyo.String() == "Asia/Tokyo" {
		_, offset := instant.In(tokyo).Zone()
		assert.Equal(t, 9*60*60, offset)
	} else {
		t.Log("tz database unavailable; fell back to UTC")
	}
}
