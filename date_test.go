package fatscan

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		input uint16
		want  time.Time
	}{
		{name: "first day", input: 0<<9 | 1<<5 | 1, want: time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)},
		{name: "sample", input: 41<<9 | 3<<5 | 4, want: time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC)},
		{name: "last day", input: 127<<9 | 12<<5 | 31, want: time.Date(2107, 12, 31, 0, 0, 0, 0, time.UTC)},
		{name: "zero", input: 0, want: time.Time{}},
		{name: "day 0", input: 41<<9 | 3<<5, want: time.Time{}},
		{name: "month 0", input: 41<<9 | 4, want: time.Time{}},
		{name: "month 13", input: 41<<9 | 13<<5 | 4, want: time.Date(2022, 1, 4, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseDate(tt.input); !got.Equal(tt.want) {
				t.Errorf("ParseDate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		name  string
		input uint16
		want  time.Time
	}{
		{name: "midnight", input: 0, want: time.Time{}},
		{name: "sample", input: 5<<11 | 6<<5 | 4, want: time.Date(1, 1, 1, 5, 6, 8, 0, time.UTC)},
		{name: "last second", input: 23<<11 | 59<<5 | 29, want: time.Date(1, 1, 1, 23, 59, 58, 0, time.UTC)},
		{name: "hour out of range", input: 31<<11 | 0<<5 | 0, want: time.Date(1, 1, 1, 23, 59, 59, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseTime(tt.input); !got.Equal(tt.want) {
				t.Errorf("ParseTime() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name  string
		date  uint16
		clock uint16
		want  time.Time
	}{
		{name: "sample", date: 41<<9 | 3<<5 | 4, clock: 5<<11 | 6<<5 | 4, want: time.Date(2021, 3, 4, 5, 6, 8, 0, time.UTC)},
		{name: "invalid date", date: 0, clock: 5<<11 | 6<<5 | 4, want: time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseTimestamp(tt.date, tt.clock); !got.Equal(tt.want) {
				t.Errorf("ParseTimestamp() = %v, want %v", got, tt.want)
			}
		})
	}
}
