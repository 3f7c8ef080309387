package utils

import (
	"testing"
	"time"
)

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   string
		ok   bool
	}{
		{"rfc3339 utc", "2024-03-01T10:00:00Z", true},
		{"rfc3339 millis", "2024-03-01T10:00:00.000Z", true},
		{"rfc3339 offset", "2024-03-01T12:00:00+02:00", true},
		{"rfc1123", "Fri, 01 Mar 2024 10:00:00 GMT", true},
		{"no zone is utc", "2024-03-01 10:00:00", true},
		{"padded", "  2024-03-01T10:00:00Z  ", true},
		{"empty", "", false},
		{"blank", "   ", false},
		{"garbage", "not a timestamp", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTimestamp(tt.in)
			if ok != tt.ok {
				t.Fatalf("ParseTimestamp(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			}
			if !ok {
				if !got.IsZero() {
					t.Errorf("missing value should be zero, got %v", got)
				}
				return
			}
			if !got.Equal(want) {
				t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.in, got, want)
			}
			if got.Location() != time.UTC {
				t.Errorf("result should be in UTC, got %v", got.Location())
			}
		})
	}
}

func TestParseTimestampKeepsMicroseconds(t *testing.T) {
	got, ok := ParseTimestamp("2024-03-01T10:00:00.123456Z")
	if !ok {
		t.Fatal("expected ok")
	}
	if got.Nanosecond() != 123456000 {
		t.Errorf("nanoseconds = %d, want 123456000", got.Nanosecond())
	}
}
