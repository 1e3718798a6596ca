package match

import (
	"errors"
	"testing"
	"time"
)

func TestResolveDayTime(t *testing.T) {
	t.Parallel()
	// A 31-day month, mid-month reference.
	now := time.Date(2025, time.July, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		day      int
		timeText string
		want     time.Time
	}{
		{
			name: "future day this month", day: 25, timeText: "8:30 PM",
			want: time.Date(2025, time.July, 25, 20, 30, 0, 0, time.UTC),
		},
		{
			name: "24h format", day: 25, timeText: "20:30",
			want: time.Date(2025, time.July, 25, 20, 30, 0, 0, time.UTC),
		},
		{
			name: "bare hour with meridiem", day: 25, timeText: "8 PM",
			want: time.Date(2025, time.July, 25, 20, 0, 0, 0, time.UTC),
		},
		{
			name: "lowercase meridiem", day: 25, timeText: "8:30 pm",
			want: time.Date(2025, time.July, 25, 20, 30, 0, 0, time.UTC),
		},
		{
			name: "past day rolls to next month", day: 5, timeText: "8:30 PM",
			want: time.Date(2025, time.August, 5, 20, 30, 0, 0, time.UTC),
		},
		{
			name: "same day does not roll", day: 10, timeText: "23:00",
			want: time.Date(2025, time.July, 10, 23, 0, 0, 0, time.UTC),
		},
		{
			name: "lenient with noise", day: 25, timeText: "at 8.30pm please",
			want: time.Date(2025, time.July, 25, 20, 30, 0, 0, time.UTC),
		},
		{
			name: "midnight meridiem", day: 25, timeText: "12 AM",
			want: time.Date(2025, time.July, 25, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "noon stays noon", day: 25, timeText: "12 PM",
			want: time.Date(2025, time.July, 25, 12, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ResolveDayTime(tt.day, tt.timeText, now)
			if err != nil {
				t.Fatalf("ResolveDayTime(%d, %q) error: %v", tt.day, tt.timeText, err)
			}
			if !got.Equal(tt.want) {
				t.Fatalf("ResolveDayTime(%d, %q) = %v, want %v", tt.day, tt.timeText, got, tt.want)
			}
		})
	}
}

func TestResolveDayTimeMissingDayRolls(t *testing.T) {
	t.Parallel()
	// Day 31 does not exist in June; it must resolve to July 31.
	now := time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)
	got, err := ResolveDayTime(31, "10:00", now)
	if err != nil {
		t.Fatalf("ResolveDayTime error: %v", err)
	}
	want := time.Date(2025, time.July, 31, 10, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestResolveDayTimeDecemberRollsToJanuary(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, time.December, 20, 12, 0, 0, 0, time.UTC)
	got, err := ResolveDayTime(5, "09:15", now)
	if err != nil {
		t.Fatalf("ResolveDayTime error: %v", err)
	}
	want := time.Date(2026, time.January, 5, 9, 15, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestResolveDayTimeInvalid(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, time.July, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		day      int
		timeText string
		want     error
	}{
		{name: "day zero", day: 0, timeText: "10:00", want: ErrInvalidDay},
		{name: "day too large", day: 32, timeText: "10:00", want: ErrInvalidDay},
		{name: "empty time", day: 25, timeText: "", want: ErrInvalidTime},
		{name: "no digits", day: 25, timeText: "evening", want: ErrInvalidTime},
		{name: "hour out of range", day: 25, timeText: "25:00", want: ErrInvalidTime},
		{name: "minute out of range", day: 25, timeText: "10:75", want: ErrInvalidTime},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ResolveDayTime(tt.day, tt.timeText, now)
			if !errors.Is(err, tt.want) {
				t.Fatalf("ResolveDayTime(%d, %q) error = %v, want %v", tt.day, tt.timeText, err, tt.want)
			}
		})
	}
}
