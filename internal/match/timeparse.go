package match

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// timeLayouts is the strict parsing ladder, tried in order:
// 24-hour HH:MM, 12-hour with meridiem, bare hour with meridiem, bare hour.
var timeLayouts = []string{"15:04", "3:04 PM", "3 PM", "15"}

var reNumbers = regexp.MustCompile(`\d+`)

// ResolveDayTime resolves a day-of-month plus free-form time text to the
// nearest future calendar occurrence of that day, interpreted in UTC.
//
// The day is resolved against now's month first; when the day does not
// exist there (day 31 in a 30-day month) or the date is strictly before
// now's date, it rolls forward one month. The roll compares dates only:
// a day equal to today resolves to today even if the time of day has
// already passed, and it is the caller's job to reject a resolved
// instant that is not in the future.
func ResolveDayTime(day int, timeText string, now time.Time) (time.Time, error) {
	if day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("day %d: %w", day, ErrInvalidDay)
	}

	now = now.UTC()
	date, ok := dateInMonth(now.Year(), now.Month(), day)
	if !ok {
		date, ok = dateInMonth(nextMonth(now.Year(), now.Month(), day))
		if !ok {
			return time.Time{}, fmt.Errorf("day %d: %w", day, ErrInvalidDay)
		}
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if date.Before(today) {
		date, ok = dateInMonth(nextMonth(date.Year(), date.Month(), day))
		if !ok {
			return time.Time{}, fmt.Errorf("day %d: %w", day, ErrInvalidDay)
		}
	}

	hour, minute, err := parseTimeText(timeText)
	if err != nil {
		return time.Time{}, err
	}

	return time.Date(date.Year(), date.Month(), day, hour, minute, 0, 0, time.UTC), nil
}

// dateInMonth constructs year/month/day and reports whether the day
// actually exists in that month (time.Date silently normalizes overflow).
func dateInMonth(year int, month time.Month, day int) (time.Time, bool) {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if d.Day() != day || d.Month() != month {
		return time.Time{}, false
	}
	return d, true
}

func nextMonth(year int, month time.Month, day int) (int, time.Month, int) {
	if month == time.December {
		return year + 1, time.January, day
	}
	return year, month + 1, day
}

func parseTimeText(raw string) (hour, minute int, err error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, 0, fmt.Errorf("empty time: %w", ErrInvalidTime)
	}

	// Strict ladder first. Meridiem layouts in Go want a matching case,
	// so try the uppercased text as well.
	for _, layout := range timeLayouts {
		for _, candidate := range []string{s, strings.ToUpper(s)} {
			if t, perr := time.Parse(layout, candidate); perr == nil {
				return t.Hour(), t.Minute(), nil
			}
		}
	}

	// Lenient extraction: first numeric group is the hour, an optional
	// second is the minute, and an am/pm anywhere in the text adjusts.
	nums := reNumbers.FindAllString(s, 2)
	if len(nums) == 0 {
		return 0, 0, fmt.Errorf("time %q: %w", raw, ErrInvalidTime)
	}
	hour, _ = strconv.Atoi(nums[0])
	if len(nums) > 1 {
		minute, _ = strconv.Atoi(nums[1])
	}

	low := strings.ToLower(s)
	switch {
	case strings.Contains(low, "pm") && hour != 12:
		hour += 12
	case strings.Contains(low, "am") && hour == 12:
		hour = 0
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("time %q: %w", raw, ErrInvalidTime)
	}
	return hour, minute, nil
}
