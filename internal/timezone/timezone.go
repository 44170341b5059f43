package timezone

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"
)

const DefaultTimezone = "America/Sao_Paulo"

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Clock returns the current instant. Use cases take one so tests can pin "now".
type Clock func() time.Time

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func Now() time.Time {
	return time.Now().In(Location(DefaultTimezone))
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}

// ClockIn returns a Clock pinned to the given timezone.
func ClockIn(tz string) Clock {
	loc := Location(tz)
	return func() time.Time { return time.Now().In(loc) }
}

// LocalDateKey formats t as YYYY-MM-DD from its own calendar fields.
// No UTC conversion happens, so 23:30 local stays on the same day.
func LocalDateKey(t time.Time) string {
	y, m, d := t.Date()
	return fmt.Sprintf("%04d-%02d-%02d", y, int(m), d)
}

// ParseDate parses a YYYY-MM-DD key at midnight in loc.
func ParseDate(date string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(date), loc)
}

// ParseDateTime combines a date key and an HH:MM slot in loc.
func ParseDateTime(date, hm string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(
		DateLayout+" "+TimeLayout,
		strings.TrimSpace(date)+" "+strings.TrimSpace(hm),
		loc,
	)
}

// MinuteOfDay parses "HH:MM" into minutes since midnight.
func MinuteOfDay(hm string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(hm), ":")
	if len(parts) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, false
	}
	m, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, false
	}
	return h*60 + m, true
}

func FormatHM(t time.Time) string {
	return t.Format(TimeLayout)
}

// IsTimeInRange reports whether hm falls inside rng ("HH:MM-HH:MM"), end excluded.
// An absent or malformed range answers true: a broken config must not block bookings.
func IsTimeInRange(hm string, rng string) bool {
	if strings.TrimSpace(rng) == "" {
		return true
	}

	bounds := strings.Split(rng, "-")
	if len(bounds) != 2 {
		return true
	}

	t, ok1 := MinuteOfDay(hm)
	start, ok2 := MinuteOfDay(bounds[0])
	end, ok3 := MinuteOfDay(bounds[1])
	if !ok1 || !ok2 || !ok3 {
		return true
	}

	return t >= start && t < end
}
