package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsTimeInRange(t *testing.T) {
	cases := []struct {
		name string
		hm   string
		rng  string
		want bool
	}{
		{"inside", "10:00", "09:00-18:00", true},
		{"start boundary included", "09:00", "09:00-18:00", true},
		{"end boundary excluded", "18:00", "09:00-18:00", false},
		{"before start", "08:59", "09:00-18:00", false},
		{"absent range fails open", "10:00", "", true},
		{"spaces around dash", "17:59", "09:00 - 18:00", true},
		{"malformed range fails open", "23:00", "nine to six", true},
		{"too many parts fails open", "23:00", "09:00-12:00-18:00", true},
		{"malformed time fails open", "xx:yy", "09:00-18:00", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsTimeInRange(tc.hm, tc.rng))
		})
	}
}

func TestLocalDateKeyUsesLocalCalendar(t *testing.T) {
	loc := Location(DefaultTimezone)

	// 23:30 in Sao Paulo is already the next day in UTC.
	late := time.Date(2026, 3, 9, 23, 30, 0, 0, loc)
	assert.Equal(t, "2026-03-09", LocalDateKey(late))
	assert.Equal(t, "2026-03-10", LocalDateKey(late.UTC()))
}

func TestParseDateTime(t *testing.T) {
	loc := Location(DefaultTimezone)

	got, err := ParseDateTime("2026-03-09", "14:30", loc)
	require.NoError(t, err)
	assert.Equal(t, 14, got.Hour())
	assert.Equal(t, 30, got.Minute())
	assert.Equal(t, "2026-03-09", LocalDateKey(got))

	_, err = ParseDateTime("2026-03-09", "25:99", loc)
	assert.Error(t, err)
}

func TestLocationFallsBackToDefault(t *testing.T) {
	assert.Equal(t, DefaultTimezone, Location("Not/AZone").String())
	assert.Equal(t, "UTC", Location("UTC").String())
}
