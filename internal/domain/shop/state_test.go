package shop

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

func boolPtr(b bool) *bool { return &b }

// 2026-03-09 is a Monday.
func at(hour, min int) time.Time {
	return time.Date(2026, 3, 9, hour, min, 0, 0, timezone.Location(timezone.DefaultTimezone))
}

func TestEvaluate_NilConfigIsOpen(t *testing.T) {
	assert.Equal(t, State{Open: true}, Evaluate(nil, at(3, 0)))
}

func TestNilConfigDisplaysOpenButBooksDefaultDays(t *testing.T) {
	sunday := at(12, 0).AddDate(0, 0, 6)

	assert.True(t, Evaluate(nil, sunday).Open)
	assert.False(t, IsWorkDay(nil, sunday))
	assert.True(t, IsWorkDay(nil, at(12, 0)))
}

func TestEvaluate_ManualCloseDominates(t *testing.T) {
	cfg := &models.ShopConfig{
		IsOpen:       boolPtr(false),
		WorkDays:     []int{0, 1, 2, 3, 4, 5, 6},
		OpeningHours: "00:00-23:59",
	}

	st := Evaluate(cfg, at(12, 0))
	assert.False(t, st.Open)
	assert.Equal(t, ReasonManuallyClosed, st.Reason)
	assert.True(t, IsManuallyClosed(cfg))
}

func TestIsManuallyClosed_AbsentFlagIsOpen(t *testing.T) {
	assert.False(t, IsManuallyClosed(&models.ShopConfig{}))
	assert.False(t, IsManuallyClosed(nil))
	assert.False(t, IsManuallyClosed(&models.ShopConfig{IsOpen: boolPtr(true)}))
}

func TestEvaluate_EmptyWorkDaysAlwaysClosed(t *testing.T) {
	cfg := &models.ShopConfig{IsOpen: boolPtr(true), WorkDays: []int{}}

	for d := 0; d < 7; d++ {
		st := Evaluate(cfg, at(12, 0).AddDate(0, 0, d))
		assert.False(t, st.Open)
		assert.Equal(t, ReasonClosedToday, st.Reason)
	}
}

func TestEvaluate_DefaultWorkDaysSkipSunday(t *testing.T) {
	cfg := &models.ShopConfig{}

	assert.True(t, IsShopOpen(cfg, at(12, 0)))
	// Monday + 6 days = Sunday
	st := Evaluate(cfg, at(12, 0).AddDate(0, 0, 6))
	assert.False(t, st.Open)
	assert.Equal(t, ReasonClosedToday, st.Reason)
}

func TestEvaluate_OutsideHoursAtEightPM(t *testing.T) {
	cfg := &models.ShopConfig{
		IsOpen:       boolPtr(true),
		WorkDays:     []int{1, 2, 3, 4, 5, 6},
		OpeningHours: "09:00-19:00",
	}

	st := Evaluate(cfg, at(20, 0))
	assert.False(t, st.Open)
	assert.Equal(t, ReasonOutsideHours, st.Reason)

	assert.True(t, IsShopOpen(cfg, at(18, 59)))
	assert.False(t, IsShopOpen(cfg, at(19, 0)))
}

func TestEvaluate_MalformedHoursFailOpen(t *testing.T) {
	cfg := &models.ShopConfig{OpeningHours: "whenever"}
	assert.True(t, IsShopOpen(cfg, at(3, 0)))
}
