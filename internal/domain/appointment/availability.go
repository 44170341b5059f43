package appointment

import (
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/domain/shop"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// BookingBuffer is the minimum lead time for a slot starting today.
const BookingBuffer = 15 * time.Minute

const (
	DateHorizonDays  = 14
	MaxBookableDates = 7
)

type AvailabilityInput struct {
	ProfessionalID string
	ClientID       string
	Date           string
}

type TimeSlot struct {
	Time         string `json:"time"`
	Available    bool   `json:"available"`
	Taken        bool   `json:"taken"`
	Past         bool   `json:"past"`
	OutsideHours bool   `json:"outside_hours"`
}

// IsPast reports whether a slot on day starts before now plus the buffer.
func IsPast(day time.Time, hm string, now time.Time) bool {
	start, err := timezone.ParseDateTime(timezone.LocalDateKey(day), hm, now.Location())
	if err != nil {
		return true
	}
	return start.Before(now.Add(BookingBuffer))
}

// IsOfferedSlot reports whether hm is one of the grid times of cfg.
func IsOfferedSlot(cfg *models.ShopConfig, hm string) bool {
	want, ok := timezone.MinuteOfDay(hm)
	if !ok {
		return false
	}
	for _, slot := range cfg.Slots() {
		if m, ok := timezone.MinuteOfDay(slot); ok && m == want {
			return true
		}
	}
	return false
}

// ComputeSlots lays the configured grid over one day and flags every slot.
// sameDay must be the appointments for that date; canceled ones are ignored.
func ComputeSlots(
	cfg *models.ShopConfig,
	day time.Time,
	sameDay []models.Appointment,
	professionalID string,
	clientID string,
	now time.Time,
) []TimeSlot {

	workDay := shop.IsWorkDay(cfg, day)
	manuallyClosed := shop.IsManuallyClosed(cfg)

	var hours string
	if cfg != nil {
		hours = cfg.OpeningHours
	}

	slots := make([]TimeSlot, 0, len(cfg.Slots()))
	for _, hm := range cfg.Slots() {
		slot := TimeSlot{Time: hm}

		slot.Taken = FindConflict(sameDay, professionalID, clientID, hm) != NoConflict
		slot.Past = IsPast(day, hm, now)
		slot.OutsideHours = !timezone.IsTimeInRange(hm, hours)

		slot.Available = workDay && !manuallyClosed &&
			!slot.Taken && !slot.Past && !slot.OutsideHours

		slots = append(slots, slot)
	}

	return slots
}

// BookableDates returns up to MaxBookableDates work days starting at from,
// looking DateHorizonDays ahead.
func BookableDates(cfg *models.ShopConfig, from time.Time) []string {
	y, m, d := from.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, from.Location())

	out := make([]string, 0, MaxBookableDates)
	for i := 0; i < DateHorizonDays && len(out) < MaxBookableDates; i++ {
		day := start.AddDate(0, 0, i)
		if shop.IsWorkDay(cfg, day) {
			out = append(out, timezone.LocalDateKey(day))
		}
	}
	return out
}
