package shop

import (
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// Reason explains why the shop is closed. Empty when open.
type Reason string

const (
	ReasonNone           Reason = ""
	ReasonManuallyClosed Reason = "manually_closed"
	ReasonClosedToday    Reason = "closed_today"
	ReasonOutsideHours   Reason = "outside_hours"
)

type State struct {
	Open   bool   `json:"open"`
	Reason Reason `json:"reason,omitempty"`
}

// IsManuallyClosed reports the admin kill-switch. An absent flag means open.
func IsManuallyClosed(cfg *models.ShopConfig) bool {
	return cfg != nil && cfg.IsOpen != nil && !*cfg.IsOpen
}

// IsWorkDay applies the work_days rule to the weekday of t:
// nil list means Monday to Saturday, an empty list means never.
// A nil config also gets Monday to Saturday, so booking stays closed on
// Sundays even while Evaluate shows the shop as open.
func IsWorkDay(cfg *models.ShopConfig, t time.Time) bool {
	days := models.DefaultWorkDays
	if cfg != nil && cfg.WorkDays != nil {
		days = cfg.WorkDays
	}

	weekday := int(t.Weekday())
	for _, d := range days {
		if d == weekday {
			return true
		}
	}
	return false
}

// Evaluate derives the shop state at now. A missing config is open so the
// first paint never shows a closed shop because the fetch was slow.
func Evaluate(cfg *models.ShopConfig, now time.Time) State {
	if cfg == nil {
		return State{Open: true}
	}

	// manual override dominates everything else
	if IsManuallyClosed(cfg) {
		return State{Open: false, Reason: ReasonManuallyClosed}
	}

	if !IsWorkDay(cfg, now) {
		return State{Open: false, Reason: ReasonClosedToday}
	}

	if cfg.OpeningHours == "" {
		return State{Open: true}
	}

	if !timezone.IsTimeInRange(timezone.FormatHM(now), cfg.OpeningHours) {
		return State{Open: false, Reason: ReasonOutsideHours}
	}

	return State{Open: true}
}

func IsShopOpen(cfg *models.ShopConfig, now time.Time) bool {
	return Evaluate(cfg, now).Open
}
