package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/domain/shop"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

type GetAvailability struct {
	gw     domain.Gateway
	mirror domain.Mirror
	now    timezone.Clock
}

func NewGetAvailability(
	gw domain.Gateway,
	mirror domain.Mirror,
	now timezone.Clock,
) *GetAvailability {
	return &GetAvailability{gw: gw, mirror: mirror, now: now}
}

// Execute lays out the slot grid for one professional and date. Offline
// bookings of the client still in the mirror count as taken.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]domain.TimeSlot, error) {

	now := uc.now()

	day, err := timezone.ParseDate(in.Date, now.Location())
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}
	date := timezone.LocalDateKey(day)

	cfg := uc.gw.Config(ctx)
	sameDay := uc.gw.AppointmentsForDate(ctx, date)

	for _, ap := range uc.mirror.Appointments(ctx, in.ClientID) {
		if ap.IsLocal() && ap.Date == date {
			sameDay = append(sameDay, ap)
		}
	}

	return domain.ComputeSlots(cfg, day, sameDay, in.ProfessionalID, in.ClientID, now), nil
}

// Dates lists the next bookable work days.
func (uc *GetAvailability) Dates(ctx context.Context) []string {
	return domain.BookableDates(uc.gw.Config(ctx), uc.now())
}

// ShopState evaluates whether the shop is open right now.
func (uc *GetAvailability) ShopState(ctx context.Context) shop.State {
	return shop.Evaluate(uc.gw.Config(ctx), uc.now())
}
