package client

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/client"
	"github.com/BruksfildServices01/barber-booking/internal/gateway"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
	"github.com/BruksfildServices01/barber-booking/internal/validators"
)

type RegisterInput struct {
	Name     string
	WhatsApp string
	Birthday string
}

type Register struct {
	gw      domain.Gateway
	session domain.Session
	audit   *audit.Dispatcher
	log     zerolog.Logger
	now     timezone.Clock
}

func NewRegister(
	gw domain.Gateway,
	session domain.Session,
	audit *audit.Dispatcher,
	log zerolog.Logger,
	now timezone.Clock,
) *Register {
	return &Register{
		gw:      gw,
		session: session,
		audit:   audit,
		log:     log.With().Str("usecase", "register").Logger(),
		now:     now,
	}
}

// Execute creates a client. If the remote store refuses the insert for lack
// of permission, or cannot be reached, a local identity is issued instead so
// the client can keep booking.
func (uc *Register) Execute(ctx context.Context, in RegisterInput) (*models.User, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, httperr.ErrBusiness("invalid_name")
	}

	phone := validators.NormalizePhone(in.WhatsApp)
	if !validators.IsWhatsAppValid(phone) {
		return nil, httperr.ErrBusiness("invalid_phone")
	}

	birthday := strings.TrimSpace(in.Birthday)
	if birthday != "" {
		if _, err := timezone.ParseDate(birthday, timezone.Location(timezone.DefaultTimezone)); err != nil {
			return nil, httperr.ErrBusiness("invalid_date_or_time")
		}
	}

	existing, err := uc.gw.FindUserByPhone(ctx, phone)
	switch {
	case err != nil:
		uc.log.Warn().Err(err).Msg("duplicate check failed, trying insert anyway")
	case existing != nil:
		return nil, httperr.ErrBusiness("phone_already_registered")
	}

	user, err := uc.gw.CreateClient(ctx, name, phone, birthday)
	if err != nil {
		switch {
		case errors.Is(err, gateway.ErrConflict):
			return nil, httperr.ErrBusiness("phone_already_registered")
		case errors.Is(err, gateway.ErrPermissionDenied), gateway.IsOffline(err):
			uc.log.Warn().Err(err).Msg("remote refused signup, issuing local identity")
			user = &models.User{
				ID:       models.NewLocalID("", uc.now()),
				Name:     name,
				WhatsApp: phone,
				Birthday: birthday,
			}
		default:
			return nil, err
		}
	}

	if err := uc.session.SetUser(ctx, *user); err != nil {
		uc.log.Error().Err(err).Msg("failed to persist session")
	}

	uc.audit.Dispatch(audit.Event{
		ClientID: user.ID,
		Action:   "client_registered",
		Entity:   "client",
		EntityID: user.ID,
		Metadata: map[string]string{"local": fmt.Sprint(user.IsLocal())},
	})

	return user, nil
}
