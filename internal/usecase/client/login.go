package client

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/client"
	"github.com/BruksfildServices01/barber-booking/internal/gateway"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/validators"
)

type Login struct {
	gw      domain.Gateway
	session domain.Session
	audit   *audit.Dispatcher
	log     zerolog.Logger
}

func NewLogin(
	gw domain.Gateway,
	session domain.Session,
	audit *audit.Dispatcher,
	log zerolog.Logger,
) *Login {
	return &Login{
		gw:      gw,
		session: session,
		audit:   audit,
		log:     log.With().Str("usecase", "login").Logger(),
	}
}

// Execute signs a client in by WhatsApp number. When the remote store is
// unreachable, the persisted session registered to that number is reused.
func (uc *Login) Execute(ctx context.Context, whatsapp string) (*models.User, error) {
	phone := validators.NormalizePhone(whatsapp)
	if !validators.IsWhatsAppValid(phone) {
		return nil, httperr.ErrBusiness("invalid_phone")
	}

	user, err := uc.gw.FindUserByPhone(ctx, phone)
	if err != nil {
		if !gateway.IsOffline(err) {
			return nil, err
		}
		cached, ok := uc.session.UserByPhone(ctx, phone)
		if !ok || validators.NormalizePhone(cached.WhatsApp) != phone {
			return nil, err
		}
		uc.log.Warn().Err(err).Str("client_id", cached.ID).Msg("remote unreachable, reusing session")
		user = cached
	}

	if user == nil {
		return nil, httperr.ErrBusiness("client_not_found")
	}

	if err := uc.session.SetUser(ctx, *user); err != nil {
		uc.log.Error().Err(err).Msg("failed to persist session")
	}

	uc.audit.Dispatch(audit.Event{
		ClientID: user.ID,
		Action:   "client_login",
		Entity:   "client",
		EntityID: user.ID,
	})

	return user, nil
}
