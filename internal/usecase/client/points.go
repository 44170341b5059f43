package client

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/client"
	"github.com/BruksfildServices01/barber-booking/internal/gateway"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type UpdatePoints struct {
	gw      domain.Gateway
	session domain.Session
	audit   *audit.Dispatcher
	log     zerolog.Logger
}

func NewUpdatePoints(
	gw domain.Gateway,
	session domain.Session,
	audit *audit.Dispatcher,
	log zerolog.Logger,
) *UpdatePoints {
	return &UpdatePoints{
		gw:      gw,
		session: session,
		audit:   audit,
		log:     log.With().Str("usecase", "update_points").Logger(),
	}
}

// Execute sets the loyalty balance of the signed-in client. Points never go
// down. Local identities and unreachable remotes only update the session.
func (uc *UpdatePoints) Execute(ctx context.Context, clientID string, points int) (*models.User, error) {
	user, ok := uc.session.User(ctx, clientID)
	if !ok {
		return nil, httperr.ErrBusiness("client_not_found")
	}
	if points < user.Points {
		return nil, httperr.ErrBusiness("points_decrease")
	}

	if !user.IsLocal() {
		err := uc.gw.UpdatePoints(ctx, clientID, points)
		switch {
		case errors.Is(err, gateway.ErrNotFound):
			return nil, httperr.ErrBusiness("client_not_found")
		case err != nil && !gateway.IsOffline(err):
			return nil, err
		case err != nil:
			uc.log.Warn().Err(err).Str("client_id", clientID).Msg("remote points update failed, session only")
		}
	}

	previous := user.Points
	user.Points = points
	if err := uc.session.SetUser(ctx, *user); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ClientID: clientID,
		Action:   "points_updated",
		Entity:   "client",
		EntityID: clientID,
		Metadata: map[string]int{"from": previous, "to": points},
	})

	return user, nil
}
