package client

import (
	"context"

	"github.com/rs/zerolog"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/client"
	"github.com/BruksfildServices01/barber-booking/internal/gateway"
	"github.com/BruksfildServices01/barber-booking/internal/hub"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type Session struct {
	store domain.Session
	log   zerolog.Logger
}

func NewSession(store domain.Session, log zerolog.Logger) *Session {
	return &Session{
		store: store,
		log:   log.With().Str("usecase", "session").Logger(),
	}
}

// Current returns the persisted session of clientID, surviving restarts.
func (uc *Session) Current(ctx context.Context, clientID string) (*models.User, bool) {
	return uc.store.User(ctx, clientID)
}

// Logout forgets clientID and everything mirrored for them. Other signed-in
// clients keep their sessions.
func (uc *Session) Logout(ctx context.Context, clientID string) error {
	return uc.store.ClearSession(ctx, clientID)
}

// FollowProfile keeps each session user in step with remote edits to their
// clients row, such as points granted by the shop. It returns the
// unsubscribe function.
func (uc *Session) FollowProfile(h *hub.Hub) func() {
	return h.SubscribeTable(gateway.TableClients, func(ch hub.Change) {
		if ch.New == nil {
			return
		}

		ctx := context.Background()
		row := gateway.Row(ch.New)
		current, ok := uc.store.User(ctx, gateway.UserFromRow(row, models.User{}).ID)
		if !ok {
			return
		}

		updated := gateway.UserFromRow(row, *current)
		if err := uc.store.SetUser(ctx, updated); err != nil {
			uc.log.Error().Err(err).Msg("failed to refresh session user")
		}
	})
}
