package client

import (
	"context"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// Gateway is the remote side of client identity and loyalty.
type Gateway interface {
	FindUserByPhone(ctx context.Context, phone string) (*models.User, error)
	CreateClient(ctx context.Context, name, whatsapp, birthday string) (*models.User, error)
	UpdatePoints(ctx context.Context, clientID string, points int) error
	Ranking(ctx context.Context) []models.RankingItem
}

// Session persists each signed-in client across restarts.
type Session interface {
	User(ctx context.Context, clientID string) (*models.User, bool)
	UserByPhone(ctx context.Context, phone string) (*models.User, bool)
	SetUser(ctx context.Context, u models.User) error
	ClearSession(ctx context.Context, clientID string) error
}
