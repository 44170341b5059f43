package client

import (
	"context"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/client"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type GetRanking struct {
	gw domain.Gateway
}

func NewGetRanking(gw domain.Gateway) *GetRanking {
	return &GetRanking{gw: gw}
}

// Execute lists the top clients by cuts. Empty when the remote is down.
func (uc *GetRanking) Execute(ctx context.Context) []models.RankingItem {
	return uc.gw.Ranking(ctx)
}
