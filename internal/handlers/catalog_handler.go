package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/media"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// CatalogSource is the read side of the shop: menu, team and config.
type CatalogSource interface {
	domain.Catalog
	Config(ctx context.Context) *models.ShopConfig
}

type CatalogHandler struct {
	source CatalogSource
	media  *media.Presigner
}

func NewCatalogHandler(source CatalogSource, presigner *media.Presigner) *CatalogHandler {
	return &CatalogHandler{source: source, media: presigner}
}

func (h *CatalogHandler) Services(c *gin.Context) {
	ctx := c.Request.Context()
	httpresp.List(c, h.media.Services(ctx, h.source.Services(ctx)))
}

func (h *CatalogHandler) Professionals(c *gin.Context) {
	ctx := c.Request.Context()
	httpresp.List(c, h.media.Professionals(ctx, h.source.Professionals(ctx)))
}

// Config answers an empty object until the shop was ever configured.
func (h *CatalogHandler) Config(c *gin.Context) {
	ctx := c.Request.Context()

	cfg := h.source.Config(ctx)
	if cfg == nil {
		cfg = &models.ShopConfig{}
	}

	out := *cfg
	out.AdminPhoto = h.media.URL(ctx, out.AdminPhoto)
	httpresp.OK(c, out)
}
