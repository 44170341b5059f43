package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/gateway"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
)

// respondError maps a use case error to its HTTP answer.
func respondError(c *gin.Context, err error) {
	if be, ok := httperr.AsBusiness(err); ok {
		httperr.Business(c, be)
		return
	}

	if errors.Is(err, gateway.ErrUnavailable) {
		httperr.Unavailable(c, "remote_unavailable", "Servidor indisponível. Tente novamente em instantes.")
		return
	}

	_ = c.Error(err)
	httperr.Internal(c, "internal_error", "Erro interno.")
}

func invalidRequest(c *gin.Context) {
	httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
}
