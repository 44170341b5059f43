package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	ucClient "github.com/BruksfildServices01/barber-booking/internal/usecase/client"
)

type ClientHandler struct {
	points  *ucClient.UpdatePoints
	ranking *ucClient.GetRanking
}

func NewClientHandler(points *ucClient.UpdatePoints, ranking *ucClient.GetRanking) *ClientHandler {
	return &ClientHandler{points: points, ranking: ranking}
}

type UpdatePointsRequest struct {
	Points *int `json:"points" binding:"required,min=0"`
}

// ======================================================
// POINTS
// ======================================================
func (h *ClientHandler) UpdatePoints(c *gin.Context) {
	var req UpdatePointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	user, err := h.points.Execute(c.Request.Context(), middleware.ClientID(c), *req.Points)
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.OK(c, user)
}

// ======================================================
// RANKING
// ======================================================
func (h *ClientHandler) Ranking(c *gin.Context) {
	httpresp.List(c, h.ranking.Execute(c.Request.Context()))
}
