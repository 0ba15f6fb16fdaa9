package handler

import (
	"net/http"

	"paddyledger/internal/apierror"
	"paddyledger/internal/infra"

	"github.com/gin-gonic/gin"
)

type WeighbridgeHandler struct{ client *infra.WeighbridgeClient }

func NewWeighbridgeHandler(client *infra.WeighbridgeClient) *WeighbridgeHandler {
	return &WeighbridgeHandler{client: client}
}

// Reading godoc
// @Summary      Read the live weighbridge value
// @Description  Polls the scale bridge daemon. With no daemon configured a zero, unstable reading is returned and the operator keys the weight in manually.
// @Tags         weighbridge
// @Produce      json
// @Success      200 {object} infra.WeighbridgeReading
// @Failure      502 {object} apierror.APIError
// @Router       /v1/weighbridge/reading [get]
func (h *WeighbridgeHandler) Reading(c *gin.Context) {
	reading, err := h.client.ReadWeight(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, apierror.New("weighbridge unavailable: "+err.Error()))
		return
	}
	c.JSON(http.StatusOK, reading)
}
