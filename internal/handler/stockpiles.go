package handler

import (
	"net/http"

	"paddyledger/internal/apierror"
	"paddyledger/internal/dto"
	"paddyledger/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type StockpilesHandler struct{ svc service.StockpileService }

func NewStockpilesHandler(svc service.StockpileService) *StockpilesHandler {
	return &StockpilesHandler{svc: svc}
}

// Summary godoc
// @Summary      Per-product stock position for a season
// @Description  Purchased minus sold per product, valued at the current price. Purchase side counts parent receipts only so split children never double count.
// @Tags         stockpiles
// @Produce      json
// @Param        seasonID path string true "Season UUID"
// @Success      200 {array} dto.StockpileSummaryRow
// @Failure      404 {object} apierror.APIError
// @Router       /v1/stockpiles/{seasonID} [get]
func (h *StockpilesHandler) Summary(c *gin.Context) {
	seasonID, ok := seasonPathUUID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Summary(c.Request.Context(), seasonID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Stats godoc
// @Summary      Aggregate stock stats for a season
// @Tags         stockpiles
// @Produce      json
// @Param        seasonID path string true "Season UUID"
// @Success      200 {object} dto.StockpileStatsResponse
// @Router       /v1/stockpiles/{seasonID}/stats [get]
func (h *StockpilesHandler) Stats(c *gin.Context) {
	seasonID, ok := seasonPathUUID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Stats(c.Request.Context(), seasonID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Movements godoc
// @Summary      Movement ledger for one product in a season
// @Description  Chronological weight-in (purchases) and weight-out (mapped sale quantities) entries.
// @Tags         stockpiles
// @Produce      json
// @Param        seasonID      path  string true  "Season UUID"
// @Param        product_id    query string true  "Product UUID"
// @Param        date_from     query string false "YYYY-MM-DD"
// @Param        date_to       query string false "YYYY-MM-DD"
// @Param        movement_type query string false "PURCHASE | SALE | ALL"
// @Success      200 {array} dto.StockMovementRow
// @Router       /v1/stockpiles/{seasonID}/movements [get]
func (h *StockpilesHandler) Movements(c *gin.Context) {
	seasonID, ok := seasonPathUUID(c)
	if !ok {
		return
	}
	var filter dto.MovementFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.svc.Movements(c.Request.Context(), seasonID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Alerts godoc
// @Summary      Products below the low-stock threshold
// @Tags         stockpiles
// @Produce      json
// @Param        seasonID     path  string true  "Season UUID"
// @Param        threshold_kg query string false "Threshold in kg (default 1000)"
// @Success      200 {array} dto.StockpileSummaryRow
// @Router       /v1/stockpiles/{seasonID}/alerts [get]
func (h *StockpilesHandler) Alerts(c *gin.Context) {
	seasonID, ok := seasonPathUUID(c)
	if !ok {
		return
	}
	threshold := decimal.Zero
	if raw := c.Query("threshold_kg"); raw != "" {
		var err error
		threshold, err = decimal.NewFromString(raw)
		if err != nil || threshold.IsNegative() {
			c.JSON(http.StatusBadRequest, apierror.New("invalid threshold_kg"))
			return
		}
	}
	resp, err := h.svc.LowStock(c.Request.Context(), seasonID, threshold)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func seasonPathUUID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("seasonID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid seasonID"))
		return uuid.Nil, false
	}
	return id, true
}
