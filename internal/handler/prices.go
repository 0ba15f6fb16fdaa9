package handler

import (
	"net/http"

	"paddyledger/internal/apierror"
	"paddyledger/internal/dto"
	"paddyledger/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PricesHandler struct{ svc service.PricingService }

func NewPricesHandler(svc service.PricingService) *PricesHandler { return &PricesHandler{svc: svc} }

// Initialize godoc
// @Summary      Seed season prices
// @Description  Creates one price row per product with its opening price and writes the opening history entry. Pairs that already exist are rejected.
// @Tags         prices
// @Accept       json
// @Produce      json
// @Param        id   path string                      true "Season UUID"
// @Param        body body dto.InitializePricesRequest true "Opening prices per product"
// @Success      201 {array} dto.SeasonProductPriceResponse
// @Failure      409 {object} apierror.APIError
// @Router       /v1/seasons/{id}/prices [post]
func (h *PricesHandler) Initialize(c *gin.Context) {
	seasonID, ok := pathUUID(c)
	if !ok {
		return
	}
	var req dto.InitializePricesRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.InitializePrices(c.Request.Context(), seasonID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      List current season prices
// @Tags         prices
// @Produce      json
// @Param        id path string true "Season UUID"
// @Success      200 {array} dto.SeasonProductPriceResponse
// @Router       /v1/seasons/{id}/prices [get]
func (h *PricesHandler) List(c *gin.Context) {
	seasonID, ok := pathUUID(c)
	if !ok {
		return
	}
	resp, err := h.svc.ListSeasonPrices(c.Request.Context(), seasonID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary      Update a product's price
// @Description  Appends a history entry and moves the current price; history is append-only, the current price always equals the newest entry.
// @Tags         prices
// @Accept       json
// @Produce      json
// @Param        id        path string                 true "Season UUID"
// @Param        productID path string                 true "Product UUID"
// @Param        body      body dto.UpdatePriceRequest true "New price per ton"
// @Success      200 {object} dto.SeasonProductPriceResponse
// @Router       /v1/seasons/{id}/prices/{productID} [put]
func (h *PricesHandler) Update(c *gin.Context) {
	seasonID, ok := pathUUID(c)
	if !ok {
		return
	}
	productID, err := uuid.Parse(c.Param("productID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid productID"))
		return
	}
	var req dto.UpdatePriceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdatePrice(c.Request.Context(), seasonID, productID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// History godoc
// @Summary      Price history for a season/product pair
// @Tags         prices
// @Produce      json
// @Param        id        path string true "Season UUID"
// @Param        productID path string true "Product UUID"
// @Success      200 {array} dto.PriceHistoryResponse
// @Router       /v1/seasons/{id}/prices/{productID}/history [get]
func (h *PricesHandler) History(c *gin.Context) {
	seasonID, ok := pathUUID(c)
	if !ok {
		return
	}
	productID, err := uuid.Parse(c.Param("productID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid productID"))
		return
	}
	resp, err := h.svc.History(c.Request.Context(), seasonID, productID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CopyFrom godoc
// @Summary      Copy prices from another season
// @Description  Copies the source season's current prices as this season's opening prices. Pairs that already exist are skipped.
// @Tags         prices
// @Accept       json
// @Produce      json
// @Param        id   path string               true "Target season UUID"
// @Param        body body dto.CopyPricesRequest true "Source season"
// @Success      201 {array} dto.SeasonProductPriceResponse
// @Router       /v1/seasons/{id}/prices/copy-from [post]
func (h *PricesHandler) CopyFrom(c *gin.Context) {
	seasonID, ok := pathUUID(c)
	if !ok {
		return
	}
	var req dto.CopyPricesRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CopyPrices(c.Request.Context(), seasonID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
