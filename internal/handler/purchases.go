package handler

import (
	"net/http"

	"paddyledger/internal/apierror"
	"paddyledger/internal/dto"
	"paddyledger/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PurchasesHandler struct{ svc service.PurchaseService }

func NewPurchasesHandler(svc service.PurchaseService) *PurchasesHandler {
	return &PurchasesHandler{svc: svc}
}

// Create godoc
// @Summary      Record a purchase transaction
// @Description  Weighs in a farmer delivery: computes net and effective weight, applies deductions or quality penalties, reserves the next receipt number and enqueues receipt rendering.
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Param        body body dto.CreatePurchaseRequest true "Purchase details"
// @Success      201  {object} dto.CreatePurchaseResponse
// @Failure      400  {object} apierror.APIError
// @Failure      422  {object} apierror.APIError
// @Router       /v1/purchases [post]
func (h *PurchasesHandler) Create(c *gin.Context) {
	var req dto.CreatePurchaseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      List purchase transactions
// @Tags         purchases
// @Produce      json
// @Param        season_id query string false "Season UUID"
// @Param        farmer_id query string false "Farmer UUID"
// @Param        status    query string false "completed | cancelled"
// @Param        date_from query string false "YYYY-MM-DD"
// @Param        date_to   query string false "YYYY-MM-DD"
// @Success      200 {array} dto.PurchaseResponse
// @Router       /v1/purchases [get]
func (h *PurchasesHandler) List(c *gin.Context) {
	var filter dto.PurchaseFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListUnsold godoc
// @Summary      List receipts with weight still available for sale
// @Description  Split parents are excluded; split children sort first so they get consumed before intact receipts.
// @Tags         purchases
// @Produce      json
// @Param        season_id query string false "Season UUID"
// @Success      200 {array} dto.UnsoldPurchaseResponse
// @Router       /v1/purchases/unsold [get]
func (h *PurchasesHandler) ListUnsold(c *gin.Context) {
	seasonID, ok := optionalUUIDQuery(c, "season_id")
	if !ok {
		return
	}
	resp, err := h.svc.ListUnsold(c.Request.Context(), seasonID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Stats godoc
// @Summary      Purchase totals
// @Description  Transaction count, net weight and amount. Split children are excluded so totals reflect what physically crossed the scale.
// @Tags         purchases
// @Produce      json
// @Param        season_id query string false "Season UUID; omitted = all LIVE seasons"
// @Success      200 {object} dto.PurchaseStatsResponse
// @Router       /v1/purchases/stats [get]
func (h *PurchasesHandler) Stats(c *gin.Context) {
	seasonID, ok := optionalUUIDQuery(c, "season_id")
	if !ok {
		return
	}
	resp, err := h.svc.TotalStats(c.Request.Context(), seasonID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetByID godoc
// @Summary      Get a purchase by id
// @Tags         purchases
// @Produce      json
// @Param        id path string true "Purchase UUID"
// @Success      200 {object} dto.PurchaseResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/purchases/{id} [get]
func (h *PurchasesHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	resp, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetByReceipt godoc
// @Summary      Get a purchase by receipt number
// @Tags         purchases
// @Produce      json
// @Param        number path string true "Receipt number"
// @Success      200 {object} dto.PurchaseResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/purchases/receipt/{number} [get]
func (h *PurchasesHandler) GetByReceipt(c *gin.Context) {
	resp, err := h.svc.GetByReceipt(c.Request.Context(), c.Param("number"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Split godoc
// @Summary      Split a receipt into two children
// @Description  Carves split_weight_kg into child 1; child 2 receives the remainder. Net weight, effective weight and amount are conserved exactly. The parent is retired from future sales.
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Param        id   path string                   true "Parent purchase UUID"
// @Param        body body dto.SplitPurchaseRequest true "Split weight"
// @Success      201 {object} dto.SplitPurchaseResponse
// @Failure      409 {object} apierror.APIError
// @Router       /v1/purchases/{id}/split [post]
func (h *PurchasesHandler) Split(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	var req dto.SplitPurchaseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Split(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Children godoc
// @Summary      List the split children of a receipt
// @Tags         purchases
// @Produce      json
// @Param        id path string true "Parent purchase UUID"
// @Success      200 {array} dto.PurchaseResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/purchases/{id}/children [get]
func (h *PurchasesHandler) Children(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	resp, err := h.svc.GetSplitChildren(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ChangeFarmer godoc
// @Summary      Reassign the farmer on a receipt
// @Description  Corrects a mis-keyed farmer. Split children follow the parent in the same transaction. Requires an audit reason.
// @Tags         purchases
// @Accept       json
// @Param        id   path string                 true "Purchase UUID"
// @Param        body body dto.ChangeFarmerRequest true "New farmer and reason"
// @Success      204
// @Failure      409 {object} apierror.APIError
// @Router       /v1/purchases/{id}/farmer [patch]
func (h *PurchasesHandler) ChangeFarmer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	var req dto.ChangeFarmerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.ChangeFarmer(c.Request.Context(), id, req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UpdatePayment godoc
// @Summary      Update payment status of a purchase
// @Tags         purchases
// @Accept       json
// @Param        id   path string                  true "Purchase UUID"
// @Param        body body dto.UpdatePaymentRequest true "Payment status"
// @Success      204
// @Failure      409 {object} apierror.APIError
// @Router       /v1/purchases/{id}/payment [patch]
func (h *PurchasesHandler) UpdatePayment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	var req dto.UpdatePaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.UpdatePayment(c.Request.Context(), id, req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CancelPending godoc
// @Summary      Record an aborted weigh-in as a cancelled placeholder
// @Description  A lorry that left before weigh-out still consumes a receipt number so the paper trail stays gapless.
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Param        body body dto.CancelPendingLorryRequest true "Abort details"
// @Success      201 {object} dto.PurchaseResponse
// @Router       /v1/purchases/cancel-pending [post]
func (h *PurchasesHandler) CancelPending(c *gin.Context) {
	var req dto.CancelPendingLorryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CancelPendingLorry(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// optionalUUIDQuery parses an optional uuid query parameter. The second
// return is false when the value is present but malformed (response already
// written).
func optionalUUIDQuery(c *gin.Context, name string) (*uuid.UUID, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid "+name))
		return nil, false
	}
	return &id, true
}
