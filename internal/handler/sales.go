package handler

import (
	"net/http"

	"paddyledger/internal/apierror"
	"paddyledger/internal/dto"
	"paddyledger/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SalesHandler struct{ svc service.SaleService }

func NewSalesHandler(svc service.SaleService) *SalesHandler { return &SalesHandler{svc: svc} }

// Create godoc
// @Summary      Record a sale to a manufacturer
// @Description  Creates a sale ACID: allocates the requested quantities against unsold receipts under row locks, auto-splitting receipts where the allocation is below the remaining weight, and assigns a date-sequenced sales number.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        body body dto.CreateSaleRequest true "Sale details and receipt allocations"
// @Success      201 {object} dto.CreateSaleResponse
// @Failure      409 {object} apierror.APIError
// @Router       /v1/sales [post]
func (h *SalesHandler) Create(c *gin.Context) {
	var req dto.CreateSaleRequest
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
// @Summary      List sales transactions
// @Tags         sales
// @Produce      json
// @Param        season_id       query string false "Season UUID"
// @Param        manufacturer_id query string false "Manufacturer UUID"
// @Param        status          query string false "completed | cancelled"
// @Param        payment_status  query string false "pending | paid"
// @Success      200 {array} dto.SaleResponse
// @Router       /v1/sales [get]
func (h *SalesHandler) List(c *gin.Context) {
	var filter dto.SaleFilter
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

// Stats godoc
// @Summary      Sale totals
// @Tags         sales
// @Produce      json
// @Param        season_id query string false "Season UUID; omitted = all LIVE seasons"
// @Success      200 {object} dto.SaleStatsResponse
// @Router       /v1/sales/stats [get]
func (h *SalesHandler) Stats(c *gin.Context) {
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
// @Summary      Get a sale by id
// @Tags         sales
// @Produce      json
// @Param        id path string true "Sale UUID"
// @Success      200 {object} dto.SaleResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/sales/{id} [get]
func (h *SalesHandler) GetByID(c *gin.Context) {
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

// GetByNumber godoc
// @Summary      Get a sale by sales number
// @Tags         sales
// @Produce      json
// @Param        number path string true "Sales number (SALE-YYYYMMDD-NNNN)"
// @Success      200 {object} dto.SaleResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/sales/number/{number} [get]
func (h *SalesHandler) GetByNumber(c *gin.Context) {
	resp, err := h.svc.GetBySalesNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
