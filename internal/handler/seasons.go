package handler

import (
	"net/http"

	"paddyledger/internal/apierror"
	"paddyledger/internal/dto"
	"paddyledger/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SeasonsHandler struct{ svc service.SeasonService }

func NewSeasonsHandler(svc service.SeasonService) *SeasonsHandler { return &SeasonsHandler{svc: svc} }

// Create godoc
// @Summary      Create a harvesting season
// @Description  Registers a season with its opening price and optional deduction presets. With activate=true all other active seasons are closed in the same transaction.
// @Tags         seasons
// @Accept       json
// @Produce      json
// @Param        body body dto.CreateSeasonRequest true "Season details"
// @Success      201 {object} dto.SeasonResponse
// @Failure      409 {object} apierror.APIError
// @Router       /v1/seasons [post]
func (h *SeasonsHandler) Create(c *gin.Context) {
	var req dto.CreateSeasonRequest
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
// @Summary      List seasons
// @Tags         seasons
// @Produce      json
// @Param        status query string false "planned | active | closed | cancelled"
// @Param        mode   query string false "LIVE | DEMO"
// @Param        year   query int    false "Harvest year"
// @Success      200 {array} dto.SeasonResponse
// @Router       /v1/seasons [get]
func (h *SeasonsHandler) List(c *gin.Context) {
	var filter dto.SeasonFilter
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

// GetActive godoc
// @Summary      Get the active season
// @Tags         seasons
// @Produce      json
// @Success      200 {object} dto.SeasonResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/seasons/active [get]
func (h *SeasonsHandler) GetActive(c *gin.Context) {
	resp, err := h.svc.GetActive(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetByID godoc
// @Summary      Get a season by id
// @Tags         seasons
// @Produce      json
// @Param        id path string true "Season UUID"
// @Success      200 {object} dto.SeasonResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/seasons/{id} [get]
func (h *SeasonsHandler) GetByID(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	resp, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary      Update season details
// @Tags         seasons
// @Accept       json
// @Produce      json
// @Param        id   path string                  true "Season UUID"
// @Param        body body dto.UpdateSeasonRequest true "Fields to update"
// @Success      200 {object} dto.SeasonResponse
// @Failure      409 {object} apierror.APIError
// @Router       /v1/seasons/{id} [put]
func (h *SeasonsHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	var req dto.UpdateSeasonRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateDeductions godoc
// @Summary      Replace the season's deduction presets
// @Description  Presets are versioned; already-recorded purchases keep the item list they were priced with.
// @Tags         seasons
// @Accept       json
// @Produce      json
// @Param        id   path string                           true "Season UUID"
// @Param        body body dto.UpdateDeductionConfigRequest true "Presets"
// @Success      200 {object} dto.SeasonResponse
// @Router       /v1/seasons/{id}/deductions [put]
func (h *SeasonsHandler) UpdateDeductions(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	var req dto.UpdateDeductionConfigRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateDeductionConfig(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Activate godoc
// @Summary      Activate a season
// @Description  Exactly one season is active at a time; activation closes every other active season atomically.
// @Tags         seasons
// @Produce      json
// @Param        id path string true "Season UUID"
// @Success      200 {object} dto.SeasonResponse
// @Failure      409 {object} apierror.APIError
// @Router       /v1/seasons/{id}/activate [post]
func (h *SeasonsHandler) Activate(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Activate(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Close godoc
// @Summary      Close a season
// @Description  Closed seasons refuse new purchases and sales; historical queries keep working.
// @Tags         seasons
// @Produce      json
// @Param        id path string true "Season UUID"
// @Success      200 {object} dto.SeasonResponse
// @Failure      409 {object} apierror.APIError
// @Router       /v1/seasons/{id}/close [post]
func (h *SeasonsHandler) Close(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Close(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// pathUUID parses the :id path parameter, writing the 400 response itself on
// malformed input.
func pathUUID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return uuid.Nil, false
	}
	return id, true
}
