package handler

import (
	"net/http"
	"strconv"

	"paddyledger/internal/dto"
	"paddyledger/internal/service"

	"github.com/gin-gonic/gin"
)

type FarmersHandler struct{ svc service.FarmerService }

func NewFarmersHandler(svc service.FarmerService) *FarmersHandler {
	return &FarmersHandler{svc: svc}
}

// Create godoc
// @Summary      Register a farmer
// @Tags         farmers
// @Accept       json
// @Produce      json
// @Param        body body dto.CreateFarmerRequest true "Farmer details"
// @Success      201 {object} model.Farmer
// @Failure      409 {object} apierror.APIError
// @Router       /v1/farmers [post]
func (h *FarmersHandler) Create(c *gin.Context) {
	var req dto.CreateFarmerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	farmer, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, farmer)
}

// List godoc
// @Summary      List farmers
// @Tags         farmers
// @Produce      json
// @Param        active_only query bool false "Only active farmers"
// @Success      200 {array} model.Farmer
// @Router       /v1/farmers [get]
func (h *FarmersHandler) List(c *gin.Context) {
	activeOnly, _ := strconv.ParseBool(c.DefaultQuery("active_only", "false"))
	farmers, err := h.svc.List(c.Request.Context(), activeOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, farmers)
}

// Search godoc
// @Summary      Search farmers by code, name or national id
// @Tags         farmers
// @Produce      json
// @Param        q     query string true  "Search term"
// @Param        limit query int    false "Max results (default 20)"
// @Success      200 {array} model.Farmer
// @Router       /v1/farmers/search [get]
func (h *FarmersHandler) Search(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	farmers, err := h.svc.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, farmers)
}

// GetByID godoc
// @Summary      Get a farmer by id
// @Tags         farmers
// @Produce      json
// @Param        id path string true "Farmer UUID"
// @Success      200 {object} model.Farmer
// @Failure      404 {object} apierror.APIError
// @Router       /v1/farmers/{id} [get]
func (h *FarmersHandler) GetByID(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	farmer, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, farmer)
}

// Update godoc
// @Summary      Update a farmer
// @Tags         farmers
// @Accept       json
// @Produce      json
// @Param        id   path string                  true "Farmer UUID"
// @Param        body body dto.UpdateFarmerRequest true "Fields to update"
// @Success      200 {object} model.Farmer
// @Router       /v1/farmers/{id} [put]
func (h *FarmersHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	var req dto.UpdateFarmerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	farmer, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, farmer)
}

// Deactivate godoc
// @Summary      Deactivate a farmer
// @Description  Soft delete: the farmer keeps their transaction history but cannot appear on new purchases.
// @Tags         farmers
// @Param        id path string true "Farmer UUID"
// @Success      204
// @Router       /v1/farmers/{id} [delete]
func (h *FarmersHandler) Deactivate(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	if err := h.svc.Deactivate(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
