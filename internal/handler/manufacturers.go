package handler

import (
	"net/http"
	"strconv"

	"paddyledger/internal/dto"
	"paddyledger/internal/service"

	"github.com/gin-gonic/gin"
)

type ManufacturersHandler struct{ svc service.ManufacturerService }

func NewManufacturersHandler(svc service.ManufacturerService) *ManufacturersHandler {
	return &ManufacturersHandler{svc: svc}
}

// Create godoc
// @Summary      Register a manufacturer
// @Tags         manufacturers
// @Accept       json
// @Produce      json
// @Param        body body dto.CreateManufacturerRequest true "Manufacturer details"
// @Success      201 {object} model.Manufacturer
// @Failure      409 {object} apierror.APIError
// @Router       /v1/manufacturers [post]
func (h *ManufacturersHandler) Create(c *gin.Context) {
	var req dto.CreateManufacturerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	m, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// List godoc
// @Summary      List manufacturers
// @Tags         manufacturers
// @Produce      json
// @Param        active_only query bool false "Only active manufacturers"
// @Success      200 {array} model.Manufacturer
// @Router       /v1/manufacturers [get]
func (h *ManufacturersHandler) List(c *gin.Context) {
	activeOnly, _ := strconv.ParseBool(c.DefaultQuery("active_only", "false"))
	ms, err := h.svc.List(c.Request.Context(), activeOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ms)
}

// Search godoc
// @Summary      Search manufacturers by code or company name
// @Tags         manufacturers
// @Produce      json
// @Param        q     query string true  "Search term"
// @Param        limit query int    false "Max results (default 20)"
// @Success      200 {array} model.Manufacturer
// @Router       /v1/manufacturers/search [get]
func (h *ManufacturersHandler) Search(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	ms, err := h.svc.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ms)
}

// GetByID godoc
// @Summary      Get a manufacturer by id
// @Tags         manufacturers
// @Produce      json
// @Param        id path string true "Manufacturer UUID"
// @Success      200 {object} model.Manufacturer
// @Failure      404 {object} apierror.APIError
// @Router       /v1/manufacturers/{id} [get]
func (h *ManufacturersHandler) GetByID(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	m, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// Update godoc
// @Summary      Update a manufacturer
// @Tags         manufacturers
// @Accept       json
// @Produce      json
// @Param        id   path string                        true "Manufacturer UUID"
// @Param        body body dto.UpdateManufacturerRequest true "Fields to update"
// @Success      200 {object} model.Manufacturer
// @Router       /v1/manufacturers/{id} [put]
func (h *ManufacturersHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	var req dto.UpdateManufacturerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	m, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// Deactivate godoc
// @Summary      Deactivate a manufacturer
// @Tags         manufacturers
// @Param        id path string true "Manufacturer UUID"
// @Success      204
// @Router       /v1/manufacturers/{id} [delete]
func (h *ManufacturersHandler) Deactivate(c *gin.Context) {
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
