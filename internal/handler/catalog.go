package handler

import (
	"net/http"
	"strconv"

	"paddyledger/internal/dto"
	"paddyledger/internal/service"

	"github.com/gin-gonic/gin"
)

// catalog.go — paddy products and quality grades. Small reference tables,
// one handler each.

type ProductsHandler struct{ svc service.ProductService }

func NewProductsHandler(svc service.ProductService) *ProductsHandler {
	return &ProductsHandler{svc: svc}
}

// Create godoc
// @Summary      Register a paddy product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        body body dto.CreateProductRequest true "Product details"
// @Success      201 {object} model.Product
// @Failure      409 {object} apierror.APIError
// @Router       /v1/products [post]
func (h *ProductsHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// List godoc
// @Summary      List paddy products
// @Tags         products
// @Produce      json
// @Param        active_only query bool false "Only active products"
// @Success      200 {array} model.Product
// @Router       /v1/products [get]
func (h *ProductsHandler) List(c *gin.Context) {
	activeOnly, _ := strconv.ParseBool(c.DefaultQuery("active_only", "false"))
	ps, err := h.svc.List(c.Request.Context(), activeOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ps)
}

// GetByID godoc
// @Summary      Get a product by id
// @Tags         products
// @Produce      json
// @Param        id path string true "Product UUID"
// @Success      200 {object} model.Product
// @Failure      404 {object} apierror.APIError
// @Router       /v1/products/{id} [get]
func (h *ProductsHandler) GetByID(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	p, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Update godoc
// @Summary      Update a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id   path string                   true "Product UUID"
// @Param        body body dto.UpdateProductRequest true "Fields to update"
// @Success      200 {object} model.Product
// @Router       /v1/products/{id} [put]
func (h *ProductsHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	var req dto.UpdateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

type GradesHandler struct{ svc service.GradeService }

func NewGradesHandler(svc service.GradeService) *GradesHandler {
	return &GradesHandler{svc: svc}
}

// Create godoc
// @Summary      Register a quality grade
// @Tags         grades
// @Accept       json
// @Produce      json
// @Param        body body dto.CreateGradeRequest true "Grade details"
// @Success      201 {object} model.Grade
// @Failure      409 {object} apierror.APIError
// @Router       /v1/grades [post]
func (h *GradesHandler) Create(c *gin.Context) {
	var req dto.CreateGradeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	g, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, g)
}

// List godoc
// @Summary      List quality grades
// @Tags         grades
// @Produce      json
// @Param        active_only query bool false "Only active grades"
// @Success      200 {array} model.Grade
// @Router       /v1/grades [get]
func (h *GradesHandler) List(c *gin.Context) {
	activeOnly, _ := strconv.ParseBool(c.DefaultQuery("active_only", "false"))
	gs, err := h.svc.List(c.Request.Context(), activeOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gs)
}

// GetByID godoc
// @Summary      Get a grade by id
// @Tags         grades
// @Produce      json
// @Param        id path string true "Grade UUID"
// @Success      200 {object} model.Grade
// @Failure      404 {object} apierror.APIError
// @Router       /v1/grades/{id} [get]
func (h *GradesHandler) GetByID(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	g, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

// Update godoc
// @Summary      Update a grade
// @Tags         grades
// @Accept       json
// @Produce      json
// @Param        id   path string                 true "Grade UUID"
// @Param        body body dto.UpdateGradeRequest true "Fields to update"
// @Success      200 {object} model.Grade
// @Router       /v1/grades/{id} [put]
func (h *GradesHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	var req dto.UpdateGradeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	g, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}
