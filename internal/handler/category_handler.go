package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"fintrack/internal/service"
)

// CategoryHandler handles category endpoints for the current user.
type CategoryHandler struct {
	svc service.CategoryService
}

// NewCategoryHandler creates a new category handler.
func NewCategoryHandler(svc service.CategoryService) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

// ListCategories godoc
// @Summary List categories
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param direction query string false "ASC or DESC"
// @Param order_by query string false "Sort column"
// @Param page query int false "Page number"
// @Param per_page query int false "Page size, at most 100"
// @Param search query string false "Words matched against the name"
// @Success 200 {object} query.Page[model.Category]
// @Failure 401 {object} errors.ErrorResponse
// @Router /categories [get]
func (h *CategoryHandler) ListCategories(c echo.Context) error {
	page, err := h.svc.List(c.Request().Context(), CurrentUserID(c), listParams(c))
	if err != nil {
		return Fail(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

// GetCategory godoc
// @Summary Get category by id
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Success 200 {object} model.Category
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /categories/{id} [get]
func (h *CategoryHandler) GetCategory(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return Fail(c, err)
	}
	category, err := h.svc.Get(c.Request().Context(), CurrentUserID(c), id)
	if err != nil {
		return Fail(c, err)
	}
	return c.JSON(http.StatusOK, category)
}

// CreateCategory godoc
// @Summary Create category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param category body service.CategoryInput true "Category payload"
// @Success 201 {object} model.Category
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 422 {object} map[string][]string
// @Router /categories [post]
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	var in service.CategoryInput
	if err := bind(c, &in); err != nil {
		return Fail(c, err)
	}
	category, err := h.svc.Create(c.Request().Context(), CurrentUserID(c), in)
	if err != nil {
		return Fail(c, err)
	}
	return c.JSON(http.StatusCreated, category)
}

// UpdateCategory godoc
// @Summary Update category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Param category body service.CategoryInput true "Fields to change"
// @Success 200 {object} model.Category
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} map[string][]string
// @Router /categories/{id} [patch]
func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return Fail(c, err)
	}
	var in service.CategoryInput
	if err := bind(c, &in); err != nil {
		return Fail(c, err)
	}
	category, err := h.svc.Update(c.Request().Context(), CurrentUserID(c), id, in)
	if err != nil {
		return Fail(c, err)
	}
	return c.JSON(http.StatusOK, category)
}

// DeleteCategory godoc
// @Summary Delete category and its entries
// @Tags categories
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return Fail(c, err)
	}
	if err := h.svc.Delete(c.Request().Context(), CurrentUserID(c), id); err != nil {
		return Fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
