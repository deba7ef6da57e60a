package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"fintrack/internal/service"
)

// EntryHandler handles entry endpoints for the current user.
type EntryHandler struct {
	svc service.EntryService
}

// NewEntryHandler creates a new entry handler.
func NewEntryHandler(svc service.EntryService) *EntryHandler {
	return &EntryHandler{svc: svc}
}

// ListEntries godoc
// @Summary List entries
// @Tags entries
// @Produce json
// @Security BearerAuth
// @Param direction query string false "ASC or DESC"
// @Param order_by query string false "Sort column"
// @Param page query int false "Page number"
// @Param per_page query int false "Page size, at most 100"
// @Param search query string false "Words matched against name and description"
// @Param category_id query int false "Only entries of this category"
// @Success 200 {object} query.Page[model.Entry]
// @Failure 401 {object} errors.ErrorResponse
// @Failure 422 {object} map[string][]string
// @Router /entries [get]
func (h *EntryHandler) ListEntries(c echo.Context) error {
	page, err := h.svc.List(c.Request().Context(), CurrentUserID(c), listParams(c), c.QueryParam("category_id"))
	if err != nil {
		return Fail(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

// GetEntry godoc
// @Summary Get entry by id
// @Tags entries
// @Produce json
// @Security BearerAuth
// @Param id path int true "Entry ID"
// @Success 200 {object} model.Entry
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /entries/{id} [get]
func (h *EntryHandler) GetEntry(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return Fail(c, err)
	}
	entry, err := h.svc.Get(c.Request().Context(), CurrentUserID(c), id)
	if err != nil {
		return Fail(c, err)
	}
	return c.JSON(http.StatusOK, entry)
}

// CreateEntry godoc
// @Summary Create entry
// @Tags entries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param entry body service.EntryInput true "Entry payload"
// @Success 201 {object} model.Entry
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 422 {object} map[string][]string
// @Router /entries [post]
func (h *EntryHandler) CreateEntry(c echo.Context) error {
	var in service.EntryInput
	if err := bind(c, &in); err != nil {
		return Fail(c, err)
	}
	entry, err := h.svc.Create(c.Request().Context(), CurrentUserID(c), in)
	if err != nil {
		return Fail(c, err)
	}
	return c.JSON(http.StatusCreated, entry)
}

// UpdateEntry godoc
// @Summary Update entry
// @Tags entries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Entry ID"
// @Param entry body service.EntryInput true "Fields to change"
// @Success 200 {object} model.Entry
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} map[string][]string
// @Router /entries/{id} [patch]
func (h *EntryHandler) UpdateEntry(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return Fail(c, err)
	}
	var in service.EntryInput
	if err := bind(c, &in); err != nil {
		return Fail(c, err)
	}
	entry, err := h.svc.Update(c.Request().Context(), CurrentUserID(c), id, in)
	if err != nil {
		return Fail(c, err)
	}
	return c.JSON(http.StatusOK, entry)
}

// DeleteEntry godoc
// @Summary Delete entry
// @Tags entries
// @Security BearerAuth
// @Param id path int true "Entry ID"
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /entries/{id} [delete]
func (h *EntryHandler) DeleteEntry(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return Fail(c, err)
	}
	if err := h.svc.Delete(c.Request().Context(), CurrentUserID(c), id); err != nil {
		return Fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
