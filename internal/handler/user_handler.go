package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"fintrack/internal/service"
)

// UserHandler bundles HTTP handlers.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// CreateUser godoc
// @Summary Register a user
// @Tags users
// @Accept json
// @Produce json
// @Param user body service.UserInput true "User payload"
// @Success 201 {object} model.UserView
// @Failure 400 {object} errors.ErrorResponse
// @Failure 422 {object} map[string][]string
// @Router /users [post]
func (h *UserHandler) CreateUser(c echo.Context) error {
	var in service.UserInput
	if err := bind(c, &in); err != nil {
		return Fail(c, err)
	}
	created, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		return Fail(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

// GetUser godoc
// @Summary Get user by id
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} model.UserView
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return Fail(c, err)
	}
	user, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return Fail(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param direction query string false "ASC or DESC"
// @Param order_by query string false "Sort column"
// @Param page query int false "Page number"
// @Param per_page query int false "Page size, at most 100"
// @Param search query string false "Words matched against names, email and username"
// @Success 200 {object} query.Page[model.UserView]
// @Failure 401 {object} errors.ErrorResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	page, err := h.svc.List(c.Request().Context(), listParams(c))
	if err != nil {
		return Fail(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

// UpdateUser godoc
// @Summary Update the current user
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param user body service.UserInput true "Fields to change"
// @Success 200 {object} model.UserView
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} map[string][]string
// @Router /users/{id} [patch]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return Fail(c, err)
	}
	var in service.UserInput
	if err := bind(c, &in); err != nil {
		return Fail(c, err)
	}
	updated, err := h.svc.Update(c.Request().Context(), CurrentUserID(c), id, in)
	if err != nil {
		return Fail(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteUser godoc
// @Summary Delete the current user with its categories and entries
// @Tags users
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return Fail(c, err)
	}
	if err := h.svc.Delete(c.Request().Context(), CurrentUserID(c), id); err != nil {
		return Fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
