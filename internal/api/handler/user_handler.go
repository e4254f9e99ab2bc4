package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/civicgate/portal/internal/core/domain"
	"github.com/civicgate/portal/internal/core/ports"
)

// UserHandler serves the role lookup and the admin user-management endpoints.
type UserHandler struct {
	users ports.UserService
}

func NewUserHandler(users ports.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Role returns the role session attribute. The dashboard client calls this
// to branch on role, so it reads the cookie rather than requiring a token.
//
// @Summary      Get the session role
// @Tags         users
// @Produce      json
// @Success      200  {object}  roleResponse
// @Failure      401  {object}  msgResponse
// @Router       /api/user-role [get]
func (h *UserHandler) Role(c echo.Context) error {
	cookie, err := c.Cookie("role")
	if err != nil || cookie.Value == "" {
		return c.JSON(http.StatusUnauthorized, msgResponse{Msg: "Unauthorized"})
	}
	return c.JSON(http.StatusOK, roleResponse{Role: cookie.Value})
}

// List returns all users holding the requested role.
//
// @Summary      List users by role
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        role  query     string  true  "Role to filter by"
// @Success      200   {array}   domain.User
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/users [get]
func (h *UserHandler) List(c echo.Context) error {
	role := c.QueryParam("role")
	if !domain.ValidRole(role) {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown role")
	}

	users, err := h.users.ListByRole(c.Request().Context(), role)
	if err != nil {
		return err
	}
	if users == nil {
		users = []domain.User{}
	}
	return c.JSON(http.StatusOK, users)
}

// Delete removes a user account.
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  msgResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.users.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, msgResponse{Msg: "User deleted successfully"})
}

// Stats returns total and per-role account counts.
//
// @Summary      User account statistics
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.UserStats
// @Failure      403  {object}  errorResponse
// @Router       /api/users/stats [get]
func (h *UserHandler) Stats(c echo.Context) error {
	stats, err := h.users.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
