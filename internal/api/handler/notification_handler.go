package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/civicgate/portal/internal/core/ports"
)

// NotificationHandler serves the authenticated notification feed.
type NotificationHandler struct {
	notifications ports.NotificationService
}

func NewNotificationHandler(notifications ports.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// Feed returns the 10 most recent notifications visible to the caller's role
// plus the total match count.
//
// @Summary      Fetch notifications for the authenticated user
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.NotificationFeed
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/notifications [get]
func (h *NotificationHandler) Feed(c echo.Context) error {
	userID, _ := c.Get("userID").(string)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	feed, err := h.notifications.GetByUserID(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, feed)
}
