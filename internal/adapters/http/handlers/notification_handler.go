package handlers

import (
	"errors"

	"geomaqui-os/internal/core/domain"
	"geomaqui-os/internal/core/services"
	"geomaqui-os/internal/pkg/pagination"
	"geomaqui-os/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// NotificationHandler handles in-app notification endpoints
type NotificationHandler struct {
	notificationService *services.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List handles notification listing
// @Summary List notifications
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Param unread query bool false "Only unread"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response
// @Router /notifications [get]
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	all := h.notificationService.List(c.QueryBool("unread"))

	params := pagination.GetParams(c)
	start, end := params.Bounds(len(all))

	return response.Success(c, "", fiber.Map{
		"unread_count":  h.notificationService.UnreadCount(),
		"notifications": pagination.NewResponse(all[start:end], params, len(all)),
	})
}

// MarkRead handles marking one notification as read
// @Summary Mark notification read
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	if err := h.notificationService.MarkRead(c.Context(), c.Params("id")); err != nil {
		if errors.Is(err, domain.ErrNotificationNotFound) {
			return response.NotFound(c, "Notification not found")
		}
		return response.InternalServerError(c, "Failed to mark notification")
	}
	return response.Success(c, "Notification marked as read", nil)
}

// MarkAllRead handles marking every notification as read
// @Summary Mark all notifications read
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	if err := h.notificationService.MarkAllRead(c.Context()); err != nil {
		return response.InternalServerError(c, "Failed to mark notifications")
	}
	return response.Success(c, "All notifications marked as read", nil)
}
