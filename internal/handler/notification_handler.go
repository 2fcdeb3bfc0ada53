package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/pagination"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationService service.NotificationService
}

func NewNotificationHandler(notificationService service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

func (h *NotificationHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/api/notifications",
		middleware.RequireRole(model.RoleAdmin, model.RolePetugas, model.RoleMasyarakat),
		h.ListMyNotifications)
}

// ListMyNotifications returns the caller's status change records, newest first.
// There is no push channel; clients poll this endpoint.
func (h *NotificationHandler) ListMyNotifications(c *gin.Context) {
	params := pagination.Parse(c)

	notifications, total, err := h.notificationService.ListMyNotifications(c.Request.Context(), currentUserID(c), params.Page, params.Limit)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"data":   notifications,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	})
}
