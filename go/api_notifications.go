package courierserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	notificationhttpmapper "github.com/Apurer/courier-api/internal/domains/notifications/adapters/http/mapper"
	notificationports "github.com/Apurer/courier-api/internal/domains/notifications/ports"
)

// NotificationAPI exposes the notification feed.
type NotificationAPI struct {
	service notificationports.Service
}

func NewNotificationAPI(service notificationports.Service) NotificationAPI {
	return NotificationAPI{service: service}
}

// Post /api/notifications
func (api *NotificationAPI) CreateNotification(c *gin.Context) {
	var payload notificationhttpmapper.CreateNotificationRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	created, err := api.service.Create(c.Request.Context(), notificationhttpmapper.ToCreateInput(payload))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, notificationhttpmapper.FromDomainNotification(created))
}

// Get /api/notifications?userId=
func (api *NotificationAPI) ListNotifications(c *gin.Context) {
	list, err := api.service.List(c.Request.Context(), notificationports.Filter{TargetID: c.Query("userId")})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, notificationhttpmapper.FromDomainNotifications(list))
}

// Patch /api/notifications/:id/read
func (api *NotificationAPI) MarkRead(c *gin.Context) {
	updated, err := api.service.MarkRead(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, notificationhttpmapper.FromDomainNotification(updated))
}

// Delete /api/notifications?userId=
func (api *NotificationAPI) ClearNotifications(c *gin.Context) {
	deleted, err := api.service.ClearAll(c.Request.Context(), notificationports.Filter{TargetID: c.Query("userId")})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, notificationhttpmapper.ClearResponse{Message: "All notifications cleared", Deleted: deleted})
}
