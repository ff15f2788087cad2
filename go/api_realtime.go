package courierserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RealtimeAPI upgrades /ws connections onto the broadcast hub.
type RealtimeAPI struct {
	hub http.Handler
}

func NewRealtimeAPI(hub http.Handler) RealtimeAPI {
	return RealtimeAPI{hub: hub}
}

// Get /ws
func (api *RealtimeAPI) Serve(c *gin.Context) {
	if api.hub == nil {
		c.Status(http.StatusNotFound)
		return
	}
	api.hub.ServeHTTP(c.Writer, c.Request)
}
