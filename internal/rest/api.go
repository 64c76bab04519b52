package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/dfryer1193/signage/signage/application"
	"github.com/dfryer1193/signage/signage/cache"
	"github.com/dfryer1193/signage/signage/domain"
)

// API wires the HTTP surface to the two image collections and the device
// service.
type API struct {
	media   *cache.Collection[domain.MediaMeta]
	outlets *cache.Collection[domain.OutletMeta]
	devices *application.DeviceService
}

func NewAPI(
	media *cache.Collection[domain.MediaMeta],
	outlets *cache.Collection[domain.OutletMeta],
	devices *application.DeviceService,
) *API {
	return &API{
		media:   media,
		outlets: outlets,
		devices: devices,
	}
}

func (a *API) RegisterRoutes(router *gin.Engine) {
	router.GET("/get_media", a.GetMedia)
	router.GET("/image/:imageId", a.GetImage)

	router.POST("/outlet_image", a.ListOutletImages)
	router.GET("/outlet_image/:imageId", a.GetOutletImage)

	router.POST("/get_outlets", a.ValidateOutlet)
	router.POST("/register_device", a.RegisterDevice)
	router.POST("/validate_device", a.ValidateDevice)
	router.POST("/heartbeat", a.Heartbeat)
}
