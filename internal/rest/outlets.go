package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dfryer1193/signage/api"
	"github.com/dfryer1193/signage/signage/domain"
)

// ListOutletImages lists outlet images joined with their outlet names.
func (a *API) ListOutletImages(c *gin.Context) {
	items := a.outlets.List(c.Request.Context())
	if len(items) == 0 {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch outlet images from upstream"})
		return
	}

	images := make([]api.OutletImage, 0, len(items))
	for _, item := range items {
		images = append(images, api.OutletImage{
			ID:         item.ID,
			Image:      item.URL,
			OutletID:   item.Meta.OutletID,
			OutletName: item.Meta.OutletName,
		})
	}

	c.JSON(http.StatusOK, gin.H{"message": "Outlet images fetched successfully!", "media": images})
}

// GetOutletImage streams one cached outlet image.
func (a *API) GetOutletImage(c *gin.Context) {
	imageID := c.Param("imageId")

	data, contentType, err := a.outlets.Stream(c.Request.Context(), imageID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Image not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Data(http.StatusOK, contentType, data)
}
