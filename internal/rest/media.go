package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dfryer1193/signage/api"
	"github.com/dfryer1193/signage/signage/domain"
)

// GetMedia lists promotion media. The listing is always served from the
// cache core's best snapshot; an empty snapshot means the upstream has
// never been reachable and maps to a 5xx.
func (a *API) GetMedia(c *gin.Context) {
	items := a.media.List(c.Request.Context())
	if len(items) == 0 {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch media from upstream"})
		return
	}

	media := make([]api.MediaItem, 0, len(items))
	for _, item := range items {
		media = append(media, api.MediaItem{
			ID:          item.ID,
			Name:        item.Meta.Name,
			Description: item.Meta.Description,
			DateStart:   item.Meta.DateStart,
			DateEnd:     item.Meta.DateEnd,
			Image:       item.URL,
		})
	}

	c.JSON(http.StatusOK, gin.H{"message": "Media fetched successfully!", "media": media})
}

// GetImage streams one cached media image.
func (a *API) GetImage(c *gin.Context) {
	imageID := c.Param("imageId")

	data, contentType, err := a.media.Stream(c.Request.Context(), imageID)
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
