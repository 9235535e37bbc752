package productcontroller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/thedevbrian1/thevervefashion-fly/events"
	"github.com/thedevbrian1/thevervefashion-fly/models"
)

// UploadResource uploads the "image" files. With a productId field the
// images are attached to that product; otherwise only the CDN assets are
// returned, for editors that embed images themselves.
// POST /resources/upload
func UploadResource(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.PostForm("productId")
		if raw == "" {
			files := imageFiles(c)
			if len(files) == 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "At least one image is required"})
				return
			}
			assets, err := d.uploadAll(c.Request.Context(), files)
			if err != nil {
				d.Log.Error("upload resource", zap.Error(err))
				c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to upload images"})
				return
			}
			c.JSON(http.StatusCreated, gin.H{"images": assets})
			return
		}

		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid productId"})
			return
		}
		var product models.Product
		if err := d.DB.WithContext(c.Request.Context()).First(&product, id).Error; err != nil {
			notFoundOr(c, err, "Product", d.Log)
			return
		}

		images, ok := d.attachImages(c, product)
		if !ok {
			return
		}
		d.flash(c, MsgImagesAdded)
		d.publish(events.ProductUpdated, product)
		c.JSON(http.StatusCreated, gin.H{"images": images})
	}
}
