package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/thedevbrian1/thevervefashion-fly/events"
	"github.com/thedevbrian1/thevervefashion-fly/media"
	"github.com/thedevbrian1/thevervefashion-fly/models"
)

const MsgImagesAdded = "Added successfully!"

// attachImages uploads the request's images and stores them for product.
func (d Deps) attachImages(c *gin.Context, product models.Product) ([]models.Image, bool) {
	files := imageFiles(c)
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one image is required"})
		return nil, false
	}

	assets, err := d.uploadAll(c.Request.Context(), files)
	if err != nil {
		d.Log.Error("upload images", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to upload images"})
		return nil, false
	}

	images := imagesFor(product.ID, assets)
	if err := d.DB.WithContext(c.Request.Context()).Create(&images).Error; err != nil {
		d.destroy(publicIDs(assets)...)
		d.Log.Error("save images", zap.Uint("product_id", product.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save images"})
		return nil, false
	}
	return images, true
}

func imagesFor(productID uint, assets []media.Asset) []models.Image {
	images := make([]models.Image, 0, len(assets))
	for _, a := range assets {
		images = append(images, models.Image{ProductID: productID, ImageSrc: a.URL, PublicID: a.PublicID})
	}
	return images
}

// POST /dashboard/products/:id/images
func AddImages(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
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
		c.JSON(http.StatusCreated, images)
	}
}

// DELETE /dashboard/images/:id
func DeleteImage(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		db := d.DB.WithContext(c.Request.Context())

		var img models.Image
		if err := db.First(&img, id).Error; err != nil {
			notFoundOr(c, err, "Image", d.Log)
			return
		}
		if err := db.Delete(&img).Error; err != nil {
			d.Log.Error("delete image", zap.Uint("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete image"})
			return
		}

		publicID := img.PublicID
		if publicID == "" {
			publicID = media.PublicIDFromURL(img.ImageSrc, d.MediaFolder)
		}
		d.destroy(publicID)

		d.publish(events.ProductUpdated, models.Product{ID: img.ProductID})
		c.JSON(http.StatusOK, gin.H{"message": "Image deleted successfully"})
	}
}
