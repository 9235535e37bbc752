package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/thedevbrian1/thevervefashion-fly/events"
	"github.com/thedevbrian1/thevervefashion-fly/models"
)

// DeleteProduct removes the product rows in a transaction, then its images
// from the CDN.
func DeleteProduct(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		db := d.DB.WithContext(c.Request.Context())

		var product models.Product
		if err := db.Preload("Images").First(&product, id).Error; err != nil {
			notFoundOr(c, err, "Product", d.Log)
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			variationIDs := tx.Model(&models.Variation{}).Select("id").Where("product_id = ?", product.ID)
			if err := tx.Where("variation_id IN (?)", variationIDs).Delete(&models.VariationOption{}).Error; err != nil {
				return err
			}
			return tx.Select(clause.Associations).Delete(&product).Error
		})
		if err != nil {
			d.Log.Error("delete product", zap.Uint("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
			return
		}

		ids := make([]string, 0, len(product.Images))
		for _, img := range product.Images {
			ids = append(ids, img.PublicID)
		}
		d.destroy(ids...)

		d.publish(events.ProductDeleted, product)
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
	}
}
