package productcontroller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/thedevbrian1/thevervefashion-fly/events"
	"github.com/thedevbrian1/thevervefashion-fly/models"
)

type VariationInput struct {
	Title  string   `json:"title" form:"title" binding:"required"`
	Values []string `json:"values" form:"values" binding:"required,min=1,dive,required"`
}

// POST /dashboard/products/:id/variations
func AddVariation(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}

		var in VariationInput
		if err := c.ShouldBind(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title and at least one value are required"})
			return
		}
		db := d.DB.WithContext(c.Request.Context())

		var product models.Product
		if err := db.First(&product, id).Error; err != nil {
			notFoundOr(c, err, "Product", d.Log)
			return
		}

		variation := models.Variation{ProductID: product.ID, Title: strings.ToLower(strings.TrimSpace(in.Title))}
		for _, v := range in.Values {
			variation.Options = append(variation.Options, models.VariationOption{Value: strings.TrimSpace(v)})
		}
		if err := db.Create(&variation).Error; err != nil {
			d.Log.Error("create variation", zap.Uint("product_id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create variation"})
			return
		}

		d.publish(events.ProductUpdated, product)
		c.JSON(http.StatusCreated, variation)
	}
}

// DELETE /dashboard/variations/:id
func DeleteVariation(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		db := d.DB.WithContext(c.Request.Context())

		var variation models.Variation
		if err := db.First(&variation, id).Error; err != nil {
			notFoundOr(c, err, "Variation", d.Log)
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("variation_id = ?", variation.ID).Delete(&models.VariationOption{}).Error; err != nil {
				return err
			}
			return tx.Delete(&variation).Error
		})
		if err != nil {
			d.Log.Error("delete variation", zap.Uint("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete variation"})
			return
		}

		d.publish(events.ProductUpdated, models.Product{ID: variation.ProductID})
		c.JSON(http.StatusOK, gin.H{"message": "Variation deleted successfully"})
	}
}
