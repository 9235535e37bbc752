package productcontroller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/thedevbrian1/thevervefashion-fly/events"
	"github.com/thedevbrian1/thevervefashion-fly/models"
)

// applyUpdate copies the non-empty form fields onto p. An empty
// compare-price leaves the current value; "none" clears it.
func applyUpdate(c *gin.Context, p *models.Product) map[string]string {
	errs := map[string]string{}

	if v, ok := c.GetPostForm("title"); ok {
		if msg := validateText(v); msg != "" {
			errs["title"] = msg
		} else {
			p.Title = strings.TrimSpace(v)
		}
	}
	if v, ok := c.GetPostForm("description"); ok {
		if msg := validateText(v); msg != "" {
			errs["description"] = msg
		} else {
			p.Description = strings.TrimSpace(v)
		}
	}
	if v := strings.TrimSpace(c.PostForm("sku")); v != "" {
		p.Item.SKU = v
	}
	if v := strings.TrimSpace(c.PostForm("quantity")); v != "" {
		q, err := strconv.Atoi(v)
		if err != nil || q < 0 {
			errs["quantity"] = "Quantity must be a whole number"
		} else {
			p.Item.Quantity = q
		}
	}
	if v := strings.TrimSpace(c.PostForm("price")); v != "" {
		if d, msg := validatePrice(v); msg != "" {
			errs["price"] = msg
		} else {
			p.Item.Price = d
		}
	}
	if v := strings.TrimSpace(c.PostForm("purchase-price")); v != "" {
		if d, msg := validatePrice(v); msg != "" {
			errs["purchasePrice"] = msg
		} else {
			p.Item.PurchasePrice = d
		}
	}
	switch v := strings.TrimSpace(c.PostForm("compare-price")); v {
	case "":
	case "none":
		p.Item.ComparePrice = decimal.NullDecimal{}
	default:
		if d, msg := validatePrice(v); msg != "" {
			errs["comparePrice"] = msg
		} else {
			p.Item.ComparePrice = decimal.NewNullDecimal(d)
		}
	}
	return errs
}

// UpdateProduct updates an existing product and its item by ID. Only the
// fields present in the form are changed.
func UpdateProduct(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		db := d.DB.WithContext(c.Request.Context())

		var product models.Product
		if err := db.Preload("Item").First(&product, id).Error; err != nil {
			notFoundOr(c, err, "Product", d.Log)
			return
		}

		fieldErrors := applyUpdate(c, &product)
		if len(fieldErrors) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"fieldErrors": fieldErrors})
			return
		}

		if v := strings.TrimSpace(c.PostForm("category")); v != "" {
			category, err := findCategory(db, v)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"fieldErrors": gin.H{"category": "Unknown category"}})
				return
			}
			if err != nil {
				d.Log.Error("find category", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch category"})
				return
			}
			product.CategoryID = &category.ID
			product.Category = nil
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Omit("Item", "Images", "Variations", "Category").Save(&product).Error; err != nil {
				return err
			}
			product.Item.ProductID = product.ID
			return tx.Save(&product.Item).Error
		})
		if err != nil {
			d.Log.Error("update product", zap.Uint("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
			return
		}

		d.publish(events.ProductUpdated, product)
		c.JSON(http.StatusOK, product)
	}
}
