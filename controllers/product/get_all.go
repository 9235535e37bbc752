package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/thedevbrian1/thevervefashion-fly/catalog"
)

// GetProducts lists products. Query: search, category (slug), min_price,
// max_price, sort_by (created_at|price|title), order (asc|desc), limit.
func GetProducts(cat Reader, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, err := catalog.ParseFilter(c.Request.URL.Query())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		products, err := cat.List(c.Request.Context(), filter)
		if err != nil {
			log.Error("list products", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}
		c.JSON(http.StatusOK, products)
	}
}
