package productcontroller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GetProductByID returns a product with its item, images, category and
// variations.
// URL param: /products/:id
func GetProductByID(cat Reader, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		detail, err := cat.Detail(c.Request.Context(), id)
		if err != nil {
			notFoundOr(c, err, "Product", log)
			return
		}
		c.JSON(http.StatusOK, detail)
	}
}

// GET /categories
func GetCategories(cat Reader, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := cat.Categories(c.Request.Context())
		if err != nil {
			log.Error("list categories", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

// GET /category/:slug
func GetCategoryBySlug(cat Reader, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		category, err := cat.CategoryBySlug(c.Request.Context(), c.Param("slug"))
		if err != nil {
			notFoundOr(c, err, "Category", log)
			return
		}
		c.JSON(http.StatusOK, category)
	}
}
