package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm/clause"

	"github.com/thedevbrian1/thevervefashion-fly/catalog"
	"github.com/thedevbrian1/thevervefashion-fly/models"
)

type CategoryInput struct {
	Title string `json:"title" form:"title" binding:"required"`
}

func bindCategory(c *gin.Context) (models.Category, bool) {
	var in CategoryInput
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return models.Category{}, false
	}
	slug := catalog.Slugify(in.Title)
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title must contain letters or digits"})
		return models.Category{}, false
	}
	return models.Category{Title: in.Title, Slug: slug}, true
}

// POST /dashboard/categories
func CreateCategory(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		category, ok := bindCategory(c)
		if !ok {
			return
		}

		res := d.DB.WithContext(c.Request.Context()).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&category)
		if res.Error != nil {
			d.Log.Error("create category", zap.Error(res.Error))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Category already exists"})
			return
		}
		c.JSON(http.StatusCreated, category)
	}
}

// PUT /dashboard/categories/:id
func UpdateCategory(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		next, ok := bindCategory(c)
		if !ok {
			return
		}
		db := d.DB.WithContext(c.Request.Context())

		var category models.Category
		if err := db.First(&category, id).Error; err != nil {
			notFoundOr(c, err, "Category", d.Log)
			return
		}

		var clashes int64
		if err := db.Model(&models.Category{}).
			Where("id <> ? AND (slug = ? OR title = ?)", id, next.Slug, next.Title).
			Count(&clashes).Error; err != nil {
			d.Log.Error("check category", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update category"})
			return
		}
		if clashes > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Category already exists"})
			return
		}

		category.Title, category.Slug = next.Title, next.Slug
		if err := db.Save(&category).Error; err != nil {
			d.Log.Error("update category", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update category"})
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

// DELETE /dashboard/categories/:id. Products keep existing with no category.
func DeleteCategory(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		db := d.DB.WithContext(c.Request.Context())

		var category models.Category
		if err := db.First(&category, id).Error; err != nil {
			notFoundOr(c, err, "Category", d.Log)
			return
		}
		if err := db.Delete(&category).Error; err != nil {
			d.Log.Error("delete category", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
	}
}
