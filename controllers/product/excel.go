package productcontroller

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/thedevbrian1/thevervefashion-fly/catalog"
	"github.com/thedevbrian1/thevervefashion-fly/media"
	"github.com/thedevbrian1/thevervefashion-fly/models"
)

// ImportProductsFromExcel creates or updates products from an uploaded
// workbook. Rows with an ID of an existing product update it; the rest are
// created. Unknown categories are created on the fly.
func ImportProductsFromExcel(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		header, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is required"})
			return
		}

		file, err := header.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open Excel file"})
			return
		}
		defer file.Close()

		rows, skippedCount, err := catalog.ReadWorkbook(file, header.Size)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		db := d.DB.WithContext(c.Request.Context())
		categories := newCategoryCache()
		createdCount, updatedCount := 0, 0

		for _, row := range rows {
			created, err := d.importRow(db, row, categories)
			if err != nil {
				d.Log.Warn("import row", zap.String("title", row.Title), zap.Error(err))
				skippedCount++
				continue
			}
			if created {
				createdCount++
			} else {
				updatedCount++
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"message":       "Import completed",
			"created_count": createdCount,
			"updated_count": updatedCount,
			"skipped_count": skippedCount,
		})
	}
}

// importRow writes one row in its own transaction and reports whether a
// new product was created.
func (d Deps) importRow(db *gorm.DB, row catalog.ImportRow, categories *categoryCache) (bool, error) {
	created := false
	err := db.Transaction(func(tx *gorm.DB) error {
		categoryID, err := resolveCategory(tx, row.Category, categories)
		if err != nil {
			return err
		}

		var product models.Product
		if row.ID > 0 {
			err = tx.Preload("Item").First(&product, row.ID).Error
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}
		created = product.ID == 0

		product.Title = row.Title
		product.Description = row.Description
		product.CategoryID = categoryID
		product.Item.Quantity = row.Quantity
		product.Item.Price = row.Price
		product.Item.ComparePrice = row.ComparePrice
		product.Item.PurchasePrice = row.PurchasePrice
		product.Item.SKU = row.SKU

		if created {
			product.Images = d.importedImages(0, row.Images)
			return tx.Create(&product).Error
		}

		if err := tx.Omit("Item", "Images", "Variations", "Category").Save(&product).Error; err != nil {
			return err
		}
		product.Item.ProductID = product.ID
		if err := tx.Save(&product.Item).Error; err != nil {
			return err
		}
		if len(row.Images) == 0 {
			return nil
		}
		if err := tx.Where("product_id = ?", product.ID).Delete(&models.Image{}).Error; err != nil {
			return err
		}
		images := d.importedImages(product.ID, row.Images)
		return tx.Create(&images).Error
	})
	categories.settle(err)
	return created, err
}

func (d Deps) importedImages(productID uint, urls []string) []models.Image {
	images := make([]models.Image, 0, len(urls))
	for _, u := range urls {
		images = append(images, models.Image{
			ProductID: productID,
			ImageSrc:  u,
			PublicID:  media.PublicIDFromURL(u, d.MediaFolder),
		})
	}
	return images
}

// resolveCategory finds or creates the category titled name. An empty name
// leaves the product uncategorised.
func resolveCategory(tx *gorm.DB, name string, cache *categoryCache) (*uint, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	key := strings.ToLower(name)
	if id, ok := cache.get(key); ok {
		return &id, nil
	}

	category, err := findCategory(tx, name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		slug := catalog.Slugify(name)
		if slug == "" {
			return nil, errors.New("category title has no letters or digits")
		}
		category = models.Category{Title: name, Slug: slug}
		err = tx.Create(&category).Error
	}
	if err != nil {
		return nil, err
	}
	cache.put(key, category.ID)
	return &category.ID, nil
}

// categoryCache remembers category ids by lowercased title across the rows
// of one import. Ids found or created inside a row's transaction stay
// pending until settle, so a rolled back row never leaves behind an id for
// a category that was not committed.
type categoryCache struct {
	ids     map[string]uint
	pending map[string]uint
}

func newCategoryCache() *categoryCache {
	return &categoryCache{ids: map[string]uint{}, pending: map[string]uint{}}
}

func (c *categoryCache) get(key string) (uint, bool) {
	if id, ok := c.pending[key]; ok {
		return id, true
	}
	id, ok := c.ids[key]
	return id, ok
}

func (c *categoryCache) put(key string, id uint) {
	c.pending[key] = id
}

// settle keeps the pending ids when the row committed (err == nil) and drops
// them otherwise.
func (c *categoryCache) settle(err error) {
	if err == nil {
		for k, id := range c.pending {
			c.ids[k] = id
		}
	}
	c.pending = map[string]uint{}
}
