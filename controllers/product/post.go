package productcontroller

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/thedevbrian1/thevervefashion-fly/events"
	"github.com/thedevbrian1/thevervefashion-fly/media"
	"github.com/thedevbrian1/thevervefashion-fly/models"
)

const MsgProductAdded = "Product added successfully!"

// uploadAll sends files to the media store concurrently. On failure every
// asset that did upload is destroyed before returning.
func (d Deps) uploadAll(ctx context.Context, files []*multipart.FileHeader) ([]media.Asset, error) {
	assets := make([]media.Asset, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, fh := range files {
		i, fh := i, fh
		g.Go(func() error {
			f, err := fh.Open()
			if err != nil {
				return fmt.Errorf("open %s: %w", fh.Filename, err)
			}
			defer f.Close()
			asset, err := d.Media.Upload(gctx, fh.Filename, f)
			if err != nil {
				return err
			}
			assets[i] = asset
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		d.destroy(publicIDs(assets)...)
		return nil, err
	}
	return assets, nil
}

func publicIDs(assets []media.Asset) []string {
	ids := make([]string, 0, len(assets))
	for _, a := range assets {
		if a.PublicID != "" {
			ids = append(ids, a.PublicID)
		}
	}
	return ids
}

func imageFiles(c *gin.Context) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return form.File["image"]
}

// findCategory resolves the form's category by slug, then by title.
func findCategory(db *gorm.DB, value string) (models.Category, error) {
	var cat models.Category
	err := db.Where("slug = ?", value).Or("LOWER(title) = LOWER(?)", value).First(&cat).Error
	return cat, err
}

// CreateProduct creates a product with its item, images and size/colour
// variations from a multipart form.
func CreateProduct(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		// 1️⃣ Validate before touching the CDN
		input, fieldErrors := parseProductForm(c)
		if len(fieldErrors) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"fieldErrors": fieldErrors})
			return
		}

		category, err := findCategory(d.DB.WithContext(ctx), input.Category)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"fieldErrors": gin.H{"category": "Unknown category"}})
			return
		}
		if err != nil {
			d.Log.Error("find category", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch category"})
			return
		}

		// 2️⃣ Upload images
		assets, err := d.uploadAll(ctx, imageFiles(c))
		if err != nil {
			d.Log.Error("upload product images", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to upload images"})
			return
		}

		// 3️⃣ Product, item, images and variations in one transaction
		product := input.toProduct(category.ID)
		for _, a := range assets {
			product.Images = append(product.Images, models.Image{ImageSrc: a.URL, PublicID: a.PublicID})
		}
		err = d.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return tx.Create(&product).Error
		})
		if err != nil {
			d.destroy(publicIDs(assets)...)
			d.Log.Error("create product", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
			return
		}

		d.flash(c, MsgProductAdded)
		d.publish(events.ProductCreated, product)
		c.JSON(http.StatusCreated, product)
	}
}
