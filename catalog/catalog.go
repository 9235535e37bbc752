// Package catalog reads products and categories from Postgres.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/thedevbrian1/thevervefashion-fly/models"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
)

// Summary is what the cart needs to know about a product.
type Summary struct {
	ID           int                 `json:"id"`
	Title        string              `json:"title"`
	Price        decimal.Decimal     `json:"price"`
	ComparePrice decimal.NullDecimal `json:"compare_price"`
	Quantity     int                 `json:"quantity"`
	Images       []string            `json:"images"`
}

// Detail is a product page: the product with its item, images and category,
// plus its variations and their options.
type Detail struct {
	Product    models.Product     `json:"product"`
	Variations []models.Variation `json:"variations"`
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func summarize(p models.Product) Summary {
	return Summary{
		ID:           int(p.ID),
		Title:        p.Title,
		Price:        p.Item.Price,
		ComparePrice: p.Item.ComparePrice,
		Quantity:     p.Item.Quantity,
		Images:       p.ImageURLs(),
	}
}

func (r *Repository) Lookup(ctx context.Context, id int) (Summary, error) {
	if id <= 0 {
		return Summary{}, ErrProductNotFound
	}
	var p models.Product
	err := r.db.WithContext(ctx).Preload("Item").Preload("Images").First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Summary{}, ErrProductNotFound
	}
	if err != nil {
		return Summary{}, fmt.Errorf("lookup product %d: %w", id, err)
	}
	return summarize(p), nil
}

// LookupMany returns the summaries of the products that exist; missing ids
// are absent from the map.
func (r *Repository) LookupMany(ctx context.Context, ids []int) (map[int]Summary, error) {
	out := make(map[int]Summary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var products []models.Product
	if err := r.db.WithContext(ctx).
		Preload("Item").Preload("Images").
		Where("id IN ?", ids).
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("lookup products: %w", err)
	}
	for _, p := range products {
		out[int(p.ID)] = summarize(p)
	}
	return out, nil
}

// Detail loads the product row and its variations concurrently.
func (r *Repository) Detail(ctx context.Context, id int) (Detail, error) {
	var (
		d  Detail
		g  errgroup.Group
		db = r.db.WithContext(ctx)
	)
	g.Go(func() error {
		return db.Preload("Item").Preload("Images").Preload("Category").First(&d.Product, id).Error
	})
	g.Go(func() error {
		return db.Preload("Options").Where("product_id = ?", id).Order("id asc").Find(&d.Variations).Error
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Detail{}, ErrProductNotFound
		}
		return Detail{}, fmt.Errorf("load product %d: %w", id, err)
	}
	return d, nil
}

// List returns the products matching f.
func (r *Repository) List(ctx context.Context, f Filter) ([]models.Product, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Preload("Item").Preload("Images").Preload("Category").
		Joins("JOIN product_items pi ON pi.product_id = products.id")

	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("products.title ILIKE ? OR products.description ILIKE ?", like, like)
	}
	if f.Category != "" {
		q = q.Joins("JOIN categories cat ON cat.id = products.category_id").
			Where("cat.slug = ?", f.Category)
	}
	if f.MinPrice != nil {
		q = q.Where("pi.price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("pi.price <= ?", *f.MaxPrice)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var products []models.Product
	if err := q.Order(f.OrderClause()).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// All returns every product with its item, images and category, for export.
func (r *Repository) All(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Preload("Item").Preload("Images").Preload("Category").
		Order("id asc").
		Find(&products).Error
	return products, err
}

func (r *Repository) Categories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("title asc").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// CategoryBySlug returns the category and its products.
func (r *Repository) CategoryBySlug(ctx context.Context, slug string) (models.Category, error) {
	var cat models.Category
	err := r.db.WithContext(ctx).
		Preload("Products.Item").Preload("Products.Images").
		Where("slug = ?", slug).
		First(&cat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Category{}, ErrCategoryNotFound
	}
	if err != nil {
		return models.Category{}, fmt.Errorf("load category %q: %w", slug, err)
	}
	return cat, nil
}
