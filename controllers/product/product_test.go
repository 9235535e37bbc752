package productcontroller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/thedevbrian1/thevervefashion-fly/catalog"
	"github.com/thedevbrian1/thevervefashion-fly/media"
	"github.com/thedevbrian1/thevervefashion-fly/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeReader struct {
	products   []models.Product
	categories []models.Category
	lastFilter catalog.Filter
	err        error
}

func (f *fakeReader) List(_ context.Context, filter catalog.Filter) ([]models.Product, error) {
	f.lastFilter = filter
	return f.products, f.err
}

func (f *fakeReader) Detail(_ context.Context, id int) (catalog.Detail, error) {
	if f.err != nil {
		return catalog.Detail{}, f.err
	}
	for _, p := range f.products {
		if int(p.ID) == id {
			return catalog.Detail{Product: p}, nil
		}
	}
	return catalog.Detail{}, catalog.ErrProductNotFound
}

func (f *fakeReader) All(context.Context) ([]models.Product, error) {
	return f.products, f.err
}

func (f *fakeReader) Categories(context.Context) ([]models.Category, error) {
	return f.categories, f.err
}

func (f *fakeReader) CategoryBySlug(_ context.Context, slug string) (models.Category, error) {
	for _, c := range f.categories {
		if c.Slug == slug {
			return c, nil
		}
	}
	return models.Category{}, catalog.ErrCategoryNotFound
}

func sampleProducts() []models.Product {
	dresses := &models.Category{ID: 1, Title: "Dresses", Slug: "dresses"}
	return []models.Product{
		{
			ID: 1, Title: "Linen dress", Description: "Breathable", Category: dresses,
			Item: models.ProductItem{
				Quantity: 4, Price: decimal.RequireFromString("3500"),
				PurchasePrice: decimal.RequireFromString("2000"), SKU: "LD-1",
			},
			Images: []models.Image{{ImageSrc: "https://cdn/verve/a.jpg"}},
		},
		{
			ID: 2, Title: "Basic tee",
			Item: models.ProductItem{
				Quantity: 10, Price: decimal.RequireFromString("800"),
				ComparePrice: decimal.NewNullDecimal(decimal.RequireFromString("1000")),
			},
		},
	}
}

func serve(method, path string, h gin.HandlerFunc, route string, req *http.Request) *httptest.ResponseRecorder {
	r := gin.New()
	r.Handle(method, route, h)
	if req == nil {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func formContext(values url.Values) *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	c.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c
}

func TestParseProductForm(t *testing.T) {
	c := formContext(url.Values{
		"title":          {" Linen dress "},
		"description":    {"Breathable summer dress"},
		"category":       {"dresses"},
		"quantity":       {"4"},
		"price":          {"3500"},
		"purchase-price": {"2000.50"},
		"compare-price":  {"4000"},
		"sku":            {"LD-1"},
		"size":           {"S, M ,L"},
		"colour":         {"navy"},
	})

	in, errs := parseProductForm(c)
	require.Empty(t, errs)
	assert.Equal(t, "Linen dress", in.Title)
	assert.Equal(t, 4, in.Quantity)
	assert.True(t, in.Price.Equal(decimal.RequireFromString("3500")))
	assert.True(t, in.PurchasePrice.Equal(decimal.RequireFromString("2000.5")))
	require.True(t, in.ComparePrice.Valid)
	assert.True(t, in.ComparePrice.Decimal.Equal(decimal.RequireFromString("4000")))
	assert.Equal(t, []string{"S", "M", "L"}, in.Sizes)
	assert.Equal(t, []string{"navy"}, in.Colours)

	p := in.toProduct(7)
	require.NotNil(t, p.CategoryID)
	assert.Equal(t, uint(7), *p.CategoryID)
	assert.Equal(t, "LD-1", p.Item.SKU)
	require.Len(t, p.Variations, 2)
	assert.Equal(t, "size", p.Variations[0].Title)
	assert.Len(t, p.Variations[0].Options, 3)
	assert.Equal(t, "colour", p.Variations[1].Title)
	assert.Equal(t, "navy", p.Variations[1].Options[0].Value)
}

func TestParseProductFormErrors(t *testing.T) {
	c := formContext(url.Values{
		"title":          {"x"},
		"price":          {"-5"},
		"purchase-price": {"abc"},
		"compare-price":  {"0"},
		"quantity":       {"two"},
	})

	_, errs := parseProductForm(c)
	assert.Equal(t, map[string]string{
		"title":         "Text is too short",
		"description":   "Text is too short",
		"category":      "Category is required",
		"colour":        "Colour is required",
		"quantity":      "Quantity must be a whole number",
		"price":         "Price must be a positive number",
		"purchasePrice": "Price must be a positive number",
		"comparePrice":  "Price must be a positive number",
	}, errs)
}

func TestToProductSkipsEmptyVariations(t *testing.T) {
	p := ProductInput{Title: "Tee", Colours: []string{"white"}}.toProduct(1)
	require.Len(t, p.Variations, 1)
	assert.Equal(t, "colour", p.Variations[0].Title)
}

func TestSplitValues(t *testing.T) {
	assert.Nil(t, splitValues(""))
	assert.Nil(t, splitValues(" , ,"))
	assert.Equal(t, []string{"red", "blue"}, splitValues("red,, blue "))
}

func TestGetProductByID(t *testing.T) {
	reader := &fakeReader{products: sampleProducts()}
	h := GetProductByID(reader, zap.NewNop())

	w := serve(http.MethodGet, "/products/1", h, "/products/:id", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got struct {
		Product models.Product `json:"product"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Linen dress", got.Product.Title)

	w = serve(http.MethodGet, "/products/99", h, "/products/:id", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(http.MethodGet, "/products/abc", h, "/products/:id", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	reader.err = errors.New("db down")
	w = serve(http.MethodGet, "/products/1", h, "/products/:id", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetProducts(t *testing.T) {
	reader := &fakeReader{products: sampleProducts()}
	h := GetProducts(reader, zap.NewNop())

	w := serve(http.MethodGet, "/products?search=dress&sort_by=price&order=asc&limit=5", h, "/products", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "dress", reader.lastFilter.Search)
	assert.Equal(t, "pi.price asc", reader.lastFilter.OrderClause())
	assert.Equal(t, 5, reader.lastFilter.Limit)

	var got []models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got, 2)

	w = serve(http.MethodGet, "/products?min_price=cheap", h, "/products", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetCategoryBySlug(t *testing.T) {
	reader := &fakeReader{categories: []models.Category{{ID: 1, Title: "Lounge wear", Slug: "lounge-wear"}}}
	h := GetCategoryBySlug(reader, zap.NewNop())

	w := serve(http.MethodGet, "/category/lounge-wear", h, "/category/:slug", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"Lounge wear"`)

	w = serve(http.MethodGet, "/category/shoes", h, "/category/:slug", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportProductsToExcel(t *testing.T) {
	reader := &fakeReader{products: sampleProducts()}
	w := serve(http.MethodGet, "/dashboard/products/export", ExportProductsToExcel(reader, zap.NewNop()), "/dashboard/products/export", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=products.xlsx", w.Header().Get("Content-Disposition"))

	body := w.Body.Bytes()
	rows, skipped, err := catalog.ReadWorkbook(bytes.NewReader(body), int64(len(body)))
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, rows, 2)
	assert.Equal(t, "Linen dress", rows[0].Title)
	assert.Equal(t, "Dresses", rows[0].Category)
	assert.Equal(t, []string{"https://cdn/verve/a.jpg"}, rows[0].Images)
	assert.True(t, rows[1].ComparePrice.Valid)
}

func TestExportProductsToExcelFailure(t *testing.T) {
	reader := &fakeReader{err: errors.New("db down")}
	w := serve(http.MethodGet, "/x", ExportProductsToExcel(reader, zap.NewNop()), "/x", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func multipartImages(t *testing.T, fields map[string]string, files map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for name, content := range files {
		fw, err := mw.CreateFormFile("image", name)
		require.NoError(t, err)
		_, err = io.WriteString(fw, content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/resources/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadResource(t *testing.T) {
	store, err := media.NewLocal(t.TempDir(), "http://localhost:8080")
	require.NoError(t, err)
	d := Deps{Media: store, Log: zap.NewNop()}

	req := multipartImages(t, nil, map[string]string{"a.jpg": "aaa", "b.png": "bbb"})
	w := serve(http.MethodPost, "", UploadResource(d), "/resources/upload", req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var got struct {
		Images []media.Asset `json:"images"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got.Images, 2)
	for _, a := range got.Images {
		assert.True(t, strings.HasPrefix(a.URL, "http://localhost:8080/uploads/"))
		_, err := os.Stat(store.Dir() + "/" + a.PublicID)
		assert.NoError(t, err)
	}
}

func TestUploadResourceRejects(t *testing.T) {
	store, err := media.NewLocal(t.TempDir(), "")
	require.NoError(t, err)
	d := Deps{Media: store, Log: zap.NewNop()}

	w := serve(http.MethodPost, "", UploadResource(d), "/resources/upload", multipartImages(t, nil, nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := multipartImages(t, map[string]string{"productId": "abc"}, map[string]string{"a.jpg": "a"})
	w = serve(http.MethodPost, "", UploadResource(d), "/resources/upload", req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// flakyStore fails uploads of "bad.jpg" and records what gets destroyed.
type flakyStore struct {
	mu        sync.Mutex
	destroyed []string
}

func (s *flakyStore) Upload(_ context.Context, filename string, _ io.Reader) (media.Asset, error) {
	if filename == "bad.jpg" {
		return media.Asset{}, errors.New("cdn rejected")
	}
	return media.Asset{URL: "https://cdn/" + filename, PublicID: "verve/" + filename}, nil
}

func (s *flakyStore) Destroy(_ context.Context, publicID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.destroyed = append(s.destroyed, publicID)
	return nil
}

func TestUploadAllCleansUpOnFailure(t *testing.T) {
	store := &flakyStore{}
	d := Deps{Media: store, Log: zap.NewNop()}

	req := multipartImages(t, nil, map[string]string{"good.jpg": "g", "bad.jpg": "b"})
	w := serve(http.MethodPost, "", UploadResource(d), "/resources/upload", req)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	// The good upload may or may not have finished before the failure.
	store.mu.Lock()
	defer store.mu.Unlock()
	for _, id := range store.destroyed {
		assert.Equal(t, "verve/good.jpg", id)
	}
}

func TestPublicIDs(t *testing.T) {
	ids := publicIDs([]media.Asset{{PublicID: "a"}, {}, {PublicID: "b"}})
	assert.Equal(t, []string{"a", "b"}, ids)
}

func TestImportedImagesDerivePublicIDs(t *testing.T) {
	d := Deps{MediaFolder: "verve"}
	images := d.importedImages(3, []string{"https://res.cloudinary.com/demo/image/upload/v1/verve/dress.jpg"})
	require.Len(t, images, 1)
	assert.Equal(t, uint(3), images[0].ProductID)
	assert.Equal(t, "verve/dress", images[0].PublicID)
}

func TestCategoryCacheSettle(t *testing.T) {
	cache := newCategoryCache()

	cache.put("dresses", 4)
	id, ok := cache.get("dresses")
	require.True(t, ok, "pending ids are visible within the row")
	assert.Equal(t, uint(4), id)

	cache.settle(errors.New("row rolled back"))
	_, ok = cache.get("dresses")
	assert.False(t, ok, "ids from a failed row are dropped")

	cache.put("skirts", 7)
	cache.settle(nil)
	cache.put("tops", 9)
	cache.settle(errors.New("row rolled back"))

	id, ok = cache.get("skirts")
	require.True(t, ok)
	assert.Equal(t, uint(7), id)
	_, ok = cache.get("tops")
	assert.False(t, ok)
}

func TestResolveCategoryWithoutQuery(t *testing.T) {
	cache := newCategoryCache()
	cache.put("dresses", 4)
	cache.settle(nil)

	// neither case reaches the database
	id, err := resolveCategory(nil, "  ", cache)
	require.NoError(t, err)
	assert.Nil(t, id)

	id, err = resolveCategory(nil, " Dresses ", cache)
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, uint(4), *id)
}
