package productcontroller

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/thedevbrian1/thevervefashion-fly/models"
)

// ProductInput is the validated new-product form.
type ProductInput struct {
	Title         string
	Description   string
	Category      string
	Quantity      int
	Price         decimal.Decimal
	ComparePrice  decimal.NullDecimal
	PurchasePrice decimal.Decimal
	SKU           string
	Sizes         []string
	Colours       []string
}

func validateText(s string) string {
	if len(strings.TrimSpace(s)) < 2 {
		return "Text is too short"
	}
	return ""
}

func validatePrice(s string) (decimal.Decimal, string) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || !d.IsPositive() {
		return decimal.Decimal{}, "Price must be a positive number"
	}
	return d, ""
}

// splitValues turns "S, M ,L" into [S M L].
func splitValues(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// parseProductForm reads the new-product form. The returned map holds one
// message per invalid field and is empty when the input is valid.
func parseProductForm(c *gin.Context) (ProductInput, map[string]string) {
	errs := map[string]string{}
	in := ProductInput{
		Title:       strings.TrimSpace(c.PostForm("title")),
		Description: strings.TrimSpace(c.PostForm("description")),
		Category:    strings.TrimSpace(c.PostForm("category")),
		SKU:         strings.TrimSpace(c.PostForm("sku")),
		Sizes:       splitValues(c.PostForm("size")),
		Colours:     splitValues(c.PostForm("colour")),
	}

	if msg := validateText(in.Title); msg != "" {
		errs["title"] = msg
	}
	if msg := validateText(in.Description); msg != "" {
		errs["description"] = msg
	}
	if in.Category == "" {
		errs["category"] = "Category is required"
	}
	if len(in.Colours) == 0 {
		errs["colour"] = "Colour is required"
	}

	if raw := strings.TrimSpace(c.PostForm("quantity")); raw != "" {
		q, err := strconv.Atoi(raw)
		if err != nil || q < 0 {
			errs["quantity"] = "Quantity must be a whole number"
		}
		in.Quantity = q
	}

	var msg string
	if in.Price, msg = validatePrice(c.PostForm("price")); msg != "" {
		errs["price"] = msg
	}
	if in.PurchasePrice, msg = validatePrice(c.PostForm("purchase-price")); msg != "" {
		errs["purchasePrice"] = msg
	}
	if raw := c.PostForm("compare-price"); strings.TrimSpace(raw) != "" {
		cp, msg := validatePrice(raw)
		if msg != "" {
			errs["comparePrice"] = msg
		} else {
			in.ComparePrice = decimal.NewNullDecimal(cp)
		}
	}
	return in, errs
}

// toProduct builds the rows written for a new product. Images are attached
// by the caller once uploaded.
func (in ProductInput) toProduct(categoryID uint) models.Product {
	p := models.Product{
		Title:       in.Title,
		Description: in.Description,
		CategoryID:  &categoryID,
		Item: models.ProductItem{
			Quantity:      in.Quantity,
			Price:         in.Price,
			ComparePrice:  in.ComparePrice,
			PurchasePrice: in.PurchasePrice,
			SKU:           in.SKU,
		},
	}
	for _, v := range []struct {
		title  string
		values []string
	}{{"size", in.Sizes}, {"colour", in.Colours}} {
		if len(v.values) == 0 {
			continue
		}
		variation := models.Variation{Title: v.title}
		for _, value := range v.values {
			variation.Options = append(variation.Options, models.VariationOption{Value: value})
		}
		p.Variations = append(p.Variations, variation)
	}
	return p
}
