package catalog

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Sortable columns; anything else falls back to created_at.
var sortColumns = map[string]string{
	"created_at": "products.created_at",
	"title":      "products.title",
	"price":      "pi.price",
}

type Filter struct {
	Search   string
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	SortBy   string
	Order    string
	Limit    int
}

// ParseFilter reads the product list query string.
func ParseFilter(q url.Values) (Filter, error) {
	f := Filter{
		Search:   strings.TrimSpace(q.Get("search")),
		Category: strings.TrimSpace(q.Get("category")),
		SortBy:   q.Get("sort_by"),
		Order:    strings.ToLower(q.Get("order")),
	}
	if _, ok := sortColumns[f.SortBy]; !ok {
		f.SortBy = "created_at"
	}
	if f.Order != "asc" && f.Order != "desc" {
		f.Order = "desc"
	}

	for _, p := range []struct {
		key string
		dst **decimal.Decimal
	}{{"min_price", &f.MinPrice}, {"max_price", &f.MaxPrice}} {
		raw := strings.TrimSpace(q.Get(p.key))
		if raw == "" {
			continue
		}
		d, err := decimal.NewFromString(raw)
		if err != nil || d.IsNegative() {
			return Filter{}, fmt.Errorf("invalid %s", p.key)
		}
		*p.dst = &d
	}

	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return Filter{}, fmt.Errorf("invalid limit")
		}
		f.Limit = n
	}
	return f, nil
}

func (f Filter) OrderClause() string {
	col, ok := sortColumns[f.SortBy]
	if !ok {
		col = sortColumns["created_at"]
	}
	order := "desc"
	if f.Order == "asc" {
		order = "asc"
	}
	return col + " " + order
}
