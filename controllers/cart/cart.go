package cartControllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/thedevbrian1/thevervefashion-fly/cart"
	"github.com/thedevbrian1/thevervefashion-fly/catalog"
	"github.com/thedevbrian1/thevervefashion-fly/middleware"
	"github.com/thedevbrian1/thevervefashion-fly/session"
)

// Catalog is the part of catalog.Repository the cart needs.
type Catalog interface {
	Lookup(ctx context.Context, id int) (catalog.Summary, error)
	LookupMany(ctx context.Context, ids []int) (map[int]catalog.Summary, error)
}

// ActionInput is the cart form. JSON bodies may send id and count as numbers
// or strings.
type ActionInput struct {
	Action string      `form:"_action" json:"_action"`
	ID     json.Number `form:"id" json:"id"`
	Count  json.Number `form:"count" json:"count"`
}

func actionError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": true, "message": msg})
}

// POST /cart
func CartAction(store *session.Store, products Catalog, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in ActionInput
		if err := c.ShouldBind(&in); err != nil {
			actionError(c, http.StatusBadRequest, "Invalid request body")
			return
		}

		action, err := cart.ParseAction(in.Action, in.ID.String(), in.Count.String())
		if err != nil {
			actionError(c, http.StatusBadRequest, err.Error())
			return
		}

		state := store.Load(c.Request)

		// Only products that exist can be added.
		if add, ok := action.(cart.AddToCart); ok {
			if _, err := products.Lookup(c.Request.Context(), add.ProductID); err != nil {
				if errors.Is(err, catalog.ErrProductNotFound) {
					actionError(c, http.StatusNotFound, "Product not found")
					return
				}
				log.Error("cart product lookup", zap.Int("product_id", add.ProductID), zap.Error(err))
				actionError(c, http.StatusInternalServerError, "Failed to validate product")
				return
			}
		}

		next, _, err := cart.Apply(state, action)
		if err != nil {
			actionError(c, http.StatusBadRequest, err.Error())
			return
		}

		if err := store.Save(c.Writer, next); err != nil {
			if errors.Is(err, session.ErrTooLarge) {
				actionError(c, http.StatusBadRequest, cart.MsgCartFull)
				return
			}
			log.Error("save session", zap.Error(err))
			actionError(c, http.StatusInternalServerError, "Failed to save cart")
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// LineView is a cart line joined with its catalog entry. Missing is set when
// the product has been removed from the catalog since it was added.
type LineView struct {
	ProductID    int                 `json:"productId"`
	Count        int                 `json:"count"`
	Title        string              `json:"title,omitempty"`
	Price        decimal.Decimal     `json:"price"`
	ComparePrice decimal.NullDecimal `json:"comparePrice"`
	Available    int                 `json:"available"`
	Image        string              `json:"image,omitempty"`
	Subtotal     decimal.Decimal     `json:"subtotal"`
	Missing      bool                `json:"missing,omitempty"`
}

// BuildLines joins lines with products and returns the views and the order
// total. Missing products contribute nothing to the total.
func BuildLines(lines []cart.LineItem, products map[int]catalog.Summary) ([]LineView, decimal.Decimal) {
	views := make([]LineView, 0, len(lines))
	total := decimal.Zero
	for _, l := range lines {
		p, ok := products[l.ProductID]
		if !ok {
			views = append(views, LineView{ProductID: l.ProductID, Count: l.Count, Missing: true})
			continue
		}
		v := LineView{
			ProductID:    l.ProductID,
			Count:        l.Count,
			Title:        p.Title,
			Price:        p.Price,
			ComparePrice: p.ComparePrice,
			Available:    p.Quantity,
			Subtotal:     p.Price.Mul(decimal.NewFromInt(int64(l.Count))),
		}
		if len(p.Images) > 0 {
			v.Image = p.Images[0]
		}
		total = total.Add(v.Subtotal)
		views = append(views, v)
	}
	return views, total
}

// GET /cart
func CartView(store *session.Store, products Catalog, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		lines := cart.Read(store.Load(c.Request))

		ids := make([]int, 0, len(lines))
		for _, l := range lines {
			ids = append(ids, l.ProductID)
		}
		found, err := products.LookupMany(c.Request.Context(), ids)
		if err != nil {
			log.Error("cart products lookup", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart products"})
			return
		}

		views, total := BuildLines(lines, found)
		c.JSON(http.StatusOK, gin.H{
			"items": views,
			"count": cart.Quantity(lines),
			"total": total.StringFixed(2),
		})
	}
}

// GET /session
//
// Layout data for every storefront page. The flash is removed from the
// session here, so the cookie is rewritten whenever one was pending.
func Layout(store *session.Store, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		state := store.Load(c.Request)
		next, flash := cart.PopFlash(state)
		if flash != nil {
			if err := store.Save(c.Writer, next); err != nil {
				log.Error("save session", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save session"})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"toastMessage": flash,
			"isLoggedIn":   middleware.IsLoggedIn(c),
			"cartCount":    cart.Quantity(next.Items),
		})
	}
}
