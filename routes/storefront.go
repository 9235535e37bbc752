package routes

import (
	"github.com/gin-gonic/gin"

	cartControllers "github.com/thedevbrian1/thevervefashion-fly/controllers/cart"
	checkoutControllers "github.com/thedevbrian1/thevervefashion-fly/controllers/checkout"
	productcontroller "github.com/thedevbrian1/thevervefashion-fly/controllers/product"
	"github.com/thedevbrian1/thevervefashion-fly/middleware"
)

// SetupStorefrontRoutes registers the catalog, cart and checkout endpoints.
func SetupStorefrontRoutes(r *gin.Engine, d Deps) {
	// ─────────── Catalog ───────────
	r.GET("/products", productcontroller.GetProducts(d.Catalog, d.Log))
	r.GET("/products/:id", productcontroller.GetProductByID(d.Catalog, d.Log))
	r.GET("/categories", productcontroller.GetCategories(d.Catalog, d.Log))
	r.GET("/category/:slug", productcontroller.GetCategoryBySlug(d.Catalog, d.Log))

	// ─────────── Cart ───────────
	r.POST("/cart", cartControllers.CartAction(d.Sessions, d.Catalog, d.Log))
	r.GET("/cart", cartControllers.CartView(d.Sessions, d.Catalog, d.Log))
	r.GET("/session", middleware.OptionalUser(d.Issuer), cartControllers.Layout(d.Sessions, d.Log))

	// ─────────── Checkout ───────────
	r.POST("/checkout", checkoutControllers.Checkout(d.Sessions, d.Checkout, d.Log))
}
