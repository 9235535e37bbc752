package routes

import (
	"github.com/gin-gonic/gin"

	adminController "github.com/thedevbrian1/thevervefashion-fly/controllers/admin"
	productcontroller "github.com/thedevbrian1/thevervefashion-fly/controllers/product"
	"github.com/thedevbrian1/thevervefashion-fly/middleware"
)

// SetupDashboardRoutes registers all “/dashboard/*” endpoints plus the
// resource upload. Requires a signed-in admin.
func SetupDashboardRoutes(r *gin.Engine, d Deps) {
	pd := productcontroller.Deps{
		DB:          d.DB,
		Catalog:     d.Catalog,
		Media:       d.Media,
		MediaFolder: d.MediaFolder,
		Events:      d.Hub,
		Sessions:    d.Sessions,
		Log:         d.Log,
	}
	requireAdmin := middleware.RequireAdmin(d.Issuer)

	r.POST("/resources/upload", requireAdmin, productcontroller.UploadResource(pd))

	dashboard := r.Group("/dashboard")
	dashboard.Use(requireAdmin)
	{
		// ─────────── Product Management ───────────
		products := dashboard.Group("/products")
		{
			products.GET("", productcontroller.GetProducts(d.Catalog, d.Log))
			products.POST("", productcontroller.CreateProduct(pd))
			products.GET("/export", productcontroller.ExportProductsToExcel(d.Catalog, d.Log))
			products.POST("/import", productcontroller.ImportProductsFromExcel(pd))
			products.GET("/:id", productcontroller.GetProductByID(d.Catalog, d.Log))
			products.PUT("/:id", productcontroller.UpdateProduct(pd))
			products.DELETE("/:id", productcontroller.DeleteProduct(pd))
			products.POST("/:id/images", productcontroller.AddImages(pd))
			products.POST("/:id/variations", productcontroller.AddVariation(pd))
		}
		dashboard.DELETE("/images/:id", productcontroller.DeleteImage(pd))
		dashboard.DELETE("/variations/:id", productcontroller.DeleteVariation(pd))

		// ─────────── Category Management ───────────
		categories := dashboard.Group("/categories")
		{
			categories.GET("", productcontroller.GetCategories(d.Catalog, d.Log))
			categories.POST("", productcontroller.CreateCategory(pd))
			categories.PUT("/:id", productcontroller.UpdateCategory(pd))
			categories.DELETE("/:id", productcontroller.DeleteCategory(pd))
		}

		// Live catalog updates for open dashboards
		dashboard.GET("/ws", d.Hub.ServeWS)

		// ─────────── Admin Approval Workflow ───────────
		admins := dashboard.Group("/admins")
		admins.Use(middleware.RequireSuperAdmin())
		adminStore := adminController.NewGormStore(d.DB)
		{
			admins.GET("", adminController.GetAllAdmins(adminStore, d.Log))
			admins.GET("/pending", adminController.ListPendingAdmins(adminStore, d.Log))
			admins.POST("/approve", adminController.ApproveAdmin(adminStore, d.Log))
			admins.POST("/reject", adminController.RejectAdmin(adminStore, d.Log))
		}
	}
}
