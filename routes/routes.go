package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/thedevbrian1/thevervefashion-fly/auth"
	"github.com/thedevbrian1/thevervefashion-fly/catalog"
	checkoutControllers "github.com/thedevbrian1/thevervefashion-fly/controllers/checkout"
	"github.com/thedevbrian1/thevervefashion-fly/events"
	"github.com/thedevbrian1/thevervefashion-fly/media"
	"github.com/thedevbrian1/thevervefashion-fly/session"
)

// Deps is everything the route groups hand to their controllers.
type Deps struct {
	DB          *gorm.DB
	Catalog     *catalog.Repository
	Sessions    *session.Store
	Checkout    checkoutControllers.Submitter
	Media       media.Store
	MediaFolder string
	Hub         *events.Hub
	Verifier    auth.Verifier
	Admins      auth.AdminStore
	Issuer      *auth.Issuer
	Login       auth.LoginConfig
	Log         *zap.Logger
}

// SetupRoutes is the single entry-point that wires up the storefront, auth
// and dashboard route groups.
func SetupRoutes(r *gin.Engine, d Deps) {
	// 1️⃣ Public storefront routes (cookie session only)
	SetupStorefrontRoutes(r, d)

	// 2️⃣ Dashboard sign-in
	SetupAuthRoutes(r, d)

	// 3️⃣ Dashboard routes (JWT-protected)
	SetupDashboardRoutes(r, d)
}
