package productcontroller

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/thedevbrian1/thevervefashion-fly/cart"
	"github.com/thedevbrian1/thevervefashion-fly/catalog"
	"github.com/thedevbrian1/thevervefashion-fly/events"
	"github.com/thedevbrian1/thevervefashion-fly/media"
	"github.com/thedevbrian1/thevervefashion-fly/models"
	"github.com/thedevbrian1/thevervefashion-fly/session"
)

// Reader is the read side of catalog.Repository.
type Reader interface {
	List(ctx context.Context, f catalog.Filter) ([]models.Product, error)
	Detail(ctx context.Context, id int) (catalog.Detail, error)
	All(ctx context.Context) ([]models.Product, error)
	Categories(ctx context.Context) ([]models.Category, error)
	CategoryBySlug(ctx context.Context, slug string) (models.Category, error)
}

type Publisher interface {
	Publish(events.Event)
}

// Deps is what the dashboard handlers write through.
type Deps struct {
	DB          *gorm.DB
	Catalog     Reader
	Media       media.Store
	MediaFolder string
	Events      Publisher
	Sessions    *session.Store
	Log         *zap.Logger
}

func (d Deps) publish(kind string, p models.Product) {
	if d.Events != nil {
		d.Events.Publish(events.Event{Type: kind, ProductID: p.ID, Title: p.Title})
	}
}

// flash queues a message for the next dashboard page load.
func (d Deps) flash(c *gin.Context, text string) {
	if d.Sessions == nil {
		return
	}
	st := cart.WithFlash(d.Sessions.Load(c.Request), cart.Flash{Kind: cart.FlashSuccess, Text: text})
	if err := d.Sessions.Save(c.Writer, st); err != nil {
		d.Log.Warn("save flash", zap.Error(err))
	}
}

// destroy removes uploaded assets, logging failures. It runs after the
// request context may be gone, so it uses its own.
func (d Deps) destroy(publicIDs ...string) {
	for _, id := range publicIDs {
		if id == "" {
			continue
		}
		if err := d.Media.Destroy(context.Background(), id); err != nil {
			d.Log.Warn("destroy image", zap.String("public_id", id), zap.Error(err))
		}
	}
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// notFoundOr writes 404 for missing records and 500 otherwise.
func notFoundOr(c *gin.Context, err error, what string, log *zap.Logger) {
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, catalog.ErrProductNotFound) || errors.Is(err, catalog.ErrCategoryNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": what + " not found"})
		return
	}
	log.Error("load "+what, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve " + what})
}
