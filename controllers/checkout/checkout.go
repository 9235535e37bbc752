package checkoutControllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/thedevbrian1/thevervefashion-fly/cart"
	"github.com/thedevbrian1/thevervefashion-fly/checkout"
	"github.com/thedevbrian1/thevervefashion-fly/models"
	"github.com/thedevbrian1/thevervefashion-fly/session"
)

type Submitter interface {
	Submit(ctx context.Context, form checkout.Form, lines []cart.LineItem) (*models.CheckoutRequest, error)
}

// POST /checkout
func Checkout(store *session.Store, svc Submitter, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form checkout.Form
		if err := c.ShouldBind(&form); err != nil {
			if fields := checkout.FieldErrors(err); fields != nil {
				c.JSON(http.StatusBadRequest, gin.H{"fieldErrors": fields})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		state := store.Load(c.Request)
		req, err := svc.Submit(c.Request.Context(), form, cart.Read(state))
		switch {
		case errors.Is(err, checkout.ErrEmptyCart):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Your cart is empty"})
			return
		case errors.Is(err, checkout.ErrInvalidPhone):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		case err != nil:
			log.Error("checkout", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit checkout"})
			return
		}

		// The cart stays until the payment is confirmed.
		next := cart.WithFlash(state, cart.Flash{Kind: cart.FlashSuccess, Text: checkout.MsgPromptSent})
		if err := store.Save(c.Writer, next); err != nil {
			log.Error("save session", zap.Error(err))
		}

		c.JSON(http.StatusCreated, gin.H{
			"reference": req.Reference,
			"total":     req.Total.StringFixed(2),
			"status":    req.Status,
		})
	}
}
