package checkoutControllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/thedevbrian1/thevervefashion-fly/cart"
	"github.com/thedevbrian1/thevervefashion-fly/checkout"
	"github.com/thedevbrian1/thevervefashion-fly/models"
	"github.com/thedevbrian1/thevervefashion-fly/session"
)

type fakeSubmitter struct {
	got   []cart.LineItem
	form  checkout.Form
	err   error
	calls int
}

func (f *fakeSubmitter) Submit(_ context.Context, form checkout.Form, lines []cart.LineItem) (*models.CheckoutRequest, error) {
	f.calls++
	f.form = form
	f.got = lines
	if f.err != nil {
		return nil, f.err
	}
	return &models.CheckoutRequest{
		Reference: "20260314092653-abc",
		Total:     decimal.RequireFromString("4300"),
		Status:    models.CheckoutStatusPending,
	}, nil
}

func setup(t *testing.T, svc Submitter) (*session.Store, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	checkout.RegisterValidators()

	store, err := session.NewStore(session.Options{
		HashKey:  []byte("0123456789abcdef0123456789abcdef"),
		BlockKey: []byte("abcdef0123456789"),
		MaxAge:   time.Hour,
	}, zap.NewNop())
	require.NoError(t, err)

	r := gin.New()
	r.POST("/checkout", Checkout(store, svc, zap.NewNop()))
	return store, r
}

func post(t *testing.T, r *gin.Engine, store *session.Store, st cart.State, values url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	token, err := store.Encode(st)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: store.CookieName(), Value: token})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

var validValues = url.Values{
	"mpesa": {"0712 345 678"},
	"phone": {"0712345678"},
	"email": {"jane@example.com"},
}

func TestCheckoutSuccess(t *testing.T) {
	svc := &fakeSubmitter{}
	store, r := setup(t, svc)
	st := cart.State{Items: []cart.LineItem{{ProductID: 1, Count: 2}}}

	w := post(t, r, store, st, validValues)
	require.Equal(t, http.StatusCreated, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "20260314092653-abc", body["reference"])
	assert.Equal(t, "4300.00", body["total"])
	assert.Equal(t, "pending", body["status"])

	assert.Equal(t, st.Items, svc.got)
	assert.Equal(t, "jane@example.com", svc.form.Email)

	var saved cart.State
	for _, c := range w.Result().Cookies() {
		if c.Name == store.CookieName() {
			saved = store.Decode(c.Value)
		}
	}
	assert.Equal(t, st.Items, saved.Items, "cart kept until payment")
	require.NotNil(t, saved.Flash)
	assert.Equal(t, checkout.MsgPromptSent, saved.Flash.Text)
}

func TestCheckoutFieldErrors(t *testing.T) {
	svc := &fakeSubmitter{}
	store, r := setup(t, svc)

	w := post(t, r, store, cart.State{}, url.Values{"mpesa": {"12"}, "phone": {"0712345678"}})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		FieldErrors map[string]string `json:"fieldErrors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body.FieldErrors, "mpesa")
	assert.Contains(t, body.FieldErrors, "email")
	assert.NotContains(t, body.FieldErrors, "phone")
	assert.Zero(t, svc.calls)
}

func TestCheckoutEmptyCart(t *testing.T) {
	store, r := setup(t, &fakeSubmitter{err: checkout.ErrEmptyCart})
	w := post(t, r, store, cart.State{}, validValues)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, w.Result().Cookies())
}

func TestCheckoutServiceFailure(t *testing.T) {
	store, r := setup(t, &fakeSubmitter{err: errors.New("broker down")})
	w := post(t, r, store, cart.State{Items: []cart.LineItem{{ProductID: 1, Count: 1}}}, validValues)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, w.Result().Cookies())
}
