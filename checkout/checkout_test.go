package checkout

import (
	"context"
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
	"go.uber.org/zap/zaptest/observer"

	"github.com/thedevbrian1/thevervefashion-fly/cart"
	"github.com/thedevbrian1/thevervefashion-fly/catalog"
	"github.com/thedevbrian1/thevervefashion-fly/models"
)

type fakeCatalog map[int]catalog.Summary

func (f fakeCatalog) LookupMany(_ context.Context, ids []int) (map[int]catalog.Summary, error) {
	out := make(map[int]catalog.Summary)
	for _, id := range ids {
		if s, ok := f[id]; ok {
			out[id] = s
		}
	}
	return out, nil
}

type fakeStore struct {
	saved []*models.CheckoutRequest
	err   error
}

func (s *fakeStore) Create(_ context.Context, req *models.CheckoutRequest) error {
	if s.err != nil {
		return s.err
	}
	req.ID = uint(len(s.saved) + 1)
	s.saved = append(s.saved, req)
	return nil
}

type recordingPublisher struct {
	msgs []Message
	err  error
}

func (p *recordingPublisher) Publish(_ context.Context, msg Message) error {
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, msg)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

var testCatalog = fakeCatalog{
	1: {ID: 1, Title: "Linen dress", Price: decimal.RequireFromString("3500")},
	2: {ID: 2, Title: "Basic tee", Price: decimal.RequireFromString("799.50")},
}

var validForm = Form{Mpesa: "0712 345 678", Phone: "+254 110 000 111", Email: "jane@example.com"}

func TestNormalizePhone(t *testing.T) {
	valid := map[string]string{
		"0712345678":     "254712345678",
		"0712 345 678":   "254712345678",
		"+254712345678":  "254712345678",
		"254712345678":   "254712345678",
		"712345678":      "254712345678",
		"0110-000-111":   "254110000111",
		"(0722) 000 000": "254722000000",
	}
	for in, want := range valid {
		got, err := NormalizePhone(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "0212345678", "07123", "0712345678901", "07123x5678", "25471234567+", "+1 202 555 0100"} {
		_, err := NormalizePhone(in)
		assert.ErrorIs(t, err, ErrInvalidPhone, in)
	}
}

func TestSubmit(t *testing.T) {
	store := &fakeStore{}
	pub := &recordingPublisher{}
	svc := NewService(testCatalog, store, pub, nil)
	svc.now = func() time.Time { return time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC) }

	lines := []cart.LineItem{
		{ProductID: 1, Count: 2},
		{ProductID: 2, Count: 1},
		{ProductID: 3, Count: 1}, // no longer in the catalog
		{ProductID: 4, Count: 0},
	}
	req, err := svc.Submit(context.Background(), validForm, lines)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(req.Reference, "20260314092653-"))
	assert.Len(t, req.Reference, len("20260314092653-")+36)
	assert.Equal(t, "254712345678", req.MpesaNumber)
	assert.Equal(t, "254110000111", req.Phone)
	assert.Equal(t, models.CheckoutStatusPending, req.Status)
	require.Len(t, req.Items, 2)
	assert.Equal(t, "Linen dress", req.Items[0].Title)
	assert.Equal(t, 2, req.Items[0].Quantity)
	assert.True(t, req.Total.Equal(decimal.RequireFromString("7799.50")), req.Total.String())

	require.Len(t, store.saved, 1)
	require.Len(t, pub.msgs, 1)
	assert.Equal(t, req.Reference, pub.msgs[0].Reference)
	assert.Len(t, pub.msgs[0].Items, 2)
}

func TestSubmitEmptyCart(t *testing.T) {
	svc := NewService(testCatalog, &fakeStore{}, &recordingPublisher{}, nil)

	_, err := svc.Submit(context.Background(), validForm, nil)
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = svc.Submit(context.Background(), validForm, []cart.LineItem{{ProductID: 1, Count: 0}})
	assert.ErrorIs(t, err, ErrEmptyCart)

	// Every product is gone from the catalog.
	_, err = svc.Submit(context.Background(), validForm, []cart.LineItem{{ProductID: 9, Count: 1}})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestSubmitFailures(t *testing.T) {
	lines := []cart.LineItem{{ProductID: 1, Count: 1}}

	t.Run("store", func(t *testing.T) {
		pub := &recordingPublisher{}
		svc := NewService(testCatalog, &fakeStore{err: errors.New("db down")}, pub, nil)
		_, err := svc.Submit(context.Background(), validForm, lines)
		assert.Error(t, err)
		assert.Empty(t, pub.msgs)
	})

	t.Run("publisher", func(t *testing.T) {
		svc := NewService(testCatalog, &fakeStore{}, &recordingPublisher{err: errors.New("channel closed")}, nil)
		_, err := svc.Submit(context.Background(), validForm, lines)
		assert.EqualError(t, err, "channel closed")
	})

	t.Run("invalid phone", func(t *testing.T) {
		svc := NewService(testCatalog, &fakeStore{}, &recordingPublisher{}, nil)
		form := validForm
		form.Phone = "12345"
		_, err := svc.Submit(context.Background(), form, lines)
		assert.ErrorIs(t, err, ErrInvalidPhone)
	})
}

func TestFormBinding(t *testing.T) {
	gin.SetMode(gin.TestMode)
	RegisterValidators()

	bind := func(values url.Values) error {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(values.Encode()))
		c.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		var f Form
		return c.ShouldBind(&f)
	}

	ok := url.Values{"mpesa": {"0712345678"}, "phone": {"0712345678"}, "email": {"jane@example.com"}}
	assert.NoError(t, bind(ok))

	err := bind(url.Values{"mpesa": {"0212"}, "email": {"not-an-email"}})
	require.Error(t, err)
	fields := FieldErrors(err)
	assert.Equal(t, map[string]string{
		"mpesa": "M-Pesa number must be a valid Kenyan mobile number",
		"phone": "Contact number is required",
		"email": "Email must be a valid email address",
	}, fields)

	assert.Nil(t, FieldErrors(errors.New("boom")))
}

func TestLogPublisher(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	pub := NewLogPublisher(zap.New(core))

	require.NoError(t, pub.Publish(context.Background(), Message{
		Reference: "20260314092653-x",
		Total:     decimal.RequireFromString("100"),
	}))
	require.NoError(t, pub.Close())

	entries := logs.FilterField(zap.String("reference", "20260314092653-x")).All()
	require.Len(t, entries, 1)
	assert.Equal(t, "100.00", entries[0].ContextMap()["total"])
}
