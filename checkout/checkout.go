// Package checkout turns the visitor cart and contact form into a pending
// checkout request and hands it to the payment worker.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/thedevbrian1/thevervefashion-fly/cart"
	"github.com/thedevbrian1/thevervefashion-fly/catalog"
	"github.com/thedevbrian1/thevervefashion-fly/models"
)

// MsgPromptSent is flashed after a successful submission.
const MsgPromptSent = "You will receive a prompt on your phone. Complete the transaction by entering your MPESA pin."

var ErrEmptyCart = errors.New("cart is empty")

type Catalog interface {
	LookupMany(ctx context.Context, ids []int) (map[int]catalog.Summary, error)
}

type Store interface {
	Create(ctx context.Context, req *models.CheckoutRequest) error
}

// GormStore persists checkout requests with their items.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Create(ctx context.Context, req *models.CheckoutRequest) error {
	return s.db.WithContext(ctx).Create(req).Error
}

type Service struct {
	catalog   Catalog
	store     Store
	publisher Publisher
	log       *zap.Logger
	now       func() time.Time
}

func NewService(c Catalog, s Store, p Publisher, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{catalog: c, store: s, publisher: p, log: log, now: time.Now}
}

// NewReference returns YYYYMMDDhhmmss-<uuid>.
func NewReference(t time.Time) string {
	return t.Format("20060102150405") + "-" + uuid.NewString()
}

// Submit prices the cart lines against the catalog, stores a pending
// checkout request and publishes it. Lines with a zero count or whose
// product no longer exists are left out.
func (s *Service) Submit(ctx context.Context, form Form, lines []cart.LineItem) (*models.CheckoutRequest, error) {
	mpesa, err := NormalizePhone(form.Mpesa)
	if err != nil {
		return nil, fmt.Errorf("mpesa: %w", err)
	}
	phone, err := NormalizePhone(form.Phone)
	if err != nil {
		return nil, fmt.Errorf("phone: %w", err)
	}

	ids := make([]int, 0, len(lines))
	for _, l := range lines {
		if l.Count > 0 {
			ids = append(ids, l.ProductID)
		}
	}
	if len(ids) == 0 {
		return nil, ErrEmptyCart
	}

	products, err := s.catalog.LookupMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	req := &models.CheckoutRequest{
		Reference:   NewReference(now),
		MpesaNumber: mpesa,
		Phone:       phone,
		Email:       form.Email,
		Total:       decimal.Zero,
		Status:      models.CheckoutStatusPending,
		CreatedAt:   now,
	}
	for _, l := range lines {
		p, ok := products[l.ProductID]
		if !ok || l.Count <= 0 {
			continue
		}
		req.Items = append(req.Items, models.CheckoutItem{
			ProductID: uint(p.ID),
			Title:     p.Title,
			Price:     p.Price,
			Quantity:  l.Count,
		})
		req.Total = req.Total.Add(p.Price.Mul(decimal.NewFromInt(int64(l.Count))))
	}
	if len(req.Items) == 0 {
		return nil, ErrEmptyCart
	}

	if err := s.store.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("save checkout request: %w", err)
	}

	if err := s.publisher.Publish(ctx, messageFrom(req)); err != nil {
		s.log.Error("publish checkout request", zap.String("reference", req.Reference), zap.Error(err))
		return nil, err
	}
	return req, nil
}

func messageFrom(req *models.CheckoutRequest) Message {
	msg := Message{
		Reference:   req.Reference,
		MpesaNumber: req.MpesaNumber,
		Phone:       req.Phone,
		Email:       req.Email,
		Total:       req.Total,
		CreatedAt:   req.CreatedAt,
		Items:       make([]MessageItem, 0, len(req.Items)),
	}
	for _, it := range req.Items {
		msg.Items = append(msg.Items, MessageItem{
			ProductID: it.ProductID,
			Title:     it.Title,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
	}
	return msg
}
