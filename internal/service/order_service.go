package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nofari1993-ISR/floriisrael-sub000/internal/domain"
	"github.com/nofari1993-ISR/floriisrael-sub000/internal/repository"
)

var (
	ErrMissingCheckoutField = errors.New("missing required checkout field")
	ErrEmptyOrder           = errors.New("order has no items")
)

// CheckoutItem is one line of the bouquet being ordered. FlowerID links back
// to the inventory row when the line corresponds to one; extras like vases
// carry no ID.
type CheckoutItem struct {
	Name      string     `json:"name"`
	FlowerID  *uuid.UUID `json:"flower_id,omitempty"`
	Quantity  int        `json:"quantity"`
	UnitPrice float64    `json:"unit_price"`
}

type CheckoutRequest struct {
	ShopID          uuid.UUID      `json:"shop_id"`
	CustomerName    string         `json:"customer_name"`
	CustomerPhone   string         `json:"customer_phone"`
	RecipientName   string         `json:"recipient_name"`
	DeliveryAddress string         `json:"delivery_address"`
	Pickup          bool           `json:"pickup"`
	DeliveryDate    time.Time      `json:"delivery_date"`
	Greeting        string         `json:"greeting"`
	Items           []CheckoutItem `json:"items"`
}

// CheckoutResult is returned after an order is placed. WhatsAppLink opens a
// prefilled chat with the shop so the customer can follow up directly.
type CheckoutResult struct {
	Order        *domain.Order `json:"order"`
	WhatsAppLink string        `json:"whatsapp_link,omitempty"`
}

type orderEventPublisher interface {
	PublishOrderCreated(ctx context.Context, order *domain.Order) error
}

type OrderService struct {
	orders  repository.OrderRepository
	shops   repository.ShopRepository
	flowers repository.FlowerRepository
	events  orderEventPublisher
	log     *zap.SugaredLogger
}

func NewOrderService(
	orders repository.OrderRepository,
	shops repository.ShopRepository,
	flowers repository.FlowerRepository,
	publisher orderEventPublisher,
	log *zap.SugaredLogger,
) *OrderService {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &OrderService{
		orders:  orders,
		shops:   shops,
		flowers: flowers,
		events:  publisher,
		log:     log,
	}
}

// Checkout validates the request, computes the total server-side, persists the
// order, and decrements stock for every line tied to an inventory row. Stock
// is floored at zero rather than reserved; a concurrent oversell surfaces to
// the shop owner, not the customer.
func (s *OrderService) Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	if err := validateCheckout(req); err != nil {
		return nil, err
	}

	shop, err := s.shops.GetByID(ctx, req.ShopID)
	if err != nil {
		return nil, err
	}

	items := make([]domain.OrderItem, len(req.Items))
	total := 0.0
	for i, item := range req.Items {
		items[i] = domain.OrderItem{
			Name:      item.Name,
			FlowerID:  item.FlowerID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
		total += item.UnitPrice * float64(item.Quantity)
	}

	order := &domain.Order{
		ID:              uuid.New(),
		ShopID:          req.ShopID,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		RecipientName:   req.RecipientName,
		DeliveryAddress: req.DeliveryAddress,
		Pickup:          req.Pickup,
		DeliveryDate:    req.DeliveryDate,
		Greeting:        req.Greeting,
		Status:          domain.OrderStatusPending,
		TotalPrice:      math.Round(total*100) / 100,
		Items:           items,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	for _, item := range order.Items {
		if item.FlowerID == nil {
			continue
		}
		if err := s.flowers.DecrementStock(ctx, *item.FlowerID, item.Quantity); err != nil {
			s.log.Warnw("stock decrement failed",
				"order_id", order.ID, "flower_id", *item.FlowerID, "error", err)
		}
	}

	if s.events != nil {
		if err := s.events.PublishOrderCreated(ctx, order); err != nil {
			s.log.Warnw("order event publish failed", "order_id", order.ID, "error", err)
		}
	}

	return &CheckoutResult{
		Order:        order,
		WhatsAppLink: whatsAppLink(shop.Phone, order),
	}, nil
}

func (s *OrderService) Get(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return s.orders.GetByID(ctx, id)
}

func (s *OrderService) ListByShop(ctx context.Context, shopID uuid.UUID) ([]*domain.Order, error) {
	return s.orders.ListByShop(ctx, shopID)
}

// UpdateStatus writes any status in the fixed set; there is no enforced
// transition machine.
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	return s.orders.UpdateStatus(ctx, id, status)
}

// Cancel writes the terminal CANCELLED status.
func (s *OrderService) Cancel(ctx context.Context, id uuid.UUID) error {
	return s.orders.UpdateStatus(ctx, id, domain.OrderStatusCancelled)
}

func (s *OrderService) SetInternalNotes(ctx context.Context, id uuid.UUID, notes string) error {
	return s.orders.SetInternalNotes(ctx, id, notes)
}

func validateCheckout(req CheckoutRequest) error {
	switch {
	case req.CustomerName == "":
		return fmt.Errorf("%w: customer_name", ErrMissingCheckoutField)
	case req.CustomerPhone == "":
		return fmt.Errorf("%w: customer_phone", ErrMissingCheckoutField)
	case req.RecipientName == "":
		return fmt.Errorf("%w: recipient_name", ErrMissingCheckoutField)
	case !req.Pickup && req.DeliveryAddress == "":
		return fmt.Errorf("%w: delivery_address", ErrMissingCheckoutField)
	case req.DeliveryDate.IsZero():
		return fmt.Errorf("%w: delivery_date", ErrMissingCheckoutField)
	}
	if len(req.Items) == 0 {
		return ErrEmptyOrder
	}
	for _, item := range req.Items {
		if item.Name == "" || item.Quantity <= 0 || item.UnitPrice < 0 {
			return fmt.Errorf("%w: items", ErrMissingCheckoutField)
		}
	}
	return nil
}

// whatsAppLink builds a wa.me deep link to the shop's phone with a prefilled
// message referencing the new order.
func whatsAppLink(phone string, order *domain.Order) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	if digits == "" {
		return ""
	}

	text := fmt.Sprintf("Hi! I just placed order %s for %s (total %.2f ILS).",
		order.ID, order.RecipientName, order.TotalPrice)
	return fmt.Sprintf("https://wa.me/%s?text=%s", digits, url.QueryEscape(text))
}
