package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/foodtrove/internal/cart"
	"github.com/pageza/foodtrove/internal/models"
)

const receiptURLExpiry = 15 * time.Minute

// PlaceOrderInput is the checkout form after validation.
type PlaceOrderInput struct {
	Delivery cart.Delivery
	Payment  cart.Payment
	// UserID is the logged-in user; zero falls back to the demo user.
	UserID int
}

// CheckoutService turns a visitor's cart into an order.
type CheckoutService struct {
	db         *gorm.DB
	carts      *CartService
	receipts   ReceiptArchiver
	demoUserID int
}

// NewCheckoutService creates the checkout service. receipts may be nil.
func NewCheckoutService(db *gorm.DB, carts *CartService, receipts ReceiptArchiver, demoUserID int) *CheckoutService {
	return &CheckoutService{db: db, carts: carts, receipts: receipts, demoUserID: demoUserID}
}

// PlaceOrder pushes the cart to the demo API, records the order, archives the
// receipt when an archive is configured and removes the ordered lines from the
// cart. The cart is kept when the upstream push fails.
func (s *CheckoutService) PlaceOrder(ctx context.Context, sessionID string, in PlaceOrderInput) (*models.Order, error) {
	charge, ok := in.Delivery.Charge()
	if !ok {
		return nil, ErrInvalidDelivery
	}
	if !in.Payment.Valid() {
		return nil, ErrInvalidPayment
	}

	c, err := s.carts.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if c.Empty() {
		return nil, ErrEmptyCart
	}

	userID := in.UserID
	if userID <= 0 {
		userID = s.demoUserID
	}
	// push the snapshot the order is priced from, not whatever the cart holds by now
	remote, err := s.carts.CreateCart(ctx, sessionID, userID, LineItems(c))
	if err != nil {
		return nil, err
	}

	totals := c.CheckoutTotals(in.Delivery)
	order := &models.Order{
		ID:             uuid.New(),
		SessionID:      sessionID,
		UserID:         userID,
		RemoteCartID:   remote.ID,
		Items:          models.OrderItems(c.Items),
		Delivery:       string(in.Delivery),
		Payment:        string(in.Payment),
		Subtotal:       totals.Subtotal,
		DeliveryCharge: charge,
		Total:          totals.Total,
	}
	if err := s.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	if s.receipts != nil {
		s.archive(ctx, order)
	}

	if _, err := s.carts.RemoveOrdered(ctx, sessionID, c.Items); err != nil {
		log.Printf("Failed to clear cart after order %s: %v", order.ID, err)
	}

	log.Printf("Successfully placed order %s (remote cart %d)", order.ID, order.RemoteCartID)
	return order, nil
}

func (s *CheckoutService) archive(ctx context.Context, order *models.Order) {
	body, err := json.Marshal(order)
	if err != nil {
		log.Printf("Failed to encode receipt for order %s: %v", order.ID, err)
		return
	}
	key := fmt.Sprintf("receipts/%s/%s.json", order.CreatedAt.UTC().Format("2006/01/02"), order.ID)
	if err := s.receipts.PutReceipt(ctx, key, body); err != nil {
		log.Printf("Failed to archive receipt for order %s: %v", order.ID, err)
		return
	}
	if err := s.db.WithContext(ctx).Model(order).Update("receipt_key", key).Error; err != nil {
		log.Printf("Failed to record receipt key for order %s: %v", order.ID, err)
		return
	}
	order.ReceiptKey = key
}

// Order returns an order placed from sessionID.
func (s *CheckoutService) Order(ctx context.Context, sessionID, orderID string) (*models.Order, error) {
	id, err := uuid.Parse(orderID)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	var order models.Order
	err = s.db.WithContext(ctx).Where("id = ? AND session_id = ?", id, sessionID).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ReceiptURL returns a short-lived download link for the order's receipt, or
// an empty string when none was archived.
func (s *CheckoutService) ReceiptURL(ctx context.Context, order *models.Order) (string, error) {
	if s.receipts == nil || order.ReceiptKey == "" {
		return "", nil
	}
	return s.receipts.GeneratePresignedURL(ctx, order.ReceiptKey, receiptURLExpiry)
}
