package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodtrove/internal/cart"
	"github.com/pageza/foodtrove/internal/mocks"
	"github.com/pageza/foodtrove/internal/models"
)

func seedCart(t *testing.T, carts *CartService, sessionID string) {
	t.Helper()
	ctx := context.Background()
	_, err := carts.AddItem(ctx, sessionID, cart.Item{ID: 1, Title: "Tomato", Price: 10}, 2)
	require.NoError(t, err)
	_, err = carts.AddItem(ctx, sessionID, cart.Item{ID: 2, Title: "Milk", Price: 5}, 1)
	require.NoError(t, err)
}

func TestPlaceOrder(t *testing.T) {
	env := newTestEnv(t)
	carts := NewCartService(env.store, env.client)
	svc := NewCheckoutService(env.db, carts, nil, 1)
	ctx := context.Background()
	seedCart(t, carts, "s1")

	order, err := svc.PlaceOrder(ctx, "s1", PlaceOrderInput{Delivery: cart.DeliveryFlat, Payment: cart.PaymentCOD})
	require.NoError(t, err)
	assert.Equal(t, 25.0, order.Subtotal)
	assert.Equal(t, 5.0, order.DeliveryCharge)
	assert.Equal(t, 30.0, order.Total)
	assert.Equal(t, 51, order.RemoteCartID)
	assert.Equal(t, 1, order.UserID)
	assert.Empty(t, order.ReceiptKey)

	c, err := carts.Load(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, c.Empty())

	stored, err := svc.Order(ctx, "s1", order.ID.String())
	require.NoError(t, err)
	assert.Len(t, stored.Items, 2)
	assert.Equal(t, "Tomato", stored.Items[0].Title)

	_, err = svc.Order(ctx, "s2", order.ID.String())
	assert.ErrorIs(t, err, ErrOrderNotFound)
	_, err = svc.Order(ctx, "s1", "nope")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestPlaceOrderKeepsLinesAddedDuringThePush(t *testing.T) {
	env := newTestEnv(t)
	carts := NewCartService(env.store, env.client)
	svc := NewCheckoutService(env.db, carts, nil, 1)
	ctx := context.Background()
	seedCart(t, carts, "s1")

	release := env.api.Hold()
	defer release()

	type result struct {
		order *models.Order
		err   error
	}
	done := make(chan result, 1)
	go func() {
		order, err := svc.PlaceOrder(ctx, "s1", PlaceOrderInput{Delivery: cart.DeliveryFree, Payment: cart.PaymentCOD})
		done <- result{order, err}
	}()
	require.Eventually(t, func() bool { return env.api.Calls("/carts/add") == 1 }, time.Second, time.Millisecond)

	// a second tab keeps shopping while the order is in flight
	_, err := carts.AddItem(ctx, "s1", cart.Item{ID: 3, Title: "Bread", Price: 3}, 1)
	require.NoError(t, err)
	_, err = carts.AddItem(ctx, "s1", cart.Item{ID: 1, Title: "Tomato", Price: 10}, 1)
	require.NoError(t, err)

	release()
	got := <-done
	require.NoError(t, got.err)
	assert.Equal(t, 25.0, got.order.Total)
	assert.Len(t, got.order.Items, 2)

	c, err := carts.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []cart.Item{
		{ID: 1, Title: "Tomato", Price: 10, Qty: 1},
		{ID: 3, Title: "Bread", Price: 3, Qty: 1},
	}, c.Items)
}

func TestPlaceOrderUsesLoggedInUser(t *testing.T) {
	env := newTestEnv(t)
	carts := NewCartService(env.store, env.client)
	svc := NewCheckoutService(env.db, carts, nil, 1)
	seedCart(t, carts, "s1")

	order, err := svc.PlaceOrder(context.Background(), "s1", PlaceOrderInput{Delivery: cart.DeliveryFree, Payment: cart.PaymentUPI, UserID: 33})
	require.NoError(t, err)
	assert.Equal(t, 33, order.UserID)
	assert.Equal(t, 25.0, order.Total)
}

func TestPlaceOrderValidation(t *testing.T) {
	env := newTestEnv(t)
	carts := NewCartService(env.store, env.client)
	svc := NewCheckoutService(env.db, carts, nil, 1)
	ctx := context.Background()

	_, err := svc.PlaceOrder(ctx, "s1", PlaceOrderInput{Delivery: "drone", Payment: cart.PaymentCOD})
	assert.ErrorIs(t, err, ErrInvalidDelivery)
	_, err = svc.PlaceOrder(ctx, "s1", PlaceOrderInput{Delivery: cart.DeliveryFree, Payment: "iou"})
	assert.ErrorIs(t, err, ErrInvalidPayment)
	_, err = svc.PlaceOrder(ctx, "s1", PlaceOrderInput{Delivery: cart.DeliveryFree, Payment: cart.PaymentCOD})
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Zero(t, env.api.Calls("/carts/add"))
}

func TestPlaceOrderKeepsCartWhenPushFails(t *testing.T) {
	env := newTestEnv(t)
	carts := NewCartService(env.store, env.client)
	svc := NewCheckoutService(env.db, carts, nil, 1)
	ctx := context.Background()
	seedCart(t, carts, "s1")
	env.api.Fail("/carts/add", http.StatusServiceUnavailable, "Upstream down")

	_, err := svc.PlaceOrder(ctx, "s1", PlaceOrderInput{Delivery: cart.DeliveryFree, Payment: cart.PaymentCOD})
	require.Error(t, err)

	c, err := carts.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 3, c.Count())

	var count int64
	require.NoError(t, env.db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPlaceOrderArchivesReceipt(t *testing.T) {
	env := newTestEnv(t)
	carts := NewCartService(env.store, env.client)
	archiver := &mocks.MockReceiptArchiver{}
	svc := NewCheckoutService(env.db, carts, archiver, 1)
	ctx := context.Background()
	seedCart(t, carts, "s1")

	isReceiptKey := mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "receipts/") && strings.HasSuffix(key, ".json")
	})
	archiver.On("PutReceipt", mock.Anything, isReceiptKey, mock.Anything).Return(nil)
	archiver.On("GeneratePresignedURL", mock.Anything, isReceiptKey, 15*time.Minute).Return("https://example.com/receipt", nil)

	order, err := svc.PlaceOrder(ctx, "s1", PlaceOrderInput{Delivery: cart.DeliveryFree, Payment: cart.PaymentBank})
	require.NoError(t, err)
	assert.Contains(t, order.ReceiptKey, order.ID.String())

	stored, err := svc.Order(ctx, "s1", order.ID.String())
	require.NoError(t, err)
	assert.Equal(t, order.ReceiptKey, stored.ReceiptKey)

	url, err := svc.ReceiptURL(ctx, stored)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/receipt", url)
	archiver.AssertExpectations(t)
}

func TestPlaceOrderSurvivesArchiveFailure(t *testing.T) {
	env := newTestEnv(t)
	carts := NewCartService(env.store, env.client)
	archiver := &mocks.MockReceiptArchiver{}
	svc := NewCheckoutService(env.db, carts, archiver, 1)
	seedCart(t, carts, "s1")

	archiver.On("PutReceipt", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("bucket unavailable"))

	order, err := svc.PlaceOrder(context.Background(), "s1", PlaceOrderInput{Delivery: cart.DeliveryFree, Payment: cart.PaymentCOD})
	require.NoError(t, err)
	assert.Empty(t, order.ReceiptKey)

	url, err := svc.ReceiptURL(context.Background(), order)
	require.NoError(t, err)
	assert.Empty(t, url)
	archiver.AssertNotCalled(t, "GeneratePresignedURL", mock.Anything, mock.Anything, mock.Anything)
}
