package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodtrove/internal/cart"
	"github.com/pageza/foodtrove/internal/client"
	"github.com/pageza/foodtrove/internal/middleware"
	"github.com/pageza/foodtrove/internal/service"
	"github.com/pageza/foodtrove/internal/types"
)

// CartHandler serves the cart page, its form actions and checkout.
type CartHandler struct {
	layout     *Layout
	carts      *service.CartService
	checkout   *service.CheckoutService
	demoUserID int
	limit      gin.HandlerFunc
}

// NewCartHandler creates the handler. limit guards order placement.
func NewCartHandler(layout *Layout, carts *service.CartService, checkout *service.CheckoutService, demoUserID int, limit gin.HandlerFunc) *CartHandler {
	return &CartHandler{layout: layout, carts: carts, checkout: checkout, demoUserID: demoUserID, limit: limit}
}

func (h *CartHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/cart", h.ShowCart)
	items := router.Group("/cart/items")
	{
		items.POST("", h.AddItem)
		items.POST("/:id/inc", h.Inc)
		items.POST("/:id/dec", h.Dec)
		items.POST("/:id/qty", h.SetQty)
		items.POST("/:id/remove", h.Remove)
	}
	router.POST("/cart/clear", h.Clear)

	router.GET("/checkout", h.ShowCheckout)
	router.POST("/checkout", h.limit, h.PlaceOrder)
	router.GET("/orders/:id", h.ShowOrder)
}

func (h *CartHandler) ShowCart(c *gin.Context) {
	current, err := h.carts.Load(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		log.Printf("Failed to load cart: %v", err)
		h.layout.Error(c, http.StatusInternalServerError, "Failed to load cart")
		return
	}
	c.HTML(http.StatusOK, "cart.html", h.layout.Page(c, "Cart", gin.H{
		"Cart":      current,
		"Totals":    current.Totals(),
		"SyncError": c.Query("sync_error"),
	}))
}

// AddItem adds a product and, when asked, pushes the line upstream. A failed
// push never undoes the local add.
func (h *CartHandler) AddItem(c *gin.Context) {
	var form types.AddToCartForm
	if err := c.ShouldBind(&form); err != nil {
		h.layout.Error(c, http.StatusBadRequest, "Invalid cart item")
		return
	}

	ctx := c.Request.Context()
	sessionID := middleware.SessionID(c)
	qty := cart.ParseQty(form.Qty)
	item := cart.Item{ID: form.ID, Title: form.Title, Price: form.Price, Image: form.Image}
	if _, err := h.carts.AddItem(ctx, sessionID, item, qty); err != nil {
		log.Printf("Failed to add item %d to cart: %v", form.ID, err)
		h.layout.Error(c, http.StatusInternalServerError, "Failed to update cart")
		return
	}

	target := safeNext(c, "/cart")
	if form.Sync {
		userID := h.layout.UserID(c, h.demoUserID)
		if _, err := h.carts.CreateCart(ctx, sessionID, userID, []client.LineItem{{ID: form.ID, Quantity: qty}}); err != nil {
			target = withQuery(target, "sync_error", service.Message(err, "Failed to sync cart"))
		}
	}
	c.Redirect(http.StatusSeeOther, target)
}

func (h *CartHandler) update(c *gin.Context, fn func(sessionID string, id int) (*cart.Cart, error)) {
	id, ok := paramID(c, "id")
	if !ok {
		h.layout.Error(c, http.StatusBadRequest, "Invalid cart item")
		return
	}
	if _, err := fn(middleware.SessionID(c), id); err != nil {
		log.Printf("Failed to update cart item %d: %v", id, err)
		h.layout.Error(c, http.StatusInternalServerError, "Failed to update cart")
		return
	}
	c.Redirect(http.StatusSeeOther, safeNext(c, "/cart"))
}

func (h *CartHandler) Inc(c *gin.Context) {
	h.update(c, func(sessionID string, id int) (*cart.Cart, error) {
		return h.carts.Inc(c.Request.Context(), sessionID, id)
	})
}

func (h *CartHandler) Dec(c *gin.Context) {
	h.update(c, func(sessionID string, id int) (*cart.Cart, error) {
		return h.carts.Dec(c.Request.Context(), sessionID, id)
	})
}

// SetQty accepts free text; see cart.ParseQty.
func (h *CartHandler) SetQty(c *gin.Context) {
	var form types.SetQtyForm
	_ = c.ShouldBind(&form)
	h.update(c, func(sessionID string, id int) (*cart.Cart, error) {
		return h.carts.SetQty(c.Request.Context(), sessionID, id, cart.ParseQty(form.Qty))
	})
}

func (h *CartHandler) Remove(c *gin.Context) {
	h.update(c, func(sessionID string, id int) (*cart.Cart, error) {
		return h.carts.RemoveItem(c.Request.Context(), sessionID, id)
	})
}

func (h *CartHandler) Clear(c *gin.Context) {
	if _, err := h.carts.Clear(c.Request.Context(), middleware.SessionID(c)); err != nil {
		log.Printf("Failed to clear cart: %v", err)
		h.layout.Error(c, http.StatusInternalServerError, "Failed to update cart")
		return
	}
	c.Redirect(http.StatusSeeOther, "/cart")
}

func (h *CartHandler) renderCheckout(c *gin.Context, status int, delivery cart.Delivery, payment cart.Payment, message string) {
	current, err := h.carts.Load(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		log.Printf("Failed to load cart: %v", err)
		h.layout.Error(c, http.StatusInternalServerError, "Failed to load cart")
		return
	}
	if _, ok := delivery.Charge(); !ok {
		delivery = cart.DeliveryFree
	}
	if !payment.Valid() {
		payment = cart.PaymentCOD
	}
	c.HTML(status, "checkout.html", h.layout.Page(c, "Checkout", gin.H{
		"Cart":     current,
		"Totals":   current.CheckoutTotals(delivery),
		"Delivery": string(delivery),
		"Payment":  string(payment),
		"Error":    message,
	}))
}

func (h *CartHandler) ShowCheckout(c *gin.Context) {
	h.renderCheckout(c, http.StatusOK, cart.Delivery(c.Query("delivery")), cart.Payment(c.Query("payment")), "")
}

func (h *CartHandler) PlaceOrder(c *gin.Context) {
	var form types.CheckoutForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderCheckout(c, http.StatusBadRequest, cart.Delivery(form.Delivery), cart.Payment(form.Payment), "Choose a delivery and a payment method.")
		return
	}
	delivery, payment := cart.Delivery(form.Delivery), cart.Payment(form.Payment)

	ctx := c.Request.Context()
	order, err := h.checkout.PlaceOrder(ctx, middleware.SessionID(c), service.PlaceOrderInput{
		Delivery: delivery,
		Payment:  payment,
		UserID:   h.layout.UserID(c, 0),
	})
	if errors.Is(err, service.ErrEmptyCart) {
		h.renderCheckout(c, http.StatusBadRequest, delivery, payment, "Your cart is empty.")
		return
	}
	if err != nil {
		h.renderCheckout(c, http.StatusBadGateway, delivery, payment, service.Message(err, "Failed to place order"))
		return
	}

	c.Redirect(http.StatusSeeOther, "/orders/"+order.ID.String())
}

func (h *CartHandler) ShowOrder(c *gin.Context) {
	ctx := c.Request.Context()
	order, err := h.checkout.Order(ctx, middleware.SessionID(c), c.Param("id"))
	if errors.Is(err, service.ErrOrderNotFound) {
		h.layout.Error(c, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		log.Printf("Failed to load order: %v", err)
		h.layout.Error(c, http.StatusInternalServerError, "Failed to load order")
		return
	}

	receiptURL, err := h.checkout.ReceiptURL(ctx, order)
	if err != nil {
		log.Printf("Failed to presign receipt for order %s: %v", order.ID, err)
	}
	c.HTML(http.StatusOK, "order.html", h.layout.Page(c, "Order placed", gin.H{
		"Order":      order,
		"ReceiptURL": receiptURL,
	}))
}
