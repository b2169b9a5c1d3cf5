package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodtrove/internal/cart"
	"github.com/pageza/foodtrove/internal/middleware"
	"github.com/pageza/foodtrove/internal/service"
	"github.com/pageza/foodtrove/internal/types"
	"github.com/pageza/foodtrove/internal/view"
)

// CartAPIHandler serves the visitor's local cart and wishlist and the
// simulated remote carts as JSON.
type CartAPIHandler struct {
	layout     *Layout
	data       *service.DataService
	carts      *service.CartService
	wishlist   *service.WishlistService
	demoUserID int
}

func NewCartAPIHandler(layout *Layout, data *service.DataService, carts *service.CartService, wishlist *service.WishlistService, demoUserID int) *CartAPIHandler {
	return &CartAPIHandler{layout: layout, data: data, carts: carts, wishlist: wishlist, demoUserID: demoUserID}
}

func (h *CartAPIHandler) RegisterRoutes(router *gin.RouterGroup) {
	local := router.Group("/cart")
	{
		local.GET("", h.GetCart)
		local.DELETE("", h.ClearCart)
		local.POST("/items", h.AddItem)
		local.PUT("/items/:id", h.SetQty)
		local.POST("/items/:id/inc", h.Inc)
		local.POST("/items/:id/dec", h.Dec)
		local.DELETE("/items/:id", h.RemoveItem)
	}

	wishlist := router.Group("/wishlist")
	{
		wishlist.GET("", h.GetWishlist)
		wishlist.POST("", h.ToggleWishlist)
		wishlist.DELETE("", h.ClearWishlist)
		wishlist.DELETE("/:id", h.RemoveWishlist)
	}

	remote := router.Group("/carts")
	{
		remote.GET("", h.ListCarts)
		remote.POST("", h.CreateCart)
		remote.GET("/state", h.RemoteState)
		remote.POST("/state/load", h.LoadCarts)
		remote.POST("/push", h.PushCart)
		remote.GET("/user/:id", h.UserCarts)
		remote.GET("/:id", h.GetRemoteCart)
		remote.PUT("/:id", h.UpdateCart)
		remote.DELETE("/:id", h.DeleteCart)
	}
}

func cartResponse(c *cart.Cart) gin.H {
	items := c.Items
	if items == nil {
		items = []cart.Item{}
	}
	totals := c.Totals()
	return gin.H{
		"items":    items,
		"count":    c.Count(),
		"badge":    view.BadgeLabel(c.Count()),
		"subtotal": totals.Subtotal,
		"shipping": totals.Shipping,
		"total":    totals.Total,
	}
}

func (h *CartAPIHandler) respondCart(c *gin.Context, current *cart.Cart, err error) {
	if err != nil {
		log.Printf("Failed to update cart: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
		return
	}
	c.JSON(http.StatusOK, cartResponse(current))
}

func (h *CartAPIHandler) GetCart(c *gin.Context) {
	current, err := h.carts.Load(c.Request.Context(), middleware.SessionID(c))
	h.respondCart(c, current, err)
}

func (h *CartAPIHandler) AddItem(c *gin.Context) {
	var req types.CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item := cart.Item{ID: req.ID, Title: req.Title, Price: req.Price, Image: req.Image}
	current, err := h.carts.AddItem(c.Request.Context(), middleware.SessionID(c), item, req.Qty)
	h.respondCart(c, current, err)
}

func (h *CartAPIHandler) SetQty(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}
	var req types.SetQtyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	current, err := h.carts.SetQty(c.Request.Context(), middleware.SessionID(c), id, req.Qty)
	h.respondCart(c, current, err)
}

func (h *CartAPIHandler) Inc(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}
	current, err := h.carts.Inc(c.Request.Context(), middleware.SessionID(c), id)
	h.respondCart(c, current, err)
}

func (h *CartAPIHandler) Dec(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}
	current, err := h.carts.Dec(c.Request.Context(), middleware.SessionID(c), id)
	h.respondCart(c, current, err)
}

func (h *CartAPIHandler) RemoveItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}
	current, err := h.carts.RemoveItem(c.Request.Context(), middleware.SessionID(c), id)
	h.respondCart(c, current, err)
}

func (h *CartAPIHandler) ClearCart(c *gin.Context) {
	current, err := h.carts.Clear(c.Request.Context(), middleware.SessionID(c))
	h.respondCart(c, current, err)
}

func (h *CartAPIHandler) GetWishlist(c *gin.Context) {
	items, err := h.wishlist.List(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load wishlist"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *CartAPIHandler) ToggleWishlist(c *gin.Context) {
	var req types.WishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	listed, err := toggleWishlist(c, h.data, h.wishlist, req.ID)
	if err != nil {
		respondError(c, err, "Failed to update wishlist")
		return
	}
	items, err := h.wishlist.List(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load wishlist"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"listed": listed, "items": items})
}

func (h *CartAPIHandler) RemoveWishlist(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}
	items, err := h.wishlist.Remove(c.Request.Context(), middleware.SessionID(c), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update wishlist"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *CartAPIHandler) ClearWishlist(c *gin.Context) {
	if err := h.wishlist.Clear(c.Request.Context(), middleware.SessionID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update wishlist"})
		return
	}
	c.Status(http.StatusNoContent)
}

// ListCarts serves the shared, cached remote cart listing.
func (h *CartAPIHandler) ListCarts(c *gin.Context) {
	page, err := h.data.Carts(c.Request.Context(), intQuery(c, "skip", 0), intQuery(c, "limit", 0), refresh(c))
	if err != nil {
		respondError(c, err, "Failed to fetch carts")
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *CartAPIHandler) UserCarts(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	page, err := h.data.CartsByUser(c.Request.Context(), id, refresh(c))
	if err != nil {
		respondError(c, err, "Failed to fetch user carts")
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetRemoteCart makes one remote cart the visitor's active cart.
func (h *CartAPIHandler) GetRemoteCart(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cart id"})
		return
	}
	remote, err := h.carts.FetchCartByID(c.Request.Context(), middleware.SessionID(c), id)
	if err != nil {
		respondError(c, err, "Failed to fetch cart")
		return
	}
	c.JSON(http.StatusOK, remote)
}

func (h *CartAPIHandler) RemoteState(c *gin.Context) {
	c.JSON(http.StatusOK, h.carts.Remote(middleware.SessionID(c)))
}

// LoadCarts fills the visitor's remote state with one user's carts, or with
// the full listing.
func (h *CartAPIHandler) LoadCarts(c *gin.Context) {
	var req types.LoadCartsRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	ctx := c.Request.Context()
	sessionID := middleware.SessionID(c)
	var err error
	if req.UserID > 0 {
		_, err = h.carts.FetchCartsByUser(ctx, sessionID, req.UserID)
	} else {
		_, err = h.carts.FetchAllCarts(ctx, sessionID)
	}
	if err != nil {
		respondError(c, err, "Failed to fetch carts")
		return
	}
	c.JSON(http.StatusOK, h.carts.Remote(sessionID))
}

func (h *CartAPIHandler) CreateCart(c *gin.Context) {
	var req types.CreateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, err := h.carts.CreateCart(c.Request.Context(), middleware.SessionID(c), req.UserID, lineItems(req.Products))
	if err != nil {
		respondError(c, err, "Failed to create cart")
		return
	}
	c.JSON(http.StatusCreated, created)
}

// PushCart sends the local cart upstream for the logged-in user, or the demo user.
func (h *CartAPIHandler) PushCart(c *gin.Context) {
	userID := h.layout.UserID(c, h.demoUserID)
	pushed, err := h.carts.PushLocalAsCart(c.Request.Context(), middleware.SessionID(c), userID)
	if err != nil {
		respondError(c, err, "Failed to create cart")
		return
	}
	c.JSON(http.StatusCreated, pushed)
}

func (h *CartAPIHandler) UpdateCart(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cart id"})
		return
	}
	var req types.UpdateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	merge := true
	if req.Merge != nil {
		merge = *req.Merge
	}
	updated, err := h.carts.UpdateCart(c.Request.Context(), middleware.SessionID(c), id, merge, lineItems(req.Products))
	if err != nil {
		respondError(c, err, "Failed to update cart")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *CartAPIHandler) DeleteCart(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cart id"})
		return
	}
	deleted, err := h.carts.DeleteCart(c.Request.Context(), middleware.SessionID(c), id)
	if err != nil {
		respondError(c, err, "Failed to delete cart")
		return
	}
	c.JSON(http.StatusOK, deleted)
}
