package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodtrove/internal/middleware"
	"github.com/pageza/foodtrove/internal/service"
	"github.com/pageza/foodtrove/internal/types"
)

// WishlistHandler serves the wishlist page and its form actions.
type WishlistHandler struct {
	layout   *Layout
	data     *service.DataService
	wishlist *service.WishlistService
}

func NewWishlistHandler(layout *Layout, data *service.DataService, wishlist *service.WishlistService) *WishlistHandler {
	return &WishlistHandler{layout: layout, data: data, wishlist: wishlist}
}

func (h *WishlistHandler) RegisterRoutes(router *gin.RouterGroup) {
	wishlist := router.Group("/wishlist")
	{
		wishlist.GET("", h.Show)
		wishlist.POST("/toggle", h.Toggle)
		wishlist.POST("/:id/remove", h.Remove)
		wishlist.POST("/clear", h.Clear)
	}
}

func (h *WishlistHandler) Show(c *gin.Context) {
	items, err := h.wishlist.List(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		log.Printf("Failed to load wishlist: %v", err)
		h.layout.Error(c, http.StatusInternalServerError, "Failed to load wishlist")
		return
	}
	c.HTML(http.StatusOK, "wishlist.html", h.layout.Page(c, "Wishlist", gin.H{
		"Items": items,
		"Error": c.Query("error"),
	}))
}

// toggleWishlist removes a listed recipe, or fetches and adds an unlisted one.
// It reports whether the recipe is listed afterwards.
func toggleWishlist(c *gin.Context, data *service.DataService, wishlist *service.WishlistService, id int) (bool, error) {
	ctx := c.Request.Context()
	sessionID := middleware.SessionID(c)

	listed, err := wishlist.Contains(ctx, sessionID, id)
	if err != nil {
		return false, err
	}
	if listed {
		_, err := wishlist.Remove(ctx, sessionID, id)
		return false, err
	}

	recipe, err := data.Recipe(ctx, id, false)
	if err != nil {
		return false, err
	}
	if _, err := wishlist.Add(ctx, sessionID, service.EntryFromRecipe(*recipe)); err != nil {
		return false, err
	}
	return true, nil
}

func (h *WishlistHandler) Toggle(c *gin.Context) {
	var req types.WishlistRequest
	if err := c.ShouldBind(&req); err != nil {
		h.layout.Error(c, http.StatusBadRequest, "Invalid recipe")
		return
	}

	target := safeNext(c, "/wishlist")
	if _, err := toggleWishlist(c, h.data, h.wishlist, req.ID); err != nil {
		target = withQuery(target, "error", service.Message(err, "Failed to update wishlist"))
	}
	c.Redirect(http.StatusSeeOther, target)
}

func (h *WishlistHandler) Remove(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		h.layout.Error(c, http.StatusBadRequest, "Invalid recipe")
		return
	}
	if _, err := h.wishlist.Remove(c.Request.Context(), middleware.SessionID(c), id); err != nil {
		log.Printf("Failed to remove %d from wishlist: %v", id, err)
		h.layout.Error(c, http.StatusInternalServerError, "Failed to update wishlist")
		return
	}
	c.Redirect(http.StatusSeeOther, safeNext(c, "/wishlist"))
}

func (h *WishlistHandler) Clear(c *gin.Context) {
	if err := h.wishlist.Clear(c.Request.Context(), middleware.SessionID(c)); err != nil {
		log.Printf("Failed to clear wishlist: %v", err)
		h.layout.Error(c, http.StatusInternalServerError, "Failed to update wishlist")
		return
	}
	c.Redirect(http.StatusSeeOther, "/wishlist")
}
