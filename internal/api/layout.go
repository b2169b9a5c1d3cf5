package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodtrove/internal/middleware"
	"github.com/pageza/foodtrove/internal/service"
	"github.com/pageza/foodtrove/internal/view"
)

// Layout fills in the data every page shares: the navbar cart badge, the
// wishlist count and the logged-in user.
type Layout struct {
	carts    *service.CartService
	wishlist *service.WishlistService
	auth     *service.AuthService
}

func NewLayout(carts *service.CartService, wishlist *service.WishlistService, auth *service.AuthService) *Layout {
	return &Layout{carts: carts, wishlist: wishlist, auth: auth}
}

// Page adds the shared navbar data to data.
func (l *Layout) Page(c *gin.Context, title string, data gin.H) gin.H {
	if data == nil {
		data = gin.H{}
	}
	ctx := c.Request.Context()
	sessionID := middleware.SessionID(c)

	count := 0
	if current, err := l.carts.Load(ctx, sessionID); err != nil {
		log.Printf("Failed to load cart for navbar: %v", err)
	} else {
		count = current.Count()
	}

	data["Title"] = title
	data["Path"] = c.Request.URL.Path
	data["Here"] = c.Request.URL.RequestURI()
	data["SearchQuery"] = c.Query("q")
	data["CartCount"] = count
	data["CartBadge"] = view.BadgeLabel(count)
	data["WishlistCount"] = len(l.wishlist.IDs(ctx, sessionID))
	data["User"] = l.User(c)
	return data
}

// User returns the logged-in user, or nil.
func (l *Layout) User(c *gin.Context) *service.StoredUser {
	user, err := l.auth.CurrentUser(c.Request.Context(), middleware.SessionID(c), middleware.BrowserAuth(c))
	if err != nil {
		log.Printf("Failed to read current user: %v", err)
		return nil
	}
	return user
}

// UserID returns the logged-in user's id or fallback.
func (l *Layout) UserID(c *gin.Context, fallback int) int {
	if user := l.User(c); user != nil && user.ID > 0 {
		return user.ID
	}
	return fallback
}

// Error renders the error page.
func (l *Layout) Error(c *gin.Context, status int, message string) {
	c.HTML(status, "error.html", l.Page(c, http.StatusText(status), gin.H{
		"Status": status,
		"Error":  message,
	}))
}
