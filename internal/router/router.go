package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodtrove/internal/api"
	"github.com/pageza/foodtrove/internal/middleware"
	"github.com/pageza/foodtrove/internal/view"
	"github.com/pageza/foodtrove/web"
)

// Handlers groups every route handler the router mounts.
type Handlers struct {
	Store    *api.StoreHandler
	Cart     *api.CartHandler
	Wishlist *api.WishlistHandler
	Auth     *api.AuthHandler
	Recipes  *api.RecipeHandler
	CartAPI  *api.CartAPIHandler
}

// Options configures cookies and cross-origin access for the JSON API.
type Options struct {
	CookieSecure bool
	AllowOrigins []string
}

// SetupRouter configures the application routes
func SetupRouter(h Handlers, tokens middleware.SessionTokens, opts Options) (*gin.Engine, error) {
	router := gin.Default()

	templates, err := web.Templates(view.Funcs())
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	router.SetHTMLTemplate(templates)
	router.StaticFS("/static", web.Static())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Server-rendered storefront
	site := router.Group("")
	site.Use(middleware.Session(tokens, opts.CookieSecure))
	{
		h.Store.RegisterRoutes(site)
		h.Cart.RegisterRoutes(site)
		h.Wishlist.RegisterRoutes(site)
		h.Auth.RegisterRoutes(site)
	}

	// JSON API. CORS stays on this group so same-origin form posts are never
	// rejected for carrying an Origin header.
	v1 := router.Group("/api/v1")
	v1.Use(middleware.CORS(opts.AllowOrigins), middleware.JSONErrors(), middleware.Session(tokens, opts.CookieSecure))
	{
		v1.OPTIONS("/*path", func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})
		h.Recipes.RegisterRoutes(v1)
		h.CartAPI.RegisterRoutes(v1)
	}

	return router, nil
}
