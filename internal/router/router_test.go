package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodtrove/internal/api"
	"github.com/pageza/foodtrove/internal/cache"
	"github.com/pageza/foodtrove/internal/client"
	"github.com/pageza/foodtrove/internal/middleware"
	"github.com/pageza/foodtrove/internal/service"
	"github.com/pageza/foodtrove/internal/storage"
	"github.com/pageza/foodtrove/internal/testhelpers"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupRouter(t *testing.T, origins []string) *gin.Engine {
	t.Helper()

	fake := testhelpers.NewFakeAPI(t)
	db := testhelpers.SetupSQLite(t)
	c := client.New(fake.URL(), 5*time.Second)
	store := storage.New(db)

	data := service.NewDataService(c, c, cache.NewMemoryStore(), time.Minute)
	carts := service.NewCartService(store, c)
	wishlist := service.NewWishlistService(store)
	auth := service.NewAuthService(c, store)
	tokens := service.NewSessionService("router-test-secret")
	checkout := service.NewCheckoutService(db, carts, nil, 1)
	layout := api.NewLayout(carts, wishlist, auth)
	pass := func(c *gin.Context) { c.Next() }

	r, err := SetupRouter(Handlers{
		Store:    api.NewStoreHandler(layout, data, service.NewCategoryBrowsers(data), wishlist),
		Cart:     api.NewCartHandler(layout, carts, checkout, 1, pass),
		Wishlist: api.NewWishlistHandler(layout, data, wishlist),
		Auth:     api.NewAuthHandler(layout, auth, tokens, false, pass),
		Recipes:  api.NewRecipeHandler(data),
		CartAPI:  api.NewCartAPIHandler(layout, data, carts, wishlist, 1),
	}, tokens, Options{AllowOrigins: origins})
	require.NoError(t, err)
	return r
}

func TestHealth(t *testing.T) {
	r := setupRouter(t, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestStaticAssets(t *testing.T) {
	r := setupRouter(t, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/site.css", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "--green")
}

func TestSiteRoutesIssueSessionCookie(t *testing.T) {
	r := setupRouter(t, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/faq", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), middleware.SessionCookie+"=")
	assert.Contains(t, w.Body.String(), "Frequently Asked Questions")
}

func TestSameOriginFormPostIsNotBlockedByCORS(t *testing.T) {
	r := setupRouter(t, []string{"http://localhost:5173"})

	req := httptest.NewRequest(http.MethodPost, "/cart/clear", nil)
	req.Header.Set("Origin", "http://example.test")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
}

func TestAPIPreflight(t *testing.T) {
	r := setupRouter(t, []string{"http://localhost:5173"})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/cart/items", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestAPIRejectsUnknownOrigin(t *testing.T) {
	r := setupRouter(t, []string{"http://localhost:5173"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tags", nil)
	req.Header.Set("Origin", "http://evil.test")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAPIServesJSON(t *testing.T) {
	r := setupRouter(t, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/tags", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "application/json"))
	assert.Contains(t, w.Body.String(), "Italian")
}
