package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodtrove/internal/cache"
	"github.com/pageza/foodtrove/internal/client"
	"github.com/pageza/foodtrove/internal/middleware"
	"github.com/pageza/foodtrove/internal/service"
	"github.com/pageza/foodtrove/internal/storage"
	"github.com/pageza/foodtrove/internal/testhelpers"
	"github.com/pageza/foodtrove/internal/view"
	"github.com/pageza/foodtrove/web"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// demoUserID owns remote carts pushed by visitors who are not logged in.
const demoUserID = 5

// testApp serves every handler against a fake upstream and keeps the
// cookies of one visitor between requests.
type testApp struct {
	t       *testing.T
	fake    *testhelpers.FakeAPI
	router  *gin.Engine
	cookies map[string]*http.Cookie
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	fake := testhelpers.NewFakeAPI(t)
	db := testhelpers.SetupSQLite(t)
	c := client.New(fake.URL(), 5*time.Second)
	store := storage.New(db)

	data := service.NewDataService(c, c, cache.NewMemoryStore(), time.Minute)
	carts := service.NewCartService(store, c)
	wishlist := service.NewWishlistService(store)
	auth := service.NewAuthService(c, store)
	tokens := service.NewSessionService("api-test-secret")
	checkout := service.NewCheckoutService(db, carts, nil, demoUserID)
	layout := NewLayout(carts, wishlist, auth)
	pass := func(c *gin.Context) { c.Next() }

	templates, err := web.Templates(view.Funcs())
	require.NoError(t, err)

	router := gin.New()
	router.SetHTMLTemplate(templates)

	site := router.Group("")
	site.Use(middleware.Session(tokens, false))
	NewStoreHandler(layout, data, service.NewCategoryBrowsers(data), wishlist).RegisterRoutes(site)
	NewCartHandler(layout, carts, checkout, demoUserID, pass).RegisterRoutes(site)
	NewWishlistHandler(layout, data, wishlist).RegisterRoutes(site)
	NewAuthHandler(layout, auth, tokens, false, pass).RegisterRoutes(site)

	v1 := router.Group("/api/v1")
	v1.Use(middleware.JSONErrors(), middleware.Session(tokens, false))
	NewRecipeHandler(data).RegisterRoutes(v1)
	NewCartAPIHandler(layout, data, carts, wishlist, demoUserID).RegisterRoutes(v1)

	return &testApp{t: t, fake: fake, router: router, cookies: map[string]*http.Cookie{}}
}

func (a *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	a.t.Helper()
	for _, ck := range a.cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(a.cookies, ck.Name)
			continue
		}
		a.cookies[ck.Name] = ck
	}
	return w
}

func (a *testApp) get(path string) *httptest.ResponseRecorder {
	return a.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (a *testApp) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(req)
}

func (a *testApp) sendJSON(method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return a.do(req)
}

// forget drops every cookie, as if a different visitor made the next request.
func (a *testApp) forget() {
	a.cookies = map[string]*http.Cookie{}
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type cartJSON struct {
	Items []struct {
		ID  int `json:"id"`
		Qty int `json:"qty"`
	} `json:"items"`
	Count    int     `json:"count"`
	Badge    string  `json:"badge"`
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Total    float64 `json:"total"`
}

func (a *testApp) cart() cartJSON {
	a.t.Helper()
	w := a.get("/api/v1/cart")
	require.Equal(a.t, http.StatusOK, w.Code)
	return decode[cartJSON](a.t, w)
}
