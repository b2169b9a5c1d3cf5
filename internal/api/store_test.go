package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pageza/foodtrove/internal/middleware"
)

func TestHomeRendersCatalog(t *testing.T) {
	app := newTestApp(t)

	w := app.get("/")

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Classic Margherita Pizza")
	assert.Contains(t, body, "Deals Of The Day")
	assert.Contains(t, body, `href="/categories?tag=Italian"`)
	assert.Contains(t, app.cookies, middleware.SessionCookie)
}

func TestHomeShowsFetchError(t *testing.T) {
	app := newTestApp(t)
	app.fake.Fail("/recipes", http.StatusInternalServerError, "Service down")

	w := app.get("/")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Service down")
}

func TestSearchRedirectsToResolvedTag(t *testing.T) {
	app := newTestApp(t)

	w := app.get("/search?q=ind")

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/categories?tag=Indian", w.Header().Get("Location"))
}

func TestCategoriesWithoutTag(t *testing.T) {
	app := newTestApp(t)

	w := app.get("/categories")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Pick a category")
	assert.Equal(t, 0, app.fake.Calls("/recipes/tag/"))
}

func TestCategoriesLoadsTag(t *testing.T) {
	app := newTestApp(t)

	w := app.get("/categories?tag=Italian&limit=6")

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Tiramisu")
	assert.Contains(t, body, "2 recipes")
	assert.Equal(t, 1, app.fake.Calls("/recipes/tag/Italian"))

	// second visit is served from the cache
	app.get("/categories?tag=Italian&limit=6")
	assert.Equal(t, 1, app.fake.Calls("/recipes/tag/Italian"))
}

func TestCategoriesShowsErrorWithStalePage(t *testing.T) {
	app := newTestApp(t)
	app.get("/categories?tag=Italian&limit=6")
	app.fake.Fail("/recipes/tag/Italian", http.StatusInternalServerError, "Service down")

	w := app.get("/categories?tag=Italian&limit=6&refresh=1")

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Service down")
	assert.Contains(t, body, "Showing the last loaded results.")
	assert.Contains(t, body, "Tiramisu")
}

func TestProductPage(t *testing.T) {
	app := newTestApp(t)

	w := app.get("/products/1")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Classic Margherita Pizza")
	assert.Contains(t, w.Body.String(), "Add to wishlist")
}

func TestProductNotFound(t *testing.T) {
	app := newTestApp(t)

	w := app.get("/products/404")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Recipe with id &#39;404&#39; not found")
}

func TestProductInvalidID(t *testing.T) {
	app := newTestApp(t)

	w := app.get("/products/abc")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 0, app.fake.Calls("/recipes/abc"))
}

func TestProductsFiltersAndSorts(t *testing.T) {
	app := newTestApp(t)

	w := app.get("/products?category=Fruits")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No products match your filters.")

	w = app.get("/products?q=tiramisu")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "We found 1 items for you!")
}

func TestStaticPages(t *testing.T) {
	app := newTestApp(t)

	for path, want := range map[string]string{
		"/faq":          "Frequently Asked Questions",
		"/about":        "About The Carrot",
		"/blog?page=99": "Page 5",
	} {
		w := app.get(path)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Contains(t, w.Body.String(), want, path)
	}
}
