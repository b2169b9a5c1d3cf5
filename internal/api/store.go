package api

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodtrove/internal/client"
	"github.com/pageza/foodtrove/internal/content"
	"github.com/pageza/foodtrove/internal/middleware"
	"github.com/pageza/foodtrove/internal/service"
	"github.com/pageza/foodtrove/internal/view"
)

const (
	featuredRecipes = 8
	homeTags        = 10
)

type sortOption struct {
	Value string
	Label string
}

var productSorts = []sortOption{
	{service.SortPopular, "Popularity"},
	{service.SortPriceAsc, "Price: low to high"},
	{service.SortPriceDesc, "Price: high to low"},
	{service.SortAlpha, "Name"},
}

// StoreHandler serves the catalog pages and the static pages.
type StoreHandler struct {
	layout   *Layout
	data     *service.DataService
	browsers *service.CategoryBrowsers
	wishlist *service.WishlistService
}

func NewStoreHandler(layout *Layout, data *service.DataService, browsers *service.CategoryBrowsers, wishlist *service.WishlistService) *StoreHandler {
	return &StoreHandler{layout: layout, data: data, browsers: browsers, wishlist: wishlist}
}

func (h *StoreHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/", h.Home)
	router.GET("/search", h.Search)
	router.GET("/categories", h.Categories)
	router.GET("/products", h.Products)
	router.GET("/products/:id", h.Product)
	router.GET("/faq", h.FAQ)
	router.GET("/about", h.About)
	router.GET("/blog", h.Blog)
}

func (h *StoreHandler) Home(c *gin.Context) {
	ctx := c.Request.Context()
	data := gin.H{
		"Deals":       content.DealsOfTheDay,
		"Bestsellers": content.DailyBestsellers,
		"Perks":       content.Perks,
		"Wishlisted":  h.wishlist.IDs(ctx, middleware.SessionID(c)),
	}

	if recipes, err := h.data.Recipes(ctx, false); err != nil {
		data["Error"] = service.Message(err, "Failed to fetch recipes")
	} else {
		data["Featured"] = first(recipes, featuredRecipes)
	}
	if tags, err := h.data.Tags(ctx, false); err == nil {
		data["Tags"] = first(tags, homeTags)
	}

	c.HTML(http.StatusOK, "home.html", h.layout.Page(c, "Home", data))
}

// Search resolves the navbar query to a tag and opens its category page.
func (h *StoreHandler) Search(c *gin.Context) {
	tag := h.data.ResolveTag(c.Request.Context(), c.Query("q"))
	c.Redirect(http.StatusFound, "/categories?tag="+url.QueryEscape(tag))
}

func (h *StoreHandler) Categories(c *gin.Context) {
	ctx := c.Request.Context()
	params := service.NormalizeBrowseParams(
		c.Query("tag"),
		intQuery(c, "page", 1),
		intQuery(c, "limit", service.DefaultPageSize),
		c.Query("refresh") == "1",
	)

	data := gin.H{
		"TagFilter": c.Query("q"),
		"PageSizes": service.PageSizes,
	}
	tags, err := h.data.Tags(ctx, false)
	if err != nil {
		data["TagsError"] = service.Message(err, "Failed to fetch tags")
	}
	data["Tags"] = service.FilterTags(tags, c.Query("q"))

	v := h.browsers.For(middleware.SessionID(c)).Select(ctx, params)
	data["View"] = v
	data["Pages"] = view.PageItems(v.Params.Page, v.TotalPages)
	data["Wishlisted"] = h.wishlist.IDs(ctx, middleware.SessionID(c))

	title := "Categories"
	if v.Params.Tag != "" {
		title = view.Title(v.Params.Tag)
	}
	c.HTML(http.StatusOK, "categories.html", h.layout.Page(c, title, data))
}

func (h *StoreHandler) Products(c *gin.Context) {
	q := service.ProductQuery{
		Category: c.DefaultQuery("category", "All"),
		Search:   c.Query("q"),
		Sort:     c.DefaultQuery("sort", service.SortPopular),
	}
	data := gin.H{
		"Query":      q,
		"Categories": service.ProductCategories,
		"Sorts":      productSorts,
	}

	recipes, err := h.data.Recipes(c.Request.Context(), c.Query("refresh") == "1")
	if err != nil {
		data["Error"] = service.Message(err, "Failed to fetch recipes")
	}
	data["Products"] = service.ListProducts(recipes, q)

	c.HTML(http.StatusOK, "products.html", h.layout.Page(c, "Products", data))
}

func (h *StoreHandler) Product(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		h.layout.Error(c, http.StatusNotFound, "Recipe not found")
		return
	}

	ctx := c.Request.Context()
	recipe, err := h.data.Recipe(ctx, id, false)
	if err != nil {
		status := http.StatusBadGateway
		if client.IsNotFound(err) {
			status = http.StatusNotFound
		}
		h.layout.Error(c, status, service.Message(err, "Failed to fetch recipe"))
		return
	}

	wishlisted, _ := h.wishlist.Contains(ctx, middleware.SessionID(c), id)
	c.HTML(http.StatusOK, "product.html", h.layout.Page(c, recipe.Name, gin.H{
		"Recipe":     recipe,
		"Product":    service.ProductFromRecipe(*recipe),
		"Wishlisted": wishlisted,
		"Added":      c.Query("added") == "1",
		"SyncError":  c.Query("sync_error"),
	}))
}

func (h *StoreHandler) FAQ(c *gin.Context) {
	c.HTML(http.StatusOK, "faq.html", h.layout.Page(c, "FAQ", gin.H{"FAQs": content.FAQs}))
}

func (h *StoreHandler) About(c *gin.Context) {
	c.HTML(http.StatusOK, "about.html", h.layout.Page(c, "About Us", gin.H{
		"Heading":    content.AboutTitle,
		"Image":      content.AboutImage,
		"Paragraphs": content.AboutParagraphs,
		"Stats":      content.AboutStats,
		"Features":   content.AboutFeatures,
	}))
}

func (h *StoreHandler) Blog(c *gin.Context) {
	page := min(max(intQuery(c, "page", 1), 1), content.BlogPages)
	c.HTML(http.StatusOK, "blog.html", h.layout.Page(c, "Blog", gin.H{
		"Heading":    content.BlogTitle,
		"Paragraphs": content.BlogParagraphs,
		"Page":       page,
		"Pages":      view.PageItems(page, content.BlogPages),
	}))
}
