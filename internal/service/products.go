package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pageza/foodtrove/internal/client"
)

// ProductCategories is the fixed category filter of the products page.
var ProductCategories = []string{"All", "Milks & Dairies", "Coffes & Teas", "Pet Foods", "Meats", "Vegetables", "Fruits"}

// Product sort orders.
const (
	SortPopular   = "popular"
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
	SortAlpha     = "alpha"
)

// HotRating is the rating at which a product is labeled "Hot".
const HotRating = 4.6

// Product is a recipe presented as a catalog item. Recipes carry no price, so
// every product is priced at 0.
type Product struct {
	ID       int
	Title    string
	Category string
	Vendor   string
	Tag      string
	Price    float64
	Rating   float64
	Image    string
}

// ProductFromRecipe relabels a recipe as a product.
func ProductFromRecipe(r client.Recipe) Product {
	p := Product{
		ID:     r.ID,
		Title:  r.Name,
		Rating: r.Rating,
		Image:  r.Image,
		Vendor: "Unknown",
	}
	switch {
	case r.Cuisine != "":
		p.Category = r.Cuisine
	case len(r.MealType) > 0:
		p.Category = r.MealType[0]
	default:
		p.Category = "Recipe"
	}
	if r.UserID != 0 {
		p.Vendor = fmt.Sprintf("User %d", r.UserID)
	}
	if r.Rating >= HotRating {
		p.Tag = "Hot"
	}
	return p
}

// ProductQuery filters and orders the products page.
type ProductQuery struct {
	Category string
	Search   string
	Sort     string
}

// ListProducts maps recipes to products and applies the query. The popular
// order keeps the upstream order.
func ListProducts(recipes []client.Recipe, q ProductQuery) []Product {
	category := q.Category
	if category == "" {
		category = "All"
	}
	search := strings.ToLower(q.Search)

	out := make([]Product, 0, len(recipes))
	for _, r := range recipes {
		p := ProductFromRecipe(r)
		if category != "All" && p.Category != category {
			continue
		}
		if !strings.Contains(strings.ToLower(p.Title), search) {
			continue
		}
		out = append(out, p)
	}

	switch q.Sort {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case SortAlpha:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title)
		})
	}
	return out
}
