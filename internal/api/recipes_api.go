package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodtrove/internal/client"
	"github.com/pageza/foodtrove/internal/service"
)

// RecipeHandler serves the recipe catalog as JSON.
type RecipeHandler struct {
	data *service.DataService
}

func NewRecipeHandler(data *service.DataService) *RecipeHandler {
	return &RecipeHandler{data: data}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/:id", h.GetRecipe)
	}
	tags := router.Group("/tags")
	{
		tags.GET("", h.ListTags)
		tags.GET("/resolve", h.ResolveTag)
		tags.GET("/:tag/recipes", h.RecipesByTag)
	}
}

func refresh(c *gin.Context) bool {
	return c.Query("refresh") == "1" || c.Query("refresh") == "true"
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	recipes, err := h.data.Recipes(c.Request.Context(), refresh(c))
	if err != nil {
		respondError(c, err, "Failed to fetch recipes")
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes, "total": len(recipes)})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		respondError(c, client.ErrInvalidID, "Invalid recipe id")
		return
	}
	recipe, err := h.data.Recipe(c.Request.Context(), id, refresh(c))
	if err != nil {
		respondError(c, err, "Failed to fetch recipe")
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) ListTags(c *gin.Context) {
	tags, err := h.data.Tags(c.Request.Context(), refresh(c))
	if err != nil {
		respondError(c, err, "Failed to fetch tags")
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": service.FilterTags(tags, c.Query("q"))})
}

func (h *RecipeHandler) ResolveTag(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tag": h.data.ResolveTag(c.Request.Context(), c.Query("q"))})
}

func (h *RecipeHandler) RecipesByTag(c *gin.Context) {
	params := service.NormalizeBrowseParams(
		c.Param("tag"),
		intQuery(c, "page", 1),
		intQuery(c, "limit", service.DefaultPageSize),
		refresh(c),
	)
	page, err := h.data.RecipesByTag(c.Request.Context(), params.Tag, params.Skip(), params.Limit, params.Refresh)
	if err != nil {
		respondError(c, err, "Failed to fetch recipes by tag")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"tag":        params.Tag,
		"recipes":    page.Recipes,
		"total":      page.Total,
		"page":       params.Page,
		"limit":      params.Limit,
		"totalPages": service.TotalPages(page.Total, params.Limit),
	})
}
