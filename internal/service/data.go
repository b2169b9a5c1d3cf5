package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pageza/foodtrove/internal/cache"
	"github.com/pageza/foodtrove/internal/client"
)

// Resource names used for fetch state and cache namespaces.
const (
	ResourceRecipes      = "recipes"
	ResourceRecipe       = "recipe"
	ResourceTags         = "tags"
	ResourceRecipesByTag = "recipes_by_tag"
	ResourceCarts        = "carts"
	ResourceUserCarts    = "user_carts"
)

// ResourceState is the loading flag and last error of one resource.
type ResourceState struct {
	Loading bool
	Error   string
}

type fetchState struct {
	mu       sync.Mutex
	inflight map[string]int
	errs     map[string]string
}

func newFetchState() *fetchState {
	return &fetchState{inflight: make(map[string]int), errs: make(map[string]string)}
}

func (f *fetchState) begin(resource string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inflight[resource]++
	delete(f.errs, resource)
}

func (f *fetchState) end(resource, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inflight[resource]--
	if message != "" {
		f.errs[resource] = message
	}
}

func (f *fetchState) get(resource string) ResourceState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return ResourceState{Loading: f.inflight[resource] > 0, Error: f.errs[resource]}
}

// DataService serves the recipe catalog and cart listings through the
// time-boxed cache. It is shared by all visitors.
type DataService struct {
	recipeAPI RecipeAPI
	cartAPI   CartAPI

	recipes   *cache.Keyed[[]client.Recipe]
	recipe    *cache.Keyed[client.Recipe]
	tags      *cache.Keyed[[]string]
	byTag     *cache.Keyed[client.RecipePage]
	carts     *cache.Keyed[client.CartPage]
	userCarts *cache.Keyed[client.CartPage]

	state *fetchState
}

func NewDataService(recipeAPI RecipeAPI, cartAPI CartAPI, store cache.Store, ttl time.Duration) *DataService {
	return &DataService{
		recipeAPI: recipeAPI,
		cartAPI:   cartAPI,
		recipes:   cache.New[[]client.Recipe](ResourceRecipes, store, ttl),
		recipe:    cache.New[client.Recipe](ResourceRecipe, store, ttl),
		tags:      cache.New[[]string](ResourceTags, store, ttl),
		byTag:     cache.New[client.RecipePage](ResourceRecipesByTag, store, ttl),
		carts:     cache.New[client.CartPage](ResourceCarts, store, ttl),
		userCarts: cache.New[client.CartPage](ResourceUserCarts, store, ttl),
		state:     newFetchState(),
	}
}

// WithClock replaces the time source of every cache.
func (s *DataService) WithClock(now func() time.Time) *DataService {
	s.recipes.WithClock(now)
	s.recipe.WithClock(now)
	s.tags.WithClock(now)
	s.byTag.WithClock(now)
	s.carts.WithClock(now)
	s.userCarts.WithClock(now)
	return s
}

// State returns the loading flag and last error of resource.
func (s *DataService) State(resource string) ResourceState {
	return s.state.get(resource)
}

func track[T any](s *DataService, resource, fallback string, fn func() (T, error)) (T, error) {
	s.state.begin(resource)
	v, err := fn()
	if errors.Is(err, context.Canceled) {
		// the visitor went away; the resource itself is fine
		s.state.end(resource, "")
		return v, err
	}
	if err != nil {
		fe := newFetchError(resource, err, fallback)
		s.state.end(resource, fe.Message)
		log.Printf("Failed to fetch %s: %v", resource, err)
		return v, fe
	}
	s.state.end(resource, "")
	return v, nil
}

// TagKey normalizes a tag into its cache key.
func TagKey(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// Recipes returns the full recipe list.
func (s *DataService) Recipes(ctx context.Context, force bool) ([]client.Recipe, error) {
	return track(s, ResourceRecipes, "Failed to fetch recipes", func() ([]client.Recipe, error) {
		return s.recipes.Fetch(ctx, "all", force, s.recipeAPI.Recipes)
	})
}

// Recipe returns one recipe by id.
func (s *DataService) Recipe(ctx context.Context, id int, force bool) (*client.Recipe, error) {
	r, err := track(s, ResourceRecipe, "Failed to fetch recipe", func() (client.Recipe, error) {
		if id <= 0 {
			return client.Recipe{}, client.ErrInvalidID
		}
		return s.recipe.Fetch(ctx, strconv.Itoa(id), force, func(ctx context.Context) (client.Recipe, error) {
			r, err := s.recipeAPI.Recipe(ctx, id)
			if err != nil {
				return client.Recipe{}, err
			}
			return *r, nil
		})
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Tags returns the tag vocabulary.
func (s *DataService) Tags(ctx context.Context, force bool) ([]string, error) {
	return track(s, ResourceTags, "Failed to fetch tags", func() ([]string, error) {
		return s.tags.Fetch(ctx, "all", force, s.recipeAPI.Tags)
	})
}

// RecipesByTag returns one page of recipes for tag. The cache key is the
// lowercased tag; a cached page is reused only for the same skip and limit.
func (s *DataService) RecipesByTag(ctx context.Context, tag string, skip, limit int, force bool) (*client.RecipePage, error) {
	page, err := track(s, ResourceRecipesByTag, "Failed to fetch recipes by tag", func() (client.RecipePage, error) {
		key := TagKey(tag)
		if key == "" {
			return client.RecipePage{}, ErrTagRequired
		}
		variant := fmt.Sprintf("%d:%d", skip, limit)
		return s.byTag.FetchVariant(ctx, key, variant, force, func(ctx context.Context) (client.RecipePage, error) {
			p, err := s.recipeAPI.RecipesByTag(ctx, strings.TrimSpace(tag), skip, limit)
			if err != nil {
				return client.RecipePage{}, err
			}
			return *p, nil
		})
	})
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// PeekRecipesByTag returns the last page stored for tag, fresh or not.
func (s *DataService) PeekRecipesByTag(ctx context.Context, tag string) (*client.RecipePage, bool) {
	page, _, ok := s.byTag.Peek(ctx, TagKey(tag))
	if !ok {
		return nil, false
	}
	return &page, true
}

// Carts returns a page of remote carts.
func (s *DataService) Carts(ctx context.Context, skip, limit int, force bool) (*client.CartPage, error) {
	page, err := track(s, ResourceCarts, "Failed to fetch carts", func() (client.CartPage, error) {
		variant := fmt.Sprintf("%d:%d", skip, limit)
		return s.carts.FetchVariant(ctx, "all", variant, force, func(ctx context.Context) (client.CartPage, error) {
			p, err := s.cartAPI.Carts(ctx, skip, limit)
			if err != nil {
				return client.CartPage{}, err
			}
			return *p, nil
		})
	})
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// CartsByUser returns the remote carts of one user.
func (s *DataService) CartsByUser(ctx context.Context, userID int, force bool) (*client.CartPage, error) {
	page, err := track(s, ResourceUserCarts, "Failed to fetch user carts", func() (client.CartPage, error) {
		if userID <= 0 {
			return client.CartPage{}, client.ErrInvalidID
		}
		return s.userCarts.Fetch(ctx, strconv.Itoa(userID), force, func(ctx context.Context) (client.CartPage, error) {
			p, err := s.cartAPI.CartsByUser(ctx, userID)
			if err != nil {
				return client.CartPage{}, err
			}
			return *p, nil
		})
	})
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// ResolveTag maps a free-text search to a tag using the cached vocabulary.
// A failed tag fetch resolves against an empty vocabulary.
func (s *DataService) ResolveTag(ctx context.Context, query string) string {
	tags, err := s.Tags(ctx, false)
	if err != nil {
		tags = nil
	}
	return ResolveTag(query, tags)
}
