package testhelpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/pageza/foodtrove/internal/client"
)

// FakeAPI is an in-process stand-in for the demo API that counts calls per path.
type FakeAPI struct {
	Server *httptest.Server

	mu       sync.Mutex
	recipes  []client.Recipe
	tags     []string
	calls    map[string]int
	failures map[string]fakeFailure
	gate     chan struct{}
	bodies   map[string][]byte
}

type fakeFailure struct {
	status  int
	message string
}

// NewFakeAPI starts a fake API seeded with SampleRecipes and closes it on cleanup.
func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()

	f := &FakeAPI{
		recipes:  SampleRecipes(),
		tags:     []string{"Italian", "Indian", "Indonesian", "Pizza", "Dessert"},
		calls:    make(map[string]int),
		failures: make(map[string]fakeFailure),
		bodies:   make(map[string][]byte),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /recipes", f.listRecipes)
	mux.HandleFunc("GET /recipes/tags", f.listTags)
	mux.HandleFunc("GET /recipes/tag/{tag}", f.recipesByTag)
	mux.HandleFunc("GET /recipes/{id}", f.getRecipe)
	mux.HandleFunc("GET /carts", f.listCarts)
	mux.HandleFunc("GET /carts/{id}", f.getCart)
	mux.HandleFunc("GET /carts/user/{id}", f.cartsByUser)
	mux.HandleFunc("POST /carts/add", f.addCart)
	mux.HandleFunc("PUT /carts/{id}", f.updateCart)
	mux.HandleFunc("DELETE /carts/{id}", f.deleteCart)
	mux.HandleFunc("POST /auth/login", f.login)
	mux.HandleFunc("POST /users/add", f.addUser)

	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.calls[r.URL.Path]++
		failure, failing := f.failures[r.URL.Path]
		gate := f.gate
		f.mu.Unlock()

		if gate != nil {
			<-gate
		}
		if failing {
			writeJSON(w, failure.status, map[string]string{"message": failure.message})
			return
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(f.Server.Close)

	return f
}

// URL returns the base URL of the fake API.
func (f *FakeAPI) URL() string {
	return f.Server.URL
}

// Calls returns how many requests hit path.
func (f *FakeAPI) Calls(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[path]
}

// Fail makes every request to path answer with status and a {"message"} body.
// An empty message produces a body without a usable message.
func (f *FakeAPI) Fail(path string, status int, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[path] = fakeFailure{status: status, message: message}
}

// Heal removes a failure set with Fail.
func (f *FakeAPI) Heal(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.failures, path)
}

// Hold blocks every request until the returned release function is called.
func (f *FakeAPI) Hold() (release func()) {
	gate := make(chan struct{})
	f.mu.Lock()
	f.gate = gate
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			f.gate = nil
			f.mu.Unlock()
			close(gate)
		})
	}
}

// SetTags replaces the tag vocabulary.
func (f *FakeAPI) SetTags(tags []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tags = tags
}

// SetRecipes replaces the recipe catalog.
func (f *FakeAPI) SetRecipes(recipes []client.Recipe) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recipes = recipes
}

// LastBody returns the last JSON body posted to path.
func (f *FakeAPI) LastBody(path string) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bodies[path]
}

func (f *FakeAPI) record(r *http.Request) []byte {
	var raw json.RawMessage
	_ = json.NewDecoder(r.Body).Decode(&raw)
	f.mu.Lock()
	f.bodies[r.URL.Path] = raw
	f.mu.Unlock()
	return raw
}

func (f *FakeAPI) snapshot() ([]client.Recipe, []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]client.Recipe(nil), f.recipes...), append([]string(nil), f.tags...)
}

func (f *FakeAPI) listRecipes(w http.ResponseWriter, r *http.Request) {
	recipes, _ := f.snapshot()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"recipes": recipes, "total": len(recipes), "skip": 0, "limit": len(recipes),
	})
}

func (f *FakeAPI) listTags(w http.ResponseWriter, r *http.Request) {
	_, tags := f.snapshot()
	writeJSON(w, http.StatusOK, tags)
}

func (f *FakeAPI) getRecipe(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.PathValue("id"))
	recipes, _ := f.snapshot()
	for _, recipe := range recipes {
		if recipe.ID == id {
			writeJSON(w, http.StatusOK, recipe)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Recipe with id '" + r.PathValue("id") + "' not found"})
}

func (f *FakeAPI) recipesByTag(w http.ResponseWriter, r *http.Request) {
	tag := strings.ToLower(r.PathValue("tag"))
	recipes, _ := f.snapshot()

	matched := []client.Recipe{}
	for _, recipe := range recipes {
		for _, t := range recipe.Tags {
			if strings.ToLower(t) == tag {
				matched = append(matched, recipe)
				break
			}
		}
	}

	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	total := len(matched)
	if skip > total {
		skip = total
	}
	end := total
	if limit > 0 && skip+limit < total {
		end = skip + limit
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"recipes": matched[skip:end], "total": total, "skip": skip, "limit": limit,
	})
}

func sampleCart(id, userID int) client.Cart {
	return client.Cart{
		ID:     id,
		UserID: userID,
		Products: []client.CartProduct{
			{ID: 1, Title: "Classic Margherita Pizza", Price: 10, Quantity: 2, Total: 20},
		},
		Total:         20,
		TotalProducts: 1,
		TotalQuantity: 2,
	}
}

func (f *FakeAPI) listCarts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, client.CartPage{
		Carts: []client.Cart{sampleCart(1, 1), sampleCart(2, 5)},
		Total: 50, Skip: 0, Limit: 2,
	})
}

func (f *FakeAPI) getCart(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.PathValue("id"))
	if id > 50 {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Cart with id '" + r.PathValue("id") + "' not found"})
		return
	}
	writeJSON(w, http.StatusOK, sampleCart(id, 1))
}

func (f *FakeAPI) cartsByUser(w http.ResponseWriter, r *http.Request) {
	userID, _ := strconv.Atoi(r.PathValue("id"))
	writeJSON(w, http.StatusOK, client.CartPage{
		Carts: []client.Cart{sampleCart(7, userID)},
		Total: 1, Skip: 0, Limit: 1,
	})
}

func (f *FakeAPI) addCart(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID   int               `json:"userId"`
		Products []client.LineItem `json:"products"`
	}
	_ = json.Unmarshal(f.record(r), &body)

	cart := client.Cart{ID: 51, UserID: body.UserID}
	for _, p := range body.Products {
		cart.Products = append(cart.Products, client.CartProduct{ID: p.ID, Quantity: p.Quantity})
		cart.TotalQuantity += p.Quantity
	}
	cart.TotalProducts = len(cart.Products)
	writeJSON(w, http.StatusCreated, cart)
}

func (f *FakeAPI) updateCart(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.PathValue("id"))
	var body struct {
		Merge    bool              `json:"merge"`
		Products []client.LineItem `json:"products"`
	}
	_ = json.Unmarshal(f.record(r), &body)

	cart := sampleCart(id, 1)
	if !body.Merge {
		cart.Products = nil
	}
	for _, p := range body.Products {
		cart.Products = append(cart.Products, client.CartProduct{ID: p.ID, Quantity: p.Quantity})
	}
	cart.TotalProducts = len(cart.Products)
	writeJSON(w, http.StatusOK, cart)
}

func (f *FakeAPI) deleteCart(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.PathValue("id"))
	cart := sampleCart(id, 1)
	cart.IsDeleted = true
	cart.DeletedOn = "2024-01-01T00:00:00.000Z"
	writeJSON(w, http.StatusOK, cart)
}

// Valid login credentials accepted by the fake API.
const (
	FakeUsername = "emilys"
	FakePassword = "emilyspass"
)

func (f *FakeAPI) login(w http.ResponseWriter, r *http.Request) {
	var body client.LoginRequest
	_ = json.Unmarshal(f.record(r), &body)

	if body.Username != FakeUsername || body.Password != FakePassword {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid credentials"})
		return
	}
	writeJSON(w, http.StatusOK, client.LoginResponse{
		ID:          1,
		Username:    FakeUsername,
		Email:       "emily.johnson@x.dummyjson.com",
		FirstName:   "Emily",
		LastName:    "Johnson",
		AccessToken: "fake-access-token",
	})
}

func (f *FakeAPI) addUser(w http.ResponseWriter, r *http.Request) {
	var user client.User
	_ = json.Unmarshal(f.record(r), &user)
	user.ID = 209
	writeJSON(w, http.StatusCreated, user)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// SampleRecipes is a small fixed catalog used across tests.
func SampleRecipes() []client.Recipe {
	return []client.Recipe{
		{ID: 1, Name: "Classic Margherita Pizza", Cuisine: "Italian", MealType: []string{"Dinner"}, Rating: 4.6, Tags: []string{"Pizza", "Italian"}, UserID: 166, Image: "https://cdn.dummyjson.com/recipe-images/1.webp"},
		{ID: 2, Name: "Vegetarian Stir-Fry", Cuisine: "Asian", MealType: []string{"Lunch"}, Rating: 4.7, Tags: []string{"Vegetarian", "Stir-fry"}, UserID: 143},
		{ID: 3, Name: "Chocolate Chip Cookies", MealType: []string{"Snack", "Dessert"}, Rating: 4.9, Tags: []string{"Cookies", "Dessert"}, UserID: 34},
		{ID: 4, Name: "Chicken Tikka Masala", Cuisine: "Indian", MealType: []string{"Dinner"}, Rating: 4.3, Tags: []string{"Indian", "Curry"}},
		{ID: 5, Name: "Beef Rendang", Cuisine: "Indonesian", Rating: 4.5, Tags: []string{"Indonesian"}, UserID: 7},
		{ID: 6, Name: "Tiramisu", Cuisine: "Italian", MealType: []string{"Dessert"}, Rating: 4.8, Tags: []string{"Italian", "Dessert"}, UserID: 12},
	}
}
