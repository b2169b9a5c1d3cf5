package client

// Recipe is a recipe record as served by the demo API.
type Recipe struct {
	ID                 int      `json:"id"`
	Name               string   `json:"name"`
	Image              string   `json:"image"`
	Cuisine            string   `json:"cuisine"`
	MealType           []string `json:"mealType"`
	Rating             float64  `json:"rating"`
	ReviewCount        int      `json:"reviewCount"`
	Difficulty         string   `json:"difficulty"`
	PrepTimeMinutes    int      `json:"prepTimeMinutes"`
	CookTimeMinutes    int      `json:"cookTimeMinutes"`
	Servings           int      `json:"servings"`
	CaloriesPerServing int      `json:"caloriesPerServing"`
	Ingredients        []string `json:"ingredients"`
	Instructions       []string `json:"instructions"`
	Tags               []string `json:"tags"`
	UserID             int      `json:"userId"`
}

// RecipePage is one page of recipes for a tag.
type RecipePage struct {
	Recipes []Recipe `json:"recipes"`
	Total   int      `json:"total"`
	Skip    int      `json:"skip"`
	Limit   int      `json:"limit"`
}

// CartProduct is a product line inside a remote cart.
type CartProduct struct {
	ID                 int     `json:"id"`
	Title              string  `json:"title"`
	Price              float64 `json:"price"`
	Quantity           int     `json:"quantity"`
	Total              float64 `json:"total"`
	DiscountPercentage float64 `json:"discountPercentage"`
	DiscountedTotal    float64 `json:"discountedTotal"`
	Thumbnail          string  `json:"thumbnail"`
}

// Cart is a remote cart. The demo API simulates writes and never persists them.
type Cart struct {
	ID              int           `json:"id"`
	Products        []CartProduct `json:"products"`
	Total           float64       `json:"total"`
	DiscountedTotal float64       `json:"discountedTotal"`
	UserID          int           `json:"userId"`
	TotalProducts   int           `json:"totalProducts"`
	TotalQuantity   int           `json:"totalQuantity"`
	IsDeleted       bool          `json:"isDeleted,omitempty"`
	DeletedOn       string        `json:"deletedOn,omitempty"`
}

// CartPage is a page of remote carts.
type CartPage struct {
	Carts []Cart `json:"carts"`
	Total int    `json:"total"`
	Skip  int    `json:"skip"`
	Limit int    `json:"limit"`
}

// LineItem is the {id, quantity} pair sent when creating or updating a cart.
type LineItem struct {
	ID       int `json:"id"`
	Quantity int `json:"quantity"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username      string `json:"username"`
	Password      string `json:"password"`
	ExpiresInMins int    `json:"expiresInMins"`
}

// LoginResponse is the authenticated user returned by POST /auth/login.
type LoginResponse struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Gender       string `json:"gender"`
	Image        string `json:"image"`
	AccessToken  string `json:"accessToken"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// BearerToken returns accessToken, falling back to the legacy token field.
func (r *LoginResponse) BearerToken() string {
	if r.AccessToken != "" {
		return r.AccessToken
	}
	return r.Token
}

// Address is the postal address of a new user.
type Address struct {
	Address    string `json:"address,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country"`
}

// NewUser is the body of POST /users/add.
type NewUser struct {
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone"`
	Address   Address `json:"address"`
}

// User is the simulated user record echoed by POST /users/add.
type User struct {
	ID        int     `json:"id"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone"`
	Address   Address `json:"address"`
}
