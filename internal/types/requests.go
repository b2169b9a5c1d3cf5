package types

// LoginForm is posted by the login page.
type LoginForm struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required,min=6"`
	Remember bool   `form:"remember" json:"remember"`
}

// RegisterForm is posted by the registration page.
type RegisterForm struct {
	FirstName string `form:"firstName" json:"firstName" binding:"required"`
	LastName  string `form:"lastName" json:"lastName" binding:"required"`
	Email     string `form:"email" json:"email" binding:"required,email"`
	Phone     string `form:"phone" json:"phone" binding:"required"`
	Address   string `form:"address" json:"address"`
	City      string `form:"city" json:"city" binding:"required"`
	PostCode  string `form:"postCode" json:"postCode"`
	Country   string `form:"country" json:"country" binding:"required"`
	Region    string `form:"region" json:"region" binding:"required"`
}

// AddToCartForm adds a product to the local cart from an HTML form.
type AddToCartForm struct {
	ID    int     `form:"id" binding:"required,gt=0"`
	Title string  `form:"title"`
	Price float64 `form:"price" binding:"gte=0"`
	Image string  `form:"image"`
	Qty   string  `form:"qty"`
	// Sync pushes the added line to the demo API as a remote cart.
	Sync bool `form:"sync"`
}

// CartItemRequest adds a product to the local cart through the JSON API.
type CartItemRequest struct {
	ID    int     `json:"id" binding:"required,gt=0"`
	Title string  `json:"title"`
	Price float64 `json:"price" binding:"gte=0"`
	Image string  `json:"image"`
	Qty   int     `json:"qty"`
}

// SetQtyForm sets the quantity of a cart line from free text.
type SetQtyForm struct {
	Qty string `form:"qty"`
}

// SetQtyRequest sets the quantity of a cart line through the JSON API.
type SetQtyRequest struct {
	Qty int `json:"qty"`
}

// CheckoutForm is posted by the checkout page.
type CheckoutForm struct {
	Delivery string `form:"delivery" json:"delivery" binding:"required,oneof=free flat"`
	Payment  string `form:"payment" json:"payment" binding:"required,oneof=cod upi bank"`
}

// WishlistRequest toggles a recipe on the wishlist.
type WishlistRequest struct {
	ID int `form:"id" json:"id" binding:"required,gt=0"`
}

// LineItemRequest is one {id, quantity} pair of a remote cart write.
type LineItemRequest struct {
	ID       int `json:"id"`
	Quantity int `json:"quantity"`
}

// CreateCartRequest is the JSON body of POST /api/v1/carts.
type CreateCartRequest struct {
	UserID   int               `json:"userId"`
	Products []LineItemRequest `json:"products"`
}

// UpdateCartRequest is the JSON body of PUT /api/v1/carts/:id. Merge defaults to true.
type UpdateCartRequest struct {
	Merge    *bool             `json:"merge"`
	Products []LineItemRequest `json:"products"`
}

// LoadCartsRequest loads remote carts into the visitor's cart state: one
// user's carts when UserID is set, otherwise the full listing.
type LoadCartsRequest struct {
	UserID int `json:"userId" binding:"gte=0"`
}
