package service

import (
	"context"
	"time"

	"github.com/pageza/foodtrove/internal/client"
)

// RecipeAPI reads the recipe catalog.
type RecipeAPI interface {
	Recipes(ctx context.Context) ([]client.Recipe, error)
	Recipe(ctx context.Context, id int) (*client.Recipe, error)
	Tags(ctx context.Context) ([]string, error)
	RecipesByTag(ctx context.Context, tag string, skip, limit int) (*client.RecipePage, error)
}

// CartAPI reads and simulates writes of remote carts.
type CartAPI interface {
	Carts(ctx context.Context, skip, limit int) (*client.CartPage, error)
	Cart(ctx context.Context, id int) (*client.Cart, error)
	CartsByUser(ctx context.Context, userID int) (*client.CartPage, error)
	AddCart(ctx context.Context, userID int, products []client.LineItem) (*client.Cart, error)
	UpdateCart(ctx context.Context, id int, merge bool, products []client.LineItem) (*client.Cart, error)
	DeleteCart(ctx context.Context, id int) (*client.Cart, error)
}

// AuthAPI authenticates and registers users.
type AuthAPI interface {
	Login(ctx context.Context, req client.LoginRequest) (*client.LoginResponse, error)
	AddUser(ctx context.Context, user client.NewUser) (*client.User, error)
}

// DeviceStorage is the visitor's key-value store.
type DeviceStorage interface {
	Get(ctx context.Context, sessionID, key string) (string, error)
	Set(ctx context.Context, sessionID, key, value string) error
	Delete(ctx context.Context, sessionID, key string) error
}

// ReceiptArchiver stores order receipts outside the database.
type ReceiptArchiver interface {
	PutReceipt(ctx context.Context, objectKey string, body []byte) error
	GeneratePresignedURL(ctx context.Context, objectKey string, expiration time.Duration) (string, error)
}

// JSONStorage is DeviceStorage with JSON helpers.
type JSONStorage interface {
	DeviceStorage
	GetJSON(ctx context.Context, sessionID, key string, v interface{}) (bool, error)
	SetJSON(ctx context.Context, sessionID, key string, v interface{}) error
}
