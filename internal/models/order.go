package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/foodtrove/internal/cart"
)

// OrderItems stores the purchased cart lines as JSON
type OrderItems []cart.Item

// Value implements the driver.Valuer interface
func (o OrderItems) Value() (driver.Value, error) {
	if len(o) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(o)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (o *OrderItems) Scan(value interface{}) error {
	if value == nil {
		*o = OrderItems{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported order items type %T", value)
	}
	return json.Unmarshal(raw, o)
}

// Order is the receipt of a placed order
type Order struct {
	ID             uuid.UUID  `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt      time.Time  `json:"created_at"`
	SessionID      string     `gorm:"type:varchar(36);not null;index" json:"-"`
	UserID         int        `json:"user_id"`
	RemoteCartID   int        `json:"remote_cart_id"`
	Items          OrderItems `gorm:"type:text;not null" json:"items"`
	Delivery       string     `gorm:"size:16;not null" json:"delivery"`
	Payment        string     `gorm:"size:16;not null" json:"payment"`
	Subtotal       float64    `json:"subtotal"`
	DeliveryCharge float64    `json:"delivery_charge"`
	Total          float64    `json:"total"`
	ReceiptKey     string     `gorm:"size:255" json:"receipt_key,omitempty"`
}

// BeforeCreate assigns an id to new orders
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
