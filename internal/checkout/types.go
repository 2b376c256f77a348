package checkout

import (
	"time"

	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/pkg/enums"
	"github.com/shopspring/decimal"
)

// ShippingAddress is where the order ships.
type ShippingAddress struct {
	Name       string `json:"name" validate:"required"`
	Line1      string `json:"line1" validate:"required"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
	Country    string `json:"country" validate:"required,len=2"`
}

// Input is what the shopper submits at checkout.
type Input struct {
	ShippingAddress *ShippingAddress `json:"shipping_address" validate:"required"`
	CustomerEmail   string           `json:"customer_email" validate:"required,email"`
}

// Draft is the priced order built from the cart. Shipping and tax are zero.
type Draft struct {
	Items           []cart.Line     `json:"items"`
	ItemCount       int             `json:"item_count"`
	Currency        enums.Currency  `json:"currency"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Shipping        decimal.Decimal `json:"shipping"`
	Tax             decimal.Decimal `json:"tax"`
	Total           decimal.Decimal `json:"total"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	CustomerEmail   string          `json:"customer_email"`
}

// Confirmation identifies an order accepted by the order collaborator.
type Confirmation struct {
	OrderID     string          `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	Total       decimal.Decimal `json:"total"`
	Currency    enums.Currency  `json:"currency"`
	PlacedAt    time.Time       `json:"placed_at"`
}
