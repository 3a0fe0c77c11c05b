package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// OrderItem carries the price captured when the order was placed.
type OrderItem struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"productId"`
	Quantity     int             `json:"quantity"`
	PricePerItem decimal.Decimal `json:"pricePerItem"`
	Total        decimal.Decimal `json:"total"`
	Product      *Product        `json:"product,omitempty"`
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.PricePerItem.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Order struct {
	ID          string          `json:"id"`
	Total       decimal.Decimal `json:"total"`
	Status      OrderStatus     `json:"status"`
	Latitude    float64         `json:"latitude"`
	Longitude   float64         `json:"longitude"`
	Location    string          `json:"location"`
	SnapToken   *string         `json:"mtSnapToken,omitempty"`
	RedirectURL *string         `json:"mtRedirectUrl,omitempty"`
	UserID      string          `json:"userId"`
	Items       []OrderItem     `json:"orderItems"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (o Order) Coordinates() Coordinates {
	return Coordinates{Latitude: o.Latitude, Longitude: o.Longitude}
}

// PaymentURL returns the payment redirect URL, or "" when none was issued.
func (o Order) PaymentURL() string {
	if o.RedirectURL == nil {
		return ""
	}
	return *o.RedirectURL
}

// Can reports whether the client may request action for the order's current status.
func (o Order) Can(action Action) bool {
	for _, a := range AllowedActions(o) {
		if a == action {
			return true
		}
	}
	return false
}
