package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Seller struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Picture *string `json:"picture,omitempty"`
}

type Product struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Desc      string          `json:"desc"`
	Price     decimal.Decimal `json:"price"`
	Images    []string        `json:"images"`
	UserID    string          `json:"userId"`
	User      *Seller         `json:"user,omitempty"`
	IsDeleted bool            `json:"isDeleted"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Cover returns the first image URL, or an empty string.
func (p Product) Cover() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
