package catalog

import (
	"github.com/fjod/aquago-storefront/internal/domain"
	"github.com/shopspring/decimal"
)

// Item is one cart line resolved against live product data.
type Item struct {
	Product   domain.Product  `json:"product"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

type View struct {
	Items []Item          `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// Join pairs catalog products with cart lines, in catalog order, priced at
// the live catalog price. Lines whose product is absent from the catalog are
// skipped; the cart itself is left alone.
func Join(products []domain.Product, lines []domain.CartLine) View {
	quantities := make(map[string]int, len(lines))
	for _, l := range lines {
		quantities[l.ProductID] = l.Quantity
	}

	view := View{Items: []Item{}, Total: decimal.Zero}
	for _, p := range products {
		qty, ok := quantities[p.ID]
		if !ok {
			continue
		}
		// first occurrence wins if the listing repeats a product
		delete(quantities, p.ID)

		lineTotal := p.Price.Mul(decimal.NewFromInt(int64(qty)))
		view.Items = append(view.Items, Item{Product: p, Quantity: qty, LineTotal: lineTotal})
		view.Total = view.Total.Add(lineTotal)
	}
	return view
}
