package domain

// CartLine is one product/quantity pair held on the device before an order exists.
type CartLine struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type Cart struct {
	Lines []CartLine `json:"lines"`
}

func NewCart() Cart {
	return Cart{Lines: []CartLine{}}
}

// Find returns the line index for productID or -1.
func (c Cart) Find(productID string) int {
	for i, l := range c.Lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

func (c Cart) Quantity(productID string) int {
	if i := c.Find(productID); i >= 0 {
		return c.Lines[i].Quantity
	}
	return 0
}

func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Clone returns a deep copy; the result never has nil Lines.
func (c Cart) Clone() Cart {
	lines := make([]CartLine, len(c.Lines))
	copy(lines, c.Lines)
	return Cart{Lines: lines}
}

// Valid reports whether every quantity is positive and product ids are unique and non-empty.
func (c Cart) Valid() bool {
	seen := make(map[string]struct{}, len(c.Lines))
	for _, l := range c.Lines {
		if l.ProductID == "" || l.Quantity <= 0 {
			return false
		}
		if _, dup := seen[l.ProductID]; dup {
			return false
		}
		seen[l.ProductID] = struct{}{}
	}
	return true
}
