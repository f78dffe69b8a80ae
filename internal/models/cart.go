package models

type Cart struct {
	Lines []CartLine `json:"lines"`
}

type CartLine struct {
	Product   Product     `json:"product"`
	Quantity  int         `json:"quantity"`
	Variation []Attribute `json:"variation"`
}

// IsEmpty reports whether the cart has no lines. A nil cart is empty.
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Lines) == 0
}
