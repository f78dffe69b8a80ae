package triggers

import "fmt"

// Trigger names a storefront lifecycle point.
type Trigger int

const (
	PageRender Trigger = iota + 1
	ProductView
	AddToCart
	CheckoutView
	OrderComplete
)

var triggerNames = map[Trigger]string{
	PageRender:    "page_render",
	ProductView:   "product_view",
	AddToCart:     "add_to_cart",
	CheckoutView:  "checkout_view",
	OrderComplete: "order_complete",
}

func (t Trigger) String() string {
	if name, ok := triggerNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Trigger(%d)", int(t))
}

// ParseTrigger is the inverse of String.
func ParseTrigger(name string) (Trigger, error) {
	for t, n := range triggerNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown trigger %q", name)
}

func (t Trigger) MarshalText() ([]byte, error) {
	if _, ok := triggerNames[t]; !ok {
		return nil, fmt.Errorf("unknown trigger %d", int(t))
	}
	return []byte(t.String()), nil
}

func (t *Trigger) UnmarshalText(text []byte) error {
	parsed, err := ParseTrigger(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
