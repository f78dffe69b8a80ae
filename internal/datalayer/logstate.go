package datalayer

import "datalayer/internal/models"

const (
	logStateLoggedOut = "Logged Out"
	customerTypeNew   = "New"
)

// LogState builds the logState snapshot for an order. The three address
// blocks are filled independently; a missing record leaves its block null.
func (b *Builder) LogState(order *models.Order) (*LogState, error) {
	if order == nil {
		return nil, missing(EventLogState, "order")
	}

	state := &LogState{
		Name:          EventLogState,
		LogState:      logStateLoggedOut,
		Currency:      order.Currency,
		CustomerEmail: order.BillingEmail,
		CheckoutEmail: order.BillingEmail,
		CustomerType:  customerTypeNew,
	}

	if c := order.Customer; c != nil {
		billing := c.Billing
		if billing == nil {
			billing = &models.Address{}
		}
		state.CustomerInfo = AddressInfo{
			FullName:    join(c.FirstName, c.LastName),
			FirstName:   c.FirstName,
			LastName:    c.LastName,
			Address1:    billing.Address1,
			Address2:    billing.Address2,
			Street:      join(billing.Address1, billing.Address2),
			City:        billing.City,
			State:       billing.State,
			StateCode:   billing.State,
			Zip:         billing.Postcode,
			Country:     billing.Country,
			CountryCode: billing.Country,
		}
	}
	if order.Shipping != nil {
		state.ShippingInfo = addressInfo(order.Shipping)
	}
	if order.Billing != nil {
		state.BillingInfo = addressInfo(order.Billing)
	}
	return state, nil
}

func addressInfo(a *models.Address) AddressInfo {
	return AddressInfo{
		FullName:    join(a.FirstName, a.LastName),
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		Address1:    a.Address1,
		Address2:    a.Address2,
		Street:      join(a.Address1, a.Address2),
		City:        a.City,
		State:       a.State,
		StateCode:   a.State,
		Zip:         a.Postcode,
		Country:     a.Country,
		CountryCode: a.Country,
		Phone:       a.Phone,
	}
}

// join concatenates with a single space even when either side is empty, so
// "Ada" and nil give "Ada ".
func join(a, b *string) *string {
	s := deref(a) + " " + deref(b)
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
