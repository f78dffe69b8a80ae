package datalayer

import "datalayer/internal/models"

type PageType string

const (
	PageHome                PageType = "home"
	PageCollections         PageType = "collections"
	PageProduct             PageType = "product"
	PageCart                PageType = "cart"
	PageCheckout            PageType = "checkout"
	PageCategoryCollections PageType = "category collections"
	PageTagCollections      PageType = "tag collections"
	PageThankYou            PageType = "thank you page"

	// PageUnknown is emitted literally when no predicate matches.
	PageUnknown PageType = "Page Type"
)

// ResolvePageType applies the predicates in fixed priority order; the first
// match wins.
func ResolvePageType(p models.PageContext) PageType {
	switch {
	case p.IsFrontPage:
		return PageHome
	case p.IsShop:
		return PageCollections
	case p.IsProduct:
		return PageProduct
	case p.IsCart:
		return PageCart
	case p.IsCheckout:
		return PageCheckout
	case p.IsProductCategory:
		return PageCategoryCollections
	case p.IsProductTag:
		return PageTagCollections
	default:
		return PageUnknown
	}
}
