//go:build property
// +build property

package datalayer

import (
	"regexp"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"datalayer/internal/models"
)

var hex8Pattern = regexp.MustCompile(`^[0-9a-f]{8}$`)

// Property: StoreID(d) is always 8 lowercase hex chars and stable.
func TestStoreIDShape(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("store id is deterministic 8-hex", prop.ForAll(
		func(domain string) bool {
			id := StoreID(domain)
			return hex8Pattern.MatchString(id) && id == StoreID(domain)
		},
		gen.AnyString(),
	))

	properties.Property("stripping is idempotent once www is gone", prop.ForAll(
		func(host string) bool {
			once := StripProtocolAndWww("https://www." + host)
			return once == host && StripProtocolAndWww(once) == once
		},
		gen.Identifier(),
	))

	properties.TestingRun(t)
}

// Property: VariantName returns the last non-empty value, or the default.
func TestVariantNameFold(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("last non-empty attribute wins", prop.ForAll(
		func(def string, values []string) bool {
			attrs := make([]models.Attribute, len(values))
			want := def
			for i, v := range values {
				attrs[i] = models.Attribute{Key: "k", Value: v}
				if v != "" {
					want = v
				}
			}
			return VariantName(def, attrs) == want
		},
		gen.AlphaString(),
		gen.SliceOf(gen.AlphaString()),
	))

	properties.TestingRun(t)
}
