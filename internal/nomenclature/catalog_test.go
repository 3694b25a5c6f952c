package nomenclature

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatalog_Requirements(t *testing.T) {
	c := DefaultCatalog()

	assert.True(t, c.NeedsColor("латекс hr"), "case-insensitive against 'латекс HR'")
	assert.True(t, c.NeedsColor("стер лат 1-хлор"))
	assert.False(t, c.NeedsColor("хир"))

	assert.True(t, c.NeedsCollar("Гинекология"))
	assert.False(t, c.NeedsCollar("латекс диаг"))
}

func TestCatalog_EveryRequiredTypeIsOffered(t *testing.T) {
	c := DefaultCatalog()
	for _, name := range append(append([]string{}, c.ColorRequired...), c.CollarRequired...) {
		assert.True(t, containsFold(c.ProductTypes, name), "%q is not in the product type menu", name)
	}
}

func TestCatalog_Merge(t *testing.T) {
	custom := Catalog{Sizes: []string{"S", "M"}}
	merged := custom.Merge(DefaultCatalog())

	assert.Equal(t, []string{"S", "M"}, merged.Sizes)
	assert.Equal(t, DefaultCatalog().Colors, merged.Colors)
	assert.Equal(t, DefaultCatalog().ProductTypes, merged.ProductTypes)
}
