package product

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"velora_back_end/internal/models"
)

// Le prix renvoyé pour un produit vedette est le prix remisé (-10%),
// le prix catalogue reste disponible dans originalPrice.
func TestWithFeaturedPricesDiscountsPriceField(t *testing.T) {
	views := withFeaturedPrices([]models.Product{
		{Name: "Clavier", Price: 100, IsFeatured: true},
		{Name: "Souris", Price: 19.99, IsFeatured: true},
	})

	assert.Len(t, views, 2)

	assert.Equal(t, float64(90), views[0]["price"])
	assert.Equal(t, float64(100), views[0]["originalPrice"])

	assert.Equal(t, 17.99, views[1]["price"])
	assert.Equal(t, 19.99, views[1]["originalPrice"])
}

func TestWithFeaturedPricesEmpty(t *testing.T) {
	assert.Empty(t, withFeaturedPrices(nil))
}
