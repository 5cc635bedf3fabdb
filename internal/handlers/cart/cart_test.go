package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"velora_back_end/internal/models"
)

func TestAddOrIncrement(t *testing.T) {
	p1 := primitive.NewObjectID()
	p2 := primitive.NewObjectID()

	items := addOrIncrement(nil, p1, 2)
	assert.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)

	// Même produit : la quantité s'incrémente
	items = addOrIncrement(items, p1, 3)
	assert.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)

	// Autre produit : une nouvelle ligne
	items = addOrIncrement(items, p2, 1)
	assert.Len(t, items, 2)
	assert.Equal(t, 1, items[1].Quantity)
}

func TestSetQuantity(t *testing.T) {
	p1 := primitive.NewObjectID()
	p2 := primitive.NewObjectID()
	items := []models.CartItem{
		{Product: p1, Quantity: 2},
		{Product: p2, Quantity: 1},
	}

	out, found := setQuantity(items, p1, 4)
	assert.True(t, found)
	assert.Equal(t, 4, out[0].Quantity)

	// Quantité 0 : l'item disparaît
	out, found = setQuantity(out, p1, 0)
	assert.True(t, found)
	assert.Len(t, out, 1)
	assert.Equal(t, p2, out[0].Product)

	// Produit absent
	_, found = setQuantity(out, primitive.NewObjectID(), 3)
	assert.False(t, found)
}

func TestRemoveItem(t *testing.T) {
	p1 := primitive.NewObjectID()
	p2 := primitive.NewObjectID()
	items := []models.CartItem{
		{Product: p1, Quantity: 2},
		{Product: p2, Quantity: 1},
	}

	out := removeItem(items, p1)
	assert.Len(t, out, 1)
	assert.Equal(t, p2, out[0].Product)

	// Retirer un produit absent ne change rien
	out = removeItem(out, primitive.NewObjectID())
	assert.Len(t, out, 1)
}
