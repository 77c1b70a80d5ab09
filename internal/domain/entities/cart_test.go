package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCartAddItem_GroupsEqualLines(t *testing.T) {
	var c Cart
	bacon := CartItemModifier{PDVCode: "A1", Name: "Bacon", Action: ModifierActionAdd, Quantity: 1, UnitPrice: 4}

	c.AddItem(CartItem{PDVCode: "P1", Name: "X Salada", Quantity: 1, UnitPrice: 20, Modifiers: []CartItemModifier{bacon}})
	c.AddItem(CartItem{PDVCode: "P1", Name: "X Salada", Quantity: 2, UnitPrice: 20, Modifiers: []CartItemModifier{bacon}})
	// Different modifier set: stays a separate line.
	c.AddItem(CartItem{PDVCode: "P1", Name: "X Salada", Quantity: 1, UnitPrice: 20})

	assert.Len(t, c.Items, 2)
	assert.Equal(t, 3, c.Items[0].Quantity)
	assert.Equal(t, 1, c.Items[1].Quantity)
	assert.Equal(t, 3*24.0+20.0, c.Subtotal())
}

func TestCartRemoveItem(t *testing.T) {
	var c Cart
	c.AddItem(CartItem{PDVCode: "P1", Name: "X Salada", Quantity: 3, UnitPrice: 20})

	assert.True(t, c.RemoveItem("P1", 1))
	assert.Equal(t, 2, c.Items[0].Quantity)

	// Removing the rest drops the line entirely.
	assert.True(t, c.RemoveItem("P1", 5))
	assert.True(t, c.IsEmpty())

	assert.False(t, c.RemoveItem("P9", 1))
}

func TestCartSummary(t *testing.T) {
	var c Cart
	assert.Equal(t, "Seu carrinho está vazio.", c.Summary())

	c.AddItem(CartItem{
		PDVCode:   "P1",
		Name:      "X Salada",
		Quantity:  2,
		UnitPrice: 20,
		Modifiers: []CartItemModifier{
			{PDVCode: "A1", Name: "Bacon", Action: ModifierActionAdd, Quantity: 1, UnitPrice: 4},
			{PDVCode: "A3", Name: "Cebola", Action: ModifierActionRemove, Quantity: 1},
		},
		Notes: "bem passado",
	})

	s := c.Summary()
	assert.Contains(t, s, "*Seu Pedido:*")
	assert.Contains(t, s, "2x X Salada")
	assert.Contains(t, s, "+Bacon")
	assert.Contains(t, s, "-Cebola")
	assert.Contains(t, s, "_Obs: bem passado_")
	assert.Contains(t, s, "*Subtotal: R$ 48.00*")
}
