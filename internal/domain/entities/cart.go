package entities

import (
	"fmt"
	"strings"
)

// ModifierAction is the polarity of a cart item modifier.

type ModifierAction string

const (
	ModifierActionAdd    ModifierAction = "add"
	ModifierActionRemove ModifierAction = "remove"
)

// CartItemModifier is an addition or removal bound to a cart item.
//
// Invariant: the referenced menu entry's parent code equals the cart
// item's product code. Removals carry price zero.

type CartItemModifier struct {
	PDVCode   string         `json:"pdv"`
	Name      string         `json:"nome"`
	Action    ModifierAction `json:"acao"`
	Quantity  int            `json:"quantidade"`
	UnitPrice float64        `json:"preco_unitario"`
}

// CartItem is one resolved line of the order.

type CartItem struct {
	PDVCode    string             `json:"pdv"`
	Name       string             `json:"nome"`
	Quantity   int                `json:"quantidade"`
	UnitPrice  float64            `json:"preco_unitario"`
	Modifiers  []CartItemModifier `json:"modificadores,omitempty"`
	Notes      string             `json:"observacoes,omitempty"`
	SourceLine string             `json:"linha_origem,omitempty"`
}

// UnitTotal is the price of a single unit including added modifiers.
func (i CartItem) UnitTotal() float64 {
	total := i.UnitPrice
	for _, m := range i.Modifiers {
		if m.Action == ModifierActionAdd {
			total += m.UnitPrice * float64(m.Quantity)
		}
	}
	return total
}

// LineTotal is UnitTotal times quantity.
func (i CartItem) LineTotal() float64 { return i.UnitTotal() * float64(i.Quantity) }

// modifierKey identifies the modifier combination for cart grouping.
func (i CartItem) modifierKey() string {
	parts := make([]string, 0, len(i.Modifiers))
	for _, m := range i.Modifiers {
		parts = append(parts, fmt.Sprintf("%s:%s:%d", m.PDVCode, m.Action, m.Quantity))
	}
	return strings.Join(parts, "|")
}

// PendencyKind classifies why a line could not be resolved.

type PendencyKind string

const (
	PendencyProdutoNaoEncontrado   PendencyKind = "produto_nao_encontrado"
	PendencyAdicionalNaoEncontrado PendencyKind = "adicional_nao_encontrado"
)

// CartPendency is an order line awaiting clarification from the client.

type CartPendency struct {
	Kind         PendencyKind      `json:"motivo"`
	OriginalText string            `json:"texto_original"`
	Suggestions  []string          `json:"sugestoes,omitempty"`
	Extra        map[string]string `json:"dados_extras,omitempty"`
}

// Cart is the mutable cart of one session.

type Cart struct {
	Items      []CartItem     `json:"itens"`
	Pendencies []CartPendency `json:"pendencias"`
}

// Subtotal sums all line totals.
func (c Cart) Subtotal() float64 {
	var total float64
	for _, i := range c.Items {
		total += i.LineTotal()
	}
	return total
}

// IsEmpty reports whether the cart has no items.
func (c Cart) IsEmpty() bool { return len(c.Items) == 0 }

// HasPendencies reports whether any line still needs clarification.
func (c Cart) HasPendencies() bool { return len(c.Pendencies) > 0 }

// AddItem merges an item into the cart, grouping equal product + modifier
// + notes combinations by bumping the quantity.
func (c *Cart) AddItem(item CartItem) {
	for idx := range c.Items {
		existing := &c.Items[idx]
		if existing.PDVCode == item.PDVCode &&
			existing.Notes == item.Notes &&
			existing.modifierKey() == item.modifierKey() {
			existing.Quantity += item.Quantity
			return
		}
	}
	c.Items = append(c.Items, item)
}

// RemoveItem removes up to quantity units of a product. Returns false when
// the product is not in the cart.
func (c *Cart) RemoveItem(pdvCode string, quantity int) bool {
	for idx := range c.Items {
		if c.Items[idx].PDVCode != pdvCode {
			continue
		}
		if c.Items[idx].Quantity <= quantity {
			c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
		} else {
			c.Items[idx].Quantity -= quantity
		}
		return true
	}
	return false
}

// Clear empties items and pendencies.
func (c *Cart) Clear() {
	c.Items = nil
	c.Pendencies = nil
}

// ClearPendencies drops pendencies, keeping resolved items.
func (c *Cart) ClearPendencies() { c.Pendencies = nil }

// Summary renders the cart for a confirmation message.
func (c Cart) Summary() string {
	if c.IsEmpty() {
		return "Seu carrinho está vazio."
	}

	var b strings.Builder
	b.WriteString("*Seu Pedido:*\n")
	for _, item := range c.Items {
		b.WriteString(fmt.Sprintf("\n• %dx %s", item.Quantity, item.Name))
		var adds, removes []string
		for _, m := range item.Modifiers {
			switch m.Action {
			case ModifierActionAdd:
				adds = append(adds, "+"+m.Name)
			case ModifierActionRemove:
				removes = append(removes, "-"+m.Name)
			}
		}
		if len(adds)+len(removes) > 0 {
			b.WriteString(" (" + strings.Join(append(adds, removes...), ", ") + ")")
		}
		b.WriteString(fmt.Sprintf(" — R$ %.2f", item.LineTotal()))
		if item.Notes != "" {
			b.WriteString("\n  _Obs: " + item.Notes + "_")
		}
	}
	b.WriteString(fmt.Sprintf("\n\n*Subtotal: R$ %.2f*", c.Subtotal()))
	return b.String()
}
