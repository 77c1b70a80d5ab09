package interpreter

import (
	"testing"

	"lia_agent/internal/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(code, name string, price float64) entities.MenuItem {
	return entities.MenuItem{
		PDVCode:     code,
		Name:        name,
		Price:       price,
		Type:        entities.MenuItemTypeProduct,
		Fingerprint: Fingerprint(name),
		Available:   true,
	}
}

func addition(code, parent, name string, price float64) entities.MenuItem {
	return entities.MenuItem{
		PDVCode:     code,
		ParentCode:  parent,
		Name:        name,
		Price:       price,
		Type:        entities.MenuItemTypeAddition,
		Fingerprint: Fingerprint(name),
		Available:   true,
	}
}

func testMenu() []entities.MenuItem {
	return []entities.MenuItem{
		product("P1", "X Salada", 20),
		product("P2", "X Burguer", 18),
		product("P3", "Coca Cola Lata", 6),
		product("P4", "Coca Cola 2 Litros", 14),
		product("S1", "Suco de Laranja 500ml", 10),
		product("S2", "Suco de Laranja 300ml", 8),
		addition("A1", "P1", "Adicionais no Prato Bacon", 4),
		addition("A2", "P1", "Adicionais no Prato Ovo", 2),
		addition("A3", "P1", "Adicionais no Prato Cebola", 1),
	}
}

func TestInterpret_MultiItemOrder(t *testing.T) {
	result := Interpret("2 x salada sem cebola e 1 coca lata", testMenu())

	require.Len(t, result.Items, 2)
	require.Empty(t, result.Pendencies)
	assert.Equal(t, 1.0, result.Confidence)

	first := result.Items[0]
	assert.Equal(t, "P1", first.PDVCode)
	assert.Equal(t, 2, first.Quantity)
	require.Len(t, first.Modifiers, 1)
	assert.Equal(t, entities.ModifierActionRemove, first.Modifiers[0].Action)
	assert.Equal(t, "A3", first.Modifiers[0].PDVCode)
	assert.Equal(t, 0.0, first.Modifiers[0].UnitPrice)

	second := result.Items[1]
	assert.Equal(t, "P3", second.PDVCode)
	assert.Equal(t, 1, second.Quantity)
}

func TestInterpret_MatchedAdditionIsPriced(t *testing.T) {
	result := Interpret("1 x salada com bacon", testMenu())

	require.Len(t, result.Items, 1)
	require.Empty(t, result.Pendencies)

	item := result.Items[0]
	require.Len(t, item.Modifiers, 1)
	assert.Equal(t, "A1", item.Modifiers[0].PDVCode)
	assert.Equal(t, entities.ModifierActionAdd, item.Modifiers[0].Action)
	assert.Equal(t, 4.0, item.Modifiers[0].UnitPrice)
	assert.Equal(t, 24.0, item.UnitTotal())
	assert.Equal(t, 24.0, item.LineTotal())
}

func TestInterpret_UnmatchedAdditionDegradesWholeLine(t *testing.T) {
	result := Interpret("1 x salada com picles", testMenu())

	assert.Empty(t, result.Items)
	require.Len(t, result.Pendencies, 1)

	p := result.Pendencies[0]
	assert.Equal(t, entities.PendencyAdicionalNaoEncontrado, p.Kind)
	assert.Equal(t, "picles", p.OriginalText)
	assert.Equal(t, "X Salada", p.Extra["produto_base"])
	assert.Equal(t, "P1", p.Extra["produto_pdv"])
	assert.Equal(t, 0.8, result.Confidence)
}

func TestInterpret_ModifierScopeIsPerProduct(t *testing.T) {
	// Bacon exists in the catalog, but only as a modifier of X Salada.
	result := Interpret("1 x burguer com bacon", testMenu())

	assert.Empty(t, result.Items)
	require.Len(t, result.Pendencies, 1)
	assert.Equal(t, entities.PendencyAdicionalNaoEncontrado, result.Pendencies[0].Kind)
}

func TestInterpret_UnmatchedRemovalBecomesNote(t *testing.T) {
	result := Interpret("1 x salada sem tomate", testMenu())

	require.Len(t, result.Items, 1)
	require.Empty(t, result.Pendencies)
	item := result.Items[0]
	assert.Empty(t, item.Modifiers)
	assert.Contains(t, item.Notes, "tomate")
}

func TestInterpret_CarecaRemovalDropsSilently(t *testing.T) {
	result := Interpret("1 x burguer careca", testMenu())

	require.Len(t, result.Items, 1)
	item := result.Items[0]
	assert.Equal(t, "P2", item.PDVCode)
	assert.Empty(t, item.Modifiers)
	assert.Empty(t, item.Notes)
}

func TestInterpret_UnknownProductPendency(t *testing.T) {
	result := Interpret("1 pastel de flango", testMenu())

	assert.Empty(t, result.Items)
	require.Len(t, result.Pendencies, 1)
	p := result.Pendencies[0]
	assert.Equal(t, entities.PendencyProdutoNaoEncontrado, p.Kind)
	assert.Equal(t, "1", p.Extra["quantidade"])
	assert.Equal(t, 0.8, result.Confidence)
}

func TestInterpret_TieDegradesToPendency(t *testing.T) {
	result := Interpret("1 suco de laranja", testMenu())

	assert.Empty(t, result.Items)
	require.Len(t, result.Pendencies, 1)
	p := result.Pendencies[0]
	assert.Equal(t, entities.PendencyProdutoNaoEncontrado, p.Kind)
	// Both sizes score identically; suggestions break the tie by PDV code.
	require.GreaterOrEqual(t, len(p.Suggestions), 2)
	assert.Equal(t, "S1", p.Suggestions[0])
	assert.Equal(t, "S2", p.Suggestions[1])
}

func TestInterpret_StandaloneAdditionNeverEntersCart(t *testing.T) {
	result := Interpret("1 adicional de bacon", testMenu())

	assert.Empty(t, result.Items)
	require.Len(t, result.Pendencies, 1)
	assert.Equal(t, entities.PendencyAdicionalNaoEncontrado, result.Pendencies[0].Kind)
	assert.Contains(t, result.Pendencies[0].Suggestions, "A1")
}

func TestInterpret_StandaloneAdditionLongNameStillSuggested(t *testing.T) {
	// "maionese" against "Maionese Caseira Sache" scores below the matching
	// floor; the pendency must still carry it as a suggestion.
	menu := append(testMenu(), addition("M1", "P1", "Maionese Caseira Sache", 3))
	result := Interpret("2 maionese adicional", menu)

	assert.Empty(t, result.Items)
	require.Len(t, result.Pendencies, 1)
	p := result.Pendencies[0]
	assert.Equal(t, entities.PendencyAdicionalNaoEncontrado, p.Kind)
	assert.Equal(t, "2", p.Extra["quantidade"])
	assert.Contains(t, p.Suggestions, "M1")
}

func TestInterpret_UnavailableItemsNeverMatch(t *testing.T) {
	menu := testMenu()
	for i := range menu {
		if menu[i].PDVCode == "P1" {
			menu[i].Available = false
		}
	}
	result := Interpret("1 x salada", menu)

	assert.Empty(t, result.Items)
	require.Len(t, result.Pendencies, 1)
}

func TestInterpret_CompletenessInvariant(t *testing.T) {
	// Every parsed line lands in exactly one of Items or Pendencies.
	text := "2 x salada com bacon\n1 coca lata\n1 pastel de flango\n1 x salada com picles"
	parsed := len(Resolve(Parse(text)))
	result := Interpret(text, testMenu())

	assert.Equal(t, parsed, len(result.Items)+len(result.Pendencies))
}

func TestInterpret_ConfidenceLaw(t *testing.T) {
	resolved := Interpret("1 x salada", testMenu())
	assert.Equal(t, 1.0, resolved.Confidence)
	assert.True(t, resolved.Resolved())

	one := Interpret("1 pastel de flango", testMenu())
	assert.Equal(t, 0.8, one.Confidence)

	// Confidence floors at 0.1 no matter how many lines are pending.
	many := Interpret("1 aaa\n2 bbb\n3 ccc\n4 ddd\n5 eee\n6 fff", testMenu())
	require.NotEmpty(t, many.Pendencies)
	assert.GreaterOrEqual(t, many.Confidence, 0.1)
	assert.Less(t, many.Confidence, 1.0)
}

func TestInterpret_Deterministic(t *testing.T) {
	text := "2 x salada com bacon e 1 suco de laranja"
	first := Interpret(text, testMenu())
	second := Interpret(text, testMenu())
	assert.Equal(t, first, second)
}

func TestInterpret_EmptyAndGreetingInput(t *testing.T) {
	assert.True(t, Interpret("", testMenu()).Empty())
	assert.True(t, Interpret("boa noite", testMenu()).Empty())
	assert.True(t, Interpret("boa noite", testMenu()).Resolved())
}
