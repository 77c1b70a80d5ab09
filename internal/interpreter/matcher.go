package interpreter

import (
	"fmt"
	"strings"

	"lia_agent/internal/domain/entities"
)

// Matching policy. The floor is the minimum trigram similarity a fuzzy
// candidate must clear; the tie margin degrades a line to a pendency when
// the two best candidates are too close to pick one deterministically.
const (
	similarityFloor = 0.5
	tieMargin       = 0.05
	maxSuggestions  = 5
	// suggestionFloor is the looser cut used only for suggestion lists:
	// a pendency with no options at all forces the client to retype blind.
	suggestionFloor = 0.2
)

// Catalog is the in-memory snapshot of a tenant's menu index used by one
// interpretation run. Read-only; an external sync owns the data.

type Catalog struct {
	products          []entities.MenuItem
	additionsByParent map[string][]entities.MenuItem
	additions         []entities.MenuItem
}

// NewCatalog indexes menu entries by type and parent. Unavailable entries
// never match.
func NewCatalog(items []entities.MenuItem) *Catalog {
	c := &Catalog{additionsByParent: make(map[string][]entities.MenuItem)}
	for _, item := range items {
		if !item.Available {
			continue
		}
		switch item.Type {
		case entities.MenuItemTypeProduct:
			c.products = append(c.products, item)
		case entities.MenuItemTypeAddition:
			c.additionsByParent[item.ParentCode] = append(c.additionsByParent[item.ParentCode], item)
			c.additions = append(c.additions, item)
		}
	}
	return c
}

// ModifiersOf returns the modifier set of a product.
func (c *Catalog) ModifiersOf(productCode string) []entities.MenuItem {
	return c.additionsByParent[productCode]
}

// NameOf resolves a PDV code to its display name, for rendering
// suggestions back to the client.
func (c *Catalog) NameOf(code string) string {
	for _, p := range c.products {
		if p.PDVCode == code {
			return p.Name
		}
	}
	for _, a := range c.additions {
		if a.PDVCode == code {
			return cleanAdditionName(a.Name)
		}
	}
	return code
}

// MatchLines resolves candidate lines against the catalog. Every line
// yields exactly one outcome: a cart item or a pendency.
func MatchLines(lines []CandidateLine, catalog *Catalog, rawText string) entities.InterpretationResult {
	result := entities.InterpretationResult{RawText: rawText}

	for _, line := range lines {
		if line.AdditionalOnly {
			result.Pendencies = append(result.Pendencies, pendencyForStandaloneAddition(line, catalog))
			continue
		}

		product, suggestions := matchProduct(line, catalog.products)
		if product == nil {
			result.Pendencies = append(result.Pendencies, entities.CartPendency{
				Kind:         entities.PendencyProdutoNaoEncontrado,
				OriginalText: line.Raw,
				Suggestions:  suggestions,
				Extra:        map[string]string{"quantidade": fmt.Sprintf("%d", line.Quantity)},
			})
			continue
		}

		item, pendency := buildCartItem(line, *product, catalog.ModifiersOf(product.PDVCode))
		if pendency != nil {
			result.Pendencies = append(result.Pendencies, *pendency)
			continue
		}
		result.Items = append(result.Items, item)
	}

	result.Confidence = confidence(len(result.Pendencies))
	return result
}

// confidence is a tunable monotonic policy: each pendency costs 0.2, with
// a floor of 0.1. It is exactly 1.0 only when nothing is pending.
func confidence(pendencies int) float64 {
	c := 1.0 - 0.2*float64(pendencies)
	if pendencies > 0 && c < 0.1 {
		return 0.1
	}
	return c
}

func matchProduct(line CandidateLine, products []entities.MenuItem) (*entities.MenuItem, []string) {
	query := line.MatchText
	if query == "" {
		query = line.Head
	}

	// Exact fingerprint wins outright.
	queryFP := Fingerprint(query)
	var exact []entities.MenuItem
	for _, p := range products {
		if p.Fingerprint == queryFP {
			exact = append(exact, p)
		}
	}
	if len(exact) == 1 {
		return &exact[0], nil
	}

	queryNorm := Normalize(query)

	// Flavored fries are products of their own; require the flavor tokens
	// so plain "batata frita" does not shadow them.
	if strings.Contains(queryNorm, "batata frita") && (strings.Contains(queryNorm, "bacon") || strings.Contains(queryNorm, "queijo")) {
		var required []string
		if strings.Contains(queryNorm, "bacon") {
			required = append(required, "bacon")
		}
		if strings.Contains(queryNorm, "queijo") {
			required = append(required, "queijo")
		}
		filtered := filterByTokens(products, append([]string{"batata frita"}, required...))
		if len(filtered) > 0 {
			if line.SizeHint != "" {
				filtered = filterBySizeHint(filtered, line.SizeHint)
			}
			if p, _ := bestProduct(query, filtered); p != nil {
				return p, nil
			}
		}
	}

	// Juices match on flavor, not on the word "suco".
	if strings.Contains(queryNorm, "suco") && strings.Contains(queryNorm, "morango") {
		if filtered := filterByTokens(products, []string{"suco", "morango"}); len(filtered) > 0 {
			if p, _ := bestProduct(query, filtered); p != nil {
				return p, nil
			}
		}
	}

	if strings.Contains(queryNorm, "batata frita") && strings.Contains(queryNorm, "tradicional") {
		filtered := filterPlainFries(products)
		if line.SizeHint != "" {
			filtered = filterBySizeHint(filtered, line.SizeHint)
		}
		if p, _ := bestProduct(query, filtered); p != nil {
			return p, nil
		}
	}

	if line.SizeHint != "" && strings.Contains(queryNorm, "batata frita") {
		if p, _ := bestProduct(query, filterBySizeHint(products, line.SizeHint)); p != nil {
			return p, nil
		}
	}

	return bestProduct(query, products)
}

// bestProduct picks the single best fuzzy candidate. When nothing clears
// the floor, or the top two are within the tie margin, it returns nil plus
// the ranked suggestion codes.
func bestProduct(query string, products []entities.MenuItem) (*entities.MenuItem, []string) {
	if len(products) == 0 {
		return nil, nil
	}
	names := make([]string, len(products))
	keys := make([]string, len(products))
	for i, p := range products {
		names[i] = p.Name
		keys[i] = p.PDVCode
	}
	ranked := RankCandidates(query, names, keys, similarityFloor)
	if len(ranked) == 0 {
		// Best-effort suggestions below the floor still help the client.
		return nil, suggestionCodes(RankCandidates(query, names, keys, suggestionFloor), keys)
	}
	if len(ranked) > 1 && ranked[0].Score-ranked[1].Score < tieMargin {
		return nil, suggestionCodes(ranked, keys)
	}
	return &products[ranked[0].Index], nil
}

func suggestionCodes(ranked []ScoredCandidate, keys []string) []string {
	out := make([]string, 0, maxSuggestions)
	for _, r := range ranked {
		out = append(out, keys[r.Index])
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}

func filterByTokens(products []entities.MenuItem, tokens []string) []entities.MenuItem {
	var filtered []entities.MenuItem
	for _, p := range products {
		name := Normalize(p.Name)
		ok := true
		for _, t := range tokens {
			if !strings.Contains(name, t) {
				ok = false
				break
			}
		}
		if ok {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

func filterBySizeHint(products []entities.MenuItem, hint string) []entities.MenuItem {
	var tokens []string
	switch hint {
	case "1/4":
		tokens = []string{"1/4"}
	case "1/2":
		tokens = []string{"meia", "1/2"}
	}
	var filtered []entities.MenuItem
	for _, p := range products {
		name := Normalize(p.Name)
		for _, t := range tokens {
			if strings.Contains(name, t) {
				filtered = append(filtered, p)
				break
			}
		}
	}
	if len(filtered) == 0 {
		return products
	}
	return filtered
}

var friesFlavors = []string{"bacon", "queijo", "calabresa", "frango", "cheddar", "coracao", "catupiry", "mussarela", "tres"}

func filterPlainFries(products []entities.MenuItem) []entities.MenuItem {
	var filtered []entities.MenuItem
	for _, p := range products {
		name := Normalize(p.Name)
		if !strings.Contains(name, "batata frita") {
			continue
		}
		flavored := false
		for _, f := range friesFlavors {
			if strings.Contains(name, f) {
				flavored = true
				break
			}
		}
		if !flavored {
			filtered = append(filtered, p)
		}
	}
	if len(filtered) == 0 {
		return products
	}
	return filtered
}

// buildCartItem resolves the line's modifier phrases inside the matched
// product's own modifier set. An unmatched addition degrades the whole
// line to a pendency; an unmatched removal is kept as a note (the product
// already lacks it), except the "careca" expansion which drops silently.
func buildCartItem(line CandidateLine, product entities.MenuItem, modifierSet []entities.MenuItem) (entities.CartItem, *entities.CartPendency) {
	item := entities.CartItem{
		PDVCode:    product.PDVCode,
		Name:       product.Name,
		Quantity:   line.Quantity,
		UnitPrice:  product.Price,
		SourceLine: line.Raw,
	}

	for _, addText := range line.Additions {
		matched := matchAddition(addText, modifierSet)
		if matched == nil {
			return entities.CartItem{}, &entities.CartPendency{
				Kind:         entities.PendencyAdicionalNaoEncontrado,
				OriginalText: addText,
				Suggestions:  suggestAdditions(addText, modifierSet),
				Extra: map[string]string{
					"produto_base": product.Name,
					"produto_pdv":  product.PDVCode,
					"linha":        line.Raw,
				},
			}
		}
		item.Modifiers = append(item.Modifiers, entities.CartItemModifier{
			PDVCode:   matched.PDVCode,
			Name:      cleanAdditionName(matched.Name),
			Action:    entities.ModifierActionAdd,
			Quantity:  1,
			UnitPrice: matched.Price,
		})
	}

	var unmatchedRemovals []string
	for _, remText := range line.Removals {
		matched := matchAddition(remText, modifierSet)
		if matched == nil {
			if remText != CarecaRemoval {
				unmatchedRemovals = append(unmatchedRemovals, remText)
			}
			continue
		}
		item.Modifiers = append(item.Modifiers, entities.CartItemModifier{
			PDVCode:  matched.PDVCode,
			Name:     cleanAdditionName(matched.Name),
			Action:   entities.ModifierActionRemove,
			Quantity: 1,
		})
	}

	item.Notes = buildNotes(unmatchedRemovals, line.Notes)
	return item, nil
}

func matchAddition(text string, additions []entities.MenuItem) *entities.MenuItem {
	if len(additions) == 0 {
		return nil
	}

	queryFP := Fingerprint(text)
	for i := range additions {
		if Fingerprint(additionLabel(additions[i])) == queryFP {
			return &additions[i]
		}
	}

	labels := make([]string, len(additions))
	keys := make([]string, len(additions))
	for i, a := range additions {
		labels[i] = additionLabel(a)
		keys[i] = a.PDVCode
	}
	ranked := RankCandidates(text, labels, keys, similarityFloor)
	if len(ranked) == 0 {
		return nil
	}
	return &additions[ranked[0].Index]
}

func suggestAdditions(text string, additions []entities.MenuItem) []string {
	labels := make([]string, len(additions))
	keys := make([]string, len(additions))
	for i, a := range additions {
		labels[i] = additionLabel(a)
		keys[i] = a.PDVCode
	}
	return suggestionCodes(rankForSuggestions(text, labels, keys), keys)
}

// rankForSuggestions ranks at the matching floor and, when nothing clears
// it, re-ranks at the suggestion floor so long catalog names (sachet
// additions and the like) still surface as options.
func rankForSuggestions(query string, labels, keys []string) []ScoredCandidate {
	ranked := RankCandidates(query, labels, keys, similarityFloor)
	if len(ranked) == 0 {
		ranked = RankCandidates(query, labels, keys, suggestionFloor)
	}
	return ranked
}

// pendencyForStandaloneAddition handles an "adicional" line with no
// anchoring product. Additions never enter the cart on their own, so this
// is always a pendency, even when the addition itself matches.
func pendencyForStandaloneAddition(line CandidateLine, catalog *Catalog) entities.CartPendency {
	query := line.MatchText
	if query == "" {
		query = line.Head
	}
	labels := make([]string, len(catalog.additions))
	keys := make([]string, len(catalog.additions))
	for i, a := range catalog.additions {
		labels[i] = additionLabel(a)
		keys[i] = a.PDVCode
	}
	return entities.CartPendency{
		Kind:         entities.PendencyAdicionalNaoEncontrado,
		OriginalText: line.Raw,
		Suggestions:  suggestionCodes(rankForSuggestions(query, labels, keys), keys),
		Extra: map[string]string{
			"quantidade": fmt.Sprintf("%d", line.Quantity),
			"adicional":  query,
		},
	}
}

// additionLabel strips the grouping prefixes the POS export puts on
// addition names ("Adicionais no Prato Bacon" -> "bacon").
func additionLabel(entry entities.MenuItem) string {
	name := Normalize(entry.Name)
	name = strings.ReplaceAll(name, "adicionais no prato", "")
	name = strings.ReplaceAll(name, "adicionais", "")
	return strings.TrimSpace(name)
}

func cleanAdditionName(name string) string {
	cleaned := strings.ReplaceAll(name, "Adicionais no Prato ", "")
	cleaned = strings.ReplaceAll(cleaned, "Adicionais ", "")
	return strings.TrimSpace(cleaned)
}

func buildNotes(removals, notes []string) string {
	var parts []string
	if len(removals) > 0 {
		parts = append(parts, "Sem: "+strings.Join(removals, ", "))
	}
	if len(notes) > 0 {
		parts = append(parts, "Obs: "+strings.Join(notes, ", "))
	}
	return strings.Join(parts, " | ")
}
