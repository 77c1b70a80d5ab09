// Package interpreter turns free-form order text into priced cart content
// matched against a tenant's menu catalog.
//
// Pipeline: Parse (segment + quantity/modifier extraction) → Resolve
// (typo/synonym/shorthand rewriting) → MatchLines (catalog resolution).
// The whole run is a pure function of (text, catalog snapshot): identical
// input and catalog always produce identical output.
package interpreter

import (
	"lia_agent/internal/domain/entities"
)

// Interpret runs the full pipeline over one turn of client text.
//
// Every candidate line ends up either as a resolved cart item or as a
// pendency, never both, never neither. Confidence is 1.0 exactly when no
// pendencies were produced.
func Interpret(rawText string, menu []entities.MenuItem) entities.InterpretationResult {
	return InterpretWithCatalog(rawText, NewCatalog(menu))
}

// InterpretWithCatalog is Interpret with a prebuilt catalog index, for
// callers resolving several turns against one snapshot.
func InterpretWithCatalog(rawText string, catalog *Catalog) entities.InterpretationResult {
	text := CleanWhatsAppFormatting(rawText)
	lines := Resolve(Parse(text))
	return MatchLines(lines, catalog, rawText)
}
