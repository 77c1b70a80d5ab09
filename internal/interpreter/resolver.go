package interpreter

import (
	"regexp"
	"strings"
)

// Resolver: vocabulary corrections applied between parsing and matching.
// Stateless; everything here is a pure rewrite of the candidate line.
//
// Covered shorthands:
//   - "careca"        => remove the default salad modifier (if the product has one)
//   - "burger"/"burg" => "burguer"
//   - "porção pequena"/"1/4" and "meia"/"1/2" size hints
//   - "2 l" / "2 lt"  => "2 litros"
//   - common typos (migon, evilha, bata frita…)

// CarecaRemoval is the removal phrase the "careca" shorthand expands to.
// The matcher drops it silently when the product has no such modifier.
const CarecaRemoval = "salada geral"

var (
	xGluedRe     = regexp.MustCompile(`^x([a-z])`)
	completoRe   = regexp.MustCompile(`\bcomplet[oa]s?\b`)
	burgerRe     = regexp.MustCompile(`\bburger\b`)
	xBurgRe      = regexp.MustCompile(`\bx\s+burg\b`)
	migonRe      = regexp.MustCompile(`\bmigon\b`)
	evilhaRe     = regexp.MustCompile(`\bevilha\b`)
	tbmRe        = regexp.MustCompile(`\btbm\b`)
	tambemRe     = regexp.MustCompile(`\btambem\b`)
	cocaRe       = regexp.MustCompile(`\bcoca\b`)
	bataFritaRe  = regexp.MustCompile(`\bbata\s+frita\b`)
	litersRe     = regexp.MustCompile(`\b(\d+)\s*l(t|itros)?\b`)
	quarterRe    = regexp.MustCompile(`\b(1/4|um\s+quarto|porcao\s+pequena)\b`)
	halfRe       = regexp.MustCompile(`\b(1/2|meia\s+porcao|meia)\b`)
	carecaLitRe  = regexp.MustCompile(`\bcareca\b`)
	multiSpaceRe = regexp.MustCompile(`\s+`)
)

// Resolve applies the correction tables to every candidate line.
func Resolve(lines []CandidateLine) []CandidateLine {
	resolved := make([]CandidateLine, len(lines))
	for i, line := range lines {
		resolved[i] = resolveLine(line)
	}
	return resolved
}

func resolveLine(line CandidateLine) CandidateLine {
	base := Normalize(line.Head)

	// "xegg" -> "x egg"
	base = xGluedRe.ReplaceAllString(base, "x $1")

	// "careca" expands to an implicit removal of the default salad.
	if carecaLitRe.MatchString(base) {
		base = strings.TrimSpace(carecaLitRe.ReplaceAllString(base, " "))
		line.Removals = append(line.Removals, CarecaRemoval)
	}

	// "completo" adds nothing to the catalog name.
	base = strings.TrimSpace(completoRe.ReplaceAllString(base, ""))

	base = burgerRe.ReplaceAllString(base, "burguer")
	base = xBurgRe.ReplaceAllString(base, "x burguer")
	base = migonRe.ReplaceAllString(base, "mignon")
	base = evilhaRe.ReplaceAllString(base, "ervilha")
	base = tbmRe.ReplaceAllString(base, "")
	base = tambemRe.ReplaceAllString(base, "")

	if !strings.Contains(base, "coca cola") {
		base = cocaRe.ReplaceAllString(base, "coca cola")
	}

	base = bataFritaRe.ReplaceAllString(base, "batata frita")

	if hint := sizeHint(base); hint != "" {
		line.SizeHint = hint
	}

	// Plain vs flavored fries resolve on the catalog name, not the hint words.
	if strings.Contains(base, "batata frita") {
		if strings.Contains(base, "tradicional") {
			base = "batata frita tradicional"
		} else {
			base = "batata frita"
		}
	}

	base = litersRe.ReplaceAllString(base, "$1 litros")

	for i, a := range line.Additions {
		line.Additions[i] = Normalize(a)
	}
	line.Removals = dedupe(normalizeRemovals(line.Removals))

	// "batata frita com bacon" is usually a catalog product of its own,
	// not fries plus an addition.
	if strings.Contains(base, "batata frita") && len(line.Additions) > 0 {
		base = strings.TrimSpace(base + " " + strings.Join(line.Additions, " "))
		line.Additions = nil
	}

	line.MatchText = strings.TrimSpace(multiSpaceRe.ReplaceAllString(base, " "))
	return line
}

func sizeHint(text string) string {
	if quarterRe.MatchString(text) {
		return "1/4"
	}
	if halfRe.MatchString(text) {
		return "1/2"
	}
	return ""
}

func normalizeRemovals(removals []string) []string {
	out := make([]string, 0, len(removals))
	for _, r := range removals {
		if r == "" {
			continue
		}
		cleaned := evilhaRe.ReplaceAllString(Normalize(r), "ervilha")
		out = append(out, cleaned)
	}
	return out
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := items[:0]
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
