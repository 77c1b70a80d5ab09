package interpreter

import (
	"regexp"
	"strconv"
	"strings"
)

// CandidateLine is one parsed order line, before catalog matching.
// Ephemeral: it lives only while a turn is being interpreted.

type CandidateLine struct {
	Raw      string
	Quantity int
	// Head is the product phrase; empty when the line is an
	// "adicional"-only request that needs an anchoring product.
	Head           string
	Additions      []string
	Removals       []string
	Notes          []string
	AdditionalOnly bool
	SizeHint       string
	// MatchText is the cleaned-up query the matcher uses; the resolver
	// rewrites it with typo/synonym corrections.
	MatchText string
}

const wordNumbers = `um|uma|dois|duas|tres|três|quatro|cinco|seis|sete|oito|nove|dez`

var (
	itemStartRe = regexp.MustCompile(`(?i)(?:^|\n+|\s+e\s+|\s*,\s*|\s*;\s*)(` + wordNumbers + `|\d+)\b\s*(?:x\s*)?`)
	segmentRe   = regexp.MustCompile(`(?i)^(\d+)\s*(?:x\s*)?(.*)$`)
	wordQtyRe   = regexp.MustCompile(`(?i)^(` + wordNumbers + `)\b`)
	leadingXRe  = regexp.MustCompile(`(?i)^(?:` + wordNumbers + `|\d+)?\s*x\b`)
	headXRe     = regexp.MustCompile(`(?i)^x\s+`)
	bareXRe     = regexp.MustCompile(`(?i)\bx\b`)
	adicionalRe     = regexp.MustCompile(`\badicional\b`)
	adicionalWordRe = regexp.MustCompile(`(?i)\badicional\b`)

	cutoffRe    = regexp.MustCompile(`(?i)\b(para\s+a|para\s+o|pagamento|entrega)\b`)
	timestampRe = regexp.MustCompile(`^\[\d{1,2}:\d{2},\s*\d{2}/\d{2}/\d{4}\]\s+[^:]+:\s*`)
	greetingRe  = regexp.MustCompile(`(?i)^\s*(oi|ola|olá|boa\s+noite|bom\s+dia|boa\s+tarde|opa|oiii+|bia\s+noite)(\s+(boa\s+noite|bom\s+dia|boa\s+tarde))?\s*$`)
	contextRe   = regexp.MustCompile(`(?i)\b(rua|bairro|numero|número|prox|próx|praça|entrega|entregar|pagamento|pix|debito|débito|credito|crédito|cartao|cartão|troco|casa|apto|apartamento|blz|ok|tudo\s+bem|quantos|deu)\b`)

	leadGreetRe  = regexp.MustCompile(`(?i)^\s*(oiii+|oi|ola|olá|boa\s+noite|bom\s+dia|boa\s+tarde|opa)\s*,?\s*`)
	leadDaytimRe = regexp.MustCompile(`(?i)^\s*(boa\s+noite|bom\s+dia|boa\s+tarde)\s*,?\s*`)
	leadEuRe     = regexp.MustCompile(`(?i)^\s*eu\s+`)
	leadVerbsRe  = regexp.MustCompile(`(?i)^\s*(gostaria\s+de\s+fazer\s+um\s+pedido|gostaria\s+de\s+fazer|gostaria\s+de|gostaria|queria|quero|ve|vê|ver|manda|pode|vou|vai)\b`)
	leadERe      = regexp.MustCompile(`(?i)^\s*e\s+`)

	comSplitRe   = regexp.MustCompile(`(?i)\bcom\b`)
	semRe        = regexp.MustCompile(`(?i)\bsem\b`)
	listSplitRe  = regexp.MustCompile(`(?i)\s+e\s+|,`)
	parensRe     = regexp.MustCompile(`[()]`)
	spacesRe     = regexp.MustCompile(`\s+`)
	trailConjRe  = regexp.MustCompile(`(?i)\b(e|de)\b$`)
	joinerEAndRe = regexp.MustCompile(`(?i)\s+e\s+`)
)

// Free-text remarks that are kitchen notes, not catalog content.
var noteKeywords = []string{
	"cortado ao meio",
	"bem passado",
}

var noteKeywordRes = func() []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(noteKeywords))
	for i, kw := range noteKeywords {
		res[i] = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(kw))
	}
	return res
}()

// Parse splits raw client text into candidate order lines. Greeting,
// address and payment chatter is dropped here; what remains is assumed to
// be order-relevant.
func Parse(text string) []CandidateLine {
	if text == "" {
		return nil
	}

	segments := splitSegments(cutContext(text))
	lines := make([]CandidateLine, 0, len(segments))
	for _, seg := range segments {
		if line, ok := parseSegment(seg); ok {
			lines = append(lines, line)
		}
	}
	return lines
}

// cutContext trims single-line messages at address/payment markers so
// "2 X salada para a rua …" keeps only the order part. Multi-line input
// is filtered line by line instead.
func cutContext(text string) string {
	if strings.Contains(text, "\n") {
		return text
	}
	if loc := cutoffRe.FindStringIndex(text); loc != nil {
		return strings.TrimSpace(text[:loc[0]])
	}
	return text
}

func splitSegments(text string) []string {
	var segments []string
	for _, rawLine := range strings.Split(text, "\n") {
		line := stripMetadata(strings.TrimSpace(rawLine))
		if line == "" || isContextLine(line) {
			continue
		}

		starts := itemStartRe.FindAllStringSubmatchIndex(line, -1)
		if len(starts) == 0 {
			segments = append(segments, strings.Trim(line, " ,;"))
			continue
		}

		for i, m := range starts {
			start := m[2] // start of the quantity group
			end := len(line)
			if i+1 < len(starts) {
				end = starts[i+1][2]
			}
			if seg := strings.Trim(line[start:end], " ,;"); seg != "" {
				segments = append(segments, seg)
			}
		}
	}
	return segments
}

func parseSegment(segment string) (CandidateLine, bool) {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return CandidateLine{}, false
	}

	quantity := 1
	desc := segment
	if m := segmentRe.FindStringSubmatch(segment); m != nil && m[1] != "" {
		if n, err := strconv.Atoi(m[1]); err == nil {
			quantity = n
		}
		desc = strings.TrimSpace(m[2])
	} else if m := wordQtyRe.FindStringSubmatch(segment); m != nil {
		quantity = ParseQuantity(m[1])
		desc = strings.TrimSpace(segment[len(m[0]):])
	}

	raw := segment
	hasX := leadingXRe.MatchString(segment)

	notes, desc := extractNotes(desc)

	additionalOnly := adicionalRe.MatchString(Normalize(desc)) && !bareXRe.MatchString(raw)
	desc = strings.TrimSpace(adicionalWordRe.ReplaceAllString(desc, ""))

	desc, removals := extractRemovals(desc)

	head := desc
	var additions []string
	if loc := comSplitRe.FindStringIndex(desc); loc != nil {
		head = desc[:loc[0]]
		additions = splitList(desc[loc[1]:])
	}

	head = cleanText(head)
	if hasX && !headXRe.MatchString(head) {
		head = strings.TrimSpace("x " + head)
	}

	return CandidateLine{
		Raw:            raw,
		Quantity:       quantity,
		Head:           head,
		Additions:      additions,
		Removals:       removals,
		Notes:          notes,
		AdditionalOnly: additionalOnly,
		MatchText:      head,
	}, true
}

func extractNotes(text string) ([]string, string) {
	var notes []string
	cleaned := text
	for i, keyword := range noteKeywords {
		if strings.Contains(Normalize(cleaned), keyword) {
			notes = append(notes, keyword)
			cleaned = strings.TrimSpace(noteKeywordRes[i].ReplaceAllString(cleaned, ""))
		}
	}
	return notes, cleaned
}

// extractRemovals pulls every "sem X" span out of the text. A span runs
// until the next "sem", the next "com", or the end of the segment.
func extractRemovals(text string) (string, []string) {
	var removals []string

	sems := semRe.FindAllStringIndex(text, -1)
	if len(sems) == 0 {
		return text, nil
	}

	var kept strings.Builder
	kept.WriteString(text[:sems[0][0]])
	for i, sem := range sems {
		end := len(text)
		if i+1 < len(sems) {
			end = sems[i+1][0]
		}
		span := text[sem[1]:end]
		if loc := comSplitRe.FindStringIndex(span); loc != nil {
			kept.WriteString(span[loc[0]:])
			span = span[:loc[0]]
		}
		removals = append(removals, splitList(span)...)
	}

	cleaned := kept.String()
	if len(removals) > 0 {
		cleaned = joinerEAndRe.ReplaceAllString(cleaned, " ")
	}
	return cleanText(cleaned), removals
}

func stripMetadata(text string) string {
	cleaned := strings.TrimSpace(timestampRe.ReplaceAllString(text, ""))
	cleaned = leadGreetRe.ReplaceAllString(cleaned, "")
	cleaned = leadDaytimRe.ReplaceAllString(cleaned, "")
	cleaned = leadEuRe.ReplaceAllString(cleaned, "")
	cleaned = strings.Trim(leadVerbsRe.ReplaceAllString(cleaned, ""), " ,.-")
	cleaned = leadERe.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(cleaned)
}

func isContextLine(text string) bool {
	if greetingRe.MatchString(text) {
		return true
	}
	return contextRe.MatchString(text)
}

func splitList(text string) []string {
	if text == "" {
		return nil
	}
	var parts []string
	for _, p := range listSplitRe.Split(text, -1) {
		if cleaned := cleanText(p); cleaned != "" {
			parts = append(parts, cleaned)
		}
	}
	return parts
}

func cleanText(text string) string {
	cleaned := strings.Trim(strings.TrimSpace(text), ",;")
	cleaned = parensRe.ReplaceAllString(cleaned, "")
	cleaned = spacesRe.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(trailConjRe.ReplaceAllString(strings.TrimSpace(cleaned), ""))
	return cleaned
}
