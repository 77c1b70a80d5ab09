package interpreter

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// Text normalization and fuzzy scoring shared by the parser, resolver and
// matcher. All matching happens over normalized text; fingerprints are the
// stricter form used for exact catalog lookups.

var accentReplacer = strings.NewReplacer(
	"á", "a", "à", "a", "â", "a", "ã", "a", "ä", "a",
	"é", "e", "è", "e", "ê", "e", "ë", "e",
	"í", "i", "ì", "i", "î", "i", "ï", "i",
	"ó", "o", "ò", "o", "ô", "o", "õ", "o", "ö", "o",
	"ú", "u", "ù", "u", "û", "u", "ü", "u",
	"ç", "c", "ñ", "n",
	"Á", "a", "À", "a", "Â", "a", "Ã", "a", "Ä", "a",
	"É", "e", "È", "e", "Ê", "e", "Ë", "e",
	"Í", "i", "Ì", "i", "Î", "i", "Ï", "i",
	"Ó", "o", "Ò", "o", "Ô", "o", "Õ", "o", "Ö", "o",
	"Ú", "u", "Ù", "u", "Û", "u", "Ü", "u",
	"Ç", "c", "Ñ", "n",
)

var nonAlnumRe = regexp.MustCompile(`[^a-z0-9]`)

// Fingerprint folds a name into the canonical catalog lookup key:
// lowercase, accents stripped, everything non-alphanumeric removed.
// "X-Burguer" → "xburguer", "Coca-Cola 2L" → "cocacola2l".
func Fingerprint(text string) string {
	if text == "" {
		return ""
	}
	folded := strings.ToLower(accentReplacer.Replace(text))
	return nonAlnumRe.ReplaceAllString(folded, "")
}

// Normalize folds case and accents, collapses whitespace and trims edge
// punctuation. Unlike Fingerprint it keeps word boundaries.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	folded := strings.ToLower(accentReplacer.Replace(text))
	folded = strings.Join(strings.Fields(folded), " ")
	return strings.Trim(folded, ".,!?;:\"'")
}

var quantityWords = map[string]int{
	"um": 1, "uma": 1,
	"dois": 2, "duas": 2,
	"tres": 3,
	"quatro": 4,
	"cinco": 5,
	"seis": 6, "meia duzia": 6,
	"sete": 7,
	"oito": 8,
	"nove": 9,
	"dez":  10,
	"onze": 11,
	"doze": 12, "uma duzia": 12,
}

var digitsRe = regexp.MustCompile(`\d+`)

// ParseQuantity interprets "2", "dois", "meia dúzia"… Defaults to 1.
func ParseQuantity(text string) int {
	norm := Normalize(text)
	if n, ok := quantityWords[norm]; ok {
		return n
	}
	if n, err := strconv.Atoi(norm); err == nil {
		return n
	}
	if m := digitsRe.FindString(norm); m != "" {
		if n, err := strconv.Atoi(m); err == nil {
			return n
		}
	}
	return 1
}

// trigram Sørensen–Dice, the similarity behind all fuzzy catalog matches.
var trigram = func() *metrics.SorensenDice {
	sd := metrics.NewSorensenDice()
	sd.NgramSize = 3
	return sd
}()

// Similarity scores two strings in [0,1] over normalized trigrams.
func Similarity(a, b string) float64 {
	return strutil.Similarity(Normalize(a), Normalize(b), trigram)
}

// ScoredCandidate pairs a candidate index with its similarity score.

type ScoredCandidate struct {
	Index int
	Score float64
}

// RankCandidates scores a query against candidate names and returns those
// at or above the floor, best first. Equal scores order by candidate key
// so results are deterministic for a fixed catalog.
func RankCandidates(query string, names []string, keys []string, floor float64) []ScoredCandidate {
	ranked := make([]ScoredCandidate, 0, len(names))
	for i, name := range names {
		score := Similarity(query, name)
		if score >= floor {
			ranked = append(ranked, ScoredCandidate{Index: i, Score: score})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return keys[ranked[i].Index] < keys[ranked[j].Index]
	})
	return ranked
}

var (
	waBoldRe      = regexp.MustCompile(`\*([^*]+)\*`)
	waItalicRe    = regexp.MustCompile(`_([^_]+)_`)
	waStrikeRe    = regexp.MustCompile(`~([^~]+)~`)
	waMonoBlockRe = regexp.MustCompile("```([^`]+)```")
	waMonoRe      = regexp.MustCompile("`([^`]+)`")
)

// CleanWhatsAppFormatting strips *bold*, _italic_, ~strike~ and monospace
// markers from an exported or forwarded message.
func CleanWhatsAppFormatting(text string) string {
	text = waBoldRe.ReplaceAllString(text, "$1")
	text = waItalicRe.ReplaceAllString(text, "$1")
	text = waStrikeRe.ReplaceAllString(text, "$1")
	text = waMonoBlockRe.ReplaceAllString(text, "$1")
	return waMonoRe.ReplaceAllString(text, "$1")
}
