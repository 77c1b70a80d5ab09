// Package guardrails classifies inbound messages without an LLM call.
// Most turns are trivial ("sim", "ok", "pix", a bare number); catching
// them with regex keeps the complex-intent collaborator for the few turns
// that need it.
package guardrails

import (
	"regexp"
	"strings"

	"lia_agent/internal/interpreter"
)

// Intent is a quick classification of one message.

type Intent string

const (
	IntentConfirm       Intent = "confirm"
	IntentDeny          Intent = "deny"
	IntentCancel        Intent = "cancel"
	IntentHelp          Intent = "help"
	IntentRepeat        Intent = "repeat"
	IntentPaymentMethod Intent = "payment"
	IntentQuantity      Intent = "quantity"
	IntentPhoneNumber   Intent = "phone"
	IntentAddress       Intent = "address"
	// IntentNeedsLLM means the regex tables could not classify the text;
	// the dispatcher decides between the interpreter and the LLM.
	IntentNeedsLLM Intent = "needs_llm"
)

// Extracted carries structured data pulled out during classification.

type Extracted struct {
	PaymentMethod string
	Quantity      int
	Phone         string
	Address       string
}

var confirmRe = compileAny(
	`^(sim|ss?|s|siiim*|yes|yeah|yep)$`,
	`^(ok|okay|oks?|okk+|blz|beleza)$`,
	`^(pode|podee*|isso|iss+o|exato)$`,
	`^(confirm[ao]?|certo|certinho)$`,
	`^(ta|taa+|tudo bem|fechado)$`,
	`^(bora|vamos|manda|dale|partiu)$`,
	`^(perfeito|otimo|show)$`,
	`^(positivo|afirmativo|correto)$`,
	`^👍+$`,
	`^✅+$`,
)

var denyRe = compileAny(
	`^(nao|n|nn+|naoo*|nope)$`,
	`^(nunca|jamais|negativo)$`,
	`^(errado|incorreto)$`,
	`^(para|pare|espera)$`,
	`^👎+$`,
	`^❌+$`,
)

var cancelRe = compileAny(
	`^(cancel[ao]?r?|cancela isso)$`,
	`^(desist[io]r?|desisto)$`,
	`^(esquece|deixa)$`,
	`^(nao quero mais)$`,
	`^(sair|sai|exit|quit)$`,
)

var helpRe = compileAny(
	`^(ajuda|help|socorro)$`,
	`^(cardapio|menu)$`,
	`^(o que (tem|voces tem))$`,
	`^(quais? (sao) (os|as)? ?(opcoes))$`,
)

var repeatRe = compileAny(
	`^(repet[ei]r?|repete)$`,
	`^(de novo|denovo)$`,
	`^(novamente|outra vez)$`,
	`^(como|hã|hum)\??$`,
	`^(\?+)$`,
)

// Method patterns are keyed by the canonical payment method value; the
// generic "cartao" still needs a credit/debit follow-up.
var paymentRes = []struct {
	method string
	re     *regexp.Regexp
}{
	{"dinheiro", compileAny(`^(dinheiro|din|grana|cash)$`, `^(em especie|especie)$`)},
	{"pix", compileAny(`^(pix|piks?)$`)},
	{"cartao_credito", compileAny(`^(cartao\s*(de\s*)?credito)$`, `^(credito)$`)},
	{"cartao_debito", compileAny(`^(cartao\s*(de\s*)?debito)$`, `^(debito)$`)},
	{"cartao", compileAny(`^(cartao)$`)},
}

var quantityRe = regexp.MustCompile(`^(\d{1,2})$`)

var phoneRes = []*regexp.Regexp{
	regexp.MustCompile(`^\+?55?\s*\(?(\d{2})\)?\s*9?\s*(\d{4})[-.\s]?(\d{4})$`),
	regexp.MustCompile(`^(\d{2})\s*9?(\d{4})[-.\s]?(\d{4})$`),
	regexp.MustCompile(`^9?(\d{4})[-.\s]?(\d{4})$`),
}

var addressIndicators = []*regexp.Regexp{
	regexp.MustCompile(`\brua\b`),
	regexp.MustCompile(`\bavenida\b`),
	regexp.MustCompile(`\bav\.?\b`),
	regexp.MustCompile(`\btravessa\b`),
	regexp.MustCompile(`\bservidao\b`),
	regexp.MustCompile(`\bnumero\b|\bn[o°]?\s*\d+`),
	regexp.MustCompile(`\bcep\b`),
	regexp.MustCompile(`\bbairro\b`),
	regexp.MustCompile(`\bcentro\b`),
	regexp.MustCompile(`\bpredio\b|\bapartamento\b|\bapto?\b`),
	regexp.MustCompile(`\bbloco\b|\bbl\.?\b`),
}

var nonDigitRe = regexp.MustCompile(`\D`)

func compileAny(patterns ...string) *regexp.Regexp {
	return regexp.MustCompile("(?i)(" + strings.Join(patterns, ")|(") + ")")
}

// Classify runs the regex tables over one message. Patterns match the
// normalized (accent-folded, lowercase) text; phone extraction keeps the
// original for its digits.
func Classify(text string) (Intent, Extracted) {
	normalized := interpreter.Normalize(text)
	original := strings.TrimSpace(text)
	var extracted Extracted

	if normalized == "" {
		return IntentNeedsLLM, extracted
	}

	switch {
	case confirmRe.MatchString(normalized):
		return IntentConfirm, extracted
	case denyRe.MatchString(normalized):
		return IntentDeny, extracted
	case cancelRe.MatchString(normalized):
		return IntentCancel, extracted
	case helpRe.MatchString(normalized):
		return IntentHelp, extracted
	case repeatRe.MatchString(normalized):
		return IntentRepeat, extracted
	}

	for _, p := range paymentRes {
		if p.re.MatchString(normalized) {
			extracted.PaymentMethod = p.method
			return IntentPaymentMethod, extracted
		}
	}

	if m := quantityRe.FindStringSubmatch(normalized); m != nil {
		extracted.Quantity = interpreter.ParseQuantity(m[1])
		return IntentQuantity, extracted
	}

	for _, re := range phoneRes {
		if re.MatchString(original) {
			extracted.Phone = normalizePhone(nonDigitRe.ReplaceAllString(original, ""))
			return IntentPhoneNumber, extracted
		}
	}

	score := 0
	for _, re := range addressIndicators {
		if re.MatchString(normalized) {
			score++
		}
	}
	if score >= 2 {
		extracted.Address = original
		return IntentAddress, extracted
	}

	return IntentNeedsLLM, extracted
}

// IsSimple reports whether the message resolves without the LLM.
func IsSimple(text string) bool {
	intent, _ := Classify(text)
	return intent != IntentNeedsLLM
}

// normalizePhone pads Brazilian numbers with the country code.
func normalizePhone(digits string) string {
	digits = strings.TrimLeft(digits, "0")
	switch len(digits) {
	case 11, 10: // DDD + mobile/landline
		return "55" + digits
	default:
		return digits
	}
}
