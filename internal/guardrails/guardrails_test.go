package guardrails

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_Intents(t *testing.T) {
	cases := []struct {
		text string
		want Intent
	}{
		{"sim", IntentConfirm},
		{"Sim!", IntentConfirm},
		{"blz", IntentConfirm},
		{"pode", IntentConfirm},
		{"fechado", IntentConfirm},
		{"👍", IntentConfirm},
		{"nao", IntentDeny},
		{"não", IntentDeny},
		{"nn", IntentDeny},
		{"negativo", IntentDeny},
		{"cancelar", IntentCancel},
		{"desisto", IntentCancel},
		{"esquece", IntentCancel},
		{"nao quero mais", IntentCancel},
		{"cardápio", IntentHelp},
		{"ajuda", IntentHelp},
		{"de novo", IntentRepeat},
		{"repete", IntentRepeat},
		{"como?", IntentRepeat},
		{"quero 2 x salada sem cebola", IntentNeedsLLM},
		{"", IntentNeedsLLM},
	}
	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			got, _ := Classify(tc.text)
			assert.Equal(t, tc.want, got, "text %q", tc.text)
		})
	}
}

func TestClassify_PaymentMethods(t *testing.T) {
	cases := map[string]string{
		"pix":               "pix",
		"dinheiro":          "dinheiro",
		"em espécie":        "dinheiro",
		"cartão de crédito": "cartao_credito",
		"credito":           "cartao_credito",
		"débito":            "cartao_debito",
		// Bare "cartao" still needs a credit/debit follow-up.
		"cartão": "cartao",
	}
	for text, method := range cases {
		intent, ex := Classify(text)
		assert.Equal(t, IntentPaymentMethod, intent, "text %q", text)
		assert.Equal(t, method, ex.PaymentMethod, "text %q", text)
	}
}

func TestClassify_Quantity(t *testing.T) {
	intent, ex := Classify("2")
	assert.Equal(t, IntentQuantity, intent)
	assert.Equal(t, 2, ex.Quantity)

	// Three digits is not a bare quantity answer.
	intent, _ = Classify("123")
	assert.NotEqual(t, IntentQuantity, intent)
}

func TestClassify_Phone(t *testing.T) {
	intent, ex := Classify("48 99999-8888")
	assert.Equal(t, IntentPhoneNumber, intent)
	assert.Equal(t, "5548999998888", ex.Phone)

	intent, ex = Classify("5548999998888")
	assert.Equal(t, IntentPhoneNumber, intent)
	assert.Equal(t, "5548999998888", ex.Phone)
}

func TestClassify_AddressNeedsTwoIndicators(t *testing.T) {
	intent, ex := Classify("Rua das Flores, número 123, bairro Centro")
	assert.Equal(t, IntentAddress, intent)
	assert.Contains(t, ex.Address, "Rua das Flores")

	// A single hint is too weak to commit to an address.
	intent, _ = Classify("rua das flores")
	assert.Equal(t, IntentNeedsLLM, intent)
}

func TestIsSimple(t *testing.T) {
	assert.True(t, IsSimple("sim"))
	assert.True(t, IsSimple("pix"))
	assert.False(t, IsSimple("quero um lanche bem caprichado"))
}
