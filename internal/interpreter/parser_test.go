package interpreter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_MultiItemSplit(t *testing.T) {
	lines := Parse("2 x-salada sem cebola e 1 coca lata")
	require.Len(t, lines, 2)

	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, []string{"cebola"}, lines[0].Removals)

	assert.Equal(t, 1, lines[1].Quantity)
	assert.Equal(t, "coca lata", lines[1].Head)
	assert.Empty(t, lines[1].Removals)
}

func TestParse_GreetingAndVerbsStripped(t *testing.T) {
	lines := Parse("boa noite, queria 1 x-salada")
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Quantity)
}

func TestParse_GreetingOnlyYieldsNothing(t *testing.T) {
	assert.Empty(t, Parse("boa noite"))
	assert.Empty(t, Parse("oi"))
	assert.Empty(t, Parse(""))
}

func TestParse_ContextLinesFiltered(t *testing.T) {
	text := "1 x-salada\nrua das flores 123\npagamento no pix"
	lines := Parse(text)
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Quantity)
}

func TestParse_SingleLineCutAtContextMarker(t *testing.T) {
	lines := Parse("1 x-salada para a rua das flores 123")
	require.Len(t, lines, 1)
	assert.NotContains(t, lines[0].Raw, "rua")
}

func TestParse_AdditionsAfterCom(t *testing.T) {
	lines := Parse("1 x-salada com bacon e ovo")
	require.Len(t, lines, 1)
	assert.Equal(t, []string{"bacon", "ovo"}, lines[0].Additions)
}

func TestParse_MultipleRemovalSpans(t *testing.T) {
	lines := Parse("1 x-salada sem cebola sem tomate")
	require.Len(t, lines, 1)
	assert.Equal(t, []string{"cebola", "tomate"}, lines[0].Removals)
}

func TestParse_RemovalThenAddition(t *testing.T) {
	lines := Parse("1 x-salada sem cebola com bacon")
	require.Len(t, lines, 1)
	assert.Equal(t, []string{"cebola"}, lines[0].Removals)
	assert.Equal(t, []string{"bacon"}, lines[0].Additions)
}

func TestParse_StandaloneAdditional(t *testing.T) {
	lines := Parse("1 adicional de bacon")
	require.Len(t, lines, 1)
	assert.True(t, lines[0].AdditionalOnly)
}

func TestParse_WordQuantities(t *testing.T) {
	lines := Parse("duas coca lata")
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestParse_NoteKeywords(t *testing.T) {
	lines := Parse("1 x-salada cortado ao meio")
	require.Len(t, lines, 1)
	assert.Equal(t, []string{"cortado ao meio"}, lines[0].Notes)
}

func TestParse_WhatsAppTimestampStripped(t *testing.T) {
	lines := Parse("[21:37, 15/03/2025] Cliente: 1 x-salada")
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Quantity)
}

func TestParse_DefaultQuantityIsOne(t *testing.T) {
	lines := Parse("x-salada")
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Quantity)
}
