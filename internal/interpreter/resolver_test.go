package interpreter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolveOne(t *testing.T, text string) CandidateLine {
	t.Helper()
	lines := Resolve(Parse(text))
	require.Len(t, lines, 1)
	return lines[0]
}

func TestResolve_CarecaExpandsToRemoval(t *testing.T) {
	line := resolveOne(t, "1 x salada careca")
	assert.Contains(t, line.Removals, CarecaRemoval)
	assert.NotContains(t, line.MatchText, "careca")
}

func TestResolve_TypoCorrections(t *testing.T) {
	cases := map[string]string{
		"1 x burger":     "x burguer",
		"1 x burg":       "x burguer",
		"1 file migon":   "file mignon",
		"1 bata frita":   "batata frita",
		"1 coca lata":    "coca cola lata",
		"1 xsalada":      "x salada",
		"1 x salada completo": "x salada",
	}
	for in, want := range cases {
		line := resolveOne(t, in)
		assert.Equal(t, want, line.MatchText, "input %q", in)
	}
}

func TestResolve_CocaNotDoubled(t *testing.T) {
	line := resolveOne(t, "1 coca cola lata")
	assert.Equal(t, "coca cola lata", line.MatchText)
}

func TestResolve_LitersNormalized(t *testing.T) {
	line := resolveOne(t, "1 coca 2l")
	assert.Equal(t, "coca cola 2 litros", line.MatchText)
}

func TestResolve_SizeHints(t *testing.T) {
	quarter := resolveOne(t, "1 batata frita 1/4")
	assert.Equal(t, "1/4", quarter.SizeHint)

	half := resolveOne(t, "1 meia batata frita")
	assert.Equal(t, "1/2", half.SizeHint)
}

func TestResolve_FriesFoldAdditionsIntoName(t *testing.T) {
	line := resolveOne(t, "1 batata frita com bacon")
	assert.Equal(t, "batata frita bacon", line.MatchText)
	assert.Empty(t, line.Additions)
}

func TestResolve_RemovalDedupe(t *testing.T) {
	line := resolveOne(t, "1 x salada sem cebola sem cebola")
	assert.Equal(t, []string{"cebola"}, line.Removals)
}
