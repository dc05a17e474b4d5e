package extract

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formulador-mga/mga-cli/internal/model"
)

const sampleDTS = `Documento Técnico de Soporte
Municipio: San Pablo
Departamento: Bolívar
Entidad: Alcaldía Municipal de San Pablo
Nombre del proyecto: Subsidios de acueducto estratos 1 y 2
Valor: 1.250.000.000 COP
`

func TestPatternExtractMunicipio(t *testing.T) {
	p := NewPatternExtractor(0)

	fields := p.Extract(sampleDTS, model.DocDTS)

	require.Contains(t, fields, "municipio")
	assert.Contains(t, strings.ToLower(fields["municipio"]), "san pablo")
	assert.Equal(t, "Bolívar", fields["departamento"])
	assert.Contains(t, fields["valor"], "1.250.000.000")
}

func TestPatternExtractDeterministic(t *testing.T) {
	p := NewPatternExtractor(0)

	first := p.Extract(sampleDTS, model.DocDTS)
	second := p.Extract(sampleDTS, model.DocDTS)

	assert.Equal(t, first, second)
}

func TestPatternExtractCaseInsensitive(t *testing.T) {
	p := NewPatternExtractor(0)

	fields := p.Extract("MUNICIPIO: San Pablo", model.DocDTS)
	require.Contains(t, fields, "municipio")
	assert.Contains(t, strings.ToLower(fields["municipio"]), "san pablo")
}

func TestPatternExtractValueCap(t *testing.T) {
	p := NewPatternExtractor(0)

	long := "Municipio: " + strings.Repeat("x", 800)
	fields := p.Extract(long, model.DocDTS)

	require.Contains(t, fields, "municipio")
	assert.Len(t, fields["municipio"], 500)
}

func TestPatternExtractValueCapRuneBoundary(t *testing.T) {
	p := NewPatternExtractor(0)

	// The leading byte puts the 500-byte cap in the middle of a two-byte
	// rune; the cap must back off instead of emitting invalid UTF-8.
	long := "Municipio: x" + strings.Repeat("á", 600)
	fields := p.Extract(long, model.DocDTS)

	require.Contains(t, fields, "municipio")
	assert.True(t, utf8.ValidString(fields["municipio"]))
	assert.LessOrEqual(t, len(fields["municipio"]), 500)
}

func TestPatternExtractRejectsShortValues(t *testing.T) {
	p := NewPatternExtractor(0)

	fields := p.Extract("Municipio: x", model.DocDTS)
	assert.NotContains(t, fields, "municipio")
}

func TestPatternExtractFirstKeywordWins(t *testing.T) {
	p := NewPatternExtractor(0)

	// "nombre del proyecto" precedes "proyecto" in the synonym list, so the
	// more specific keyword captures even when both appear.
	text := "Nombre del proyecto: Acueducto Vereda Norte\nProyecto: otro nombre"
	fields := p.Extract(text, model.DocDTS)

	require.Contains(t, fields, "proyecto")
	assert.Equal(t, "Acueducto Vereda Norte", fields["proyecto"])
}

func TestPatternExtractUnknownDocType(t *testing.T) {
	p := NewPatternExtractor(0)

	fields := p.Extract(sampleDTS, model.DocType("desconocido"))
	assert.Empty(t, fields)
}

func TestPatternExtractNoContextDump(t *testing.T) {
	p := NewPatternExtractor(0)

	fields := p.Extract(sampleDTS, model.DocDTS)
	assert.NotContains(t, fields, model.KeyContextDump)
}
