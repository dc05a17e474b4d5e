package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindFromFilename(t *testing.T) {
	tests := []struct {
		name string
		kind FileKind
		ok   bool
	}{
		{"proyecto.xlsx", KindTabular, true},
		{"proyecto.XLS", KindTabular, true},
		{"convenio.pdf", KindPageOriented, true},
		{"dts.docx", KindRichText, true},
		{"notas.txt", 0, false},
		{"sin_extension", 0, false},
	}

	for _, tt := range tests {
		kind, ok := KindFromFilename(tt.name)
		assert.Equal(t, tt.ok, ok, tt.name)
		if tt.ok {
			assert.Equal(t, tt.kind, kind, tt.name)
		}
	}
}

func TestFieldMapMerge(t *testing.T) {
	dst := FieldMap{"municipio": "San Pablo", "valor_total": "1000"}

	dst.Merge(FieldMap{"municipio": "Bogotá", "departamento": "Bolívar"}, false)
	assert.Equal(t, "San Pablo", dst["municipio"], "existing keys kept without overwrite")
	assert.Equal(t, "Bolívar", dst["departamento"], "new keys always added")

	dst.Merge(FieldMap{"municipio": "Bogotá"}, true)
	assert.Equal(t, "Bogotá", dst["municipio"], "explicit re-extraction overwrites")
}

func TestFieldMapClone(t *testing.T) {
	orig := FieldMap{"municipio": "San Pablo"}
	clone := orig.Clone()
	clone["municipio"] = "otro"

	assert.Equal(t, "San Pablo", orig["municipio"])
}

func TestFieldMapValues(t *testing.T) {
	f := FieldMap{
		"municipio":    "San Pablo",
		KeyContextDump: "texto completo",
		KeyUserContext: "pista",
		KeyError:       "algo",
	}

	vals := f.Values()
	assert.Equal(t, FieldMap{"municipio": "San Pablo"}, vals)
}

func TestAllDocTypesOrder(t *testing.T) {
	types := AllDocTypes()
	assert.Len(t, types, 5)
	assert.Equal(t, DocEstudiosPrevios, types[0])
	assert.Equal(t, DocMGASubsidios, types[4])
}
