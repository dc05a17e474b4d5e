package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formulador-mga/mga-cli/internal/model"
)

func TestSessionPutMergeSemantics(t *testing.T) {
	s := NewSession()
	require.NotEmpty(t, s.ID())

	s.Put(model.DocDTS, model.FieldMap{"municipio": "San Pablo", "valor": "100"}, false)

	// Re-upload without reextract: new keys land, existing keys survive.
	s.Put(model.DocDTS, model.FieldMap{"municipio": "Simití", "departamento": "Bolívar"}, false)
	got := s.Get(model.DocDTS)
	assert.Equal(t, "San Pablo", got["municipio"])
	assert.Equal(t, "Bolívar", got["departamento"])
	assert.Equal(t, "100", got["valor"])

	// Explicit re-extraction overwrites.
	s.Put(model.DocDTS, model.FieldMap{"municipio": "Simití"}, true)
	assert.Equal(t, "Simití", s.Get(model.DocDTS)["municipio"])
}

func TestSessionGetReturnsCopy(t *testing.T) {
	s := NewSession()
	s.Put(model.DocDTS, model.FieldMap{"municipio": "San Pablo"}, false)

	got := s.Get(model.DocDTS)
	got["municipio"] = "mutado"

	assert.Equal(t, "San Pablo", s.Get(model.DocDTS)["municipio"])
	assert.Nil(t, s.Get(model.DocCertificaciones))
}

func TestSessionPutClonesInput(t *testing.T) {
	s := NewSession()
	fields := model.FieldMap{"municipio": "San Pablo"}
	s.Put(model.DocDTS, fields, false)

	fields["municipio"] = "mutado"
	assert.Equal(t, "San Pablo", s.Get(model.DocDTS)["municipio"])
}

func TestSessionSnapshotFoldOrder(t *testing.T) {
	s := NewSession()
	s.Put(model.DocMGASubsidios, model.FieldMap{"municipio": "Simití", "bpin": "2025000123"}, false)
	s.Put(model.DocEstudiosPrevios, model.FieldMap{"municipio": "San Pablo", "objeto": "suministro"}, false)

	snap := s.Snapshot()

	assert.Equal(t, "San Pablo", snap["municipio"], "earlier doc type wins collisions")
	assert.Equal(t, "2025000123", snap["bpin"])
	assert.Equal(t, "suministro", snap["objeto"])
}
