package model

// Reserved FieldMap keys that carry metadata rather than extracted values.
const (
	KeyContextDump = "context_dump"
	KeyUserContext = "user_context"
	KeyError       = "error"
)

// AllFields is the fixed cross-document-type field vocabulary. Extraction
// attempts every field regardless of which document type is ultimately
// generated, since generation fans out to all types from one shared map.
var AllFields = []string{
	"municipio", "departamento", "entidad", "bpin", "nombre_proyecto",
	"valor_total", "duracion", "responsable", "cargo", "alcalde",
	"objeto", "necesidad", "alcance", "modalidad", "fuente_financiacion",
	"sector", "codigo_ciiu", "codigos_unspsc", "programa", "subprograma",
	"plan_nacional", "plan_departamental", "plan_municipal",
}

// FieldMap is the key/value result of one extraction call. Values are
// plain strings; reserved keys hold the raw context dump, the caller's
// free-text hint, and structured errors.
type FieldMap map[string]string

// Clone returns an independent copy of the map.
func (f FieldMap) Clone() FieldMap {
	out := make(FieldMap, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Merge folds src into f. New keys are always added; existing keys are
// overwritten only when overwrite is set (explicit re-extraction).
func (f FieldMap) Merge(src FieldMap, overwrite bool) {
	for k, v := range src {
		if _, exists := f[k]; exists && !overwrite {
			continue
		}
		f[k] = v
	}
}

// Values returns the map without reserved metadata keys.
func (f FieldMap) Values() FieldMap {
	out := make(FieldMap, len(f))
	for k, v := range f {
		if k == KeyContextDump || k == KeyUserContext || k == KeyError {
			continue
		}
		out[k] = v
	}
	return out
}
