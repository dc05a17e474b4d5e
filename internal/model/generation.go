package model

// DocType identifies one of the five target document types.
type DocType string

const (
	DocEstudiosPrevios DocType = "estudios_previos"
	DocAnalisisSector  DocType = "analisis_sector"
	DocDTS             DocType = "dts"
	DocCertificaciones DocType = "certificaciones"
	DocMGASubsidios    DocType = "mga_subsidios"
)

// AllDocTypes returns the fixed generation fan-out set, in declaration order.
func AllDocTypes() []DocType {
	return []DocType{
		DocEstudiosPrevios,
		DocAnalisisSector,
		DocDTS,
		DocCertificaciones,
		DocMGASubsidios,
	}
}

// TaskStatus is the per-task state machine: pending → running → terminal.
type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskRunning   TaskStatus = "running"
	TaskSucceeded TaskStatus = "succeeded"
	TaskFailed    TaskStatus = "failed"
)

// GenerationTask is one unit of work: render one document type from the
// shared field map. Created at orchestration start, consumed exactly once.
type GenerationTask struct {
	DocType DocType
	Fields  FieldMap // shared read-only snapshot; tasks must not mutate
	Model   string
}

// GenerationOutcome is the terminal record of one task.
type GenerationOutcome struct {
	DocType  DocType    `json:"doc_type"`
	Status   TaskStatus `json:"status"`
	FilePath string     `json:"file,omitempty"`
	Error    string     `json:"error,omitempty"`
}

// UnifiedResult aggregates all outcomes of one GenerateAll call.
// OverallSuccess is true iff at least one task succeeded.
type UnifiedResult struct {
	OverallSuccess bool                `json:"success"`
	Outcomes       []GenerationOutcome `json:"results"`
	ArchivePath    string              `json:"zip_file,omitempty"`
	Error          string              `json:"error,omitempty"`
}
