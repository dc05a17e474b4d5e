package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formulador-mga/mga-cli/internal/config"
	"github.com/formulador-mga/mga-cli/internal/docwriter"
	"github.com/formulador-mga/mga-cli/internal/model"
)

func TestGenerateCmd_RunE_FailsWhenNoDocumentGenerated(t *testing.T) {
	dir := t.TempDir()
	fieldsPath := filepath.Join(dir, "fields.json")
	require.NoError(t, os.WriteFile(fieldsPath, []byte(`{"municipio": "San Pablo"}`), 0o644))

	// No anthropic key configured, so model resolution fails and nothing
	// is generated.
	cfg = &config.Config{
		Generate: config.GenerateConfig{OutputDir: dir},
	}
	generateFieldsPath = fieldsPath
	defer func() { generateFieldsPath = "" }()

	generateCmd.SetContext(context.Background())
	defer generateCmd.SetContext(context.TODO())

	var out bytes.Buffer
	generateCmd.SetOut(&out)
	defer generateCmd.SetOut(nil)

	err := generateCmd.RunE(generateCmd, nil)
	require.Error(t, err, "OverallSuccess=false must exit non-zero")
	assert.Contains(t, err.Error(), "no document was generated")

	var result model.UnifiedResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.False(t, result.OverallSuccess)
	assert.Contains(t, result.Error, "model init failed")
}

func TestLoadFields_RequiresSource(t *testing.T) {
	generateFieldsPath = ""
	generateFromFiles = nil

	generateCmd.SetContext(context.Background())
	defer generateCmd.SetContext(context.TODO())

	_, err := loadFields(generateCmd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--fields or --from")
}

func TestLoadFields_FromJSONFile(t *testing.T) {
	fieldsPath := filepath.Join(t.TempDir(), "fields.json")
	require.NoError(t, os.WriteFile(fieldsPath, []byte(`{"municipio": "San Pablo", "bpin": "2025000123"}`), 0o644))

	generateFieldsPath = fieldsPath
	defer func() { generateFieldsPath = "" }()

	generateCmd.SetContext(context.Background())
	defer generateCmd.SetContext(context.TODO())

	fields, err := loadFields(generateCmd)
	require.NoError(t, err)
	assert.Equal(t, model.FieldMap{"municipio": "San Pablo", "bpin": "2025000123"}, fields)
}

func TestLoadFields_MultipleSourcesMergeThroughSession(t *testing.T) {
	dir := t.TempDir()

	dtsPath := filepath.Join(dir, "dts.docx")
	require.NoError(t, docwriter.Write(dtsPath, docwriter.Document{
		Paragraphs: []docwriter.Paragraph{
			{Text: "Municipio: San Pablo"},
			{Text: "Valor: 1.250.000.000"},
		},
	}))
	certPath := filepath.Join(dir, "cert.docx")
	require.NoError(t, docwriter.Write(certPath, docwriter.Document{
		Paragraphs: []docwriter.Paragraph{
			{Text: "Municipio: Simití"},
			{Text: "Responsable: Carlos Pérez"},
		},
	}))

	cfg = &config.Config{}
	generateFromFiles = []string{"dts=" + dtsPath, "certificaciones=" + certPath}
	defer func() { generateFromFiles = nil }()

	generateCmd.SetContext(context.Background())
	defer generateCmd.SetContext(context.TODO())

	fields, err := loadFields(generateCmd)
	require.NoError(t, err)

	assert.Equal(t, "San Pablo", fields["municipio"], "earlier doc type wins collisions")
	assert.Equal(t, "Carlos Pérez", fields["responsable"])
	assert.Contains(t, fields["valor"], "1.250.000.000")
}

func TestParseSource(t *testing.T) {
	dt, path := parseSource("dts=docs/dts.docx")
	assert.Equal(t, model.DocDTS, dt)
	assert.Equal(t, "docs/dts.docx", path)

	dt, path = parseSource("docs/subsidios.docx")
	assert.Equal(t, model.DocMGASubsidios, dt)
	assert.Equal(t, "docs/subsidios.docx", path)

	// An unknown prefix is part of the path, not a doc type.
	dt, path = parseSource("no-un-tipo=algo.docx")
	assert.Equal(t, model.DocMGASubsidios, dt)
	assert.Equal(t, "no-un-tipo=algo.docx", path)
}

func TestGenerateCmd_Flags_Exist(t *testing.T) {
	for _, name := range []string{"fields", "from", "model", "user-context"} {
		assert.NotNil(t, generateCmd.Flags().Lookup(name), "generate should have --%s flag", name)
	}
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range []string{"extract", "generate"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "mga-cli", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}
