package generate

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formulador-mga/mga-cli/internal/model"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Bogotá", "Bogota"},
		{"San Pablo", "San Pablo"},
		{"Simití - Bolívar", "Simiti - Bolivar"},
		{"proyecto/2025\\v1", "proyecto2025v1"},
		{"ñandú", "nandu"},
		{"", "proyecto"},
		{"¿?¡!", "proyecto"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeName(tt.in), tt.in)
	}
}

func TestBuildArchive(t *testing.T) {
	dir := t.TempDir()
	dtsPath := writeOutput(t, dir, "informe.docx")
	mgaPath := writeOutput(t, dir, "informe.docx2")

	path, err := buildArchive(dir, "Bogotá", []archiveEntry{
		{DocType: model.DocDTS, Path: dtsPath},
		{DocType: model.DocMGASubsidios, Path: mgaPath},
	})
	require.NoError(t, err)

	base := filepath.Base(path)
	assert.True(t, strings.HasPrefix(base, "MGA_Documentos_Bogota_"), base)
	assert.True(t, strings.HasSuffix(base, ".zip"))

	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()

	require.Len(t, zr.File, 2)
	assert.Equal(t, "dts_informe.docx", zr.File[0].Name)
	assert.Equal(t, "mga_subsidios_informe.docx2", zr.File[1].Name)
}

func TestBuildArchiveSameBasename(t *testing.T) {
	dir := t.TempDir()
	sub1 := filepath.Join(dir, "a")
	sub2 := filepath.Join(dir, "b")
	require.NoError(t, os.MkdirAll(sub1, 0o755))
	require.NoError(t, os.MkdirAll(sub2, 0o755))
	p1 := writeOutput(t, sub1, "salida.docx")
	p2 := writeOutput(t, sub2, "salida.docx")

	path, err := buildArchive(dir, "proyecto", []archiveEntry{
		{DocType: model.DocEstudiosPrevios, Path: p1},
		{DocType: model.DocAnalisisSector, Path: p2},
	})
	require.NoError(t, err)

	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()

	names := []string{zr.File[0].Name, zr.File[1].Name}
	assert.Equal(t, []string{"estudios_previos_salida.docx", "analisis_sector_salida.docx"}, names,
		"doc-type prefix disambiguates identical basenames")
}

func TestBuildArchiveMissingSource(t *testing.T) {
	dir := t.TempDir()
	_, err := buildArchive(dir, "proyecto", []archiveEntry{
		{DocType: model.DocDTS, Path: filepath.Join(dir, "no-existe.docx")},
	})
	assert.Error(t, err)
}
