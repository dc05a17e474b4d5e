package generate

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/rotisserie/eris"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/formulador-mga/mga-cli/internal/model"
)

// archiveEntry pairs a successful output file with its document type. The
// doc-type prefix keeps same-named outputs from overwriting each other
// inside the archive.
type archiveEntry struct {
	DocType model.DocType
	Path    string
}

// buildArchive packages the successful output files into one ZIP named
// MGA_Documentos_<sanitized>_<YYYYMMDD_HHMMSS>.zip under outputDir.
func buildArchive(outputDir, project string, entries []archiveEntry) (string, error) {
	name := fmt.Sprintf("MGA_Documentos_%s_%s.zip",
		sanitizeName(project),
		time.Now().Format("20060102_150405"),
	)
	path := filepath.Join(outputDir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", eris.Wrap(err, "archive: create file")
	}
	defer f.Close() //nolint:errcheck

	zw := zip.NewWriter(f)
	for _, e := range entries {
		if err := addArchiveEntry(zw, e); err != nil {
			zw.Close() //nolint:errcheck
			return "", err
		}
	}
	if err := zw.Close(); err != nil {
		return "", eris.Wrap(err, "archive: close writer")
	}

	return path, nil
}

func addArchiveEntry(zw *zip.Writer, e archiveEntry) error {
	src, err := os.Open(e.Path)
	if err != nil {
		return eris.Wrapf(err, "archive: open %s", e.Path)
	}
	defer src.Close() //nolint:errcheck

	entryName := fmt.Sprintf("%s_%s", e.DocType, filepath.Base(e.Path))
	w, err := zw.Create(entryName)
	if err != nil {
		return eris.Wrapf(err, "archive: create entry %s", entryName)
	}
	if _, err := io.Copy(w, src); err != nil {
		return eris.Wrapf(err, "archive: write entry %s", entryName)
	}
	return nil
}

// stripDiacritics removes combining marks after NFD decomposition, so
// Spanish project names survive sanitization ("Bogotá" → "Bogota").
var stripDiacritics = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// sanitizeName keeps alphanumerics, spaces, hyphens and underscores.
func sanitizeName(name string) string {
	if flat, _, err := transform.String(stripDiacritics, name); err == nil {
		name = flat
	}

	var sb strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			sb.WriteRune(r)
		}
	}

	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "proyecto"
	}
	return out
}
