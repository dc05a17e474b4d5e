// Package extract turns uploaded project documents into a normalized field
// set: format-specific text extraction, then pattern-based or AI-assisted
// field extraction.
package extract

import (
	"context"

	"go.uber.org/zap"

	"github.com/formulador-mga/mga-cli/internal/config"
	"github.com/formulador-mga/mga-cli/internal/model"
)

// textBackend converts raw document bytes into flattened text. A backend
// returns an error to mean "try the next one", never to abort extraction.
type textBackend struct {
	name string
	fn   func(ctx context.Context, content []byte) (string, error)
}

// TextExtractor flattens a raw document of a known kind into a single text
// stream. Backends per kind are tried in priority order; every failure
// degrades to the next backend and the worst case is an empty string.
type TextExtractor struct {
	cfg config.ExtractConfig
}

// NewTextExtractor creates a TextExtractor.
func NewTextExtractor(cfg config.ExtractConfig) *TextExtractor {
	return &TextExtractor{cfg: cfg}
}

// Extract returns the flattened text of the document. It never fails: all
// backend errors are logged and swallowed, and an unreadable document yields
// "". The input bytes are never mutated.
func (e *TextExtractor) Extract(ctx context.Context, content []byte, kind model.FileKind) string {
	var chain []textBackend
	switch kind {
	case model.KindTabular:
		chain = []textBackend{
			{name: "xlsx-columns", fn: extractXLSXColumns},
			{name: "xlsx-cells", fn: extractXLSXCells},
		}
	case model.KindPageOriented:
		chain = []textBackend{
			{name: "pdf-native", fn: extractPDFNative},
			{name: "pdftotext", fn: e.extractPDFToText},
		}
	case model.KindRichText:
		chain = []textBackend{
			{name: "docx", fn: extractDOCX},
		}
	default:
		return ""
	}

	for _, b := range chain {
		text, err := b.fn(ctx, content)
		if err != nil {
			zap.L().Warn("extract: text backend failed, degrading",
				zap.String("kind", kind.String()),
				zap.String("backend", b.name),
				zap.Error(err),
			)
			continue
		}
		return text
	}
	return ""
}
