package extract

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/formulador-mga/mga-cli/internal/config"
	"github.com/formulador-mga/mga-cli/internal/model"
	"github.com/formulador-mga/mga-cli/pkg/anthropic"
)

// Coordinator selects the extraction strategy for an upload: AI-assisted
// when a model client is configured, pattern-based otherwise.
type Coordinator struct {
	text    *TextExtractor
	pattern *PatternExtractor
	ai      *AIExtractor // nil when no model client is configured
}

// NewCoordinator wires the extraction pipeline. client may be nil, in which
// case every extraction uses the pattern path.
func NewCoordinator(cfg config.ExtractConfig, aiCfg config.AnthropicConfig, client anthropic.Client) *Coordinator {
	pattern := NewPatternExtractor(cfg.ValueCap)
	c := &Coordinator{
		text:    NewTextExtractor(cfg),
		pattern: pattern,
	}
	if client != nil {
		c.ai = NewAIExtractor(client, aiCfg, pattern, cfg.SampleThreshold)
	}
	return c
}

// ExtractFromUpload resolves the upload's kind from the filename extension,
// flattens the document to text and extracts fields. The full text dump is
// always attached under context_dump, and a non-empty userContext is
// attached verbatim under user_context, never merged into field values.
func (c *Coordinator) ExtractFromUpload(ctx context.Context, doc model.RawDocument, userContext string) model.FieldMap {
	kind, ok := model.KindFromFilename(doc.Filename)
	if !ok {
		return model.FieldMap{
			model.KeyError: fmt.Sprintf("unsupported file type: %s", doc.Filename),
		}
	}

	text := c.text.Extract(ctx, doc.Content, kind)
	zap.L().Info("extract: document flattened",
		zap.String("file", doc.Filename),
		zap.String("kind", kind.String()),
		zap.String("doc_type", string(doc.DocType)),
		zap.Int("chars", len(text)),
	)

	var result model.FieldMap
	if c.ai != nil {
		result = c.ai.Extract(ctx, text, doc.DocType, userContext)
	} else {
		result = c.pattern.Extract(text, doc.DocType)
	}

	// The raw dump rides along uncapped so downstream consumers can fall
	// back to free text even when structured extraction found nothing.
	result[model.KeyContextDump] = text
	if strings.TrimSpace(userContext) != "" {
		result[model.KeyUserContext] = userContext
	}

	return result
}
