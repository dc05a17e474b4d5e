package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/formulador-mga/mga-cli/internal/config"
	"github.com/formulador-mga/mga-cli/internal/model"
	"github.com/formulador-mga/mga-cli/pkg/anthropic"
)

// Sampling layout for long documents: beginning, a window centered on the
// midpoint, and the tail, bounded so the prompt stays within budget while
// still covering the whole document.
const (
	defaultSampleThreshold = 15000
	sampleHeadChars        = 6000
	sampleMidChars         = 6000
	sampleTailChars        = 3000
)

const extractSystemPrompt = `Eres un experto en extracción de datos de documentos gubernamentales colombianos (MGA, contratos, convenios).
Tu tarea es extraer la mayor cantidad posible de campos del texto proporcionado.
- Si un campo no está en el documento, usa null.
- Extrae valores exactos, no inventes datos.
- Para valores numéricos (dinero, duración) incluye solo el número.
- Responde SOLO con un único objeto JSON válido.`

const extractPromptTmpl = `Extrae los siguientes campos del documento:
%s
%s
DOCUMENTO:
%s

Responde con JSON válido (solo los campos que encuentres), usando null para los ausentes.`

// AIExtractor delegates field extraction to the model collaborator, with
// the pattern extractor as its fallback on any failure.
type AIExtractor struct {
	client   anthropic.Client
	cfg      config.AnthropicConfig
	pattern  *PatternExtractor
	sampleAt int
}

// NewAIExtractor creates an AIExtractor backed by client, falling back to
// pattern on model or parse failure.
func NewAIExtractor(client anthropic.Client, cfg config.AnthropicConfig, pattern *PatternExtractor, sampleThreshold int) *AIExtractor {
	if sampleThreshold <= 0 {
		sampleThreshold = defaultSampleThreshold
	}
	return &AIExtractor{
		client:   client,
		cfg:      cfg,
		pattern:  pattern,
		sampleAt: sampleThreshold,
	}
}

// Extract asks the model for every field in the superset vocabulary. The
// caller never sees an AI-path failure: model or parse errors degrade to
// the pattern extractor on the same inputs.
func (a *AIExtractor) Extract(ctx context.Context, text string, docType model.DocType, userContext string) model.FieldMap {
	fields, err := a.extractWithModel(ctx, text, userContext)
	if err != nil {
		zap.L().Warn("extract: ai path failed, falling back to patterns",
			zap.String("doc_type", string(docType)),
			zap.Error(err),
		)
		return a.pattern.Extract(text, docType)
	}
	return fields
}

func (a *AIExtractor) extractWithModel(ctx context.Context, text, userContext string) (model.FieldMap, error) {
	sample := sampleText(text, a.sampleAt)

	contextBlock := ""
	if strings.TrimSpace(userContext) != "" {
		contextBlock = "\nCONTEXTO ADICIONAL DEL USUARIO:\n" + userContext + "\n"
	}

	prompt := fmt.Sprintf(extractPromptTmpl,
		strings.Join(model.AllFields, ", "),
		contextBlock,
		sample,
	)

	maxTokens := a.cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	resp, err := a.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     a.cfg.Model,
		MaxTokens: maxTokens,
		System:    anthropic.BuildCachedSystemBlocks(extractSystemPrompt),
		Messages: []anthropic.Message{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return nil, err
	}
	resp.Usage.LogCost(a.cfg.Model, "extract")

	raw, err := recoverJSON(resp.Text())
	if err != nil {
		return nil, err
	}

	result := model.FieldMap{}
	for k, v := range raw {
		if s, ok := fieldValueString(v); ok {
			result[k] = s
		}
	}
	return result, nil
}

// sampleText reduces long documents to head + midpoint window + tail,
// joined with section markers. Text at or under the threshold passes
// through whole. Windows are clamped to the text length and to rune
// boundaries, so a threshold below the window sizes cannot slice out of
// range or split a multi-byte character.
func sampleText(text string, threshold int) string {
	if len(text) <= threshold {
		return text
	}

	head := truncateOnRune(text, sampleHeadChars)

	midStart := len(text)/2 - sampleMidChars/2
	if midStart < len(head) {
		midStart = len(head)
	}
	midEnd := midStart + sampleMidChars
	if midEnd > len(text) {
		midEnd = len(text)
	}
	midStart = runeStart(text, midStart)
	midEnd = runeStart(text, midEnd)
	middle := text[midStart:midEnd]

	tailStart := len(text) - sampleTailChars
	if tailStart < midEnd {
		tailStart = midEnd
	}
	tail := text[runeStart(text, tailStart):]

	var sb strings.Builder
	sb.WriteString(head)
	if middle != "" {
		sb.WriteString("\n\n[... sección intermedia del documento ...]\n\n")
		sb.WriteString(middle)
	}
	if tail != "" {
		sb.WriteString("\n\n[... sección final del documento ...]\n\n")
		sb.WriteString(tail)
	}
	return sb.String()
}

// truncateOnRune truncates s to at most n bytes without splitting a rune.
func truncateOnRune(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:runeStart(s, n)]
}

// runeStart backs i off to the nearest rune boundary at or before it.
func runeStart(s string, i int) int {
	if i >= len(s) {
		return len(s)
	}
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}

var (
	fencedJSONRe  = regexp.MustCompile("(?s)```json\\s*(.*?)```")
	fencedBlockRe = regexp.MustCompile("(?s)```\\s*(.*?)```")
)

// recoverJSON extracts a JSON object from a model reply, trying a fenced
// json block, then any fenced block, then a brace-delimited span. The
// first candidate that parses wins.
func recoverJSON(text string) (map[string]any, error) {
	var candidates []string

	if m := fencedJSONRe.FindStringSubmatch(text); m != nil {
		candidates = append(candidates, m[1])
	}
	if m := fencedBlockRe.FindStringSubmatch(text); m != nil {
		candidates = append(candidates, m[1])
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		candidates = append(candidates, text[start:end+1])
	}

	for _, c := range candidates {
		var out map[string]any
		if err := json.Unmarshal([]byte(strings.TrimSpace(c)), &out); err == nil {
			return out, nil
		}
	}
	return nil, fmt.Errorf("no recoverable JSON object in model reply (%d chars)", len(text))
}

// fieldValueString normalizes a parsed JSON value into a field string.
// Null, the literal "null", and blank values are dropped.
func fieldValueString(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		s := strings.TrimSpace(t)
		if s == "" || strings.EqualFold(s, "null") {
			return "", false
		}
		return s, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		// Nested structures are re-serialized verbatim.
		b, err := json.Marshal(t)
		if err != nil {
			return "", false
		}
		return string(b), true
	}
}
