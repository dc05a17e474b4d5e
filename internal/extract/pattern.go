package extract

import (
	_ "embed"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/formulador-mga/mga-cli/internal/model"
)

//go:embed keywords.yaml
var keywordsYAML []byte

// keywordTables maps doc type → field name → ordered synonym list.
var keywordTables map[string]map[string][]string

func init() {
	if err := yaml.Unmarshal(keywordsYAML, &keywordTables); err != nil {
		panic("extract: invalid embedded keyword tables: " + err.Error())
	}
}

// defaultValueCap bounds each captured value in pattern mode.
const defaultValueCap = 500

// leadingNoiseRe strips separator noise left at the start of a captured value.
var leadingNoiseRe = regexp.MustCompile(`^[:\-\s]+`)

// PatternExtractor is the deterministic keyword-based field extractor. It
// requires no external service: same text and doc type always yield the
// same FieldMap.
type PatternExtractor struct {
	valueCap int
}

// NewPatternExtractor creates a PatternExtractor. A non-positive cap falls
// back to the 500-character default.
func NewPatternExtractor(valueCap int) *PatternExtractor {
	if valueCap <= 0 {
		valueCap = defaultValueCap
	}
	return &PatternExtractor{valueCap: valueCap}
}

// Extract scans text for the doc type's keywords and returns the captured
// field values. The context dump is not attached here; that is the
// coordinator's job.
func (p *PatternExtractor) Extract(text string, docType model.DocType) model.FieldMap {
	result := model.FieldMap{}
	table, ok := keywordTables[string(docType)]
	if !ok {
		return result
	}

	for field, keywords := range table {
		for _, keyword := range keywords {
			value, ok := captureAfterKeyword(text, keyword)
			if !ok {
				continue
			}
			if len(value) > p.valueCap {
				value = truncateOnRune(value, p.valueCap)
			}
			result[field] = value
			break // first matching keyword wins
		}
	}

	return result
}

// captureAfterKeyword finds the first case-insensitive occurrence of
// "keyword, optional separator, rest of line" and returns the trimmed
// captured value. Values shorter than 2 characters are rejected.
func captureAfterKeyword(text, keyword string) (string, bool) {
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(keyword) + `\s*[:\-]?\s*(.+)`)
	m := re.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}

	// RE2's "." excludes newlines, so the capture is rest-of-line already.
	value := leadingNoiseRe.ReplaceAllString(m[1], "")
	value = strings.TrimSpace(value)
	if len(value) < 2 {
		return "", false
	}
	return value, true
}
