package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"strings"

	"github.com/rotisserie/eris"
)

// extractDOCX parses a .docx by walking word/document.xml inside the ZIP
// archive. Non-empty body paragraphs come first in document order, then
// every table's rows rendered as " | "-joined non-empty cell texts.
func extractDOCX(_ context.Context, content []byte) (string, error) {
	r, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", eris.Wrap(err, "docx: open archive")
	}

	var docFile *zip.File
	for _, f := range r.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", eris.New("docx: word/document.xml not found in archive")
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", eris.Wrap(err, "docx: open document.xml")
	}
	defer rc.Close() //nolint:errcheck

	decoder := xml.NewDecoder(rc)

	var paragraphs []string
	var tableRows []string

	var currentText strings.Builder
	var cellTexts []string
	inParagraph := false
	tableDepth := 0

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				tableDepth++
			case "tr":
				if tableDepth > 0 {
					cellTexts = cellTexts[:0]
				}
			case "tc":
				if tableDepth > 0 {
					currentText.Reset()
				}
			case "p":
				if tableDepth == 0 {
					inParagraph = true
					currentText.Reset()
				}
			}

		case xml.CharData:
			if inParagraph || tableDepth > 0 {
				currentText.Write(t)
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				if inParagraph && tableDepth == 0 {
					inParagraph = false
					if text := strings.TrimSpace(currentText.String()); text != "" {
						paragraphs = append(paragraphs, text)
					}
				}
			case "tc":
				if tableDepth > 0 {
					if text := strings.TrimSpace(currentText.String()); text != "" {
						cellTexts = append(cellTexts, text)
					}
					currentText.Reset()
				}
			case "tr":
				if tableDepth > 0 && len(cellTexts) > 0 {
					tableRows = append(tableRows, strings.Join(cellTexts, " | "))
					cellTexts = cellTexts[:0]
				}
			case "tbl":
				if tableDepth > 0 {
					tableDepth--
				}
			}
		}
	}

	parts := append(paragraphs, tableRows...)
	return strings.Join(parts, "\n"), nil
}
