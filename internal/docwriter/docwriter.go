// Package docwriter assembles minimal DOCX files: a title plus heading and
// body paragraphs. Layout beyond that is deliberately out of scope.
package docwriter

import (
	"archive/zip"
	"encoding/xml"
	"os"
	"strings"

	"github.com/rotisserie/eris"
)

// Paragraph is one block of output text.
type Paragraph struct {
	Text    string
	Heading int // 0 = body, 1..2 = heading level
}

// Document is the content of one generated file.
type Document struct {
	Title      string
	Paragraphs []Paragraph
}

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const relsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

// Write builds the OOXML ZIP at path.
func Write(path string, doc Document) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "docwriter: create file")
	}
	defer f.Close() //nolint:errcheck

	zw := zip.NewWriter(f)

	entries := []struct {
		name, body string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", relsXML},
		{"word/document.xml", documentXML(doc)},
	}
	for _, e := range entries {
		w, err := zw.Create(e.name)
		if err != nil {
			return eris.Wrapf(err, "docwriter: create entry %s", e.name)
		}
		if _, err := w.Write([]byte(e.body)); err != nil {
			return eris.Wrapf(err, "docwriter: write entry %s", e.name)
		}
	}

	if err := zw.Close(); err != nil {
		return eris.Wrap(err, "docwriter: close archive")
	}
	return nil
}

// documentXML renders word/document.xml.
func documentXML(doc Document) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	sb.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)

	if doc.Title != "" {
		writeParagraph(&sb, doc.Title, "Title")
	}
	for _, p := range doc.Paragraphs {
		style := ""
		switch p.Heading {
		case 1:
			style = "Heading1"
		case 2:
			style = "Heading2"
		}
		writeParagraph(&sb, p.Text, style)
	}

	sb.WriteString(`</w:body></w:document>`)
	return sb.String()
}

func writeParagraph(sb *strings.Builder, text, style string) {
	sb.WriteString(`<w:p>`)
	if style != "" {
		sb.WriteString(`<w:pPr><w:pStyle w:val="` + style + `"/></w:pPr>`)
	}
	sb.WriteString(`<w:r><w:t xml:space="preserve">`)
	sb.WriteString(escapeXML(text))
	sb.WriteString(`</w:t></w:r></w:p>`)
}

func escapeXML(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
