package model

import (
	"path/filepath"
	"strings"
)

// FileKind classifies an upload by its processing strategy rather than its
// exact format.
type FileKind int

const (
	KindUnknown FileKind = iota
	KindTabular           // spreadsheet workbooks (.xlsx, .xls)
	KindPageOriented      // page-structured documents (.pdf)
	KindRichText          // word-processing documents (.docx)
)

func (k FileKind) String() string {
	switch k {
	case KindTabular:
		return "tabular"
	case KindPageOriented:
		return "page-oriented"
	case KindRichText:
		return "rich-text"
	default:
		return "unknown"
	}
}

// KindFromFilename resolves the processing kind from the file extension,
// case-insensitively. ok is false for unsupported extensions.
func KindFromFilename(name string) (FileKind, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xls":
		return KindTabular, true
	case ".pdf":
		return KindPageOriented, true
	case ".docx":
		return KindRichText, true
	default:
		return KindUnknown, false
	}
}

// RawDocument is one upload before text extraction.
type RawDocument struct {
	Filename string
	Content  []byte
	DocType  DocType
}
