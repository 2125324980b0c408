package extract

import (
	"archive/zip"
	"bytes"
	"path/filepath"
	"strings"
)

const (
	mimeText = "text/plain"
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Format identifies a supported document format, resolved once at the
// ingestion boundary from the declared media type.
type Format int

const (
	FormatUnknown Format = iota
	FormatPlainText
	FormatPDF
	FormatDOCX
)

func (f Format) String() string {
	switch f {
	case FormatPlainText:
		return "plain-text"
	case FormatPDF:
		return "pdf"
	case FormatDOCX:
		return "docx"
	default:
		return "unknown"
	}
}

// ResolveFormat maps a declared media type onto a Format. Browsers upload
// .docx files as application/zip often enough that zip payloads containing
// word/document.xml are treated as DOCX, with the file extension as a
// fallback signal.
func ResolveFormat(mediaType string, fileName string, data []byte) (Format, string) {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mediaType, ";")[0]))

	switch clean {
	case mimeText:
		return FormatPlainText, clean
	case mimePDF:
		return FormatPDF, clean
	case mimeDOCX:
		return FormatDOCX, clean
	case "application/zip", "application/octet-stream":
		if zipContainsWordDocument(data) {
			return FormatDOCX, mimeDOCX
		}
		if strings.ToLower(filepath.Ext(fileName)) == ".docx" {
			return FormatDOCX, mimeDOCX
		}
		return FormatUnknown, clean
	default:
		return FormatUnknown, clean
	}
}

func zipContainsWordDocument(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == "word/document.xml" {
			return true
		}
	}
	return false
}
