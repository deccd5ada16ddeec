package profile

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	rpdf "rsc.io/pdf"
)

// ExtractDocumentText converts an uploaded document to plain text.
// PDFs go through the pdf parser; .txt and .md are passed through with a
// UTF-8 cleanup. Other extensions are rejected.
func ExtractDocumentText(filename string, content []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		text, err := extractPDFText(content)
		if err != nil {
			return "", fmt.Errorf("profile: extract %s: %w", filename, err)
		}
		return text, nil
	case ".txt", ".md":
		return strings.ToValidUTF8(string(content), ""), nil
	default:
		return "", fmt.Errorf("profile: unsupported document type %q", filepath.Ext(filename))
	}
}

// extractPDFText walks every page and concatenates the text fragments. The
// pdf package panics on malformed files, so the panic is converted to an
// error here.
func extractPDFText(content []byte) (text string, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("pdf parser panic: %v", recovered)
			text = ""
		}
	}()

	reader, err := rpdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", err
	}

	var builder strings.Builder
	for pageIndex := 1; pageIndex <= reader.NumPage(); pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}
		for _, fragment := range page.Content().Text {
			builder.WriteString(fragment.S)
			builder.WriteString(" ")
		}
		builder.WriteString("\n")
	}

	out := builder.String()
	if !utf8.ValidString(out) {
		out = strings.ToValidUTF8(out, "")
	}
	return out, nil
}
