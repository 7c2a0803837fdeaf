package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// ErrUnsupportedType marks a document whose extension has no text extractor.
var ErrUnsupportedType = errors.New("unsupported document type")

// Parser converts raw documents to plain text. It implements the pipeline's
// text extraction contract.
type Parser struct{}

func NewParser() *Parser { return &Parser{} }

// Text extracts plain text from a PDF, DOCX or TXT document. The context is
// checked between PDF pages so a stuck parse does not stall a whole run.
func (p *Parser) Text(ctx context.Context, doc Document) (string, error) {
	switch strings.ToLower(filepath.Ext(doc.Name)) {
	case ".pdf":
		return extractPDF(ctx, doc.Data)
	case ".docx":
		return extractDocx(doc.Data)
	case ".txt":
		return string(doc.Data), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, doc.Name)
	}
}

func extractPDF(ctx context.Context, data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("reading pdf: %w", err)
	}

	var builder strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}

	return builder.String(), nil
}

func extractDocx(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parsing docx: %w", err)
	}
	defer doc.Close()

	return doc.Editable().GetContent(), nil
}
