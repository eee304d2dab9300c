package classifier

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

// TextExtractor turns raw document bytes into plain text. The OCR engine
// that handles scanned PDFs and images lives behind this interface in a
// separate deployment; this service ships the plain-text extractor and
// treats anything it cannot decode as a classification failure.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte, filename string) (string, error)
}

// PlainText extracts text from documents that are already textual
// (.txt uploads and text-layer exports). Binary content is rejected so the
// failure surfaces as a recoverable classification error instead of keyword
// matching against garbage.
type PlainText struct{}

// Extract validates that data is UTF-8 text and returns it.
func (PlainText) Extract(_ context.Context, data []byte, filename string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("classifier.PlainText.Extract: empty document %q", filename)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("classifier.PlainText.Extract: %q is not a text document", filename)
	}
	text := string(data)
	if strings.ContainsRune(text, '\x00') {
		return "", fmt.Errorf("classifier.PlainText.Extract: %q contains binary content", filename)
	}
	return text, nil
}
