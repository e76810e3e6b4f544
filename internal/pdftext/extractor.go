// Package pdftext turns a PDF file into a single concatenated text stream.
package pdftext

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// Extractor extracts plain text from PDF files using MuPDF.
type Extractor struct{}

// New creates a new PDF text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Text extracts the text of every page in order, pages joined by a newline.
func (e *Extractor) Text(path string) (string, error) {
	if err := validatePath(path); err != nil {
		return "", err
	}

	doc, err := fitz.New(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer doc.Close()

	pageCount := doc.NumPage()
	if pageCount == 0 {
		return "", fmt.Errorf("pdf has no pages: %s", path)
	}

	var b strings.Builder
	for pageNum := 0; pageNum < pageCount; pageNum++ {
		text, err := doc.Text(pageNum)
		if err != nil {
			return "", fmt.Errorf("extract text from page %d: %w", pageNum+1, err)
		}
		b.WriteString(text)
		b.WriteString("\n")
	}

	return b.String(), nil
}

func validatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("file path cannot be empty")
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", path)
	}

	if ext := strings.ToLower(filepath.Ext(path)); ext != ".pdf" {
		return fmt.Errorf("file is not a PDF (has extension %q): %s", ext, path)
	}

	return nil
}
