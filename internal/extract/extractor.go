// Package extract inspects local files before they are uploaded, so obvious
// non-PDFs are rejected without a round trip to the backend.
package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotPDF is returned for files that do not have a .pdf extension.
var ErrNotPDF = errors.New("not a PDF file")

// ErrTooLarge is returned for files over the configured size limit.
var ErrTooLarge = errors.New("file too large")

// PDFInfo describes an inspected PDF.
type PDFInfo struct {
	Name  string `json:"name"`
	Size  int64  `json:"size"`
	Pages int    `json:"pages"`
	// HasText is false when no page yields any plain text (e.g. scanned images).
	HasText bool `json:"has_text"`
}

// Inspector checks files before upload.
type Inspector struct {
	maxBytes int64
}

// NewInspector returns an Inspector. maxBytes <= 0 disables the size limit.
func NewInspector(maxBytes int64) *Inspector {
	return &Inspector{maxBytes: maxBytes}
}

// Inspect reads the file at path and inspects it.
func (i *Inspector) Inspect(path string) (*PDFInfo, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return i.InspectBytes(content, filepath.Base(path))
}

// InspectBytes inspects content that was read from a file called name.
func (i *Inspector) InspectBytes(content []byte, name string) (*PDFInfo, error) {
	if strings.ToLower(filepath.Ext(name)) != ".pdf" {
		return nil, fmt.Errorf("%s: %w", name, ErrNotPDF)
	}
	if i.maxBytes > 0 && int64(len(content)) > i.maxBytes {
		return nil, fmt.Errorf("%s is %d bytes, limit %d: %w", name, len(content), i.maxBytes, ErrTooLarge)
	}
	info, err := inspectPDF(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	info.Name = name
	return info, nil
}
