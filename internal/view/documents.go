package view

import (
	"sync"

	"github.com/hyperjump/pdfchat/internal/backend"
)

// DocumentRow is one rendered row of the document list.
type DocumentRow struct {
	Source string `json:"source"`
	// ViewPath is the per-document path the View action opens.
	ViewPath string `json:"view_path"`
}

// RenderedList is the output of rendering the document list. Exactly one of
// Rows and Placeholder is set.
type RenderedList struct {
	Rows        []DocumentRow `json:"rows"`
	Placeholder string        `json:"placeholder,omitempty"`
}

// UniqueSources returns sources with duplicates removed; the first occurrence
// wins and server order is kept.
func UniqueSources(sources []string) []string {
	seen := make(map[string]struct{}, len(sources))
	out := make([]string, 0, len(sources))
	for _, s := range sources {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// RenderDocuments renders an ordered, de-duplicated source list.
func RenderDocuments(sources []string) RenderedList {
	if len(sources) == 0 {
		return RenderedList{Placeholder: NoDocumentsMessage}
	}
	rows := make([]DocumentRow, 0, len(sources))
	for _, s := range sources {
		rows = append(rows, DocumentRow{Source: s, ViewPath: backend.DocumentPath(s)})
	}
	return RenderedList{Rows: rows}
}

// DocumentList is the view model of the pdfList region. It is rebuilt from
// scratch on every refresh.
type DocumentList struct {
	mu       sync.RWMutex
	sources  []string
	rendered bool
}

// NewDocumentList returns an empty, never-rendered list.
func NewDocumentList() *DocumentList {
	return &DocumentList{}
}

// Replace discards the current rows and rebuilds them from sources.
func (l *DocumentList) Replace(sources []string) {
	unique := UniqueSources(sources)
	l.mu.Lock()
	l.sources = unique
	l.rendered = true
	l.mu.Unlock()
}

// Sources returns a copy of the current unique sources.
func (l *DocumentList) Sources() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]string(nil), l.sources...)
}

// Rendered reports whether the list was ever populated.
func (l *DocumentList) Rendered() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.rendered
}

// Render renders the current state.
func (l *DocumentList) Render() RenderedList {
	return RenderDocuments(l.Sources())
}
