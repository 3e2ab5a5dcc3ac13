// Package cli provides terminal rendering and prompting for the pdfchat commands.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/hyperjump/pdfchat/internal/view"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat accepts "text" and "json".
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case OutputText, OutputJSON:
		return OutputFormat(s), nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text or json", s)
	}
}

// WriteDocuments writes the rendered document list to w. baseURL is prefixed
// to each row's view path in text output.
func WriteDocuments(w io.Writer, list view.RenderedList, baseURL string, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, list)
	}
	if list.Placeholder != "" {
		_, err := fmt.Fprintln(w, list.Placeholder)
		return err
	}
	for _, row := range list.Rows {
		if _, err := fmt.Fprintf(w, "%s\t%s%s\n", row.Source, baseURL, row.ViewPath); err != nil {
			return err
		}
	}
	return nil
}

// WriteRegion writes the final state of a response region.
func WriteRegion(w io.Writer, id string, st view.RegionState, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, struct {
			Region string `json:"region"`
			view.RegionState
		}{id, st})
	}
	_, err := fmt.Fprintln(w, st.Text)
	return err
}

// WriteStatus writes the chat history status line.
func WriteStatus(w io.Writer, st view.StatusState, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, st)
	}
	_, err := fmt.Fprintln(w, st.Text)
	return err
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
