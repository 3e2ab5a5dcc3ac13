// Package models defines the request and response shapes exchanged with the
// document-question-answering backend.
package models

import (
	"encoding/json"
	"io"
)

// UploadSuccessStatus is the status the backend reports for an accepted upload.
const UploadSuccessStatus = "Successfully Uploaded"

// DeleteSuccessStatus is the status the backend reports for a deleted document.
const DeleteSuccessStatus = "success"

// ChatHistoryClearedStatus is the status the backend reports after clearing chat history.
const ChatHistoryClearedStatus = "Chat history cleared successfully"

// UploadFile is a file selected for upload. A nil *UploadFile means nothing was selected.
type UploadFile struct {
	Name    string
	Content io.Reader
	// Path is set when the file comes from the local filesystem (CLI, watcher).
	Path string
}

// UploadResult is the response of POST /pdf.
type UploadResult struct {
	Status   string `json:"status,omitempty"`
	Filename string `json:"filename,omitempty"`
	DocLen   int    `json:"doc_len,omitempty"`
	ChunkLen int    `json:"chunk_len,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Succeeded reports whether the backend accepted the upload.
func (r *UploadResult) Succeeded() bool {
	return r != nil && r.Status == UploadSuccessStatus
}

// DocumentDescriptor is one entry of GET /list_documents. The backend returns
// one entry per indexed chunk, so the same Source may appear many times.
type DocumentDescriptor struct {
	Source string `json:"source"`
	// Extra holds any other fields the backend sent; they are not interpreted.
	Extra map[string]json.RawMessage `json:"-"`
}

// UnmarshalJSON keeps unknown fields in Extra.
func (d *DocumentDescriptor) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if src, ok := raw["source"]; ok {
		if err := json.Unmarshal(src, &d.Source); err != nil {
			return err
		}
		delete(raw, "source")
	}
	if len(raw) > 0 {
		d.Extra = raw
	}
	return nil
}

// DocumentList is the response of GET /list_documents.
type DocumentList struct {
	Documents []DocumentDescriptor `json:"documents"`
}

// Sources returns the source of every descriptor in server order, duplicates included.
func (l *DocumentList) Sources() []string {
	if l == nil {
		return nil
	}
	out := make([]string, 0, len(l.Documents))
	for _, d := range l.Documents {
		out = append(out, d.Source)
	}
	return out
}

// StatusResult is the generic {status} or {error} response used by clear and delete.
type StatusResult struct {
	Status string `json:"status,omitempty"`
	Error  string `json:"error,omitempty"`
}

// DeleteRequest is the body of POST /delete_pdf.
type DeleteRequest struct {
	FileName string `json:"file_name"`
}
