// Package e2e runs pdfchat against an in-memory backend that behaves like the
// document question-answering service.
package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// MinimalPDF returns a one-page PDF whose page shows text.
func MinimalPDF(text string) []byte {
	content := fmt.Sprintf("BT /F1 24 Tf 72 700 Td (%s) Tj ET", pdfEscape(text))
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
	}
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func pdfEscape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}

// storedPDF is one uploaded file.
type storedPDF struct {
	content []byte
	chunks  int
}

// FakeBackend is an in-memory backend. Like the real service it lists one
// descriptor per stored chunk, so sources repeat.
type FakeBackend struct {
	mu      sync.Mutex
	docs    map[string]storedPDF
	order   []string
	history []string
	calls   map[string]int

	server *httptest.Server
}

// NewFakeBackend starts the backend; Close stops it.
func NewFakeBackend() *FakeBackend {
	b := &FakeBackend{docs: make(map[string]storedPDF), calls: make(map[string]int)}
	mux := http.NewServeMux()
	mux.HandleFunc("/pdf", b.handleUpload)
	mux.HandleFunc("/list_documents", b.handleList)
	mux.HandleFunc("/delete_pdf", b.handleDelete)
	mux.HandleFunc("/clear_chat_history", b.handleClearHistory)
	mux.HandleFunc("/clear_db", b.handleClearDB)
	mux.HandleFunc("/ai", b.handleAsk)
	mux.HandleFunc("/ask_pdf", b.handleAsk)
	mux.HandleFunc("/pdfs/", b.handleView)
	b.server = httptest.NewServer(b.count(mux))
	return b
}

// URL is the base URL of the backend.
func (b *FakeBackend) URL() string { return b.server.URL }

// Close stops the backend.
func (b *FakeBackend) Close() { b.server.Close() }

// Calls returns how often path was requested.
func (b *FakeBackend) Calls(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[path]
}

// History returns the questions the backend has seen since the last clear.
func (b *FakeBackend) History() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.history...)
}

func (b *FakeBackend) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if strings.HasPrefix(path, "/pdfs/") {
			path = "/pdfs/"
		}
		b.mu.Lock()
		b.calls[path]++
		b.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (b *FakeBackend) handleUpload(w http.ResponseWriter, r *http.Request) {
	f, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No file part"})
		return
	}
	defer f.Close()
	if strings.ToLower(filepath.Ext(header.Filename)) != ".pdf" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid file type, only PDF allowed"})
		return
	}
	content, err := io.ReadAll(f)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	chunks := len(content)/256 + 1
	b.mu.Lock()
	if _, ok := b.docs[header.Filename]; !ok {
		b.order = append(b.order, header.Filename)
	}
	b.docs[header.Filename] = storedPDF{content: content, chunks: chunks}
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "Successfully Uploaded",
		"filename":  header.Filename,
		"doc_len":   1,
		"chunk_len": chunks,
	})
}

func (b *FakeBackend) handleList(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	docs := make([]map[string]interface{}, 0)
	for _, name := range b.order {
		for i := 0; i < b.docs[name].chunks; i++ {
			docs = append(docs, map[string]interface{}{"source": name, "page": 0, "chunk": i})
		}
	}
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]interface{}{"documents": docs})
}

func (b *FakeBackend) handleDelete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FileName string `json:"file_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.docs[req.FileName]; !ok {
		writeJSON(w, http.StatusOK, map[string]string{"status": "error", "error": "File not found"})
		return
	}
	delete(b.docs, req.FileName)
	for i, name := range b.order {
		if name == req.FileName {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (b *FakeBackend) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.history = nil
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"status": "Chat history cleared successfully"})
}

func (b *FakeBackend) handleClearDB(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.docs = make(map[string]storedPDF)
	b.order = nil
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"status": "Database cleared"})
}

func (b *FakeBackend) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query      string `json:"query"`
		PromptType string `json:"promptType"`
		LLM        string `json:"llm"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON"})
		return
	}
	b.mu.Lock()
	b.history = append(b.history, req.Query)
	sources := append([]string(nil), b.order...)
	b.mu.Unlock()

	if r.URL.Path == "/ai" {
		writeJSON(w, http.StatusOK, map[string]string{"answer": fmt.Sprintf("[%s] %s", req.LLM, req.Query)})
		return
	}
	if len(sources) == 0 {
		writeJSON(w, http.StatusOK, map[string]string{"error": "No documents uploaded"})
		return
	}
	sort.Strings(sources)
	writeJSON(w, http.StatusOK, map[string]string{
		"answer": fmt.Sprintf("[%s/%s] %s (from %s)", req.LLM, req.PromptType, req.Query, strings.Join(sources, ", ")),
	})
}

func (b *FakeBackend) handleView(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/pdfs/")
	b.mu.Lock()
	doc, ok := b.docs[name]
	b.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	_, _ = w.Write(doc.content)
}
