package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hyperjump/pdfchat/internal/app"
	"github.com/hyperjump/pdfchat/internal/backend"
	"github.com/hyperjump/pdfchat/internal/config"
	"github.com/hyperjump/pdfchat/internal/extract"
	"github.com/hyperjump/pdfchat/internal/models"
	"github.com/hyperjump/pdfchat/internal/server"
	"github.com/hyperjump/pdfchat/internal/toast"
	"github.com/hyperjump/pdfchat/internal/view"
	"github.com/hyperjump/pdfchat/internal/watcher"
	"github.com/stretchr/testify/require"
)

type stack struct {
	backend *FakeBackend
	app     *app.App
	toasts  *toast.Hub
	front   *httptest.Server
}

func newStack(t *testing.T) *stack {
	t.Helper()
	fb := NewFakeBackend()
	t.Cleanup(fb.Close)

	cfg := &config.Config{Backend: config.BackendConfig{BaseURL: fb.URL()}}
	config.ApplyDefaults(cfg)
	hub := toast.NewHub(toast.WithDurations(time.Minute, time.Minute))
	client := backend.NewClient(cfg.Backend.BaseURL, backend.WithTimeout(10*time.Second))
	a := app.New(client, hub, nil, app.NewPage(cfg.UI.StatusFadeDelay, false),
		app.WithInspector(extract.NewInspector(0)))

	srv, err := server.NewServer(a, hub, cfg, nil)
	require.NoError(t, err)
	front := httptest.NewServer(srv.Handler())
	t.Cleanup(front.Close)
	return &stack{backend: fb, app: a, toasts: hub, front: front}
}

type action struct {
	OK       bool   `json:"ok"`
	Declined bool   `json:"declined"`
	Alert    string `json:"alert"`
}

type state struct {
	Documents view.RenderedList           `json:"documents"`
	Regions   map[string]view.RegionState `json:"regions"`
	Status    struct {
		Text string `json:"text"`
	} `json:"status"`
	Toasts []toast.Toast `json:"toasts"`
}

func (s *stack) post(t *testing.T, path string, form url.Values) action {
	t.Helper()
	resp, err := http.PostForm(s.front.URL+path, form)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var a action
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&a))
	return a
}

func (s *stack) upload(t *testing.T, name string, content []byte) action {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(view.IDPDFFile, name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	resp, err := http.Post(s.front.URL+"/upload", mw.FormDataContentType(), &body)
	require.NoError(t, err)
	defer resp.Body.Close()
	var a action
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&a))
	return a
}

func (s *stack) state(t *testing.T) state {
	t.Helper()
	resp, err := http.Get(s.front.URL + "/api/state")
	require.NoError(t, err)
	defer resp.Body.Close()
	var st state
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&st))
	return st
}

func sources(st state) []string {
	out := make([]string, 0, len(st.Documents.Rows))
	for _, r := range st.Documents.Rows {
		out = append(out, r.Source)
	}
	return out
}

func lastToast(st state) toast.Toast {
	if len(st.Toasts) == 0 {
		return toast.Toast{}
	}
	return st.Toasts[len(st.Toasts)-1]
}

func TestE2E_BrowserSession(t *testing.T) {
	s := newStack(t)

	// page load
	require.True(t, s.post(t, "/documents/refresh", nil).OK)
	require.Equal(t, view.NoDocumentsMessage, s.state(t).Documents.Placeholder)

	// PDF question with nothing uploaded shows the backend error inline
	s.post(t, "/ask/pdf", url.Values{view.IDQueryPDF: {"what is inside?"}, view.IDPromptType: {"qa"}})
	require.Equal(t, "No documents uploaded", s.state(t).Regions[view.IDQueryResponse].Text)

	// large enough for several chunks, so the backend repeats the source
	big := MinimalPDF(strings.Repeat("annual report ", 60))
	require.True(t, s.upload(t, "report.pdf", big).OK)
	require.True(t, s.upload(t, "notes.pdf", MinimalPDF("notes")).OK)
	st := s.state(t)
	require.Equal(t, []string{"report.pdf", "notes.pdf"}, sources(st))
	require.Contains(t, lastToast(st).Message, "Success: Successfully Uploaded\nFilename: notes.pdf")
	require.Equal(t, toast.KindSuccess, lastToast(st).Kind)

	// this stack opts into preflight, which rejects garbage locally
	uploads := s.backend.Calls("/pdf")
	require.False(t, s.upload(t, "fake.pdf", []byte("not a pdf")).OK)
	require.Equal(t, uploads, s.backend.Calls("/pdf"))
	require.Equal(t, toast.KindError, lastToast(s.state(t)).Kind)

	s.post(t, "/ask/pdf", url.Values{
		view.IDQueryPDF:   {"summarize"},
		view.IDPromptType: {"summary"},
		view.IDLLMSelect:  {"mistral"},
	})
	require.Equal(t, "[mistral/summary] summarize (from notes.pdf, report.pdf)",
		s.state(t).Regions[view.IDQueryResponse].Text)

	s.post(t, "/ask/copy", url.Values{view.IDQueryPDF: {"summarize"}})
	require.Equal(t, "[llama3] summarize", s.state(t).Regions[view.IDQueryResponseAI].Text)

	require.Equal(t, "Please enter a query.", s.post(t, "/ask/ai", url.Values{view.IDQuery: {""}}).Alert)

	// declined delete never reaches the backend
	require.True(t, s.post(t, "/documents/delete", url.Values{"source": {"notes.pdf"}}).Declined)
	require.Equal(t, 0, s.backend.Calls("/delete_pdf"))
	require.True(t, s.post(t, "/documents/delete", url.Values{"source": {"notes.pdf"}, "confirmed": {"1"}}).OK)
	require.Equal(t, []string{"report.pdf"}, sources(s.state(t)))

	// deleting something already gone reports the backend error
	require.False(t, s.post(t, "/documents/delete", url.Values{"source": {"notes.pdf"}, "confirmed": {"1"}}).OK)
	require.Equal(t, "Failed to delete PDF: File not found", lastToast(s.state(t)).Message)

	require.Len(t, s.backend.History(), 3)
	require.True(t, s.post(t, "/history/clear", nil).OK)
	require.Equal(t, "Chat history cleared successfully.", s.state(t).Status.Text)
	require.Empty(t, s.backend.History())

	require.True(t, s.post(t, "/db/clear", url.Values{"confirmed": {"1"}}).OK)
	st = s.state(t)
	require.Equal(t, view.NoDocumentsMessage, st.Documents.Placeholder)
	require.Equal(t, "Database and files cleared successfully", lastToast(st).Message)
}

func TestE2E_ViewRedirectsToBackendDocument(t *testing.T) {
	s := newStack(t)
	content := MinimalPDF("view me")
	require.True(t, s.upload(t, "my report.pdf", content).OK)

	resp, err := http.Get(s.front.URL + backend.DocumentPath("my report.pdf"))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	got, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, content, got)
}

func TestE2E_DropFolderUploads(t *testing.T) {
	s := newStack(t)
	dir := t.TempDir()

	upload := func(ctx context.Context, path string) {
		f, err := os.Open(path)
		if err != nil {
			return
		}
		defer f.Close()
		_ = s.app.UploadPDF(ctx, &models.UploadFile{Name: path, Path: path, Content: f})
	}
	w := watcher.New([]string{dir}, nil, true, upload, watcher.WithDebounce(50*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "dropped.pdf"), MinimalPDF("dropped"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("text"), 0600))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "nested.PDF"), MinimalPDF("nested"), 0600))

	require.Eventually(t, func() bool {
		return len(s.app.Page().Documents.Sources()) == 2
	}, 5*time.Second, 50*time.Millisecond)
	require.ElementsMatch(t, []string{"dropped.pdf", "nested.PDF"}, s.app.Page().Documents.Sources())
}
