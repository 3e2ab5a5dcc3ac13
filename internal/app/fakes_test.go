package app

import (
	"context"
	"sync"

	"github.com/hyperjump/pdfchat/internal/backend"
	"github.com/hyperjump/pdfchat/internal/extract"
	"github.com/hyperjump/pdfchat/internal/models"
	"github.com/hyperjump/pdfchat/internal/toast"
)

type fakeBackend struct {
	mu    sync.Mutex
	calls map[string]int

	upload     *models.UploadResult
	uploadErr  error
	documents  *models.DocumentList
	listErr    error
	status     *models.StatusResult
	statusErr  error
	answer     func(query string) (*models.QueryResult, error)
	lastPrompt string
	lastLLM    string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		calls:     make(map[string]int),
		documents: &models.DocumentList{},
		status:    &models.StatusResult{},
		answer: func(query string) (*models.QueryResult, error) {
			return &models.QueryResult{Answer: "answer to " + query}, nil
		},
	}
}

func (f *fakeBackend) count(name string) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
}

func (f *fakeBackend) Calls(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeBackend) Total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeBackend) UploadPDF(ctx context.Context, file *models.UploadFile) (*models.UploadResult, error) {
	f.count(backend.EndpointUpload)
	return f.upload, f.uploadErr
}

func (f *fakeBackend) ListDocuments(ctx context.Context) (*models.DocumentList, error) {
	f.count(backend.EndpointListDocuments)
	return f.documents, f.listErr
}

func (f *fakeBackend) DeletePDF(ctx context.Context, source string) (*models.StatusResult, error) {
	f.count(backend.EndpointDeletePDF)
	return f.status, f.statusErr
}

func (f *fakeBackend) ClearChatHistory(ctx context.Context) (*models.StatusResult, error) {
	f.count(backend.EndpointClearChatHistory)
	return f.status, f.statusErr
}

func (f *fakeBackend) ClearDB(ctx context.Context) (*models.StatusResult, error) {
	f.count(backend.EndpointClearDB)
	return f.status, f.statusErr
}

func (f *fakeBackend) AskAI(ctx context.Context, query, llm string) (*models.QueryResult, error) {
	f.count(backend.EndpointAskAI)
	f.mu.Lock()
	f.lastLLM = llm
	f.mu.Unlock()
	return f.answer(query)
}

func (f *fakeBackend) AskPDF(ctx context.Context, query, promptType, llm string) (*models.QueryResult, error) {
	f.count(backend.EndpointAskPDF)
	f.mu.Lock()
	f.lastPrompt = promptType
	f.lastLLM = llm
	f.mu.Unlock()
	return f.answer(query)
}

func (f *fakeBackend) DocumentURL(source string) string {
	return "http://backend" + backend.DocumentPath(source)
}

type recordingNotifier struct {
	mu     sync.Mutex
	toasts []toast.Toast
}

func (n *recordingNotifier) Show(message string, kind toast.Kind) toast.Toast {
	n.mu.Lock()
	defer n.mu.Unlock()
	t := toast.Toast{Message: message, Kind: toast.ParseKind(string(kind))}
	n.toasts = append(n.toasts, t)
	return t
}

func (n *recordingNotifier) Last() toast.Toast {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.toasts) == 0 {
		return toast.Toast{}
	}
	return n.toasts[len(n.toasts)-1]
}

func (n *recordingNotifier) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.toasts)
}

type scriptedPrompter struct {
	answer   bool
	confirms []string
	alerts   []string
}

func (p *scriptedPrompter) Confirm(message string) bool {
	p.confirms = append(p.confirms, message)
	return p.answer
}

func (p *scriptedPrompter) Alert(message string) {
	p.alerts = append(p.alerts, message)
}

type recordingOpener struct {
	urls []string
}

func (o *recordingOpener) Open(url string) error {
	o.urls = append(o.urls, url)
	return nil
}

type rejectingInspector struct{ err error }

func (i rejectingInspector) InspectBytes(content []byte, name string) (*extract.PDFInfo, error) {
	if i.err != nil {
		return nil, i.err
	}
	return &extract.PDFInfo{Name: name, Pages: 1, Size: int64(len(content))}, nil
}
