// Package app implements the feature handlers: each one builds a request,
// calls the backend facade, and turns the outcome into a page update or a
// toast. Handlers never let an error escape unreported.
package app

import (
	"context"
	"errors"
	"time"

	"github.com/hyperjump/pdfchat/internal/extract"
	"github.com/hyperjump/pdfchat/internal/models"
	"github.com/hyperjump/pdfchat/internal/toast"
	"github.com/hyperjump/pdfchat/internal/view"
	"go.uber.org/zap"
)

// Returned by handlers that stop before any network call.
var (
	ErrNoFile     = errors.New("no file selected")
	ErrEmptyQuery = errors.New("empty query")
	ErrDeclined   = errors.New("declined by user")
	ErrRejected   = errors.New("rejected by the backend")
)

// Backend is the subset of *backend.Client the handlers use.
type Backend interface {
	UploadPDF(ctx context.Context, file *models.UploadFile) (*models.UploadResult, error)
	ListDocuments(ctx context.Context) (*models.DocumentList, error)
	DeletePDF(ctx context.Context, source string) (*models.StatusResult, error)
	ClearChatHistory(ctx context.Context) (*models.StatusResult, error)
	ClearDB(ctx context.Context) (*models.StatusResult, error)
	AskAI(ctx context.Context, query, llm string) (*models.QueryResult, error)
	AskPDF(ctx context.Context, query, promptType, llm string) (*models.QueryResult, error)
	DocumentURL(source string) string
}

// Notifier shows toasts. *toast.Hub implements it.
type Notifier interface {
	Show(message string, kind toast.Kind) toast.Toast
}

// Prompter asks the user for confirmation and shows blocking alerts.
type Prompter interface {
	Confirm(message string) bool
	Alert(message string)
}

// Opener opens a document URL in a new browsing context.
type Opener interface {
	Open(url string) error
}

// Inspector checks a file before it is uploaded. *extract.Inspector implements it.
type Inspector interface {
	InspectBytes(content []byte, name string) (*extract.PDFInfo, error)
}

// Page groups the regions the handlers write to.
type Page struct {
	Documents     *view.DocumentList
	AIResponse    *view.Region
	PDFResponse   *view.Region
	HistoryStatus *view.StatusLine
}

// NewPage creates empty regions. statusFade is the delay before the chat
// history status fades; latestOnly drops stale query responses.
func NewPage(statusFade time.Duration, latestOnly bool) *Page {
	return &Page{
		Documents:     view.NewDocumentList(),
		AIResponse:    view.NewRegion(view.IDQueryResponseAI, latestOnly),
		PDFResponse:   view.NewRegion(view.IDQueryResponse, latestOnly),
		HistoryStatus: view.NewStatusLine(statusFade),
	}
}

// App wires the handlers to their collaborators.
type App struct {
	backend   Backend
	notifier  Notifier
	prompter  Prompter
	opener    Opener
	inspector Inspector
	page      *Page
	logger    *zap.Logger
}

// Option configures an App.
type Option func(*App)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithOpener sets how documents are opened.
func WithOpener(o Opener) Option {
	return func(a *App) { a.opener = o }
}

// WithInspector enables the upload preflight check.
func WithInspector(i Inspector) Option {
	return func(a *App) { a.inspector = i }
}

// New creates an App.
func New(b Backend, n Notifier, p Prompter, page *Page, opts ...Option) *App {
	a := &App{
		backend:  b,
		notifier: n,
		prompter: p,
		page:     page,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// WithPrompter returns a copy of a that asks p instead. The copy shares the
// page, backend and notifier.
func (a *App) WithPrompter(p Prompter) *App {
	c := *a
	c.prompter = p
	return &c
}

// With returns a copy of a with opts applied on top.
func (a *App) With(opts ...Option) *App {
	c := *a
	for _, opt := range opts {
		opt(&c)
	}
	return &c
}

// Page returns the regions the handlers write to.
func (a *App) Page() *Page {
	return a.page
}

// Guard returns the navigation guard for the page.
func (a *App) Guard() *Guard {
	return NewGuard(a.prompter, a.page.AIResponse, a.page.PDFResponse)
}
