package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/hyperjump/pdfchat/internal/app"
	"github.com/hyperjump/pdfchat/internal/models"
	"github.com/hyperjump/pdfchat/internal/toast"
	"github.com/hyperjump/pdfchat/internal/view"
	"go.uber.org/zap"
)

// actionResult is the reply to every form post. The outcome itself is
// already on the page (toast, region or status line); the reply only tells
// the page what to do next.
type actionResult struct {
	OK       bool   `json:"ok"`
	Declined bool   `json:"declined,omitempty"`
	Alert    string `json:"alert,omitempty"`
	Error    string `json:"error,omitempty"`
}

// pageState is a snapshot of every region of the page.
type pageState struct {
	Documents view.RenderedList           `json:"documents"`
	Regions   map[string]view.RegionState `json:"regions"`
	Status    statusView                  `json:"status"`
	Toasts    []toast.Toast               `json:"toasts"`
	Loading   bool                        `json:"loading"`
}

type statusView struct {
	Text  string `json:"text"`
	Class string `json:"class"`
}

func (s *Server) snapshot() pageState {
	page := s.app.Page()
	st := page.HistoryStatus.State()
	var toasts []toast.Toast
	if s.toasts != nil {
		toasts = s.toasts.Active()
	}
	return pageState{
		Documents: page.Documents.Render(),
		Regions: map[string]view.RegionState{
			page.AIResponse.ID():  page.AIResponse.State(),
			page.PDFResponse.ID(): page.PDFResponse.State(),
		},
		Status:  statusView{Text: st.Text, Class: st.Class()},
		Toasts:  toasts,
		Loading: s.app.Guard().Busy(),
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.snapshot())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	source := chi.URLParam(r, "source")
	if r.URL.RawPath != "" {
		// chi routed on the escaped path
		if unescaped, err := url.PathUnescape(source); err == nil {
			source = unescaped
		}
	}
	opener := &redirectOpener{}
	if err := s.app.With(app.WithOpener(opener)).OpenDocument(source); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	http.Redirect(w, r, opener.url, http.StatusFound)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	var file *models.UploadFile
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		s.respondError(w, http.StatusBadRequest, "invalid upload form")
		return
	}
	f, header, err := r.FormFile(view.IDPDFFile)
	if err == nil {
		defer f.Close()
		file = &models.UploadFile{Name: header.Filename, Content: f}
	} else if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
		s.logger.Warn("read upload form file", zap.Error(err))
	}
	s.respond(w, s.app.UploadPDF(r.Context(), file), nil)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	s.respond(w, s.app.ListPDFs(r.Context()), nil)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	source := r.PostFormValue("source")
	if source == "" {
		s.respondError(w, http.StatusBadRequest, "source is required")
		return
	}
	p := confirmation(r)
	s.respond(w, s.app.WithPrompter(p).DeletePDF(r.Context(), source), p)
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	s.respond(w, s.app.ClearChatHistory(r.Context()), nil)
}

func (s *Server) handleClearDB(w http.ResponseWriter, r *http.Request) {
	p := confirmation(r)
	s.respond(w, s.app.WithPrompter(p).ClearDatabase(r.Context()), p)
}

func (s *Server) handleAskAI(w http.ResponseWriter, r *http.Request) {
	p := &formPrompter{}
	err := s.app.WithPrompter(p).AskAI(r.Context(), r.PostFormValue(view.IDQuery), s.llm(r))
	s.respond(w, err, p)
}

func (s *Server) handleAskPDF(w http.ResponseWriter, r *http.Request) {
	p := &formPrompter{}
	err := s.app.WithPrompter(p).AskPDF(r.Context(),
		r.PostFormValue(view.IDQueryPDF),
		r.PostFormValue(view.IDPromptType),
		s.llm(r))
	s.respond(w, err, p)
}

func (s *Server) handleCopyAsk(w http.ResponseWriter, r *http.Request) {
	p := &formPrompter{}
	err := s.app.WithPrompter(p).CopyQueryToAI(r.Context(), r.PostFormValue(view.IDQueryPDF), s.llm(r))
	s.respond(w, err, p)
}

// llm returns the selected model, falling back to the configured default.
func (s *Server) llm(r *http.Request) string {
	if v := r.PostFormValue(view.IDLLMSelect); v != "" {
		return v
	}
	return s.config.UI.DefaultLLM
}

// confirmation reads the answer the browser collected with confirm().
func confirmation(r *http.Request) *formPrompter {
	return &formPrompter{confirmed: r.PostFormValue("confirmed") == "1"}
}

// respond reports a handler outcome. Handlers show their own failures, so
// the status stays 200 and the error is only echoed for the page script.
func (s *Server) respond(w http.ResponseWriter, err error, p *formPrompter) {
	res := actionResult{OK: err == nil}
	if p != nil {
		res.Alert = p.firstAlert()
	}
	switch {
	case err == nil:
	case errors.Is(err, app.ErrDeclined):
		res.Declined = true
	default:
		res.Error = err.Error()
	}
	s.respondJSON(w, http.StatusOK, res)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
