package server

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/hyperjump/pdfchat/internal/app"
	"github.com/hyperjump/pdfchat/internal/view"
	"go.uber.org/zap"
)

//go:embed web/index.html
var webFS embed.FS

// pageIDs exposes the region ids to the template.
type pageIDs struct {
	PDFFile, ChatHistoryStatus, PDFList, QueryPDF, Query, LLMSelect      string
	AskAIButton, AskPDFButton, PromptType, QueryResponseAI, QueryResponse string
}

var ids = pageIDs{
	PDFFile:           view.IDPDFFile,
	ChatHistoryStatus: view.IDChatHistoryStatus,
	PDFList:           view.IDPDFList,
	QueryPDF:          view.IDQueryPDF,
	Query:             view.IDQuery,
	LLMSelect:         view.IDLLMSelect,
	AskAIButton:       view.IDAskAIButton,
	AskPDFButton:      view.IDAskPDFButton,
	PromptType:        view.IDPromptType,
	QueryResponseAI:   view.IDQueryResponseAI,
	QueryResponse:     view.IDQueryResponse,
}

type pageData struct {
	IDs            pageIDs
	LLMs           []string
	DefaultLLM     string
	PromptTypes    []string
	State          pageState
	LoadingMessage string
	FadeOutClass   string
	ConfirmLeave   string
	ConfirmDelete  string
	ConfirmClearDB string
	ToastHoldMS    int64
	ToastFadeMS    int64
}

func parsePage() (*template.Template, error) {
	return template.ParseFS(webFS, "web/index.html")
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := pageData{
		IDs:            ids,
		LLMs:           s.config.UI.LLMs,
		DefaultLLM:     s.config.UI.DefaultLLM,
		PromptTypes:    s.config.UI.PromptTypes,
		State:          s.snapshot(),
		LoadingMessage: view.LoadingMessage,
		FadeOutClass:   view.FadeOutClass,
		ConfirmLeave:   app.ConfirmNavigation,
		ConfirmDelete:  app.ConfirmDeleteFormat,
		ConfirmClearDB: app.ConfirmClearDB,
		ToastHoldMS:    s.config.UI.ToastHold.Milliseconds(),
		ToastFadeMS:    s.config.UI.ToastFade.Milliseconds(),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, data); err != nil {
		s.logger.Error("render page", zap.Error(err))
	}
}

