package app

import (
	"context"

	"github.com/hyperjump/pdfchat/internal/models"
	"github.com/hyperjump/pdfchat/internal/view"
)

// AskAI sends query to the general endpoint and writes the outcome to the
// queryResponseAI region. Concurrent calls are not coalesced.
func (a *App) AskAI(ctx context.Context, query, llm string) error {
	return a.ask(ctx, a.page.AIResponse, query, msgQueryError, func() (*models.QueryResult, error) {
		return a.backend.AskAI(ctx, query, llm)
	})
}

// AskPDF sends query with the selected prompt type to the PDF endpoint and
// writes the outcome to the queryResponse region.
func (a *App) AskPDF(ctx context.Context, query, promptType, llm string) error {
	return a.ask(ctx, a.page.PDFResponse, query, msgPDFQueryError, func() (*models.QueryResult, error) {
		return a.backend.AskPDF(ctx, query, promptType, llm)
	})
}

// CopyQueryToAI reuses the PDF query text as a general query.
func (a *App) CopyQueryToAI(ctx context.Context, pdfQuery, llm string) error {
	return a.AskAI(ctx, pdfQuery, llm)
}

func (a *App) ask(ctx context.Context, region *view.Region, query, errPrefix string, call func() (*models.QueryResult, error)) error {
	if query == "" {
		a.prompter.Alert(msgEnterQuery)
		return ErrEmptyQuery
	}
	token := region.Begin()
	result, err := call()
	if err != nil {
		region.Finish(token, errPrefix+err.Error())
		return err
	}
	text := result.Text()
	if text == "" {
		text = msgNoAnswer
	}
	region.Finish(token, text)
	return nil
}
