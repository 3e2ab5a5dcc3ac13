package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/hyperjump/pdfchat/internal/backend"
	"github.com/hyperjump/pdfchat/internal/models"
	"github.com/hyperjump/pdfchat/internal/toast"
	"go.uber.org/zap"
)

// UploadPDF uploads file and refreshes the document list on success. A nil
// file only shows a notice. The returned error has already been shown to the
// user; it is there for exit codes and tests.
func (a *App) UploadPDF(ctx context.Context, file *models.UploadFile) error {
	if file == nil || file.Content == nil {
		a.notifier.Show(msgSelectFile, toast.KindInfo)
		return ErrNoFile
	}

	if a.inspector != nil {
		content, err := io.ReadAll(file.Content)
		if err != nil {
			a.notifier.Show(msgUploadError+err.Error(), toast.KindError)
			return fmt.Errorf("read %s: %w", file.Name, err)
		}
		name := filepath.Base(file.Name)
		info, err := a.inspector.InspectBytes(content, name)
		if err != nil {
			a.notifier.Show(fmt.Sprintf(msgPreflightRejection, name, err), toast.KindError)
			return fmt.Errorf("preflight: %w", err)
		}
		a.logger.Debug("upload preflight passed",
			zap.String("file", name),
			zap.Int("pages", info.Pages),
			zap.Bool("has_text", info.HasText))
		file = &models.UploadFile{Name: file.Name, Path: file.Path, Content: bytes.NewReader(content)}
	}

	result, err := a.backend.UploadPDF(ctx, file)
	if err != nil {
		if reqErr, ok := backend.AsRequestError(err); ok && backend.IsStatus(err, http.StatusBadRequest) {
			a.notifier.Show(reqErr.Detail, toast.KindError)
		} else {
			a.notifier.Show(msgUploadError+err.Error(), toast.KindError)
		}
		return err
	}

	if !result.Succeeded() {
		msg := result.Error
		if msg == "" {
			msg = msgUploadFailed
		}
		a.notifier.Show(msg, toast.KindError)
		return fmt.Errorf("%w: %s", ErrRejected, msg)
	}

	a.notifier.Show(fmt.Sprintf("Success: %s\nFilename: %s\nLoaded %d documents\nLoaded len=%d chunks",
		result.Status, result.Filename, result.DocLen, result.ChunkLen), toast.KindSuccess)
	a.logger.Info("uploaded document",
		zap.String("filename", result.Filename),
		zap.Int("doc_len", result.DocLen),
		zap.Int("chunk_len", result.ChunkLen))
	_ = a.ListPDFs(ctx)
	return nil
}

// ListPDFs fetches the document list and rebuilds the pdfList region. On
// failure the region keeps its last rendered state.
func (a *App) ListPDFs(ctx context.Context) error {
	list, err := a.backend.ListDocuments(ctx)
	if err != nil {
		a.logger.Error("list documents failed", zap.Error(err))
		a.notifier.Show(msgListError, toast.KindError)
		return err
	}
	a.page.Documents.Replace(list.Sources())
	return nil
}

// OpenDocument opens the view URL of source.
func (a *App) OpenDocument(source string) error {
	if a.opener == nil {
		return fmt.Errorf("no opener configured")
	}
	return a.opener.Open(a.backend.DocumentURL(source))
}

// DeletePDF deletes source after the user confirms, then refreshes the list.
func (a *App) DeletePDF(ctx context.Context, source string) error {
	if !a.prompter.Confirm(fmt.Sprintf(msgConfirmDelete, source)) {
		return ErrDeclined
	}
	result, err := a.backend.DeletePDF(ctx, source)
	if err != nil {
		a.notifier.Show(msgDeleteError+err.Error(), toast.KindError)
		return err
	}
	if result.Status != models.DeleteSuccessStatus {
		msg := result.Error
		if msg == "" {
			msg = msgUnknownError
		}
		a.notifier.Show(msgDeleteFailed+msg, toast.KindError)
		return fmt.Errorf("%w: %s", ErrRejected, msg)
	}
	a.notifier.Show(msgDeleted, toast.KindSuccess)
	_ = a.ListPDFs(ctx)
	return nil
}

// ClearChatHistory clears the backend chat history and reports the outcome
// in the chatHistoryStatus line rather than a toast.
func (a *App) ClearChatHistory(ctx context.Context) error {
	result, err := a.backend.ClearChatHistory(ctx)
	if err != nil {
		a.page.HistoryStatus.ShowSticky(msgHistoryError + err.Error())
		return err
	}
	if result.Status != models.ChatHistoryClearedStatus {
		a.page.HistoryStatus.Show(msgHistoryFailed)
		return fmt.Errorf("%w: %s", ErrRejected, result.Status)
	}
	a.page.HistoryStatus.Show(msgHistoryCleared)
	return nil
}

// ClearDatabase deletes every document after the user confirms. The list is
// refreshed only when the backend reported no error.
func (a *App) ClearDatabase(ctx context.Context) error {
	if !a.prompter.Confirm(msgConfirmClearDB) {
		return ErrDeclined
	}
	result, err := a.backend.ClearDB(ctx)
	if err != nil {
		a.notifier.Show(msgNetworkError+err.Error(), toast.KindError)
		return err
	}
	if result.Error != "" {
		a.notifier.Show(msgDBError+result.Error, toast.KindError)
		return fmt.Errorf("%w: %s", ErrRejected, result.Error)
	}
	a.notifier.Show(msgDBCleared, toast.KindSuccess)
	_ = a.ListPDFs(ctx)
	return nil
}
