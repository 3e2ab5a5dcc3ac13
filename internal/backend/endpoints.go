package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"

	"github.com/hyperjump/pdfchat/internal/models"
)

// Backend endpoints.
const (
	EndpointUpload           = "/pdf"
	EndpointClearChatHistory = "/clear_chat_history"
	EndpointListDocuments    = "/list_documents"
	EndpointDeletePDF        = "/delete_pdf"
	EndpointClearDB          = "/clear_db"
	EndpointAskAI            = "/ai"
	EndpointAskPDF           = "/ask_pdf"
	EndpointDocumentPrefix   = "/pdfs/"
)

// UploadFormField is the multipart field the backend reads the PDF from.
const UploadFormField = "file"

// UploadPDF posts file as multipart field "file" to /pdf.
func (c *Client) UploadPDF(ctx context.Context, file *models.UploadFile) (*models.UploadResult, error) {
	if file == nil || file.Content == nil {
		return nil, fmt.Errorf("upload: no file")
	}
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(UploadFormField, filepath.Base(file.Name))
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file.Content); err != nil {
		return nil, fmt.Errorf("copy %s: %w", file.Name, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart body: %w", err)
	}

	header := make(http.Header)
	header.Set("Content-Type", mw.FormDataContentType())
	var result models.UploadResult
	if err := c.Request(ctx, EndpointUpload, RequestOptions{Method: http.MethodPost, Header: header, Body: &body}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListDocuments fetches one descriptor per indexed chunk.
func (c *Client) ListDocuments(ctx context.Context) (*models.DocumentList, error) {
	var list models.DocumentList
	if err := c.Request(ctx, EndpointListDocuments, RequestOptions{}, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// DeletePDF asks the backend to delete the document identified by source.
func (c *Client) DeletePDF(ctx context.Context, source string) (*models.StatusResult, error) {
	return c.postStatus(ctx, EndpointDeletePDF, models.DeleteRequest{FileName: source})
}

// ClearChatHistory empties the backend chat history store.
func (c *Client) ClearChatHistory(ctx context.Context) (*models.StatusResult, error) {
	return c.postStatus(ctx, EndpointClearChatHistory, nil)
}

// ClearDB deletes every document and clears the backend database.
func (c *Client) ClearDB(ctx context.Context) (*models.StatusResult, error) {
	return c.postStatus(ctx, EndpointClearDB, nil)
}

// AskAI sends a free-text query to the general endpoint.
func (c *Client) AskAI(ctx context.Context, query, llm string) (*models.QueryResult, error) {
	return c.postQuery(ctx, EndpointAskAI, models.AskAIRequest{Query: query, LLM: llm})
}

// AskPDF sends a query against the uploaded documents.
func (c *Client) AskPDF(ctx context.Context, query, promptType, llm string) (*models.QueryResult, error) {
	return c.postQuery(ctx, EndpointAskPDF, models.AskPDFRequest{Query: query, PromptType: promptType, LLM: llm})
}

// DocumentURL returns the backend URL a document is viewed at.
func (c *Client) DocumentURL(source string) string {
	return c.baseURL + DocumentPath(source)
}

// DocumentPath returns the path a document is viewed at, relative to the backend root.
func DocumentPath(source string) string {
	return EndpointDocumentPrefix + url.PathEscape(source)
}

func (c *Client) postStatus(ctx context.Context, endpoint string, payload interface{}) (*models.StatusResult, error) {
	opts, err := jsonPost(payload)
	if err != nil {
		return nil, err
	}
	var result models.StatusResult
	if err := c.Request(ctx, endpoint, opts, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) postQuery(ctx context.Context, endpoint string, payload interface{}) (*models.QueryResult, error) {
	opts, err := jsonPost(payload)
	if err != nil {
		return nil, err
	}
	var result models.QueryResult
	if err := c.Request(ctx, endpoint, opts, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// jsonPost builds a POST with a JSON content type. A nil payload sends no body.
func jsonPost(payload interface{}) (RequestOptions, error) {
	opts := RequestOptions{Method: http.MethodPost, Header: jsonHeader()}
	if payload == nil {
		return opts, nil
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return opts, fmt.Errorf("marshal request: %w", err)
	}
	opts.Body = bytes.NewReader(body)
	return opts, nil
}
