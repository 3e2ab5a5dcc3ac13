// Package view holds the page regions the feature handlers write to. Each
// region is an explicit, mutex-guarded view model with a pure render step, so
// the web page and the terminal can both display it.
package view

// Element ids of the page regions and inputs.
const (
	IDPDFFile           = "pdfFile"
	IDChatHistoryStatus = "chatHistoryStatus"
	IDPDFList           = "pdfList"
	IDQueryPDF          = "queryPDF"
	IDQuery             = "query"
	IDLLMSelect         = "llmSelect"
	IDAskAIButton       = "askAIButton"
	IDAskPDFButton      = "askPDFButton"
	IDPromptType        = "promptType"
	IDQueryResponseAI   = "queryResponseAI"
	IDQueryResponse     = "queryResponse"
)

// LoadingMessage is shown next to the spinner while a query is in flight.
const LoadingMessage = "Fetching response, please wait..."

// NoDocumentsMessage is the placeholder row of an empty document list.
const NoDocumentsMessage = "No documents found."

// FadeOutClass is the CSS class that fades the chat history status line.
const FadeOutClass = "fade-out"
