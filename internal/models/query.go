package models

// AskAIRequest is the body of POST /ai.
type AskAIRequest struct {
	Query string `json:"query"`
	LLM   string `json:"llm"`
}

// AskPDFRequest is the body of POST /ask_pdf.
type AskPDFRequest struct {
	Query      string `json:"query"`
	PromptType string `json:"promptType"`
	LLM        string `json:"llm"`
}

// QueryResult is the response of /ai and /ask_pdf: an answer or an error.
type QueryResult struct {
	Answer string `json:"answer,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Text returns the answer, or the backend error when there is no answer.
func (r *QueryResult) Text() string {
	if r == nil {
		return ""
	}
	if r.Answer != "" {
		return r.Answer
	}
	return r.Error
}
