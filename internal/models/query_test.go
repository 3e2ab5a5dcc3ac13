package models

import (
	"encoding/json"
	"testing"
)

func TestQueryResult_Text(t *testing.T) {
	tests := []struct {
		name   string
		result *QueryResult
		want   string
	}{
		{"answer wins", &QueryResult{Answer: "42", Error: "ignored"}, "42"},
		{"error when no answer", &QueryResult{Error: "model offline"}, "model offline"},
		{"empty", &QueryResult{}, ""},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.result.Text(); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAskPDFRequest_FieldNames(t *testing.T) {
	body, err := json.Marshal(AskPDFRequest{Query: "q", PromptType: "summary", LLM: "llama3"})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"query":"q","promptType":"summary","llm":"llama3"}`
	if string(body) != want {
		t.Errorf("body = %s, want %s", body, want)
	}
}

func TestDocumentList_SourcesKeepsExtraFields(t *testing.T) {
	data := `{"documents":[{"source":"a.pdf","page":1},{"source":"b.pdf"},{"source":"a.pdf","page":2}]}`
	var list DocumentList
	if err := json.Unmarshal([]byte(data), &list); err != nil {
		t.Fatal(err)
	}
	got := list.Sources()
	if len(got) != 3 || got[0] != "a.pdf" || got[1] != "b.pdf" || got[2] != "a.pdf" {
		t.Errorf("Sources() = %v", got)
	}
	if _, ok := list.Documents[0].Extra["page"]; !ok {
		t.Errorf("expected extra field page to be kept, got %v", list.Documents[0].Extra)
	}
	if list.Documents[1].Extra != nil {
		t.Errorf("expected no extra fields, got %v", list.Documents[1].Extra)
	}
}

func TestUploadResult_Succeeded(t *testing.T) {
	if !(&UploadResult{Status: UploadSuccessStatus}).Succeeded() {
		t.Error("expected success for literal status")
	}
	if (&UploadResult{Status: "uploaded"}).Succeeded() {
		t.Error("only the literal status counts as success")
	}
	var nilResult *UploadResult
	if nilResult.Succeeded() {
		t.Error("nil result is not a success")
	}
}
