package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hyperjump/pdfchat/internal/backend"
	"github.com/hyperjump/pdfchat/internal/models"
	"github.com/hyperjump/pdfchat/internal/view"
	"github.com/stretchr/testify/require"
)

func TestAskAI_EmptyQueryAlertsWithoutCall(t *testing.T) {
	b := newFakeBackend()
	a, _, p := newTestApp(b, true)
	before := a.Page().AIResponse.State()
	require.ErrorIs(t, a.AskAI(context.Background(), "", "llama3"), ErrEmptyQuery)
	require.Zero(t, b.Total())
	require.Equal(t, []string{msgEnterQuery}, p.alerts)
	require.Equal(t, before, a.Page().AIResponse.State())
}

func TestAskAI_ShowsLoadingThenAnswer(t *testing.T) {
	b := newFakeBackend()
	a, _, _ := newTestApp(b, true)
	var states []view.RegionState
	a.Page().AIResponse.Observe(func(st view.RegionState) { states = append(states, st) })

	require.NoError(t, a.AskAI(context.Background(), "hello", "llama3"))
	require.Len(t, states, 2)
	require.True(t, states[0].Loading)
	require.Equal(t, view.LoadingMessage, states[0].Text)
	require.Equal(t, view.RegionState{Text: "answer to hello"}, states[1])
	require.Equal(t, "llama3", b.lastLLM)
}

func TestAskAI_BackendErrorAndFailure(t *testing.T) {
	b := newFakeBackend()
	a, _, _ := newTestApp(b, true)

	b.answer = func(string) (*models.QueryResult, error) { return &models.QueryResult{Error: "model not loaded"}, nil }
	require.NoError(t, a.AskAI(context.Background(), "q", "x"))
	require.Equal(t, "model not loaded", a.Page().AIResponse.State().Text)

	b.answer = func(string) (*models.QueryResult, error) { return &models.QueryResult{}, nil }
	require.NoError(t, a.AskAI(context.Background(), "q", "x"))
	require.Equal(t, msgNoAnswer, a.Page().AIResponse.State().Text)

	b.answer = func(string) (*models.QueryResult, error) { return nil, errors.New("boom") }
	require.Error(t, a.AskAI(context.Background(), "q", "x"))
	require.Equal(t, "An error occurred while processing the query: boom", a.Page().AIResponse.State().Text)
	require.False(t, a.Page().AIResponse.Loading())
}

func TestAskPDF_SendsPromptTypeAndUsesOwnRegion(t *testing.T) {
	b := newFakeBackend()
	a, _, _ := newTestApp(b, true)
	b.answer = func(string) (*models.QueryResult, error) { return nil, errors.New("down") }
	require.Error(t, a.AskPDF(context.Background(), "summarize", "summary", "mistral"))
	require.Equal(t, "summary", b.lastPrompt)
	require.Equal(t, 1, b.Calls(backend.EndpointAskPDF))
	require.Equal(t, "An error occurred while processing the PDF query: down", a.Page().PDFResponse.State().Text)
	require.Empty(t, a.Page().AIResponse.State().Text)
}

func TestCopyQueryToAI(t *testing.T) {
	b := newFakeBackend()
	a, _, _ := newTestApp(b, true)
	require.NoError(t, a.CopyQueryToAI(context.Background(), "from pdf box", "llama3"))
	require.Equal(t, 1, b.Calls(backend.EndpointAskAI))
	require.Equal(t, "answer to from pdf box", a.Page().AIResponse.State().Text)
}

// Two overlapping calls: whichever resolves last owns the region.
func TestAskPDF_OverlappingCallsLastToResolveWins(t *testing.T) {
	b := newFakeBackend()
	release := map[string]chan struct{}{
		"first":  make(chan struct{}),
		"second": make(chan struct{}),
	}
	started := make(chan string, 2)
	b.answer = func(q string) (*models.QueryResult, error) {
		started <- q
		<-release[q]
		return &models.QueryResult{Answer: q}, nil
	}
	a, _, _ := newTestApp(b, true)

	var wg sync.WaitGroup
	for _, q := range []string{"first", "second"} {
		wg.Add(1)
		go func(q string) {
			defer wg.Done()
			_ = a.AskPDF(context.Background(), q, "qa", "llama3")
		}(q)
		require.Equal(t, q, <-started)
	}

	close(release["second"])
	require.Eventually(t, func() bool { return a.Page().PDFResponse.State().Text == "second" }, time.Second, time.Millisecond)
	close(release["first"])
	wg.Wait()
	require.Equal(t, "first", a.Page().PDFResponse.State().Text)
}

func TestGuard(t *testing.T) {
	b := newFakeBackend()
	hold := make(chan struct{})
	started := make(chan struct{})
	b.answer = func(q string) (*models.QueryResult, error) {
		close(started)
		<-hold
		return &models.QueryResult{Answer: q}, nil
	}
	a, _, p := newTestApp(b, false)
	g := a.Guard()
	require.True(t, g.Allow(), "idle page allows navigation without asking")
	require.Empty(t, p.confirms)

	done := make(chan struct{})
	go func() {
		_ = a.AskAI(context.Background(), "slow", "llama3")
		close(done)
	}()
	<-started
	require.True(t, g.Busy())
	require.False(t, g.Allow(), "declined confirmation cancels navigation")
	require.Equal(t, []string{msgConfirmNavigation}, p.confirms)

	close(hold)
	<-done
	require.False(t, g.Busy())
}

func TestWithPrompterSharesPage(t *testing.T) {
	b := newFakeBackend()
	b.status = &models.StatusResult{Status: "success"}
	a, _, _ := newTestApp(b, false)
	yes := a.WithPrompter(&scriptedPrompter{answer: true})
	require.NoError(t, yes.DeletePDF(context.Background(), "a.pdf"))
	require.Same(t, a.Page(), yes.Page())
	require.ErrorIs(t, a.DeletePDF(context.Background(), "a.pdf"), ErrDeclined)
}

func TestWithOverridesOpenerOnly(t *testing.T) {
	b := newFakeBackend()
	a, _, _ := newTestApp(b, false)
	opener := &recordingOpener{}
	c := a.With(WithOpener(opener))
	require.NoError(t, c.OpenDocument("a.pdf"))
	require.Equal(t, []string{"http://backend/pdfs/a.pdf"}, opener.urls)
	require.Same(t, a.Page(), c.Page())
}
