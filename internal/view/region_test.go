package view

import (
	"sync"
	"testing"
	"time"
)

func TestRegion_BeginShowsLoading(t *testing.T) {
	r := NewRegion(IDQueryResponse, false)
	var seen []RegionState
	r.Observe(func(st RegionState) { seen = append(seen, st) })

	token := r.Begin()
	if !r.Loading() || r.State().Text != LoadingMessage {
		t.Errorf("state after Begin: %+v", r.State())
	}
	if !r.Finish(token, "answer") {
		t.Error("Finish should apply")
	}
	if r.Loading() || r.State().Text != "answer" {
		t.Errorf("state after Finish: %+v", r.State())
	}
	if len(seen) != 2 || !seen[0].Loading || seen[1].Loading {
		t.Errorf("observed: %+v", seen)
	}
}

func TestRegion_LastToResolveWins(t *testing.T) {
	r := NewRegion(IDQueryResponse, false)
	first := r.Begin()
	second := r.Begin()
	r.Finish(second, "second")
	r.Finish(first, "first")
	if got := r.State().Text; got != "first" {
		t.Errorf("text = %q, want the last resolved payload", got)
	}
}

func TestRegion_LatestOnlyDropsStale(t *testing.T) {
	r := NewRegion(IDQueryResponse, true)
	first := r.Begin()
	second := r.Begin()
	if !r.Finish(second, "second") {
		t.Error("newest token should apply")
	}
	if r.Finish(first, "first") {
		t.Error("stale token should be dropped")
	}
	if got := r.State().Text; got != "second" {
		t.Errorf("text = %q, want second", got)
	}
}

func TestRegion_ConcurrentUse(t *testing.T) {
	r := NewRegion(IDQueryResponseAI, false)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tok := r.Begin()
			time.Sleep(time.Millisecond)
			r.Finish(tok, "done")
		}()
	}
	wg.Wait()
	if r.State().Text != "done" {
		t.Errorf("state: %+v", r.State())
	}
}

func TestStatusLine_FadeIsReapplied(t *testing.T) {
	s := NewStatusLine(20 * time.Millisecond)
	s.Show("Chat history cleared successfully.")
	if st := s.State(); st.Faded || st.Class() != "" {
		t.Errorf("fade-out should be removed immediately: %+v", st)
	}
	deadline := time.Now().Add(time.Second)
	for !s.State().Faded && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if st := s.State(); !st.Faded || st.Class() != FadeOutClass {
		t.Errorf("fade-out should be re-applied: %+v", st)
	}
}

func TestStatusLine_StickyDoesNotFade(t *testing.T) {
	s := NewStatusLine(10 * time.Millisecond)
	s.Show("first")
	s.ShowSticky("An error occurred while clearing chat history: boom")
	time.Sleep(40 * time.Millisecond)
	st := s.State()
	if st.Faded {
		t.Error("sticky text must not fade, and the earlier timer must not fade it")
	}
	if st.Text != "An error occurred while clearing chat history: boom" {
		t.Errorf("text: %q", st.Text)
	}
}
