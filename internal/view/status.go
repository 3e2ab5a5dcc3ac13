package view

import (
	"sync"
	"time"
)

// StatusLine is the chatHistoryStatus element: a line of text plus a fade-out
// class that is re-applied after a delay. The timer only affects display.
type StatusLine struct {
	delay time.Duration

	mu    sync.Mutex
	text  string
	faded bool
	gen   uint64
	timer *time.Timer
}

// StatusState is the rendered state of a StatusLine.
type StatusState struct {
	Text  string `json:"text"`
	Faded bool   `json:"faded"`
}

// Class returns the CSS class list of the element.
func (s StatusState) Class() string {
	if s.Faded {
		return FadeOutClass
	}
	return ""
}

// NewStatusLine creates a status line whose fade-out is re-applied after delay.
func NewStatusLine(delay time.Duration) *StatusLine {
	return &StatusLine{delay: delay}
}

// Show sets text, removes the fade-out class, and schedules it to come back.
func (s *StatusLine) Show(text string) {
	s.set(text, true)
}

// ShowSticky sets text and removes the fade-out class without scheduling it again.
func (s *StatusLine) ShowSticky(text string) {
	s.set(text, false)
}

func (s *StatusLine) set(text string, fade bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = text
	s.faded = false
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if !fade {
		return
	}
	gen := s.gen
	s.timer = time.AfterFunc(s.delay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.gen == gen {
			s.faded = true
		}
	})
}

// State returns the current text and class.
func (s *StatusLine) State() StatusState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return StatusState{Text: s.text, Faded: s.faded}
}
