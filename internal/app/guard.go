package app

import "github.com/hyperjump/pdfchat/internal/view"

// Guard asks before leaving while a response region still shows its spinner.
// It is advisory: it never cancels the in-flight call.
type Guard struct {
	prompter Prompter
	regions  []*view.Region
}

// NewGuard creates a guard over regions.
func NewGuard(p Prompter, regions ...*view.Region) *Guard {
	return &Guard{prompter: p, regions: regions}
}

// Busy reports whether any region is loading.
func (g *Guard) Busy() bool {
	for _, r := range g.regions {
		if r.Loading() {
			return true
		}
	}
	return false
}

// Allow reports whether navigation may proceed.
func (g *Guard) Allow() bool {
	if !g.Busy() {
		return true
	}
	return g.prompter.Confirm(msgConfirmNavigation)
}
