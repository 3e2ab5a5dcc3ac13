package server

import "sync"

// formPrompter answers confirmations with what the browser already asked
// the user, and collects alerts for the response.
type formPrompter struct {
	confirmed bool

	mu     sync.Mutex
	alerts []string
}

func (p *formPrompter) Confirm(string) bool {
	return p.confirmed
}

func (p *formPrompter) Alert(message string) {
	p.mu.Lock()
	p.alerts = append(p.alerts, message)
	p.mu.Unlock()
}

func (p *formPrompter) firstAlert() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.alerts) == 0 {
		return ""
	}
	return p.alerts[0]
}

// redirectOpener records the URL a document should be opened at.
type redirectOpener struct {
	url string
}

func (o *redirectOpener) Open(url string) error {
	o.url = url
	return nil
}
