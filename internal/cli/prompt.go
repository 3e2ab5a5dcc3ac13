package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// Prompter asks yes/no questions on a terminal.
type Prompter struct {
	in          *bufio.Reader
	out         io.Writer
	assumeYes   bool
	interactive bool

	mu sync.Mutex
}

// NewPrompter prompts on in/out. With assumeYes every confirmation succeeds
// without asking. When in is not a terminal and assumeYes is false,
// confirmations are declined, so scripts never delete by accident.
func NewPrompter(in io.Reader, out io.Writer, assumeYes bool) *Prompter {
	interactive := false
	if f, ok := in.(*os.File); ok {
		interactive = term.IsTerminal(int(f.Fd()))
	}
	return &Prompter{in: bufio.NewReader(in), out: out, assumeYes: assumeYes, interactive: interactive}
}

// SetInteractive overrides terminal detection.
func (p *Prompter) SetInteractive(v bool) {
	p.mu.Lock()
	p.interactive = v
	p.mu.Unlock()
}

// Confirm asks message and reads a y/N answer.
func (p *Prompter) Confirm(message string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.assumeYes {
		return true
	}
	if !p.interactive {
		fmt.Fprintf(p.out, "%s [y/N]: not a terminal, use --yes to confirm\n", message)
		return false
	}
	fmt.Fprintf(p.out, "%s [y/N]: ", message)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(p.out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// Alert prints message.
func (p *Prompter) Alert(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, message)
}

// PrintOpener "opens" a document by printing its URL.
type PrintOpener struct {
	Out io.Writer
}

// Open prints url.
func (o PrintOpener) Open(url string) error {
	_, err := fmt.Fprintln(o.Out, url)
	return err
}
