// Package toast implements transient, auto-dismissing notifications.
package toast

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Default lifetime: visible for Hold, then fading for Fade, then removed.
const (
	DefaultHold = 3000 * time.Millisecond
	DefaultFade = 500 * time.Millisecond
)

// Kind is the visual category of a toast.
type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
)

// ParseKind maps s to a Kind; unknown values become KindInfo.
func ParseKind(s string) Kind {
	switch k := Kind(s); k {
	case KindSuccess, KindError, KindWarning, KindInfo:
		return k
	default:
		return KindInfo
	}
}

// Color returns the background color of the kind.
func (k Kind) Color() string {
	switch k {
	case KindSuccess:
		return "#4CAF50"
	case KindError:
		return "#F44336"
	case KindWarning:
		return "#FFC107"
	default:
		return "#2196F3"
	}
}

// Phase is where a toast is in its lifetime.
type Phase string

const (
	PhaseVisible Phase = "visible"
	PhaseFading  Phase = "fading"
)

// Toast is one notification.
type Toast struct {
	ID      string    `json:"id"`
	Message string    `json:"message"`
	Kind    Kind      `json:"kind"`
	Color   string    `json:"color"`
	Phase   Phase     `json:"phase"`
	Slot    int       `json:"slot"`
	Created time.Time `json:"created"`
}

// Hub owns the live toasts.
type Hub struct {
	hold   time.Duration
	fade   time.Duration
	logger *zap.Logger
	sinks  []func(Toast)

	mu     sync.Mutex
	toasts []*Toast
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithDurations overrides the visible hold and fade-out durations.
func WithDurations(hold, fade time.Duration) HubOption {
	return func(h *Hub) {
		if hold > 0 {
			h.hold = hold
		}
		if fade > 0 {
			h.fade = fade
		}
	}
}

// WithLogger logs every toast at debug level.
func WithLogger(l *zap.Logger) HubOption {
	return func(h *Hub) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithSink calls fn for every new toast, e.g. to print it to a terminal.
func WithSink(fn func(Toast)) HubOption {
	return func(h *Hub) { h.sinks = append(h.sinks, fn) }
}

// NewHub creates a hub with the default lifetime.
func NewHub(opts ...HubOption) *Hub {
	h := &Hub{hold: DefaultHold, fade: DefaultFade, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Show adds a toast and schedules its removal. It never blocks on the lifetime.
func (h *Hub) Show(message string, kind Kind) Toast {
	kind = ParseKind(string(kind))
	h.mu.Lock()
	t := &Toast{
		ID:      uuid.NewString(),
		Message: message,
		Kind:    kind,
		Color:   kind.Color(),
		Phase:   PhaseVisible,
		Slot:    h.freeSlotLocked(),
		Created: time.Now(),
	}
	h.toasts = append(h.toasts, t)
	snapshot := *t
	h.mu.Unlock()

	h.logger.Debug("toast", zap.String("kind", string(kind)), zap.String("message", message))
	for _, sink := range h.sinks {
		sink(snapshot)
	}

	id := t.ID
	time.AfterFunc(h.hold, func() {
		h.setPhase(id, PhaseFading)
		time.AfterFunc(h.fade, func() { h.remove(id) })
	})
	return snapshot
}

// Active returns the live toasts in creation order.
func (h *Hub) Active() []Toast {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Toast, 0, len(h.toasts))
	for _, t := range h.toasts {
		out = append(out, *t)
	}
	return out
}

// Lifetime returns the total time a toast stays in the hub.
func (h *Hub) Lifetime() time.Duration {
	return h.hold + h.fade
}

// freeSlotLocked returns the lowest vertical slot not used by a live toast.
func (h *Hub) freeSlotLocked() int {
	used := make(map[int]bool, len(h.toasts))
	for _, t := range h.toasts {
		used[t.Slot] = true
	}
	slot := 0
	for used[slot] {
		slot++
	}
	return slot
}

func (h *Hub) setPhase(id string, p Phase) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, t := range h.toasts {
		if t.ID == id {
			t.Phase = p
			return
		}
	}
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, t := range h.toasts {
		if t.ID == id {
			h.toasts = append(h.toasts[:i], h.toasts[i+1:]...)
			return
		}
	}
}
