package toast

import (
	"testing"
	"time"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"success", KindSuccess},
		{"error", KindError},
		{"warning", KindWarning},
		{"info", KindInfo},
		{"", KindInfo},
		{"fatal", KindInfo},
	}
	for _, tt := range tests {
		if got := ParseKind(tt.in); got != tt.want {
			t.Errorf("ParseKind(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestKindColor(t *testing.T) {
	if KindSuccess.Color() != "#4CAF50" || KindError.Color() != "#F44336" ||
		KindWarning.Color() != "#FFC107" || KindInfo.Color() != "#2196F3" {
		t.Error("unexpected color mapping")
	}
	if Kind("unknown").Color() != KindInfo.Color() {
		t.Error("unknown kind should use info styling")
	}
}

func TestHub_ShowIsImmediateAndDefaultLifetime(t *testing.T) {
	h := NewHub()
	got := h.Show("hello", KindSuccess)
	active := h.Active()
	if len(active) != 1 || active[0].ID != got.ID || active[0].Phase != PhaseVisible {
		t.Fatalf("active: %+v", active)
	}
	if h.Lifetime() != 3500*time.Millisecond {
		t.Errorf("lifetime: got %v", h.Lifetime())
	}
}

func TestHub_NilLoggerIsIgnored(t *testing.T) {
	h := NewHub(WithLogger(nil))
	if got := h.Show("still works", KindInfo); got.Message != "still works" {
		t.Errorf("toast: %+v", got)
	}
}

func TestHub_ToastFadesThenDisappears(t *testing.T) {
	h := NewHub(WithDurations(30*time.Millisecond, 20*time.Millisecond))
	start := time.Now()
	h.Show("bye", Kind("bogus"))
	if a := h.Active(); len(a) != 1 || a[0].Kind != KindInfo {
		t.Fatalf("active: %+v", a)
	}

	sawFading := false
	for len(h.Active()) > 0 && time.Since(start) < time.Second {
		if a := h.Active(); len(a) == 1 && a[0].Phase == PhaseFading {
			sawFading = true
		}
		time.Sleep(2 * time.Millisecond)
	}
	if len(h.Active()) != 0 {
		t.Fatal("toast was not removed")
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("removed too early: %v", elapsed)
	}
	if !sawFading {
		t.Error("expected a fading phase before removal")
	}
}

func TestHub_SlotsStackAndSinkIsCalled(t *testing.T) {
	var sunk []Toast
	h := NewHub(WithSink(func(t Toast) { sunk = append(sunk, t) }))
	a := h.Show("a", KindInfo)
	b := h.Show("b", KindError)
	if a.Slot != 0 || b.Slot != 1 {
		t.Errorf("slots: %d %d", a.Slot, b.Slot)
	}
	if len(sunk) != 2 || sunk[1].Message != "b" {
		t.Errorf("sink: %+v", sunk)
	}
}
