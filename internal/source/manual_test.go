package source

import (
	"testing"

	"github.com/dshills/hotkey/internal/key"
)

func TestManualEmit(t *testing.T) {
	m := NewManual()

	var got []string
	m.AttachListener(func(ev key.Event) {
		got = append(got, ev.Chord())
	})
	if !m.Attached() {
		t.Fatal("listener not attached")
	}

	m.Emit(key.NewEvent("s", key.ModCtrl))
	m.Emit(key.NewEvent("p", key.ModCtrl|key.ModShift))

	want := []string{"ctrl+s", "ctrl+shift+p"}
	if len(got) != len(want) {
		t.Fatalf("delivered %d events, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestManualEmitWithoutListener(t *testing.T) {
	m := NewManual()
	// Must not panic.
	m.Emit(key.NewEvent("s", key.ModCtrl))
}

func TestManualDetach(t *testing.T) {
	m := NewManual()

	count := 0
	m.AttachListener(func(key.Event) { count++ })
	m.Emit(key.NewEvent("a", 0))

	m.DetachListener()
	if m.Attached() {
		t.Error("listener still attached after detach")
	}
	m.Emit(key.NewEvent("b", 0))

	if count != 1 {
		t.Errorf("listener fired %d times, want 1", count)
	}
}

func TestManualReplaceListener(t *testing.T) {
	m := NewManual()

	first, second := 0, 0
	m.AttachListener(func(key.Event) { first++ })
	m.AttachListener(func(key.Event) { second++ })
	m.Emit(key.NewEvent("a", 0))

	if first != 0 || second != 1 {
		t.Errorf("first = %d, second = %d; want 0, 1", first, second)
	}
}
