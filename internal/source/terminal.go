package source

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/hotkey/internal/key"
)

// Terminal is a Source backed by a tcell screen. It owns the poll loop
// and translates tcell key events into engine key events.
type Terminal struct {
	mu       sync.Mutex
	screen   tcell.Screen
	listener Listener
	running  bool
	wg       sync.WaitGroup
}

// NewTerminal creates a terminal source on a new tcell screen.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Terminal{screen: screen}, nil
}

// NewTerminalWithScreen creates a terminal source on an existing screen.
// Used with tcell's simulation screen in tests.
func NewTerminalWithScreen(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen}
}

// Start initializes the screen and begins delivering events.
func (t *Terminal) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return nil
	}
	if err := t.screen.Init(); err != nil {
		return err
	}

	t.running = true
	t.wg.Add(1)
	go t.loop()
	return nil
}

// Stop interrupts the poll loop and finalizes the screen.
func (t *Terminal) Stop() {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return
	}
	t.running = false
	t.mu.Unlock()

	_ = t.screen.PostEvent(tcell.NewEventInterrupt(nil))
	t.wg.Wait()
	t.screen.Fini()
}

// AttachListener installs the listener, replacing any previous one.
func (t *Terminal) AttachListener(fn Listener) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listener = fn
}

// DetachListener removes the listener.
func (t *Terminal) DetachListener() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listener = nil
}

func (t *Terminal) loop() {
	defer t.wg.Done()

	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}

		switch tev := ev.(type) {
		case *tcell.EventInterrupt:
			return
		case *tcell.EventKey:
			kev, ok := convertKey(tev)
			if !ok {
				continue
			}
			t.mu.Lock()
			fn := t.listener
			t.mu.Unlock()
			if fn != nil {
				fn(kev)
			}
		}
	}
}

// specialKeyNames maps tcell named keys to canonical key names.
var specialKeyNames = map[tcell.Key]string{
	tcell.KeyEnter:      "enter",
	tcell.KeyTab:        "tab",
	tcell.KeyEscape:     "esc",
	tcell.KeyBackspace:  "backspace",
	tcell.KeyBackspace2: "backspace",
	tcell.KeyDelete:     "delete",
	tcell.KeyInsert:     "insert",
	tcell.KeyHome:       "home",
	tcell.KeyEnd:        "end",
	tcell.KeyPgUp:       "pageup",
	tcell.KeyPgDn:       "pagedown",
	tcell.KeyUp:         "up",
	tcell.KeyDown:       "down",
	tcell.KeyLeft:       "left",
	tcell.KeyRight:      "right",
	tcell.KeyF1:         "f1",
	tcell.KeyF2:         "f2",
	tcell.KeyF3:         "f3",
	tcell.KeyF4:         "f4",
	tcell.KeyF5:         "f5",
	tcell.KeyF6:         "f6",
	tcell.KeyF7:         "f7",
	tcell.KeyF8:         "f8",
	tcell.KeyF9:         "f9",
	tcell.KeyF10:        "f10",
	tcell.KeyF11:        "f11",
	tcell.KeyF12:        "f12",
}

// convertKey translates a tcell key event into an engine key event.
// Returns false for keys the engine has no name for.
func convertKey(ev *tcell.EventKey) (key.Event, bool) {
	mods := convertMods(ev.Modifiers())

	k := ev.Key()
	if k == tcell.KeyRune {
		r := ev.Rune()
		if r == 0 {
			return key.Event{}, false
		}
		return key.NewEvent(string(r), mods), true
	}

	if name, ok := specialKeyNames[k]; ok {
		return key.NewEvent(name, mods), true
	}

	// tcell folds ctrl+letter into dedicated key codes; unfold them so
	// the chord reads "ctrl+a" rather than an opaque control code.
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		r := rune('a' + k - tcell.KeyCtrlA)
		return key.NewEvent(string(r), mods.With(key.ModCtrl)), true
	}

	return key.Event{}, false
}

func convertMods(m tcell.ModMask) key.Modifier {
	var mods key.Modifier
	if m&tcell.ModShift != 0 {
		mods = mods.With(key.ModShift)
	}
	if m&tcell.ModCtrl != 0 {
		mods = mods.With(key.ModCtrl)
	}
	if m&tcell.ModAlt != 0 {
		mods = mods.With(key.ModAlt)
	}
	if m&tcell.ModMeta != 0 {
		mods = mods.With(key.ModMeta)
	}
	return mods
}
