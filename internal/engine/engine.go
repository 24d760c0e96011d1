package engine

import (
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/dshills/hotkey/internal/key"
	"github.com/dshills/hotkey/internal/shortcut"
	"github.com/dshills/hotkey/internal/source"
)

// Config configures a dispatch engine.
type Config struct {
	// Shortcuts is the initial declarative shortcut set. The registry is
	// mutable afterwards through the engine API.
	Shortcuts map[string]shortcut.Definition

	// Target is the input source to attach to. Nil means no listener is
	// attached and the embedder drives HandleEvent directly.
	Target source.Source

	// PreventDefault suppresses the target's default handling for every
	// event that selects a shortcut. Default: true.
	PreventDefault bool

	// StopPropagation stops matched events from reaching other listeners
	// on the target. Default: true.
	StopPropagation bool

	// DebounceTime collapses bursts of events within the window to the
	// trailing event only. Zero disables debouncing.
	DebounceTime time.Duration

	// SequenceTimeout is the rolling window for multi-chord sequences,
	// measured from the last keystroke. Default: 1000ms.
	SequenceTimeout time.Duration

	// IgnoreInputFields drops events originating from text-entry
	// elements. Default: true.
	IgnoreInputFields bool

	// IgnoreModifierOnly drops bare modifier presses and modifier
	// combinations without a primary key. Default: true.
	IgnoreModifierOnly bool

	// Logger receives configuration warnings and handler failures.
	// Nil means discard.
	Logger *slog.Logger
}

// DefaultConfig returns a configuration with the documented defaults.
func DefaultConfig() Config {
	return Config{
		PreventDefault:     true,
		StopPropagation:    true,
		SequenceTimeout:    1000 * time.Millisecond,
		IgnoreInputFields:  true,
		IgnoreModifierOnly: true,
	}
}

// firing is one resolved handler invocation: the shortcut that matched
// and the handler selected for it. A nil action means the shortcut
// matched but had neither a live subscription nor a default action.
type firing struct {
	shortcutID string
	action     shortcut.Action
	via        string
}

// Engine is the shortcut dispatch engine. Create one per active
// application surface and pass it by handle to collaborators; Destroy it
// on teardown.
type Engine struct {
	mu sync.Mutex

	cfg      Config
	logger   *slog.Logger
	registry *shortcut.Registry
	subs     *subscriptionTable
	exec     executor
	seq      *sequenceMatcher

	activeContext string
	paused        bool
	destroyed     bool

	debounceTimer *time.Timer
	debounceGen   uint64
	pendingEvent  key.Event
	hasPending    bool
}

// New creates an engine, seeds its registry from cfg.Shortcuts, and
// attaches its handler to cfg.Target when one is provided.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	e := &Engine{
		cfg:      cfg,
		logger:   logger,
		registry: shortcut.NewRegistry(cfg.Shortcuts),
		subs:     newSubscriptionTable(),
	}
	e.seq = newSequenceMatcher(cfg.SequenceTimeout, e.sequenceExpired)

	if cfg.Target != nil {
		cfg.Target.AttachListener(e.HandleEvent)
	}
	return e
}

// HandleEvent is the input adapter: it filters, debounces, normalizes and
// dispatches one key event. All matching runs synchronously on the
// calling goroutine unless debouncing is enabled.
func (e *Engine) HandleEvent(event key.Event) {
	e.mu.Lock()

	if e.destroyed || e.paused {
		e.mu.Unlock()
		return
	}
	if e.cfg.IgnoreInputFields && event.FromTextInput {
		e.mu.Unlock()
		return
	}
	if e.cfg.IgnoreModifierOnly && event.IsModifierOnly() {
		e.mu.Unlock()
		return
	}

	if e.cfg.DebounceTime > 0 {
		// Trailing-edge debounce: keep only the newest event and restart
		// the single window timer. Stop cannot cancel a callback that has
		// already started, so each timer carries a generation and the
		// callback rechecks it under the lock.
		e.pendingEvent = event
		e.hasPending = true
		if e.debounceTimer != nil {
			e.debounceTimer.Stop()
		}
		e.debounceGen++
		gen := e.debounceGen
		e.debounceTimer = time.AfterFunc(e.cfg.DebounceTime, func() { e.debounceExpired(gen) })
		e.mu.Unlock()
		return
	}

	fires := e.collect(event)
	e.mu.Unlock()

	e.invoke(fires, event)
}

// debounceExpired runs the deferred trailing call of a debounced burst.
// A stale generation means a newer event restarted the window after this
// callback was already in flight.
func (e *Engine) debounceExpired(gen uint64) {
	e.mu.Lock()
	if e.destroyed || e.paused || !e.hasPending || gen != e.debounceGen {
		e.mu.Unlock()
		return
	}
	event := e.pendingEvent
	e.hasPending = false

	fires := e.collect(event)
	e.mu.Unlock()

	e.invoke(fires, event)
}

// collect resolves everything the event should fire. Sequence matching
// and chord dispatch are independent; both are evaluated for every event.
// Side effects are applied at most once per event, and only when a
// shortcut was selected. Caller must hold e.mu.
func (e *Engine) collect(event key.Event) []firing {
	chord := event.Chord()
	if chord == "" {
		return nil
	}

	applied := false
	applyOnce := func() {
		if applied {
			return
		}
		applied = true
		if e.cfg.PreventDefault {
			event.PreventDefault()
		}
		if e.cfg.StopPropagation {
			event.StopPropagation()
		}
	}

	fires := e.matchSequences(chord, applyOnce)
	if f, ok := e.resolveChord(chord, applyOnce); ok {
		fires = append(fires, f)
	}
	return fires
}

// matchSequences pushes the chord into the rolling buffer and tests the
// buffer for exact equality against sequence-kind definitions. On a match
// the buffer is consumed; otherwise it keeps accumulating until the
// timeout clears it. Caller must hold e.mu.
func (e *Engine) matchSequences(chord string, applyOnce func()) []firing {
	joined := e.seq.push(chord)

	cands := e.registry.SequenceCandidates(joined)
	if len(cands) == 0 {
		return nil
	}

	// The buffer matched a registered sequence trigger: consume it even
	// when every match is suppressed by status or context.
	e.seq.reset()

	var fires []firing
	for _, c := range cands {
		if !c.Def.Enabled() || !c.Def.MatchesContext(e.activeContext) {
			continue
		}
		applyOnce()
		fires = append(fires, e.firingFor(c.ID, c.Def))
	}
	return fires
}

// resolveChord selects the single chord-kind shortcut for the event:
// enabled, context-matching candidates sorted by priority descending,
// registration order breaking ties. Caller must hold e.mu.
func (e *Engine) resolveChord(chord string, applyOnce func()) (firing, bool) {
	cands := e.registry.ChordCandidates(chord)
	if len(cands) == 0 {
		return firing{}, false
	}

	eligible := make([]shortcut.Candidate, 0, len(cands))
	for _, c := range cands {
		if !c.Def.Enabled() || !c.Def.MatchesContext(e.activeContext) {
			continue
		}
		eligible = append(eligible, c)
	}
	if len(eligible) == 0 {
		return firing{}, false
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Def.Priority > eligible[j].Def.Priority
	})

	selected := eligible[0]
	applyOnce()
	return e.firingFor(selected.ID, selected.Def), true
}

// firingFor picks the one handler for a matched shortcut: the
// highest-priority live subscription, else the default action, else
// nothing. Caller must hold e.mu.
func (e *Engine) firingFor(id string, def shortcut.Definition) firing {
	if sub := e.subs.top(id); sub != nil {
		return firing{shortcutID: id, action: sub.Action, via: "subscription"}
	}
	if def.DefaultAction != nil {
		return firing{shortcutID: id, action: def.DefaultAction, via: "default"}
	}
	return firing{shortcutID: id}
}

// invoke runs the selected handlers outside the engine lock. A failing
// handler is logged and does not stop sibling dispatches.
func (e *Engine) invoke(fires []firing, event key.Event) {
	for _, f := range fires {
		if f.action == nil {
			continue
		}
		res := e.exec.run(f.action, event)
		switch {
		case res.ok():
			e.logger.Debug("shortcut dispatched",
				"shortcut", f.shortcutID,
				"via", f.via,
				"duration", res.Duration)
		case res.Panicked:
			e.logger.Error("shortcut handler panicked",
				"shortcut", f.shortcutID,
				"via", f.via,
				"panic", res.PanicValue,
				"stack", string(res.PanicStack))
		case res.Err != nil:
			e.logger.Error("shortcut handler failed",
				"shortcut", f.shortcutID,
				"via", f.via,
				"error", res.Err)
		}
	}
}

// sequenceExpired clears a stale partial sequence when the rolling window
// closes with no match. Callbacks from a superseded timer generation are
// ignored: a chord pushed while the callback was in flight must not have
// its buffer cleared.
func (e *Engine) sequenceExpired(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.destroyed || gen != e.seq.generation() {
		return
	}
	if !e.seq.accumulating() {
		return
	}
	e.logger.Debug("sequence window expired", "pending", e.seq.pending())
	e.seq.reset()
}

// Subscribe registers a callback for a shortcut id and returns the
// subscription id. Subscribing to an id absent from the registry is a
// configuration error: it is logged and an empty id is returned.
func (e *Engine) Subscribe(shortcutID string, action shortcut.Action) string {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.destroyed {
		return ""
	}

	def, ok := e.registry.Get(shortcutID)
	if !ok {
		e.logger.Warn("subscribe to unregistered shortcut", "shortcut", shortcutID)
		return ""
	}

	return e.subs.add(shortcutID, def.Priority, action).ID
}

// Unsubscribe removes a subscription by id. Unknown ids are a no-op.
func (e *Engine) Unsubscribe(subscriptionID string) {
	e.subs.remove(subscriptionID)
}

// Register adds or replaces a shortcut definition.
func (e *Engine) Register(id string, def shortcut.Definition) {
	e.registry.Register(id, def)
}

// Unregister removes a shortcut definition. Live subscriptions for the
// id become inert until the id is registered again.
func (e *Engine) Unregister(id string) {
	e.registry.Unregister(id)
}

// Update applies a partial definition to a registered shortcut.
func (e *Engine) Update(id string, patch shortcut.Patch) error {
	return e.registry.Update(id, patch)
}

// Enable marks a shortcut as eligible to fire.
func (e *Engine) Enable(id string) error {
	return e.registry.Enable(id)
}

// Disable suppresses a shortcut without unregistering it.
func (e *Engine) Disable(id string) error {
	return e.registry.Disable(id)
}

// GetAll returns every registered definition keyed by id.
func (e *Engine) GetAll() map[string]shortcut.Definition {
	return e.registry.All()
}

// GetByGroup returns the definitions labeled with the given group.
func (e *Engine) GetByGroup(group string) map[string]shortcut.Definition {
	return e.registry.ByGroup(group)
}

// GetGroups returns the distinct group labels in sorted order.
func (e *Engine) GetGroups() []string {
	return e.registry.Groups()
}

// Registry exposes the underlying registry for collaborators such as
// file loaders and watchers.
func (e *Engine) Registry() *shortcut.Registry {
	return e.registry
}

// SetContext sets the active context. The empty string clears it.
func (e *Engine) SetContext(ctx string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.activeContext = ctx
}

// Context returns the active context, or the empty string if none.
func (e *Engine) Context() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.activeContext
}

// Pause suppresses dispatch for future events. In-flight dispatch is
// never interrupted.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.paused = true
}

// Resume restores dispatch without re-registration.
func (e *Engine) Resume() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.paused = false
}

// Paused returns true while dispatch is suppressed.
func (e *Engine) Paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}

// Stats returns cumulative dispatch counters.
func (e *Engine) Stats() Stats {
	return e.exec.stats()
}

// Destroy detaches the listener, cancels pending timers and drops all
// subscriptions. No dispatch occurs after Destroy returns.
func (e *Engine) Destroy() {
	e.mu.Lock()
	if e.destroyed {
		e.mu.Unlock()
		return
	}
	e.destroyed = true

	e.seq.reset()
	if e.debounceTimer != nil {
		e.debounceTimer.Stop()
		e.debounceTimer = nil
	}
	e.hasPending = false
	target := e.cfg.Target
	e.mu.Unlock()

	if target != nil {
		target.DetachListener()
	}
	e.subs.clear()
}

// Destroyed returns true after teardown.
func (e *Engine) Destroyed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.destroyed
}
