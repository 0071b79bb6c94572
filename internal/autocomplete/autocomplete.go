// Package autocomplete turns keystrokes into throttled suggestion lookups.
//
// Visible text changes apply at once; the lookup runs only after the text has
// settled for the configured delay. Lookups may overlap, so each one carries a
// generation and a result is applied only when it belongs to the latest
// lookup issued. Failed lookups clear and hide the suggestions.
package autocomplete

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/prefeitura-rio/app-pessoas/internal/debounce"
	"github.com/prefeitura-rio/app-pessoas/internal/logging"
	"github.com/prefeitura-rio/app-pessoas/internal/observability"
	"go.uber.org/zap"
)

// Default settle delays per suggestion source
const (
	GenderDelay    = 100 * time.Millisecond
	ReferenceDelay = 300 * time.Millisecond
	SearchDelay    = 500 * time.Millisecond
)

// SearchFunc looks up suggestions for a non-empty query
type SearchFunc func(ctx context.Context, query string) ([]string, error)

// Options configures an Autocomplete
type Options struct {
	// Delay before a settled value triggers a lookup; defaults to ReferenceDelay
	Delay time.Duration
	// ShowWhileLoading keeps the dropdown visible while a lookup is in flight
	ShowWhileLoading bool
	// Source labels metrics and logs, e.g. "nationalities"
	Source string
	// OnChange receives every text change immediately
	OnChange func(string)
	// OnUpdate receives a snapshot after every state change, in order.
	// It must not call back into the Autocomplete except for State.
	OnUpdate func(State)
	Logger   *logging.SafeLogger
}

// State is a snapshot of the input. Query is the settled text the current
// lookup and Suggestions belong to; Text may already have moved on.
type State struct {
	Text        string   `json:"text"`
	Query       string   `json:"query"`
	Suggestions []string `json:"suggestions"`
	Loading     bool     `json:"loading"`
	Open        bool     `json:"open"`
	Visible     bool     `json:"visible"`
}

// Autocomplete orchestrates one suggestion input
type Autocomplete struct {
	search    SearchFunc
	opts      Options
	logger    *logging.SafeLogger
	debouncer *debounce.Debouncer[string]

	lifetime context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup

	// notifyMu is taken before mu is released so OnUpdate sees changes in order
	notifyMu sync.Mutex

	mu             sync.Mutex
	state          State
	generation     uint64
	inflightCancel context.CancelFunc
	closed         bool
}

// New creates an Autocomplete backed by search
func New(search SearchFunc, opts Options) *Autocomplete {
	if opts.Delay <= 0 {
		opts.Delay = ReferenceDelay
	}
	if opts.Source == "" {
		opts.Source = "default"
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Logger
	}

	lifetime, cancel := context.WithCancel(context.Background())
	a := &Autocomplete{
		search:   search,
		opts:     opts,
		logger:   logger.Named("autocomplete").With(zap.String("source", opts.Source)),
		lifetime: lifetime,
		cancel:   cancel,
	}
	a.debouncer = debounce.New(opts.Delay, a.settle)
	return a
}

// Input applies a keystroke: the text changes now, the lookup is scheduled.
func (a *Autocomplete) Input(text string) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.state.Text = text
	a.state.Open = true
	a.unlockAndNotify()

	if a.opts.OnChange != nil {
		a.opts.OnChange(text)
	}
	a.debouncer.Push(text)
}

// SetValue replaces the text from outside, without OnChange or opening the dropdown.
func (a *Autocomplete) SetValue(text string) {
	a.mu.Lock()
	if a.closed || a.state.Text == text {
		a.mu.Unlock()
		return
	}
	a.state.Text = text
	a.unlockAndNotify()

	a.debouncer.Push(text)
}

// Select picks a suggestion: the text becomes s and the dropdown hides.
func (a *Autocomplete) Select(s string) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.state.Text = s
	a.state.Open = false
	a.unlockAndNotify()

	if a.opts.OnChange != nil {
		a.opts.OnChange(s)
	}
	a.debouncer.Push(s)
}

// Focus reopens the dropdown when there are suggestions to show
func (a *Autocomplete) Focus() {
	a.mu.Lock()
	if a.closed || len(a.state.Suggestions) == 0 {
		a.mu.Unlock()
		return
	}
	a.state.Open = true
	a.unlockAndNotify()
}

// ClickOutside hides the dropdown and leaves the text alone
func (a *Autocomplete) ClickOutside() {
	a.mu.Lock()
	if a.closed || !a.state.Open {
		a.mu.Unlock()
		return
	}
	a.state.Open = false
	a.unlockAndNotify()
}

// State returns a snapshot of the current state
func (a *Autocomplete) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshot()
}

// Flush settles a pending keystroke now instead of waiting for the delay
func (a *Autocomplete) Flush() {
	a.debouncer.Flush()
}

// Wait blocks until lookups in flight have finished. Call it once input has
// stopped; it does not wait for keystrokes that are still debouncing.
func (a *Autocomplete) Wait() {
	a.wg.Wait()
}

// Close stops the debounce timer, cancels the lookup in flight and waits for
// it to return. Further calls are no-ops.
func (a *Autocomplete) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	if a.inflightCancel != nil {
		a.inflightCancel()
		a.inflightCancel = nil
	}
	a.mu.Unlock()

	a.debouncer.Stop()
	a.cancel()
	a.wg.Wait()
}

// settle runs when the text has been stable for the delay
func (a *Autocomplete) settle(query string) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}

	a.generation++
	generation := a.generation
	if a.inflightCancel != nil {
		a.inflightCancel()
		a.inflightCancel = nil
	}
	a.state.Query = query

	if strings.TrimSpace(query) == "" {
		a.state.Suggestions = nil
		a.state.Loading = false
		a.state.Open = false
		a.unlockAndNotify()
		return
	}

	ctx, cancel := context.WithCancel(a.lifetime)
	a.inflightCancel = cancel
	a.state.Loading = true
	a.wg.Add(1)
	a.unlockAndNotify()

	go a.lookup(ctx, cancel, generation, query)
}

func (a *Autocomplete) lookup(ctx context.Context, cancel context.CancelFunc, generation uint64, query string) {
	defer a.wg.Done()
	defer cancel()

	results, err := a.search(ctx, query)

	a.mu.Lock()
	if a.closed || generation != a.generation {
		a.mu.Unlock()
		observability.AutocompleteSearches.WithLabelValues(a.opts.Source, "stale").Inc()
		a.logger.Debug("discarding stale suggestions", zap.String("query", query))
		return
	}

	a.inflightCancel = nil
	a.state.Loading = false
	if err != nil {
		a.state.Suggestions = nil
		a.state.Open = false
		a.unlockAndNotify()
		observability.AutocompleteSearches.WithLabelValues(a.opts.Source, "error").Inc()
		a.logger.Warn("suggestion lookup failed", zap.String("query", query), zap.Error(err))
		return
	}

	a.state.Suggestions = results
	a.unlockAndNotify()
	observability.AutocompleteSearches.WithLabelValues(a.opts.Source, "success").Inc()
}

// unlockAndNotify releases mu and publishes the state it guarded
func (a *Autocomplete) unlockAndNotify() {
	snap := a.snapshot()
	if a.opts.OnUpdate == nil {
		a.mu.Unlock()
		return
	}
	a.notifyMu.Lock()
	a.mu.Unlock()
	defer a.notifyMu.Unlock()
	a.opts.OnUpdate(snap)
}

// snapshot copies the state; callers hold mu
func (a *Autocomplete) snapshot() State {
	s := a.state
	s.Suggestions = append([]string(nil), a.state.Suggestions...)
	if s.Suggestions == nil {
		s.Suggestions = []string{}
	}
	s.Visible = a.visible()
	return s
}

func (a *Autocomplete) visible() bool {
	if !a.state.Open {
		return false
	}
	if a.opts.ShowWhileLoading {
		return a.state.Loading || len(a.state.Suggestions) > 0
	}
	return len(a.state.Suggestions) > 0
}
