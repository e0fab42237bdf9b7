package search

import (
	"sync"
	"time"

	"github.com/FReptar0/EvoSystems/internal/debounce"
	"github.com/FReptar0/EvoSystems/internal/i18n"
	"github.com/FReptar0/EvoSystems/internal/model"
)

// DefaultDebounce is the quiet period after the last keystroke before the
// query runs.
const DefaultDebounce = 300 * time.Millisecond

// State is the panel's display state.
type State int

const (
	StateClosed State = iota
	// StateEmpty is open with no query; the search hint is shown.
	StateEmpty
	// StateQuerying is open with a query whose search has not run yet.
	StateQuerying
	StateResults
	StateNoResults
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateEmpty:
		return "empty"
	case StateQuerying:
		return "querying"
	case StateResults:
		return "results"
	case StateNoResults:
		return "no-results"
	}
	return "unknown"
}

// Key is a navigation key delivered to the panel.
type Key string

const (
	KeyArrowDown Key = "ArrowDown"
	KeyArrowUp   Key = "ArrowUp"
	KeyEnter     Key = "Enter"
	KeyEscape    Key = "Escape"
)

// Searcher runs a query. *Matcher implements it.
type Searcher interface {
	Search(query string, l i18n.Locale) []model.SearchResult
}

// PanelOptions configure a Panel. Navigate receives the URL of an activated
// result; OnResultClick runs after it, once the panel has closed. OnChange
// is called after every debounced search is applied, from the timer
// goroutine.
type PanelOptions struct {
	Locale             i18n.Locale
	Debounce           time.Duration
	GuardFocusedInputs bool
	Navigate           func(url string)
	OnResultClick      func()
	OnChange           func(Snapshot)
}

// Snapshot is a consistent copy of the panel state.
type Snapshot struct {
	State    State
	Open     bool
	Focused  bool
	Query    string
	Results  []model.SearchResult
	Selected int
	Locale   i18n.Locale
}

// Panel owns the query, results and selection cursor of the search box. All
// methods are safe to call from multiple goroutines; the debounced search
// runs on a timer goroutine and only applies its results if the query has
// not changed since it was scheduled.
type Panel struct {
	mu        sync.Mutex
	searcher  Searcher
	debouncer *debounce.Debouncer
	opts      PanelOptions

	open     bool
	focused  bool
	query    string
	results  []model.SearchResult
	selected int
	pending  bool
	locale   i18n.Locale
}

// NewPanel creates a closed panel.
func NewPanel(searcher Searcher, opts PanelOptions) *Panel {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if !opts.Locale.IsSupported() {
		opts.Locale = i18n.Default
	}
	return &Panel{
		searcher:  searcher,
		debouncer: debounce.New(opts.Debounce),
		opts:      opts,
		selected:  -1,
		locale:    opts.Locale,
	}
}

// Open opens the panel, as when the input gains focus.
func (p *Panel) Open() {
	p.mu.Lock()
	p.open = true
	p.focused = true
	p.mu.Unlock()
}

// Shortcut handles the modifier+K shortcut. It opens and focuses the panel
// unless GuardFocusedInputs is set and another text input holds focus, in
// which case the key is left to that input and false is returned.
func (p *Panel) Shortcut(otherInputFocused bool) bool {
	if p.opts.GuardFocusedInputs && otherInputFocused {
		return false
	}
	p.Open()
	return true
}

// SetQuery records new input text and schedules a search after the quiet
// period. Any earlier pending search is discarded.
func (p *Panel) SetQuery(q string) {
	p.mu.Lock()
	p.open = true
	p.query = q
	p.pending = true
	locale := p.locale
	p.mu.Unlock()

	p.schedule(q, locale)
}

// SetLocale switches the result language and reruns the current query.
func (p *Panel) SetLocale(l i18n.Locale) {
	p.mu.Lock()
	p.locale = l
	q := p.query
	p.pending = true
	p.mu.Unlock()

	p.schedule(q, l)
}

func (p *Panel) schedule(q string, l i18n.Locale) {
	p.debouncer.Debounce(func() {
		results := p.searcher.Search(q, l)

		p.mu.Lock()
		if p.query != q || p.locale != l {
			p.mu.Unlock()
			return
		}
		p.results = results
		p.pending = false
		if p.selected > len(results)-1 {
			p.selected = len(results) - 1
		}
		snap := p.snapshotLocked()
		p.mu.Unlock()

		if p.opts.OnChange != nil {
			p.opts.OnChange(snap)
		}
	})
}

// KeyDown handles a navigation key and reports whether it was consumed.
// Keys are ignored while the panel is closed.
func (p *Panel) KeyDown(k Key) bool {
	p.mu.Lock()
	if !p.open {
		p.mu.Unlock()
		return false
	}
	switch k {
	case KeyArrowDown:
		if p.selected < len(p.results)-1 {
			p.selected++
		}
		p.mu.Unlock()
		return true
	case KeyArrowUp:
		if p.selected > -1 {
			p.selected--
		}
		p.mu.Unlock()
		return true
	case KeyEnter:
		if p.selected < 0 || p.selected >= len(p.results) {
			p.mu.Unlock()
			return true
		}
		result := p.results[p.selected]
		p.mu.Unlock()
		p.activate(result)
		return true
	case KeyEscape:
		p.mu.Unlock()
		p.Close()
		return true
	}
	p.mu.Unlock()
	return false
}

// Activate selects the result at index i, as when it is clicked.
func (p *Panel) Activate(i int) bool {
	p.mu.Lock()
	if i < 0 || i >= len(p.results) {
		p.mu.Unlock()
		return false
	}
	result := p.results[i]
	p.mu.Unlock()
	p.activate(result)
	return true
}

func (p *Panel) activate(r model.SearchResult) {
	if p.opts.Navigate != nil {
		p.opts.Navigate(r.URL)
	}
	p.Close()
	if p.opts.OnResultClick != nil {
		p.opts.OnResultClick()
	}
}

// ClickOutside closes the panel when a click lands outside it.
func (p *Panel) ClickOutside() {
	p.Close()
}

// Close hides the panel, clears the query, results and cursor, and drops
// any pending search.
func (p *Panel) Close() {
	p.debouncer.Cancel()

	p.mu.Lock()
	p.open = false
	p.focused = false
	p.query = ""
	p.results = nil
	p.selected = -1
	p.pending = false
	p.mu.Unlock()
}

// Snapshot returns the current state.
func (p *Panel) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

func (p *Panel) snapshotLocked() Snapshot {
	return Snapshot{
		State:    p.stateLocked(),
		Open:     p.open,
		Focused:  p.focused,
		Query:    p.query,
		Results:  append([]model.SearchResult(nil), p.results...),
		Selected: p.selected,
		Locale:   p.locale,
	}
}

func (p *Panel) stateLocked() State {
	switch {
	case !p.open:
		return StateClosed
	case p.query == "":
		return StateEmpty
	case p.pending:
		return StateQuerying
	case len(p.results) > 0:
		return StateResults
	default:
		return StateNoResults
	}
}
