package search

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FReptar0/EvoSystems/internal/i18n"
	"github.com/FReptar0/EvoSystems/internal/model"
)

const testDebounce = 30 * time.Millisecond

type countingSearcher struct {
	calls int32
	mu    sync.Mutex
	last  string
	inner Searcher
}

func (c *countingSearcher) Search(q string, l i18n.Locale) []model.SearchResult {
	atomic.AddInt32(&c.calls, 1)
	c.mu.Lock()
	c.last = q
	c.mu.Unlock()
	return c.inner.Search(q, l)
}

func (c *countingSearcher) lastQuery() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

func newTestPanel(t *testing.T, opts PanelOptions) (*Panel, *countingSearcher) {
	t.Helper()
	s := &countingSearcher{inner: NewMatcher(catalog(t), fixturePosts(), Options{})}
	if opts.Debounce == 0 {
		opts.Debounce = testDebounce
	}
	return NewPanel(s, opts), s
}

func waitState(t *testing.T, p *Panel, want State) Snapshot {
	t.Helper()
	require.Eventually(t, func() bool {
		return p.Snapshot().State == want
	}, time.Second, 5*time.Millisecond)
	return p.Snapshot()
}

func TestPanel_StartsClosed(t *testing.T) {
	p, _ := newTestPanel(t, PanelOptions{})

	snap := p.Snapshot()
	assert.Equal(t, StateClosed, snap.State)
	assert.Equal(t, -1, snap.Selected)
	assert.Equal(t, i18n.Spanish, snap.Locale)
}

func TestPanel_OpenShowsHint(t *testing.T) {
	p, _ := newTestPanel(t, PanelOptions{})

	p.Open()
	assert.Equal(t, StateEmpty, p.Snapshot().State)
	assert.True(t, p.Snapshot().Focused)
}

func TestPanel_QueryingThenResults(t *testing.T) {
	p, s := newTestPanel(t, PanelOptions{})

	p.Open()
	p.SetQuery("erp")
	assert.Equal(t, StateQuerying, p.Snapshot().State)

	snap := waitState(t, p, StateResults)
	assert.NotEmpty(t, snap.Results)
	assert.Equal(t, int32(1), atomic.LoadInt32(&s.calls))
}

func TestPanel_NoResults(t *testing.T) {
	p, _ := newTestPanel(t, PanelOptions{})

	p.SetQuery("xyzxyz-no-match")
	snap := waitState(t, p, StateNoResults)
	assert.Empty(t, snap.Results)
}

func TestPanel_DebounceRunsOnceWithFinalQuery(t *testing.T) {
	p, s := newTestPanel(t, PanelOptions{})

	for _, q := range []string{"e", "er", "erp"} {
		p.SetQuery(q)
		time.Sleep(5 * time.Millisecond)
	}
	waitState(t, p, StateResults)
	time.Sleep(2 * testDebounce)

	assert.Equal(t, int32(1), atomic.LoadInt32(&s.calls))
	assert.Equal(t, "erp", s.lastQuery())
}

func TestPanel_OnChangeReceivesResults(t *testing.T) {
	got := make(chan Snapshot, 1)
	p, _ := newTestPanel(t, PanelOptions{OnChange: func(s Snapshot) { got <- s }})

	p.SetQuery("odoo")
	select {
	case snap := <-got:
		assert.Equal(t, "odoo", snap.Query)
		assert.Equal(t, StateResults, snap.State)
	case <-time.After(time.Second):
		t.Fatal("OnChange not called")
	}
}

func TestPanel_ArrowKeysClampCursor(t *testing.T) {
	p, _ := newTestPanel(t, PanelOptions{})

	p.SetQuery("erp")
	snap := waitState(t, p, StateResults)
	n := len(snap.Results)

	assert.True(t, p.KeyDown(KeyArrowUp))
	assert.Equal(t, -1, p.Snapshot().Selected)

	for i := 0; i < n+3; i++ {
		p.KeyDown(KeyArrowDown)
	}
	assert.Equal(t, n-1, p.Snapshot().Selected)

	for i := 0; i < n+3; i++ {
		p.KeyDown(KeyArrowUp)
	}
	assert.Equal(t, -1, p.Snapshot().Selected)
}

func TestPanel_ArrowDownWithoutResults(t *testing.T) {
	p, _ := newTestPanel(t, PanelOptions{})

	p.Open()
	p.KeyDown(KeyArrowDown)
	assert.Equal(t, -1, p.Snapshot().Selected)
}

func TestPanel_EnterWithoutSelectionIsNoop(t *testing.T) {
	var navigated int32
	p, _ := newTestPanel(t, PanelOptions{Navigate: func(string) { atomic.AddInt32(&navigated, 1) }})

	p.SetQuery("erp")
	waitState(t, p, StateResults)

	assert.True(t, p.KeyDown(KeyEnter))
	assert.Zero(t, atomic.LoadInt32(&navigated))
	assert.Equal(t, StateResults, p.Snapshot().State)
}

func TestPanel_EnterActivatesSelected(t *testing.T) {
	var url string
	var clicked bool
	p, _ := newTestPanel(t, PanelOptions{
		Navigate:      func(u string) { url = u },
		OnResultClick: func() { clicked = true },
	})

	p.SetQuery("erp")
	snap := waitState(t, p, StateResults)

	p.KeyDown(KeyArrowDown)
	p.KeyDown(KeyEnter)

	assert.Equal(t, snap.Results[0].URL, url)
	assert.True(t, clicked)
	after := p.Snapshot()
	assert.Equal(t, StateClosed, after.State)
	assert.Empty(t, after.Query)
	assert.Empty(t, after.Results)
	assert.Equal(t, -1, after.Selected)
}

func TestPanel_ActivateByIndex(t *testing.T) {
	var url string
	p, _ := newTestPanel(t, PanelOptions{Navigate: func(u string) { url = u }})

	p.SetQuery("erp")
	snap := waitState(t, p, StateResults)

	assert.False(t, p.Activate(len(snap.Results)))
	assert.True(t, p.Activate(1))
	assert.Equal(t, snap.Results[1].URL, url)
	assert.Equal(t, StateClosed, p.Snapshot().State)
}

func TestPanel_EscapeClearsEverything(t *testing.T) {
	p, _ := newTestPanel(t, PanelOptions{})

	p.SetQuery("erp")
	waitState(t, p, StateResults)
	p.KeyDown(KeyArrowDown)

	assert.True(t, p.KeyDown(KeyEscape))
	snap := p.Snapshot()
	assert.Equal(t, StateClosed, snap.State)
	assert.Empty(t, snap.Query)
	assert.Empty(t, snap.Results)
	assert.Equal(t, -1, snap.Selected)
}

func TestPanel_CloseDropsPendingSearch(t *testing.T) {
	p, s := newTestPanel(t, PanelOptions{})

	p.SetQuery("erp")
	p.ClickOutside()
	time.Sleep(3 * testDebounce)

	assert.Zero(t, atomic.LoadInt32(&s.calls))
	assert.Equal(t, StateClosed, p.Snapshot().State)
}

func TestPanel_KeysIgnoredWhenClosed(t *testing.T) {
	p, _ := newTestPanel(t, PanelOptions{})

	assert.False(t, p.KeyDown(KeyArrowDown))
	assert.False(t, p.KeyDown(KeyEscape))
}

func TestPanel_Shortcut(t *testing.T) {
	guarded, _ := newTestPanel(t, PanelOptions{GuardFocusedInputs: true})
	assert.False(t, guarded.Shortcut(true))
	assert.Equal(t, StateClosed, guarded.Snapshot().State)
	assert.True(t, guarded.Shortcut(false))
	assert.Equal(t, StateEmpty, guarded.Snapshot().State)

	unguarded, _ := newTestPanel(t, PanelOptions{})
	assert.True(t, unguarded.Shortcut(true))
	assert.True(t, unguarded.Snapshot().Focused)
}

func TestPanel_SetLocaleReruns(t *testing.T) {
	p, _ := newTestPanel(t, PanelOptions{})

	p.SetQuery("odoo")
	waitState(t, p, StateResults)

	p.SetLocale(i18n.English)
	require.Eventually(t, func() bool {
		snap := p.Snapshot()
		return snap.State == StateResults && snap.Results[0].URL == "/en/services#erp-systems"
	}, time.Second, 5*time.Millisecond)
}
