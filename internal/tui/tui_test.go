package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FReptar0/EvoSystems/internal/i18n"
	"github.com/FReptar0/EvoSystems/internal/model"
	"github.com/FReptar0/EvoSystems/internal/search"
)

type fakeSearcher struct{}

func (fakeSearcher) Search(q string, l i18n.Locale) []model.SearchResult {
	if !strings.Contains("erp", strings.ToLower(q)) {
		return nil
	}
	return []model.SearchResult{
		{Type: model.TypeService, Title: "Sistemas ERP", URL: i18n.LocalizePath("/services#erp-systems", l)},
		{Type: model.TypeBlog, Title: "Guía ERP", Category: "ERP", URL: i18n.LocalizePath("/blog/guia-erp", l)},
	}
}

func newTestModel(t *testing.T, opts Options) *Model {
	t.Helper()
	catalog, err := i18n.LoadCatalog()
	require.NoError(t, err)
	if opts.Debounce == 0 {
		opts.Debounce = 20 * time.Millisecond
	}
	return New(fakeSearcher{}, catalog, opts)
}

func typeText(m *Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// settle waits for the debounced search and feeds its result back in.
func settle(t *testing.T, m *Model) {
	t.Helper()
	select {
	case snap := <-m.updates:
		m.Update(changedMsg(snap))
	case <-time.After(time.Second):
		t.Fatal("search did not run")
	}
}

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func TestNew_OpensWithHint(t *testing.T) {
	m := newTestModel(t, Options{})

	assert.Equal(t, search.StateEmpty, m.snap.State)
	assert.Equal(t, i18n.Spanish, m.snap.Locale)
	assert.Contains(t, m.View(), "Busca en nuestro sitio")
}

func TestTyping_ShowsResults(t *testing.T) {
	m := newTestModel(t, Options{})

	typeText(m, "erp")
	assert.Equal(t, search.StateQuerying, m.snap.State)

	settle(t, m)
	assert.Equal(t, search.StateResults, m.snap.State)
	require.Len(t, m.snap.Results, 2)
	assert.Contains(t, m.View(), "Guía ERP")
}

func TestTyping_NoResults(t *testing.T) {
	m := newTestModel(t, Options{})

	typeText(m, "zz")
	settle(t, m)
	assert.Equal(t, search.StateNoResults, m.snap.State)
	assert.Contains(t, m.View(), "No se encontraron resultados.")
}

func TestInitialQuery(t *testing.T) {
	m := newTestModel(t, Options{Query: "erp", Locale: i18n.English})

	assert.Equal(t, "erp", m.input.Value())
	settle(t, m)
	assert.Equal(t, "/en/blog/guia-erp", m.snap.Results[1].URL)
}

func TestArrowsAndEnter(t *testing.T) {
	m := newTestModel(t, Options{Query: "erp"})
	settle(t, m)

	m.Update(key(tea.KeyDown))
	m.Update(key(tea.KeyDown))
	m.Update(key(tea.KeyDown))
	assert.Equal(t, 1, m.snap.Selected)
	assert.Contains(t, m.View(), "> ")

	m.Update(key(tea.KeyUp))
	assert.Equal(t, 0, m.snap.Selected)

	_, cmd := m.Update(key(tea.KeyEnter))
	assert.Equal(t, "/services#erp-systems", m.Chosen())
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Equal(t, search.StateClosed, m.snap.State)
}

func TestEnterWithoutSelection(t *testing.T) {
	m := newTestModel(t, Options{Query: "erp"})
	settle(t, m)

	_, cmd := m.Update(key(tea.KeyEnter))
	assert.Nil(t, cmd)
	assert.Empty(t, m.Chosen())
	assert.Equal(t, search.StateResults, m.snap.State)
}

func TestEscapeClosesThenQuits(t *testing.T) {
	m := newTestModel(t, Options{Query: "erp"})
	settle(t, m)

	_, cmd := m.Update(key(tea.KeyEsc))
	assert.Nil(t, cmd)
	assert.Equal(t, search.StateClosed, m.snap.State)
	assert.Empty(t, m.input.Value())
	assert.Contains(t, m.View(), "ctrl+k")

	// typing while closed is ignored
	typeText(m, "x")
	assert.Equal(t, search.StateClosed, m.snap.State)

	m.Update(key(tea.KeyCtrlK))
	assert.Equal(t, search.StateEmpty, m.snap.State)

	m.Update(key(tea.KeyEsc))
	_, cmd = m.Update(key(tea.KeyEsc))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestTabSwitchesLocale(t *testing.T) {
	m := newTestModel(t, Options{Query: "erp"})
	settle(t, m)

	m.Update(key(tea.KeyTab))
	assert.Equal(t, i18n.English, m.snap.Locale)
	settle(t, m)
	assert.Equal(t, "/en/blog/guia-erp", m.snap.Results[1].URL)
	assert.Contains(t, m.View(), "Search site")
}
