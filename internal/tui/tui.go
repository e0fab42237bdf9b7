// Package tui is a terminal front end for the site search box. It drives a
// search.Panel with the same keys the browser widget uses.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/FReptar0/EvoSystems/internal/i18n"
	"github.com/FReptar0/EvoSystems/internal/model"
	"github.com/FReptar0/EvoSystems/internal/search"
)

const updateBuffer = 16

// changedMsg carries the panel state after a debounced search ran.
type changedMsg search.Snapshot

// Options configure a Model.
type Options struct {
	Locale   i18n.Locale
	Query    string
	Debounce time.Duration
}

// Model is the bubbletea model of the search screen.
type Model struct {
	panel   *search.Panel
	catalog *i18n.Catalog
	input   textinput.Model
	styles  styles
	updates chan search.Snapshot

	snap   search.Snapshot
	chosen string
	width  int
}

// New creates a model with the panel open and the input focused. A
// non-empty opts.Query is typed in right away.
func New(searcher search.Searcher, catalog *i18n.Catalog, opts Options) *Model {
	m := &Model{
		catalog: catalog,
		styles:  defaultStyles(),
		updates: make(chan search.Snapshot, updateBuffer),
	}
	m.panel = search.NewPanel(searcher, search.PanelOptions{
		Locale:   opts.Locale,
		Debounce: opts.Debounce,
		Navigate: func(url string) { m.chosen = url },
		OnChange: func(s search.Snapshot) {
			select {
			case m.updates <- s:
			default:
			}
		},
	})

	m.input = textinput.New()
	m.input.CharLimit = 100
	m.input.Width = 50
	m.input.Prompt = "› "
	m.open()
	if opts.Query != "" {
		m.input.SetValue(opts.Query)
		m.panel.SetQuery(opts.Query)
	}
	m.refresh()
	return m
}

// Chosen is the URL of the activated result, empty if none was picked.
func (m *Model) Chosen() string {
	return m.chosen
}

func (m *Model) translations() *i18n.Translations {
	return m.catalog.For(m.snap.Locale)
}

func (m *Model) open() {
	m.panel.Open()
	m.input.Placeholder = m.catalog.For(m.panel.Snapshot().Locale).Search.Placeholder
	m.input.Focus()
}

func (m *Model) refresh() {
	m.snap = m.panel.Snapshot()
}

// waitForChange blocks until the panel reports a finished search.
func (m *Model) waitForChange() tea.Cmd {
	return func() tea.Msg {
		return changedMsg(<-m.updates)
	}
}

// Init starts listening for search results.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForChange())
}

// Update handles keys and search results.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case changedMsg:
		m.refresh()
		return m, m.waitForChange()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+k":
			if !m.panel.Shortcut(false) {
				return m, nil
			}
			m.open()
			m.refresh()
			return m, nil
		case "up":
			m.panel.KeyDown(search.KeyArrowUp)
			m.refresh()
			return m, nil
		case "down":
			m.panel.KeyDown(search.KeyArrowDown)
			m.refresh()
			return m, nil
		case "enter":
			m.panel.KeyDown(search.KeyEnter)
			m.refresh()
			if m.chosen != "" {
				return m, tea.Quit
			}
			return m, nil
		case "esc":
			if !m.snap.Open {
				return m, tea.Quit
			}
			m.panel.KeyDown(search.KeyEscape)
			m.input.Reset()
			m.input.Blur()
			m.refresh()
			return m, nil
		case "tab":
			m.panel.SetLocale(i18n.Opposite(m.snap.Locale))
			m.refresh()
			m.input.Placeholder = m.translations().Search.Placeholder
			return m, nil
		}

		if !m.snap.Open {
			return m, nil
		}
		before := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if v := m.input.Value(); v != before {
			m.panel.SetQuery(v)
		}
		m.refresh()
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the input and the panel body for the current state.
func (m *Model) View() string {
	t := m.translations()
	var b strings.Builder

	b.WriteString(m.styles.title.Render(t.Search.Label))
	b.WriteString(m.styles.dim.Render("  [" + m.snap.Locale.String() + "]"))
	b.WriteString("\n\n")

	switch m.snap.State {
	case search.StateClosed:
		b.WriteString(m.styles.dim.Render(t.Search.Shortcut + " ctrl+k"))
		b.WriteString("\n")
	case search.StateEmpty:
		b.WriteString(m.input.View() + "\n\n")
		b.WriteString(m.styles.heading.Render(t.Search.HintTitle) + "\n")
		b.WriteString(m.styles.dim.Render(t.Search.HintBody) + "\n")
	case search.StateQuerying:
		b.WriteString(m.input.View() + "\n\n")
		b.WriteString(m.styles.dim.Render("…") + "\n")
	case search.StateNoResults:
		b.WriteString(m.input.View() + "\n\n")
		b.WriteString(m.styles.heading.Render(t.Search.NoResults) + "\n")
		b.WriteString(m.styles.dim.Render(t.Search.NoResultsHint) + "\n")
	case search.StateResults:
		b.WriteString(m.input.View() + "\n\n")
		b.WriteString(m.styles.dim.Render(t.Search.ResultsLabel) + "\n")
		for i, r := range m.snap.Results {
			b.WriteString(m.renderResult(r, i == m.snap.Selected))
		}
	}

	b.WriteString("\n")
	b.WriteString(m.styles.help.Render("↑/↓ · enter · esc · tab " + i18n.Opposite(m.snap.Locale).String()))
	return b.String()
}

func (m *Model) renderResult(r model.SearchResult, selected bool) string {
	cursor := "  "
	title := m.styles.item.Render(r.Title)
	if selected {
		cursor = m.styles.cursor.Render("> ")
		title = m.styles.selected.Render(r.Title)
	}
	tag := string(r.Type)
	if r.Category != "" {
		tag = r.Category
	}
	line := fmt.Sprintf("%s%s %s\n", cursor, title, m.styles.tag.Render(tag))
	if r.Description != "" {
		line += "    " + m.styles.dim.Render(truncate(r.Description, 72)) + "\n"
	}
	line += "    " + m.styles.url.Render(r.URL) + "\n"
	return line
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

type styles struct {
	title    lipgloss.Style
	heading  lipgloss.Style
	dim      lipgloss.Style
	item     lipgloss.Style
	selected lipgloss.Style
	cursor   lipgloss.Style
	tag      lipgloss.Style
	url      lipgloss.Style
	help     lipgloss.Style
}

func defaultStyles() styles {
	accent := lipgloss.Color("#2563EB")
	muted := lipgloss.Color("#6B7280")
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(accent),
		heading:  lipgloss.NewStyle().Bold(true),
		dim:      lipgloss.NewStyle().Foreground(muted),
		item:     lipgloss.NewStyle(),
		selected: lipgloss.NewStyle().Bold(true).Foreground(accent),
		cursor:   lipgloss.NewStyle().Foreground(accent),
		tag:      lipgloss.NewStyle().Foreground(lipgloss.Color("#059669")),
		url:      lipgloss.NewStyle().Foreground(muted).Italic(true),
		help:     lipgloss.NewStyle().Foreground(muted),
	}
}

// Run shows the model until the user quits and returns the chosen URL.
func Run(m *Model, opts ...tea.ProgramOption) (string, error) {
	if _, err := tea.NewProgram(m, opts...).Run(); err != nil {
		return "", fmt.Errorf("search ui: %w", err)
	}
	return m.Chosen(), nil
}
