package tui

import (
	"path/filepath"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/michaelscutari/dugout/internal/entry"
	"github.com/michaelscutari/dugout/internal/scan"
)

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ProgressMsg:
		m.progress = scan.Progress(msg)
		return m, nil

	case resultLoadedMsg:
		m.loading = false
		if msg.err != nil {
			// A failed rescan keeps the previous result browsable.
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.setResult(msg.result)
		return m, nil
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filterActive {
		switch msg.String() {
		case "enter":
			m.filterActive = false
			return m, nil

		case "esc":
			m.filterActive = false
			m.filter = ""
			m.applyFilter()
			return m, nil

		case "backspace":
			if len(m.filter) > 0 {
				runes := []rune(m.filter)
				m.filter = string(runes[:len(runes)-1])
				m.applyFilter()
			}
			return m, nil

		case "q", "ctrl+c":
			return m, tea.Quit
		}

		if msg.Type == tea.KeyRunes {
			m.filter += msg.String()
			m.applyFilter()
			return m, nil
		}

		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	}

	if m.loading || m.result == nil {
		return m, nil
	}

	switch msg.String() {
	case "r":
		m.loading = true
		m.progress = scan.Progress{}
		return m, tea.Batch(m.spinner.Tick, m.load(true))

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "j":
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
		return m, nil

	case "enter", "l", "right":
		if len(m.entries) > 0 && m.cursor < len(m.entries) {
			selected := m.entries[m.cursor]
			if selected.Kind == entry.KindDir {
				m.showDir(selected.Path)
			}
		}
		return m, nil

	case "backspace", "h", "left":
		if m.currentPath != m.result.Root {
			m.showDir(filepath.Dir(m.currentPath))
		}
		return m, nil

	case "s":
		m.sort = SortBySize
		m.showDir(m.currentPath)
		return m, nil

	case "n":
		m.sort = SortByName
		m.showDir(m.currentPath)
		return m, nil

	case "f":
		m.sort = SortByFiles
		m.showDir(m.currentPath)
		return m, nil

	case "/":
		m.filterActive = true
		return m, nil

	case "home", "g":
		m.cursor = 0
		return m, nil

	case "end", "G":
		if len(m.entries) > 0 {
			m.cursor = len(m.entries) - 1
		}
		return m, nil

	case "pgup":
		m.cursor -= 10
		if m.cursor < 0 {
			m.cursor = 0
		}
		return m, nil

	case "pgdown":
		m.cursor += 10
		if m.cursor >= len(m.entries) {
			m.cursor = len(m.entries) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		return m, nil
	}

	return m, nil
}
