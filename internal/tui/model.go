package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/michaelscutari/dugout/internal/analyzer"
	"github.com/michaelscutari/dugout/internal/entry"
	"github.com/michaelscutari/dugout/internal/query"
	"github.com/michaelscutari/dugout/internal/scan"
)

// SortColumn represents the current sort field.
type SortColumn int

const (
	SortBySize SortColumn = iota
	SortByName
	SortByFiles
)

func (s SortColumn) String() string {
	switch s {
	case SortByName:
		return "name"
	case SortByFiles:
		return "files"
	default:
		return "size"
	}
}

const maxEntries = 1000

// ProgressMsg carries walk progress into the program. Send it from the
// engine's progress callback with tea.Program.Send.
type ProgressMsg scan.Progress

// Model holds the TUI state for browsing one drive.
type Model struct {
	ctx    context.Context
	engine *analyzer.Engine
	drive  string

	result       *entry.DriveScanResult
	index        *query.Index
	currentPath  string
	folder       *entry.FolderAggregate
	allEntries   []query.DisplayEntry
	entries      []query.DisplayEntry
	cursor       int
	sort         SortColumn
	width        int
	height       int
	filter       string
	filterActive bool

	loading  bool
	spinner  spinner.Model
	progress scan.Progress
	err      error
}

// NewModel creates a browser for drive. The walk starts on Init unless the
// engine already holds a cached result.
func NewModel(ctx context.Context, engine *analyzer.Engine, drive string) *Model {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinnerStyle))
	return &Model{
		ctx:     ctx,
		engine:  engine,
		drive:   drive,
		sort:    SortBySize,
		loading: true,
		spinner: sp,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load(false))
}

type resultLoadedMsg struct {
	result *entry.DriveScanResult
	err    error
}

func (m *Model) load(rescan bool) tea.Cmd {
	return func() tea.Msg {
		var (
			res *entry.DriveScanResult
			err error
		)
		if rescan {
			res, err = m.engine.Rescan(m.ctx, m.drive)
		} else {
			res, err = m.engine.Result(m.ctx, m.drive)
		}
		return resultLoadedMsg{result: res, err: err}
	}
}

// setResult installs res, staying in the current directory when it still
// exists.
func (m *Model) setResult(res *entry.DriveScanResult) {
	m.result = res
	m.index = query.NewIndex(res)
	if m.currentPath != "" && res.Folder(m.currentPath) != nil {
		m.showDir(m.currentPath)
		return
	}
	m.showDir(res.Root)
}

// showDir lists dir from the in-memory index.
func (m *Model) showDir(dir string) {
	m.currentPath = dir
	m.folder = m.result.Folder(dir)
	m.filter = ""
	m.filterActive = false
	m.setEntries(m.index.Children(dir, m.sort.String(), maxEntries))
}

func (m *Model) helpLine() string {
	if m.filterActive {
		return "Type to filter | Enter: apply | Esc: clear | q: quit"
	}
	return "↑/↓ move | Enter: open | Backspace: close | s/n/f: sort | /: filter | r: rescan | q: quit"
}

func (m *Model) setEntries(entries []query.DisplayEntry) {
	m.allEntries = entries
	m.applyFilter()
}

func (m *Model) applyFilter() {
	if m.filter == "" {
		m.entries = m.allEntries
	} else {
		filtered := make([]query.DisplayEntry, 0, len(m.allEntries))
		needle := strings.ToLower(m.filter)
		for _, e := range m.allEntries {
			if strings.Contains(strings.ToLower(e.Name), needle) {
				filtered = append(filtered, e)
			}
		}
		m.entries = filtered
	}
	m.cursor = 0
}
