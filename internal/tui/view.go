package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/michaelscutari/dugout/internal/entry"
	"github.com/michaelscutari/dugout/internal/query"
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.err != nil && m.result == nil {
		return fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err)
	}

	if m.loading {
		return m.loadingView()
	}

	var b strings.Builder
	headerLines := 0

	writeLine := func(line string) {
		b.WriteString(line)
		b.WriteString("\n")
		headerLines++
	}

	// Header
	writeLine(titleStyle.Render("dugout - Disk Usage Browser"))

	scanInfo := fmt.Sprintf("Scan: %s | Size: %s | Files: %s | Errors: %s | Took: %s",
		m.result.ScannedAt.Format("2006-01-02 15:04"),
		FormatSize(m.result.TotalSize()),
		FormatCount(int64(len(m.result.Files))),
		FormatCount(m.result.Errors),
		m.result.Duration.Round(time.Millisecond),
	)
	writeLine(statsStyle.Render(scanInfo))

	// Breadcrumbs / path
	pathLabel := fmt.Sprintf("Path: %s", truncateMiddle(m.currentPath, max(10, m.width-6)))
	writeLine(breadcrumbStyle.Render(pathLabel))

	// Current directory stats
	dirInfo := ""
	if m.folder != nil {
		dirInfo = fmt.Sprintf("Size: %s | %s files | %s subdirs",
			FormatSize(m.folder.TotalSize),
			FormatCount(m.folder.FileCount),
			FormatCount(m.folder.DirCount),
		)
	}

	// Status line
	status := fmt.Sprintf("Items: %s", FormatCount(int64(len(m.entries))))
	if m.filter != "" {
		status += fmt.Sprintf(" | Filter: %q", m.filter)
	}
	if len(m.entries) > 0 && m.cursor < len(m.entries) {
		sel := m.entries[m.cursor]
		status += fmt.Sprintf(" | Sel: %s (%s)", sel.Name, FormatSize(sel.TotalSize))
	}
	if m.err != nil {
		status += fmt.Sprintf(" | Rescan failed: %v", m.err)
	}
	writeLine(statusStyle.Render(status))

	// Filter input
	if m.filterActive {
		filterLine := fmt.Sprintf("Filter: %s_", m.filter)
		writeLine(filterStyle.Render(filterLine))
	} else if m.filter != "" {
		filterLine := fmt.Sprintf("Filter: %s", m.filter)
		writeLine(filterStyle.Render(filterLine))
	}

	// Column headers with sort indicator
	sizeLabel := headerLabel("SIZE", m.sort == SortBySize, "v")
	filesLabel := headerLabel("FILES", m.sort == SortByFiles, "v")
	nameLabel := headerLabel("NAME", m.sort == SortByName, "^")

	// Calculate visible rows
	footerLines := 2
	if dirInfo != "" {
		footerLines = 3
	}
	visibleRows := m.height - headerLines - footerLines
	if visibleRows < 5 {
		visibleRows = 5
	}

	// Determine scroll offset
	startIdx := 0
	if m.cursor >= visibleRows {
		startIdx = m.cursor - visibleRows + 1
	}
	endIdx := min(len(m.entries), startIdx+visibleRows)

	widths := calcColumnWidths(m.entries, startIdx, endIdx, sizeLabel, filesLabel, "DIRS")
	nameWidth := calcNameWidth(m.width, widths)
	gap := strings.Repeat(" ", colGap)
	nameGap := strings.Repeat(" ", nameGapWidth)

	barLabel := barHeaderLabel(m.sort)
	nameLabel = truncateRight(nameLabel, nameWidth)
	namePad := nameWidth - len(nameLabel)
	if namePad < 0 {
		namePad = 0
	}
	header := fmt.Sprintf("%*s%s%*s%s%*s%s%s%s%s%*s",
		widths.size, sizeLabel,
		gap,
		widths.files, filesLabel,
		gap,
		widths.dirs, "DIRS",
		nameGap,
		nameLabel,
		strings.Repeat(" ", namePad),
		gap,
		barColWidth, barLabel,
	)
	writeLine(headerStyle.Render(header))

	// Entries
	for i := startIdx; i < endIdx; i++ {
		e := m.entries[i]
		line := m.formatEntry(e, i == m.cursor, widths, nameWidth)
		b.WriteString(line)
		b.WriteString("\n")
	}

	// Pad if needed
	displayedRows := min(len(m.entries)-startIdx, visibleRows)
	for i := displayedRows; i < visibleRows; i++ {
		b.WriteString("\n")
	}

	// Footer
	b.WriteString("\n")
	if dirInfo != "" {
		b.WriteString(statsStyle.Render(dirInfo))
		b.WriteString("\n")
	}
	help := m.helpLine()
	if len(m.entries) > 0 {
		help = fmt.Sprintf("%s [%d/%d]", help, m.cursor+1, len(m.entries))
	}
	b.WriteString(helpStyle.Render(help))

	return b.String()
}

type columnWidths struct {
	size  int
	files int
	dirs  int
}

const (
	colGap        = 2
	nameGapWidth  = 2
	minNameWidth  = 10
	barBlockWidth = 10                                        // number of block characters
	barPctWidth   = 4                                         // " 78%" or "100%"
	barGapWidth   = 1                                         // space between blocks and pct
	barColWidth   = barBlockWidth + barGapWidth + barPctWidth // 15
)

func calcColumnWidths(entries []query.DisplayEntry, startIdx, endIdx int, sizeLabel, filesLabel, dirsLabel string) columnWidths {
	w := columnWidths{
		size:  len(sizeLabel),
		files: len(filesLabel),
		dirs:  len(dirsLabel),
	}

	for i := startIdx; i < endIdx; i++ {
		e := entries[i]
		size := len(FormatSize(e.TotalSize))
		files := len(FormatCount(e.TotalFiles))
		dirs := len(FormatCount(e.TotalDirs))

		if size > w.size {
			w.size = size
		}
		if files > w.files {
			w.files = files
		}
		if dirs > w.dirs {
			w.dirs = dirs
		}
	}

	return w
}

func calcNameWidth(totalWidth int, w columnWidths) int {
	used := w.size + w.files + w.dirs + (colGap * 3) + nameGapWidth + barColWidth
	nameWidth := totalWidth - used
	if nameWidth < minNameWidth {
		nameWidth = minNameWidth
	}
	return nameWidth
}

func truncateRight(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

func (m *Model) formatEntry(e query.DisplayEntry, selected bool, widths columnWidths, nameWidth int) string {
	size := FormatSize(e.TotalSize)
	files := FormatCount(e.TotalFiles)
	dirs := FormatCount(e.TotalDirs)

	rawName := e.Name
	if e.Kind == entry.KindDir {
		rawName += "/"
	}
	rawName = truncateRight(rawName, nameWidth)
	styledName := fileStyle.Render(rawName)
	if e.Kind == entry.KindDir {
		styledName = dirStyle.Render(rawName)
	}

	// Pad name to fixed width so bar column aligns
	pad := nameWidth - len(rawName)
	if pad < 0 {
		pad = 0
	}
	paddedName := styledName + strings.Repeat(" ", pad)

	// Build bar
	entryVal, parentTotal := barValues(m.sort, e, m.folder)
	bar := formatBar(entryVal, parentTotal)

	gap := strings.Repeat(" ", colGap)
	nameGap := strings.Repeat(" ", nameGapWidth)
	line := fmt.Sprintf("%*s%s%*s%s%*s%s%s%s%s",
		widths.size, size,
		gap,
		widths.files, files,
		gap,
		widths.dirs, dirs,
		nameGap,
		paddedName,
		gap,
		bar,
	)

	if selected {
		return selectedStyle.Render(line)
	}
	return line
}

func barHeaderLabel(sort SortColumn) string {
	switch sort {
	case SortByFiles:
		return "FILE%"
	default:
		return "SIZE%"
	}
}

func barValues(sort SortColumn, e query.DisplayEntry, parent *entry.FolderAggregate) (int64, int64) {
	if parent == nil {
		return 0, 0
	}
	if sort == SortByFiles {
		return e.TotalFiles, parent.FileCount
	}
	return e.TotalSize, parent.TotalSize
}

func formatBar(entryVal, parentTotal int64) string {
	if parentTotal <= 0 || entryVal <= 0 {
		empty := strings.Repeat("░", barBlockWidth)
		return barEmptyStyle.Render(empty) + fmt.Sprintf("  %3d%%", 0)
	}

	pct := float64(entryVal) / float64(parentTotal) * 100
	if pct > 100 {
		pct = 100
	}

	filled := int(math.Round(pct / 100 * float64(barBlockWidth)))
	if filled < 1 && entryVal > 0 {
		filled = 1
	}
	if filled > barBlockWidth {
		filled = barBlockWidth
	}

	filledStr := barFilledStyle.Render(strings.Repeat("█", filled))
	emptyStr := barEmptyStyle.Render(strings.Repeat("░", barBlockWidth-filled))
	return filledStr + emptyStr + fmt.Sprintf("  %3d%%", int(math.Round(pct)))
}

func headerLabel(label string, active bool, dir string) string {
	if active {
		return label + dir
	}
	return label
}

func truncateMiddle(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	head := (maxLen - 3) / 2
	tail := maxLen - 3 - head
	return s[:head] + "..." + s[len(s)-tail:]
}

func (m *Model) loadingView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("dugout - Disk Usage Browser"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s Scanning %s\n\n", m.spinner.View(), m.drive)
	b.WriteString(statsStyle.Render(fmt.Sprintf("Files: %s | Dirs: %s | Size: %s | Errors: %s",
		FormatCount(m.progress.Files),
		FormatCount(m.progress.Dirs),
		FormatSize(m.progress.TotalBytes),
		FormatCount(m.progress.Errors),
	)))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("q: quit"))
	return b.String()
}
