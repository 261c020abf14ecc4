package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"golang.org/x/term"

	"github.com/triblespace/anybytes"
	"github.com/triblespace/anybytes/area"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	digestStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// maxDump caps the hex view so huge sections stay scrollable.
const maxDump = 64 << 10

type viewState int

const (
	stateListSections viewState = iota
	stateHexDump
)

type areaModel struct {
	err        error
	filename   string
	layoutPath string
	whole      anybytes.Bytes
	rows       []sectionRow
	selected   int
	state      viewState
	vp         viewport.Model
	width      int
	height     int
}

type sectionRow struct {
	desc   area.SectionDescriptor
	digest uint64
}

type loadedMsg struct {
	err   error
	whole anybytes.Bytes
	rows  []sectionRow
}

func newAreaModel(filename, layoutPath string) *areaModel {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	return &areaModel{
		filename:   filename,
		layoutPath: layoutPath,
		width:      width,
		height:     height,
		vp:         viewport.New(width, height-4),
	}
}

func (m *areaModel) Init() tea.Cmd {
	return m.loadArea
}

func (m *areaModel) loadArea() tea.Msg {
	descs, err := area.ReadLayout(m.layoutPath)
	if err != nil {
		return loadedMsg{err: err}
	}

	whole, err := area.Open(m.filename)
	if err != nil {
		return loadedMsg{err: err}
	}

	rows := make([]sectionRow, 0, len(descs))
	for _, d := range descs {
		sub, err := d.Slice(&whole)
		if err != nil {
			whole.Release()
			return loadedMsg{err: err}
		}
		rows = append(rows, sectionRow{desc: d, digest: sub.Sum64()})
		sub.Release()
	}

	return loadedMsg{whole: whole, rows: rows}
}

func (m *areaModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.vp.Width = msg.Width
		m.vp.Height = msg.Height - 4

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.whole.Release()
			return m, tea.Quit

		case "up", "k":
			if m.state == stateListSections && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateListSections && m.selected < len(m.rows)-1 {
				m.selected++
			}

		case "enter":
			if m.state == stateListSections && len(m.rows) > 0 {
				if err := m.prepareDump(); err != nil {
					m.err = err
					return m, nil
				}
				m.state = stateHexDump
			}

		case "esc":
			if m.state == stateHexDump {
				m.state = stateListSections
			}
		}

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.whole = msg.whole
		m.rows = msg.rows
	}

	if m.state == stateHexDump {
		var cmd tea.Cmd
		m.vp, cmd = m.vp.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *areaModel) prepareDump() error {
	row := m.rows[m.selected]
	sub, err := row.desc.Slice(&m.whole)
	if err != nil {
		return err
	}
	defer sub.Release()

	data := sub.Data()
	truncated := false
	if len(data) > maxDump {
		data = data[:maxDump]
		truncated = true
	}

	var b strings.Builder
	b.WriteString(hex.Dump(data))
	if truncated {
		b.WriteString(fmt.Sprintf("... %s more\n", humanize.IBytes(uint64(int(row.desc.Length)-maxDump))))
	}
	m.vp.SetContent(b.String())
	m.vp.GotoTop()
	return nil
}

func (m *areaModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	if m.rows == nil {
		return "Loading area..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Area Viewer"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString(fmt.Sprintf("  %s, %d sections\n\n",
		humanize.IBytes(uint64(m.whole.Len())), len(m.rows)))

	switch m.state {
	case stateListSections:
		for i, row := range m.rows {
			line := m.formatRow(i, row)
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter dump • q quit"))

	case stateHexDump:
		row := m.rows[m.selected]
		b.WriteString(fmt.Sprintf("Section %d  %s  %s\n",
			m.selected, typeStyle.Render(row.desc.Type),
			digestStyle.Render(fmt.Sprintf("%016x", row.digest))))
		b.WriteString(m.vp.View())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ scroll • esc back • q quit"))
	}

	return b.String()
}

func (m *areaModel) formatRow(i int, row sectionRow) string {
	return fmt.Sprintf("[%d] offset %-8d %-10s %s %s",
		i, row.desc.Offset,
		humanize.IBytes(uint64(row.desc.Length)),
		typeStyle.Render(fmt.Sprintf("%-16s", row.desc.Type)),
		digestStyle.Render(fmt.Sprintf("%016x", row.digest)))
}

func runInteractive(file, layoutPath string) error {
	p := tea.NewProgram(newAreaModel(file, layoutPath), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
