package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pkoster/drawcell/pkg/mxml"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// CellListModel - Interactive cell browser
// =============================================================================

// CellListModel is the bubbletea model for browsing the cells of a diagram.
// The selected cell's full attributes are shown below the list.
type CellListModel struct {
	Title  string
	Cells  []mxml.CellInfo
	Cursor int
	Height int
	Offset int
}

// NewCellListModel creates a new cell browser model.
func NewCellListModel(title string, cells []mxml.CellInfo) CellListModel {
	return CellListModel{
		Title:  title,
		Cells:  cells,
		Cursor: 0,
		Height: 15,
		Offset: 0,
	}
}

func (m CellListModel) Init() tea.Cmd {
	return nil
}

func (m CellListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Cells)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 10
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m CellListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString(" " + StyleSuccess.Render(fmt.Sprintf("(%d cells)", len(m.Cells))))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	if len(m.Cells) == 0 {
		b.WriteString(listDimStyle.Render("(no cells)"))
		b.WriteString("\n")
		return b.String()
	}

	end := m.Offset + m.Height
	if end > len(m.Cells) {
		end = len(m.Cells)
	}

	for i := m.Offset; i < end; i++ {
		cell := m.Cells[i]

		cursor := "  "
		style := listNormalStyle
		if i == m.Cursor {
			cursor = "▸ "
			style = listSelectedStyle
		}

		kind := "other"
		switch {
		case cell.Vertex:
			kind = "shape"
		case cell.Edge:
			kind = "conn "
		}

		line := fmt.Sprintf("%s%-10s %-6s %s", cursor, cell.ID, kind, truncate(cell.Value, 40))
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.detailView())
	return b.String()
}

// detailView renders the selected cell's attributes.
func (m CellListModel) detailView() string {
	cell := m.Cells[m.Cursor]

	var b strings.Builder
	b.WriteString(listDimStyle.Render("id:      ") + StyleValue.Render(cell.ID) + "\n")
	if cell.Value != "" {
		b.WriteString(listDimStyle.Render("label:   ") + StyleValue.Render(truncate(cell.Value, 60)) + "\n")
	}
	if cell.Source != "" || cell.Target != "" {
		b.WriteString(listDimStyle.Render("link:    ") + StyleValue.Render(cell.Source+" "+iconArrow+" "+cell.Target) + "\n")
	}
	if cell.Style != "" {
		b.WriteString(listDimStyle.Render("style:   ") + StyleValue.Render(truncate(cell.Style, 60)) + "\n")
	}
	return b.String()
}
