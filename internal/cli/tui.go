package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/graphviewer/pkg/plain"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	detailStyle       = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(0, 1)
)

// =============================================================================
// ItemListModel - Interactive node and edge browser
// =============================================================================

// Item kinds.
const (
	kindNode = "node"
	kindEdge = "edge"
)

// browserItem is one row of the browser.
type browserItem struct {
	Kind   string
	ID     string
	Label  string
	Record plain.Record
}

// newBrowserItems lists the nodes then the edges of an exported graph.
func newBrowserItems(g plain.Graph) []browserItem {
	items := make([]browserItem, 0, len(g.Nodes)+len(g.Edges))
	for _, n := range g.Nodes {
		label := ""
		if labels := n.Strings(plain.KeyLabels); len(labels) > 0 {
			label = labels[0]
		}
		items = append(items, browserItem{Kind: kindNode, ID: n.ID(), Label: label, Record: n})
	}
	for _, e := range g.Edges {
		label := e.String(plain.KeySourceID) + " → " + e.String(plain.KeyTargetID)
		items = append(items, browserItem{Kind: kindEdge, ID: e.ID(), Label: label, Record: e})
	}
	return items
}

// ItemListModel is the bubbletea model for browsing the items of a loaded
// graph. The selected item's full record is shown beside the list.
type ItemListModel struct {
	Title  string
	Items  []browserItem
	Cursor int
	Height int
	Offset int
}

// NewItemListModel creates a browser over the items of g.
func NewItemListModel(title string, g plain.Graph) ItemListModel {
	return ItemListModel{
		Title:  title,
		Items:  newBrowserItems(g),
		Height: 15,
	}
}

func (m ItemListModel) Init() tea.Cmd {
	return nil
}

func (m ItemListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Items)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			if n := len(m.Items); n > 0 {
				m.Cursor = n - 1
				m.Offset = max(0, n-m.Height)
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m ItemListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	if len(m.Items) == 0 {
		b.WriteString(listDimStyle.Render("  (empty graph)"))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Items))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		it := m.Items[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, it.Kind, it.ID, it.Label})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Kind", "ID", "Label").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return lipgloss.NewStyle().Foreground(colorGray).Bold(true)
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			if col == 1 {
				return listDimStyle
			}
			return lipgloss.NewStyle()
		})

	detail := detailStyle.Render(formatRecord(m.Items[m.Cursor].Record))
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, t.Render(), " ", detail))
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Items))))

	return b.String()
}

// formatRecord renders a record as indented JSON.
func formatRecord(r plain.Record) string {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err.Error()
	}
	return string(data)
}
