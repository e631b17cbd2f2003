package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/wikilist/pkg/catalog"
	wlerrors "github.com/matzehuels/wikilist/pkg/errors"
	"github.com/matzehuels/wikilist/pkg/saves"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// PickerModel - Interactive selection of a list or save
// =============================================================================

// pickerItem is one selectable row. Columns are shown after the cursor.
type pickerItem struct {
	ID      string
	Columns []string
}

// PickerModel is the bubbletea model for choosing one item from a table.
type PickerModel struct {
	Title    string
	Headers  []string
	Items    []pickerItem
	Cursor   int
	Selected *pickerItem
	Height   int
	Offset   int
}

func newPickerModel(title string, headers []string, items []pickerItem) PickerModel {
	return PickerModel{Title: title, Headers: headers, Items: items, Height: 15}
}

// newListPicker offers the lists of cat.
func newListPicker(cat *catalog.Catalog) PickerModel {
	items := make([]pickerItem, len(cat.Lists))
	for i, l := range cat.Lists {
		items[i] = pickerItem{ID: l.Name, Columns: []string{l.Name, l.HeaderTitle(), "Category:" + l.Root}}
	}
	return newPickerModel("Select List", []string{"Name", "Title", "Root"}, items)
}

// newSavePicker offers the given saves.
func newSavePicker(infos []saves.Info) PickerModel {
	items := make([]pickerItem, len(infos))
	for i, s := range infos {
		items[i] = pickerItem{ID: s.ID, Columns: []string{s.Title, formatRelativeTime(s.UpdatedAt), s.ID}}
	}
	return newPickerModel("Select Save", []string{"Title", "Updated", "ID"}, items)
}

func (m PickerModel) Init() tea.Cmd {
	return nil
}

func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
		case "enter":
			if len(m.Items) == 0 {
				return m, tea.Quit
			}
			item := m.Items[m.Cursor]
			m.Selected = &item
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m PickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Items))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, append([]string{cursor}, m.Items[i].Columns...))
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(append([]string{""}, m.Headers...)...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Items))))

	return b.String()
}

// pick runs the picker and returns the chosen ID.
func pick(m PickerModel) (string, error) {
	if len(m.Items) == 0 {
		return "", wlerrors.New(wlerrors.ErrCodeNotFound, "nothing to select")
	}
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return "", fmt.Errorf("picker: %w", err)
	}
	if sel := final.(PickerModel).Selected; sel != nil {
		return sel.ID, nil
	}
	return "", wlerrors.New(wlerrors.ErrCodeInvalidInput, "no selection made")
}

// =============================================================================
// Helpers
// =============================================================================

func formatRelativeTime(t time.Time) string {
	diff := time.Since(t)
	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
