package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/tagcloud/pkg/words"
)

var (
	listMarkedStyle = lipgloss.NewStyle().Foreground(colorRed).Strikethrough(true)
	listCursorStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// WordPickModel - Interactive stop-word selection
// =============================================================================

// WordPickModel is the bubbletea model for picking stop words from a
// frequency list.
type WordPickModel struct {
	Freqs   []words.Frequency
	Cursor  int
	Offset  int
	Height  int
	Marked  map[int]bool
	Done    bool
	Aborted bool
}

// NewWordPickModel creates a picker over freqs.
func NewWordPickModel(freqs []words.Frequency) WordPickModel {
	return WordPickModel{
		Freqs:  freqs,
		Height: 15,
		Marked: make(map[int]bool),
	}
}

func (m WordPickModel) Init() tea.Cmd {
	return nil
}

func (m WordPickModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Aborted = true
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Freqs)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ", "x":
			m.Marked[m.Cursor] = !m.Marked[m.Cursor]
		case "enter":
			m.Done = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m WordPickModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Pick Stop Words"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ␣ toggle  ⏎ save  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Freqs))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		mark := " "
		if m.Marked[i] {
			mark = "✗"
		}
		f := m.Freqs[i]
		rows = append(rows, []string{cursor, mark, f.Word, strconv.Itoa(f.Count)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "", "Word", "Count").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			idx := m.Offset + row
			switch {
			case m.Marked[idx] && col == 2:
				return listMarkedStyle
			case idx == m.Cursor:
				return listCursorStyle
			case col == 3:
				return StyleNumber
			default:
				return lipgloss.NewStyle()
			}
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  %d marked", m.Cursor+1, len(m.Freqs), len(m.Picked()))))

	return b.String()
}

// Picked returns the marked words in list order.
func (m WordPickModel) Picked() []string {
	var out []string
	for i, f := range m.Freqs {
		if m.Marked[i] {
			out = append(out, f.Word)
		}
	}
	return out
}

// runPicker runs the picker on the terminal. It returns nil when the user
// aborts and an empty non-nil slice when nothing was marked.
func runPicker(ctx context.Context, freqs []words.Frequency) ([]string, error) {
	final, err := tea.NewProgram(NewWordPickModel(freqs), tea.WithContext(ctx)).Run()
	if err != nil {
		return nil, err
	}
	m := final.(WordPickModel)
	if m.Aborted || !m.Done {
		return nil, nil
	}
	if picked := m.Picked(); picked != nil {
		return picked, nil
	}
	return []string{}, nil
}
