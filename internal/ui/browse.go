package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/corecanvas/canvas-cli/internal/chain"
	"github.com/corecanvas/canvas-cli/internal/gallery"
)

// browseModel is the bubbletea model for the interactive artwork browser.
type browseModel struct {
	title    string
	table    *Table
	artworks []*gallery.Artwork
	symbol   string // native currency symbol for prices
	cursor   int
}

func newBrowseModel(artworks []*gallery.Artwork, symbol string) browseModel {
	table := NewTable([]Column{
		{Title: "ID", Width: 5},
		{Title: "Title", Width: 24},
		{Title: "Artist", Width: 13},
		{Title: "Owner", Width: 13},
		{Title: "Price", Width: 14},
	})
	for _, a := range artworks {
		table.AddRow(Row{
			a.TokenID.String(),
			a.Name,
			TruncateAddr(a.Artist),
			TruncateAddr(a.Owner),
			strings.TrimRight(strings.TrimRight(chain.FormatWei(a.Price), "0"), ".") + " " + symbol,
		})
	}
	return browseModel{
		title:    StyleTitle.Render("Gallery"),
		table:    table,
		artworks: artworks,
		symbol:   symbol,
	}
}

func (m browseModel) Init() tea.Cmd { return nil }

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.artworks)-1 {
				m.cursor++
			}
		}
	}
	return m, nil
}

func (m browseModel) View() string {
	m.table.SelIdx = m.cursor

	var sb strings.Builder
	sb.WriteString(m.title)
	sb.WriteString("\n\n")
	sb.WriteString(m.table.Render())
	sb.WriteString("\n")

	if m.cursor < len(m.artworks) {
		a := m.artworks[m.cursor]
		sb.WriteString(KeyValueBlock(a.Name, [][2]string{
			{"Description", a.Description},
			{"Image", a.ImageURL},
			{"Artist", a.Artist},
			{"Owner", a.Owner},
		}))
		sb.WriteString("\n")
	}

	sb.WriteString(StyleMeta.Render("[ ↑↓ ] navigate   [ q ] quit"))
	sb.WriteString("\n")
	return sb.String()
}

// Browse runs the interactive artwork browser until the user quits.
func Browse(artworks []*gallery.Artwork, symbol string) error {
	p := tea.NewProgram(newBrowseModel(artworks, symbol))
	_, err := p.Run()
	return err
}
