package render

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/Parkreiner/namebingo"
)

var (
	normalCellStyle = lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Center)
	centerCellStyle = normalCellStyle.Bold(true).Reverse(true)
)

// Text renders card as a bordered table for terminals. Center cells are
// highlighted; everything else matches the HTML layout cell for cell.
func Text(card *bingo.Card) (string, error) {
	if err := card.CheckShape(); err != nil {
		return "", err
	}

	rows := card.Rows()
	data := make([][]string, len(rows))
	for i, row := range rows {
		data[i] = make([]string, len(row))
		for j, cell := range row {
			data[i][j] = cell.Value
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderRow(true).
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row >= 0 && row < len(rows) && col >= 0 && col < len(rows[row]) && rows[row][col].Kind == bingo.CellKindCenter {
				return centerCellStyle
			}
			return normalCellStyle
		})

	return t.String(), nil
}
