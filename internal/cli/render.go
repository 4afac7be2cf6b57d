package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/raphaelgruber/erdscan/internal/graph"
	"github.com/raphaelgruber/erdscan/internal/models"
)

// renderRanking formats ranked entities. Plain output is one
// "name - second_importance" line per entity.
func renderRanking(entities []models.Entity, plain bool) string {
	if plain {
		var b strings.Builder
		for _, e := range entities {
			fmt.Fprintf(&b, "%s - %d\n", e.Name, e.SecondImportance)
		}
		return b.String()
	}

	rows := make([][]string, 0, len(entities))
	for i, e := range entities {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			e.Name,
			e.ID,
			strconv.Itoa(e.Importance),
			strconv.Itoa(e.SecondImportance),
			strconv.Itoa(len(e.LinkedEntities)),
		})
	}
	return styledTable([]string{"#", "NAME", "ID", "IMPORTANCE", "SECOND", "LINKS"}, rows, 1) + "\n"
}

// renderReach formats k-hop reach rows.
func renderReach(reach []graph.Reach, hops int, plain bool) string {
	if plain {
		var b strings.Builder
		for _, r := range reach {
			fmt.Fprintf(&b, "%s - %d reachable, %d paths\n", r.Name, r.Reachable, r.Paths)
		}
		return b.String()
	}

	rows := make([][]string, 0, len(reach))
	for i, r := range reach {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			r.Name,
			r.ID,
			strconv.Itoa(r.Reachable),
			strconv.Itoa(r.Paths),
		})
	}
	headers := []string{"#", "NAME", "ID", fmt.Sprintf("REACH@%d", hops), "PATHS"}
	return styledTable(headers, rows, 1) + "\n"
}

// styledTable renders rows with a colored header; nameCol is highlighted.
func styledTable(headers []string, rows [][]string, nameCol int) string {
	header := defaultTheme.headerStyle().Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	name := cell.Foreground(defaultTheme.Status)
	number := cell.Align(lipgloss.Right)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(defaultTheme.Hint)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return header
			case col == nameCol:
				return name
			case col == nameCol+1:
				return cell
			default:
				return number
			}
		})
	return t.Render()
}
