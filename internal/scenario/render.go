package scenario

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// Render prints the treasuries, the foreign power table and the active
// agreements of r.
func Render(w io.Writer, r Result) error {
	civs := newTable("Civ", "Name", "Empire", "Credits")
	for _, c := range r.Civs {
		civs.Row(strconv.Itoa(int(c.ID)), c.Name, strconv.FormatBool(c.IsEmpire), strconv.FormatInt(c.Credits, 10))
	}

	rels := newTable("Owner", "Counterparty", "Status", "Base", "Agreements")
	for _, rel := range r.Relations {
		rels.Row(rel.Owner, rel.Counterparty, rel.Status.String(), rel.Base.String(), strconv.Itoa(rel.Agreements))
	}

	agrs := newTable("Agreement", "Sender", "Recipient", "Clauses", "Start", "End")
	for _, a := range r.Agreements {
		kinds := make([]string, 0, len(a.Proposal.Clauses))
		for _, c := range a.Proposal.Clauses {
			kinds = append(kinds, string(c.Kind))
		}
		end := "-"
		if a.EndTurn != 0 {
			end = strconv.Itoa(a.EndTurn)
		}
		agrs.Row(a.ID, strconv.Itoa(int(a.Sender())), strconv.Itoa(int(a.Recipient())), strings.Join(kinds, ","), strconv.Itoa(a.StartTurn), end)
	}

	_, err := fmt.Fprintf(w, "Turn %d (%d events, %d resolutions)\n%s\n%s\n%s\n",
		r.Turn, len(r.Events), r.KPI.ResolutionTotal, civs.Render(), rels.Render(), agrs.Render())
	return err
}
