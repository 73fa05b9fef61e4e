package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/MikeSquared-Agency/Endorse/internal/scoring"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C6C6C")).Italic(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#00D787")).Bold(true)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF005F")).Bold(true)

	tierStyles = map[scoring.Tier]lipgloss.Style{
		scoring.TierHighlyRecommended: lipgloss.NewStyle().Foreground(lipgloss.Color("#00D787")).Bold(true),
		scoring.TierRecommended:       lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAFD7")),
		scoring.TierFairlyRecommended: lipgloss.NewStyle().Foreground(lipgloss.Color("#D7AF5F")),
		scoring.TierNotRecommended:    lipgloss.NewStyle().Foreground(lipgloss.Color("#6C6C6C")),
	}
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(hintStyle).
		Headers(headers...)
}

func renderRanking(w io.Writer, r *scoring.Ranking, pareto bool) {
	headers := []string{"RANK", "INFLUENCER", "SCORE", "TIER"}
	if pareto {
		headers = append(headers, "PARETO")
	}
	t := newTable(headers...)
	for _, c := range r.Candidates {
		row := []string{
			strconv.Itoa(c.Rank),
			c.Name,
			fmt.Sprintf("%.4f", c.Score),
			tierStyles[c.Tier].Render(c.Tier.Label()),
		}
		if pareto {
			mark := ""
			if c.ParetoOptimal != nil && *c.ParetoOptimal {
				mark = "yes"
			}
			row = append(row, mark)
		}
		t.Row(row...)
	}
	fmt.Fprintln(w, t.String())

	if top, ok := r.Top(); ok {
		fmt.Fprintf(w, "%s %s (%.4f)\n", headerStyle.Render("Top candidate:"), top.Name, top.Score)
	} else {
		fmt.Fprintln(w, hintStyle.Render("No influencers in dataset."))
	}
	fmt.Fprintln(w, hintStyle.Render(fmt.Sprintf("Tier threshold %.2f", r.TierThreshold)))
}

func renderNormalized(w io.Writer, n *scoring.NormalizedMatrix) {
	ids := n.CriterionIDs()
	t := newTable(append([]string{"INFLUENCER"}, ids...)...)
	for _, row := range n.Table() {
		cells := []string{row.Name}
		for _, id := range ids {
			cells = append(cells, fmt.Sprintf("%.4f", row.Values[id]))
		}
		t.Row(cells...)
	}
	fmt.Fprintln(w, headerStyle.Render("Normalized matrix"))
	fmt.Fprintln(w, t.String())
}

func renderWeights(w io.Writer, set scoring.CriterionSet) {
	t := newTable("CRITERION", "DIRECTION", "WEIGHT", "SHARE")
	for _, c := range set.Criteria() {
		name := c.Name
		if name == "" {
			name = c.ID
		}
		t.Row(name, string(c.Direction), fmt.Sprintf("%.4f", c.Weight), fmt.Sprintf("%.1f%%", c.Weight*100))
	}
	fmt.Fprintln(w, t.String())

	v := set.Validate()
	if v.Valid {
		fmt.Fprintln(w, okStyle.Render("OK")+" "+v.Message())
	} else {
		fmt.Fprintln(w, errStyle.Render("INVALID")+" "+v.Message())
	}
}
