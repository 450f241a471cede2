package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tomonatu8/envy-free-matching/experiment"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA")).
			Width(18)
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
)

// Summary renders the run parameters and aggregate figures in a box.
func Summary(res *experiment.Result, files []string) string {
	s := res.Summarize()
	p := res.Params

	rows := [][2]string{
		{"run", res.RunID.String()},
		{"groups × n_each", fmt.Sprintf("%d × %d", p.NumGroups, p.NEach)},
		{"items", fmt.Sprint(p.NumItems)},
		{"trials", fmt.Sprint(s.Trials)},
		{"elapsed", res.Elapsed.Round(time.Millisecond).String()},
		{"mean own value", fmt.Sprintf("%.4f", s.MeanOwn)},
		{"mean next value", fmt.Sprintf("%.4f", s.MeanNext)},
		{"envy-free trials", fmt.Sprintf("%.1f%%", 100*s.EnvyFreeShare)},
	}
	for _, f := range files {
		rows = append(rows, [2]string{"wrote", f})
	}

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, labelStyle.Render(r[0])+r[1])
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("envysim"),
		strings.Join(lines, "\n"),
	)

	return boxStyle.Render(body)
}
