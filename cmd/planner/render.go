package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"schedule-planner/internal/planner"
)

const cellWidth = 18

var (
	styleError  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	styleTitle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	styleHeader = lipgloss.NewStyle().Bold(true).Width(cellWidth).Align(lipgloss.Center)
	stylePeriod = lipgloss.NewStyle().Bold(true).Width(8).Height(3).AlignVertical(lipgloss.Center)
	styleCell   = lipgloss.NewStyle().Width(cellWidth).Height(3).
			Border(lipgloss.RoundedBorder()).Padding(0, 1)
	styleLA      = styleCell.Copy().BorderForeground(lipgloss.Color("10"))
	styleSpec    = styleCell.Copy().BorderForeground(lipgloss.Color("12"))
	styleEmpty   = styleCell.Copy().BorderForeground(lipgloss.Color("8")).Foreground(lipgloss.Color("8"))
	styleSummary = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// renderSchedule 以 星期 × 节次 网格渲染课表
func renderSchedule(a planner.Assignment, prefs planner.PreferenceSet, maxClasses int) string {
	header := []string{stylePeriod.Copy().Height(1).Render("")}
	for _, d := range planner.Days {
		label := d.Label()
		if d == prefs.DayOff {
			label += "（休）"
		}
		header = append(header, styleHeader.Render(label))
	}

	rows := []string{
		styleTitle.Render("周课表"),
		lipgloss.JoinHorizontal(lipgloss.Top, header...),
	}
	for _, p := range planner.Periods {
		cells := []string{stylePeriod.Render(fmt.Sprintf("第%d节", p))}
		for _, d := range planner.Days {
			cells = append(cells, renderCell(a.Get(planner.SlotKey{Day: d, Period: p})))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	rows = append(rows, styleSummary.Render(fmt.Sprintf(
		"已排 %d/%d 节 · 生效偏好 %d 项", a.Filled(), maxClasses, planner.CountActive(prefs))))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderCell(c *planner.Course) string {
	if c == nil {
		return styleEmpty.Render("-")
	}
	style := styleSpec
	if c.Category == planner.LiberalArts {
		style = styleLA
	}
	final := ""
	if c.HasFinal {
		final = " · 期末"
	}
	return style.Render(fmt.Sprintf("%s\n%s\n%s%s", c.Name, c.Professor, c.Modality.Label(), final))
}
