package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/studytrack/internal/clock"
	"github.com/sadopc/studytrack/internal/store"
	"github.com/sadopc/studytrack/internal/streak"
)

type reportRange int

const (
	rangeLast7 reportRange = iota
	rangeWeek
)

// reportDay is one column of the report: a calendar day and its minutes
// per subject.
type reportDay struct {
	date      time.Time
	total     int
	sessions  int
	bySubject map[store.Subject]int
}

type reportsModel struct {
	store  *store.Store
	width  int
	height int

	rng    reportRange
	offset int // blocks back from the current one

	days   []reportDay
	target int
	streak int

	chart barchart.Model
}

func newReportsModel(s *store.Store) reportsModel {
	return reportsModel{
		store: s,
		chart: barchart.New(60, 12),
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

type reportsDataMsg struct {
	from, to  time.Time
	summaries []store.DailySummary
	target    int
	streak    int
}

func (r reportsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		from, to := r.window()
		return reportsDataMsg{
			from:      from,
			to:        to,
			summaries: r.store.GetDailySummary(from, to),
			target:    r.store.Settings().DailyTargetMinutes,
			streak:    streak.Compute(r.store.AllSessions(), r.store.Today()),
		}
	}
}

// window is the half-open day range [from, to) currently shown.
func (r reportsModel) window() (time.Time, time.Time) {
	now := r.store.Today()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if r.rng == rangeWeek {
		back := (int(today.Weekday()) + 6) % 7 // days since Monday
		from := today.AddDate(0, 0, -back-7*r.offset)
		return from, from.AddDate(0, 0, 7)
	}
	to := today.AddDate(0, 0, 1-7*r.offset)
	return to.AddDate(0, 0, -7), to
}

// bucketDays spreads summaries over every day in [from, to), keeping
// empty days so the chart has a fixed width.
func bucketDays(from, to time.Time, summaries []store.DailySummary) []reportDay {
	index := make(map[string]int)
	var days []reportDay
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		index[clock.DateKey(d)] = len(days)
		days = append(days, reportDay{date: d, bySubject: make(map[store.Subject]int)})
	}
	for _, s := range summaries {
		i, ok := index[s.Date]
		if !ok {
			continue
		}
		days[i].total += s.TotalMinutes
		days[i].sessions += s.SessionCount
		days[i].bySubject[s.Subject] += s.TotalMinutes
	}
	return days
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reportsDataMsg:
		r.days = bucketDays(msg.from, msg.to, msg.summaries)
		r.target = msg.target
		r.streak = msg.streak
		r.buildChart()
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			r.offset++
			return r, r.refresh()
		case key.Matches(msg, keys.Right):
			if r.offset == 0 {
				return r, nil
			}
			r.offset--
			return r, r.refresh()
		case key.Matches(msg, keys.Enter):
			r.rng = (r.rng + 1) % 2
			r.offset = 0
			return r, r.refresh()
		}
	}
	return r, nil
}

func (r *reportsModel) buildChart() {
	height := 12
	if r.height > 30 {
		height = 16
	}
	r.chart = barchart.New(max(r.width-8, 20), height)

	bars := make([]barchart.BarData, 0, len(r.days))
	for _, d := range r.days {
		label := d.date.Format("Mon 02")
		if streak.TargetMet(d.total, r.target) {
			label = d.date.Format("Mon") + "✓"
		}

		var values []barchart.BarValue
		for _, subj := range store.Subjects {
			if m := d.bySubject[subj]; m > 0 {
				values = append(values, barchart.BarValue{
					Name:  subj.String(),
					Value: float64(m),
					Style: subjectStyle(subj),
				})
			}
		}
		if len(values) == 0 {
			values = []barchart.BarValue{{Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}}
		}
		bars = append(bars, barchart.BarData{Label: label, Values: values})
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

// periodStats sums the visible days.
type periodStats struct {
	total      int
	activeDays int
	onTarget   int
	bySubject  map[store.Subject]int
}

func (r reportsModel) stats() periodStats {
	st := periodStats{bySubject: make(map[store.Subject]int)}
	for _, d := range r.days {
		st.total += d.total
		if d.total > 0 {
			st.activeDays++
		}
		if streak.TargetMet(d.total, r.target) {
			st.onTarget++
		}
		for subj, m := range d.bySubject {
			st.bySubject[subj] += m
		}
	}
	return st
}

func (r reportsModel) view() string {
	w := r.width - 4

	last7 := inactiveTabStyle.Render("Last 7 days")
	week := inactiveTabStyle.Render("Week")
	if r.rng == rangeLast7 {
		last7 = activeTabStyle.Render("Last 7 days")
	} else {
		week = activeTabStyle.Render("Week")
	}

	from, to := r.window()
	span := subtitleStyle.Render(fmt.Sprintf("%s - %s", from.Format("Jan 02"), to.AddDate(0, 0, -1).Format("Jan 02, 2006")))
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Reports"), "  ", last7, week, "  ", span,
	)

	st := r.stats()
	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header,
			r.renderStats(st),
			"",
			r.chart.View(),
			r.renderSubjectTotals(st),
			"",
			r.renderDays(w),
			"",
			mutedStyle.Render("  ←/→: navigate  enter: switch range  ✓ = daily target met"),
		),
	)
}

func (r reportsModel) renderStats(st periodStats) string {
	parts := []string{
		highlightStyle.Render(formatHours(st.total)) + " total",
		fmt.Sprintf("%d/%d days active", st.activeDays, len(r.days)),
	}
	if st.activeDays > 0 {
		parts = append(parts, formatMinutes(st.total/st.activeDays)+" per active day")
	}
	if r.target > 0 {
		parts = append(parts, fmt.Sprintf("target %s met on %d", formatMinutes(r.target), st.onTarget))
	}
	parts = append(parts, accentStyle.Render(fmt.Sprintf("streak %d %s", r.streak, dayWord(r.streak))))
	return "  " + strings.Join(parts, mutedStyle.Render("  ·  "))
}

func (r reportsModel) renderSubjectTotals(st periodStats) string {
	var items []string
	for _, subj := range store.Subjects {
		if m := st.bySubject[subj]; m > 0 {
			items = append(items, fmt.Sprintf("%s %s %s", subjectDot(subj), subj, mutedStyle.Render(formatMinutes(m))))
		}
	}
	return "  " + strings.Join(items, "   ")
}

// renderDays lists each day with its total against the target and a
// minute-per-subject breakdown. Days without study are skipped.
func (r reportsModel) renderDays(w int) string {
	var rows []string
	for i := len(r.days) - 1; i >= 0; i-- {
		d := r.days[i]
		if d.total == 0 {
			continue
		}

		mark := " "
		switch {
		case streak.TargetMet(d.total, r.target):
			mark = successStyle.Render("✓")
		case r.target > 0:
			mark = mutedStyle.Render(fmt.Sprintf("%d%%", int(streak.Progress(d.total, r.target)*100)))
		}

		var parts []string
		for _, subj := range store.Subjects {
			if m := d.bySubject[subj]; m > 0 {
				parts = append(parts, subjectDot(subj)+" "+formatMinutes(m))
			}
		}
		rows = append(rows, fmt.Sprintf("  %-10s %8s %4s  %-4s %s",
			d.date.Format("Mon Jan 2"), formatMinutes(d.total), mark,
			fmt.Sprintf("×%d", d.sessions), strings.Join(parts, "  ")))
	}
	if len(rows) == 0 {
		return mutedStyle.Render("  No study time in this period")
	}

	head := mutedStyle.Render(fmt.Sprintf("  %-10s %8s %4s  %-4s %s", "Day", "Total", "", "", "By subject"))
	rule := mutedStyle.Render("  " + strings.Repeat("─", min(w-6, 58)))
	return strings.Join(append([]string{head, rule}, rows...), "\n")
}

func dayWord(n int) string {
	if n == 1 {
		return "day"
	}
	return "days"
}
