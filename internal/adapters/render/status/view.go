package status

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/nexustools/datameq-cli/internal/application"
	"github.com/nexustools/datameq-cli/internal/domain"
)

type RenderOptions struct {
	Now time.Time
	// MaxActivity caps the rendered history lines; zero means all retained
	// entries.
	MaxActivity int
}

func renderView(report application.StatusReport, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Data Meq Pool Status"),
		s.header.Render(systemLine(report.Settings)),
		s.section.Render(renderPools(report.Pools, s)),
	}

	if len(report.Users) > 0 {
		lines = append(lines, s.section.Render(renderUsers(report.Users, s)))
	}

	lines = append(lines, s.section.Render(renderActivity(report.Activity, opts, s)))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func systemLine(settings domain.SystemSettings) string {
	parts := []string{"lock: " + onOff(settings.Locked), "contribution: " + onOff(settings.AllowContribution)}
	if settings.Maintenance {
		parts = append(parts, "maintenance: on")
	}

	return strings.Join(parts, "  ")
}

func onOff(v bool) string {
	if v {
		return "on"
	}

	return "off"
}

func renderPools(pools application.PoolStatus, s styles) string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		s.pool.Render("pools"),
		s.detail.Render(fmt.Sprintf("data1: %d lines", pools.Data1Lines)),
		s.detail.Render(fmt.Sprintf("data2: %d lines", pools.Data2Lines)),
	)
}

func renderUsers(users []domain.User, s styles) string {
	parts := []string{s.user.Render("quotas")}
	for _, user := range users {
		parts = append(parts, quotaLine(user, s))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func quotaLine(user domain.User, s styles) string {
	label := s.quotaKey.Render(fmt.Sprintf("%s (%s):", user.Name, user.Role))

	if user.Quota.Unlimited() {
		return lipgloss.JoinHorizontal(lipgloss.Top, label, " ", s.quotaMeta.Render("unlimited"))
	}

	usedPercent := 0.0
	if user.Quota.DailyLimit > 0 {
		usedPercent = float64(user.Quota.Used) / float64(user.Quota.DailyLimit) * 100
	}

	bar := renderProgressBar(usedPercent, 24, s)
	meta := s.quotaMeta.Render(fmt.Sprintf("%d/%d used (1: %d, 2: %d)",
		user.Quota.Used, user.Quota.DailyLimit, user.Quota.UsedFromPool1, user.Quota.UsedFromPool2))

	line := lipgloss.JoinHorizontal(lipgloss.Top, label, " ", bar, " ", meta)
	if user.Quota.Remaining() == 0 {
		line += " " + s.warning.Render("[exhausted]")
	}

	return line
}

func renderActivity(entries []domain.ActivityEntry, opts RenderOptions, s styles) string {
	parts := []string{s.pool.Render("recent activity")}

	if len(entries) == 0 {
		parts = append(parts, s.empty.Render("No allocations recorded."))
		return lipgloss.JoinVertical(lipgloss.Left, parts...)
	}

	shown := entries
	if opts.MaxActivity > 0 && len(shown) > opts.MaxActivity {
		shown = shown[:opts.MaxActivity]
	}

	for _, entry := range shown {
		parts = append(parts, s.detail.Render(activityLine(entry, opts.Now)))
	}
	if len(shown) < len(entries) {
		parts = append(parts, s.empty.Render(fmt.Sprintf("... and %d more", len(entries)-len(shown))))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func activityLine(entry domain.ActivityEntry, now time.Time) string {
	return fmt.Sprintf("%s  %s drew %d+%d (total %d)",
		formatTimestamp(entry.Timestamp, now), entry.UserName, entry.Count1, entry.Count2, entry.TotalGenerated)
}

func formatTimestamp(timestamp, now time.Time) string {
	if timestamp.IsZero() {
		return "unknown time"
	}
	if now.IsZero() {
		return timestamp.Format(time.RFC3339)
	}

	elapsed := now.Sub(timestamp)
	if elapsed < 0 {
		return timestamp.Format("15:04")
	}
	if elapsed < time.Minute {
		return "just now"
	}
	if elapsed < time.Hour {
		return fmt.Sprintf("%dm ago", int(elapsed.Minutes()))
	}
	if elapsed < 24*time.Hour {
		return fmt.Sprintf("%dh ago", int(elapsed.Hours()))
	}

	return timestamp.Format("15:04 on 02 Jan")
}

func renderProgressBar(usedPercent float64, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	used := clampPercent(usedPercent)
	filled := int(math.Round(float64(width) * used / 100))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}

	empty := width - filled
	fillSegment := s.barFill.Render(strings.Repeat("=", filled))
	emptySegment := s.barEmpty.Render(strings.Repeat("-", empty))

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		fillSegment,
		emptySegment,
		s.barBracket.Render("]"),
	)
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
