// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	colorMuted  = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	colorError  = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	colorBorder = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)

	itemStyle         = lipgloss.NewStyle().PaddingLeft(2)
	selectedItemStyle = lipgloss.NewStyle().
				PaddingLeft(1).
				Bold(true).
				Foreground(colorAccent).
				Border(lipgloss.NormalBorder(), false, false, false, true).
				BorderForeground(colorAccent)

	panelStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder)

	activeTabStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	tabStyle       = lipgloss.NewStyle().Foreground(colorMuted)
	mutedStyle     = lipgloss.NewStyle().Foreground(colorMuted)
	infoStyle      = lipgloss.NewStyle().Foreground(colorAccent)
	errorStyle     = lipgloss.NewStyle().Foreground(colorError)
)
