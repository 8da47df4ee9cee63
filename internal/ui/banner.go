package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const bannerArt = `
┏━┓╻┏ ╻ ╻┏┳┓┏━┓┏┓╻┏━┓┏━╸┏━╸┏━┓
┗━┓┣┻┓┗┳┛┃┃┃┣━┫┃┗┫┣━┫┃╺┓┣╸ ┣┳┛
┗━┛╹ ╹ ╹ ╹ ╹╹ ╹╹ ╹╹ ╹┗━┛┗━╸╹┗╸`

const bannerSubtitle = "Visor Hypervisor Manager"

// RenderBanner returns the styled banner with the hypervisor address under it.
func RenderBanner(hypervisor string) string {
	lines := strings.Split(strings.TrimPrefix(bannerArt, "\n"), "\n")
	artStyle := lipgloss.NewStyle().Foreground(ColorPrimary)

	blockWidth := 0
	for _, line := range lines {
		blockWidth = max(blockWidth, lipgloss.Width(line))
	}

	var b strings.Builder
	for _, line := range lines {
		b.WriteString(artStyle.Render(line))
		b.WriteString("\n")
	}

	subtitle := bannerSubtitle
	if hypervisor != "" {
		subtitle += " • " + hypervisor
	}
	blockWidth = max(blockWidth, lipgloss.Width(subtitle))
	b.WriteString(lipgloss.NewStyle().
		Foreground(ColorMuted).
		Width(blockWidth).
		Align(lipgloss.Center).
		Render(subtitle))
	return b.String()
}
