package ui

import (
	"fmt"
	"strings"

	"placebook/internal/model"
	"placebook/internal/util"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) renderDraft(width, height int) string {
	panelWidth := max(20, width/2-2)
	panelHeight := max(6, height/2)

	photo := PanelStyle.Width(panelWidth).Height(panelHeight).Render(m.renderPhotoPanel())
	where := PanelStyle.Width(panelWidth).Height(panelHeight).Render(m.renderLocationPanel(panelWidth-6, panelHeight-8))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTitleRow(width),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, photo, where),
		"",
		renderPhotoStrip(m.photos, m.draft.PhotoRef, width),
	)
}

func (m Model) renderTitleRow(width int) string {
	label := LabelStyle.Render("Title ")
	input := m.titleInput.View()
	if m.mode != model.ModeInsert && m.draft.Title == "" {
		input = PlaceholderStyle.Render("press i to add a title")
	}
	return lipgloss.NewStyle().Width(width).Padding(0, 2).Render(label + InputStyle.Render(input))
}

func (m Model) renderPhotoPanel() string {
	ref := m.draft.PhotoRef
	if ref == "" {
		return PlaceholderStyle.Render("No photo taken")
	}
	if m.previewRef == ref && m.preview != "" {
		return m.preview
	}
	return LabelStyle.Render("Photo") + "\n" + util.ShortRef(ref)
}

func (m Model) renderLocationPanel(mapWidth, mapHeight int) string {
	c := m.draft.Coordinate
	if c == nil {
		return PlaceholderStyle.Render("Location not set")
	}
	return lipgloss.JoinVertical(
		lipgloss.Left,
		RenderMap(*c, mapWidth, mapHeight),
		"",
		LabelStyle.Render(util.FormatCoordinate(c)),
		BreadcrumbStyle.Render(util.MapURL(*c)),
	)
}

// renderPhotoStrip renders the photo list as a single row, newest last,
// dropping the oldest entries that do not fit.
func renderPhotoStrip(photos []string, current string, width int) string {
	header := LabelStyle.Render(fmt.Sprintf("Photos (%d)", len(photos)))
	if len(photos) == 0 {
		return lipgloss.NewStyle().Padding(0, 2).Render(header + "  " + PlaceholderStyle.Render("none yet"))
	}

	var cells []string
	used := lipgloss.Width(header) + 6
	for i := len(photos) - 1; i >= 0; i-- {
		name := util.TruncateString(util.ShortRef(photos[i]), 18)
		style := StripItemStyle
		if photos[i] == current {
			style = StripCurrentStyle
		}
		cell := style.Render(name)
		if used+lipgloss.Width(cell) > width && len(cells) > 0 {
			cells = append([]string{BreadcrumbStyle.Render("…")}, cells...)
			break
		}
		used += lipgloss.Width(cell)
		cells = append([]string{cell}, cells...)
	}
	return lipgloss.NewStyle().Padding(0, 2).Render(header + "  " + strings.Join(cells, ""))
}
