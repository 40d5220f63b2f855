package ui

import (
	"strings"

	"placebook/internal/model"

	"github.com/charmbracelet/lipgloss"
)

// RenderHelp renders context-sensitive help footer.
func RenderHelp(screen model.Screen, mode model.Mode, width int) string {
	switch mode {
	case model.ModeInsert:
		return renderTitleHelp(width)
	case model.ModeConfirm:
		return renderConfirmHelp(width)
	}

	switch screen {
	case model.ScreenDraft:
		return renderDraftHelp(width)
	case model.ScreenPlaces:
		return renderPlacesHelp(width)
	default:
		return renderDefaultHelp(width)
	}
}

func renderDraftHelp(width int) string {
	keys := []string{
		helpKey("p", "photo"),
		helpKey("l", "locate"),
		helpKey("i", "title"),
		helpKey("ctrl+s", "save"),
		helpKey("x", "clear saved"),
		helpKey("X", "clear photos"),
		helpKey("v", "places"),
		helpKey("?", "help"),
	}
	return renderHelpLine(keys, width)
}

func renderPlacesHelp(width int) string {
	keys := []string{
		helpKey("j/k", "navigate"),
		helpKey("tab", "next col"),
		helpKey("s/S", "sort"),
		helpKey("c/C", "hide/show col"),
		helpKey("n/N", "filter"),
		helpKey("enter", "map link"),
		helpKey("v", "draft"),
		helpKey("/", "jump col"),
	}
	return renderHelpLine(keys, width)
}

func renderTitleHelp(width int) string {
	keys := []string{
		helpKey("enter/esc", "done"),
		helpKey("ctrl+s", "save place"),
	}
	return renderHelpLine(keys, width)
}

func renderConfirmHelp(width int) string {
	keys := []string{
		helpKey("y", "confirm"),
		helpKey("any other key", "cancel"),
	}
	return renderHelpLine(keys, width)
}

func renderDefaultHelp(width int) string {
	keys := []string{
		helpKey("v", "switch view"),
		helpKey("q", "quit"),
	}
	return renderHelpLine(keys, width)
}

func helpKey(key, desc string) string {
	return HelpKeyStyle.Render(key) + " " + HelpDescStyle.Render(desc)
}

func renderHelpLine(keys []string, width int) string {
	line := strings.Join(keys, "  ")
	return FooterStyle.Width(width).Render(line)
}

// RenderFullHelp renders the full help screen.
func RenderFullHelp(width, height int) string {
	content := lipgloss.NewStyle().
		Width(width-4).
		Height(height-6).
		Padding(1, 2)

	sections := []string{
		titleSection("Draft Screen"),
		helpSection([]helpItem{
			{"p", "Take a photo"},
			{"l", "Set location from the current position"},
			{"i / enter", "Edit the title"},
			{"ctrl+s", "Save the draft as a place"},
			{"x", "Clear the saved photo and title (asks first)"},
			{"X", "Clear the photo list (asks first)"},
		}),
		titleSection("Places Screen"),
		helpSection([]helpItem{
			{"j / ↓", "Move down"},
			{"k / ↑", "Move up"},
			{"gg / G", "Jump to top / bottom"},
			{"tab / shift+tab", "Cycle active column"},
			{"/ then 1-9", "Jump to column"},
			{"s / S", "Sort active column asc/desc"},
			{"c / C", "Hide active column / show all"},
			{"n / N", "Filter by selected value / clear"},
			{"enter", "Show map link for the selected place"},
		}),
		titleSection("Anywhere"),
		helpSection([]helpItem{
			{"v / ← / →", "Switch between draft and places"},
			{"?", "Toggle help"},
			{"q / ctrl+c", "Quit"},
		}),
		titleSection("Title (Insert Mode)"),
		helpSection([]helpItem{
			{"enter / esc", "Stop editing"},
			{"ctrl+s", "Save the draft as a place"},
		}),
	}

	helpText := content.Render(strings.Join(sections, "\n\n"))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		TitleStyle.Width(width).Render("Help"),
		helpText,
		FooterStyle.Width(width).Render(HelpKeyStyle.Render("esc")+" "+HelpDescStyle.Render("close help")),
	)
}

type helpItem struct {
	key  string
	desc string
}

func titleSection(title string) string {
	return LabelStyle.Render(title)
}

func helpSection(items []helpItem) string {
	var lines []string
	for _, item := range items {
		lines = append(lines, "  "+HelpKeyStyle.Render(item.key)+" - "+HelpDescStyle.Render(item.desc))
	}
	return strings.Join(lines, "\n")
}
