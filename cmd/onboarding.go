package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// OnboardingSettings are the answers of the first-run setup.
type OnboardingSettings struct {
	Completed       bool   `json:"completed"`
	LocationAllowed bool   `json:"location_allowed"`
	CaptureCommand  string `json:"capture_command,omitempty"`
}

func onboardingPath(configDir string) string {
	return filepath.Join(configDir, "onboarding.json")
}

func loadOnboardingSettings(configDir string) (OnboardingSettings, error) {
	data, err := os.ReadFile(onboardingPath(configDir))
	if err != nil {
		if os.IsNotExist(err) {
			return OnboardingSettings{}, nil
		}
		return OnboardingSettings{}, err
	}

	var settings OnboardingSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return OnboardingSettings{}, err
	}
	return settings, nil
}

func saveOnboardingSettings(configDir string, settings OnboardingSettings) error {
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(onboardingPath(configDir), data, 0644)
}

func shouldRunOnboarding(settings OnboardingSettings) bool {
	if settings.Completed {
		return false
	}
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

type onboardingStep int

const (
	stepLocation onboardingStep = iota
	stepCamera
	stepDone
)

type onboardingModel struct {
	step         onboardingStep
	allow        bool
	commandInput textinput.Model
	settings     OnboardingSettings
	status       string
	width        int
	height       int
}

var (
	obColorMuted  = lipgloss.Color("#7D8A96")
	obColorText   = lipgloss.Color("#D8DEE4")
	obColorAccent = lipgloss.Color("#7FA7C9")
	obColorDanger = lipgloss.Color("#f38ba8")

	obTitleStyle = lipgloss.NewStyle().
			Foreground(obColorAccent).
			Bold(true)

	obHeaderStyle = lipgloss.NewStyle().
			Foreground(obColorAccent).
			Bold(true).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(obColorMuted)

	obTabsStyle = lipgloss.NewStyle().
			Padding(0, 2).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(obColorMuted)

	obTabInactive = lipgloss.NewStyle().
			Foreground(obColorMuted).
			Padding(0, 2)

	obTabActive = lipgloss.NewStyle().
			Foreground(obColorText).
			Bold(true).
			Underline(true).
			Padding(0, 2)

	obPanelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(obColorMuted).
			Padding(1, 2)

	obInputStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(obColorAccent).
			Padding(0, 1)

	obLabelStyle = lipgloss.NewStyle().
			Foreground(obColorAccent).
			Bold(true)

	obMutedStyle = lipgloss.NewStyle().
			Foreground(obColorMuted)

	obOptionStyle = lipgloss.NewStyle().
			Foreground(obColorText)

	obOptionSelected = lipgloss.NewStyle().
				Foreground(obColorAccent).
				Bold(true)

	obWarnStyle = lipgloss.NewStyle().
			Foreground(obColorDanger)

	obFooterStyle = lipgloss.NewStyle().
			Foreground(obColorMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(obColorMuted)
)

func newOnboardingModel(captureCommand string) onboardingModel {
	in := textinput.New()
	in.Placeholder = defaultCaptureCommand
	in.CharLimit = 300
	in.Prompt = "cmd> "
	in.TextStyle = lipgloss.NewStyle().Foreground(obColorText)
	in.PlaceholderStyle = lipgloss.NewStyle().Foreground(obColorMuted)
	in.Cursor.Style = lipgloss.NewStyle().Foreground(obColorText).Background(obColorAccent)
	in.SetValue(strings.TrimSpace(captureCommand))
	in.Focus()

	return onboardingModel{
		step:         stepLocation,
		allow:        true,
		commandInput: in,
		settings:     OnboardingSettings{Completed: true},
	}
}

func (m onboardingModel) Init() tea.Cmd { return nil }

func (m onboardingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch m.step {
		case stepLocation:
			switch msg.String() {
			case "y", "Y":
				m.allow = true
				return m.nextStep()
			case "n", "N":
				m.allow = false
				return m.nextStep()
			case "up", "k", "left", "h":
				m.allow = true
				return m, nil
			case "down", "j", "right", "l":
				m.allow = false
				return m, nil
			case "enter":
				return m.nextStep()
			case "ctrl+c", "q":
				m.settings.LocationAllowed = false
				m.status = "Setup canceled. Location access disabled."
				m.step = stepDone
				return m, tea.Quit
			default:
				return m, nil
			}
		case stepCamera:
			switch msg.String() {
			case "enter":
				m.settings.CaptureCommand = strings.TrimSpace(m.commandInput.Value())
				m.status = m.summary()
				m.step = stepDone
				return m, tea.Quit
			case "esc":
				m.status = m.summary()
				m.step = stepDone
				return m, tea.Quit
			case "ctrl+c":
				m.status = "Setup canceled. " + m.summary()
				m.step = stepDone
				return m, tea.Quit
			}
			var cmd tea.Cmd
			m.commandInput, cmd = m.commandInput.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m onboardingModel) nextStep() (tea.Model, tea.Cmd) {
	m.settings.LocationAllowed = m.allow
	m.step = stepCamera
	return m, nil
}

func (m onboardingModel) summary() string {
	if m.settings.LocationAllowed {
		return "Location access allowed."
	}
	return "Location access disabled."
}

func (m onboardingModel) View() string {
	width := m.width
	height := m.height
	if width <= 0 {
		width = 100
	}
	if height <= 0 {
		height = 28
	}

	header := m.renderHeader(width)
	tabs := m.renderTabs(width)
	footer := m.renderFooter(width)

	contentHeight := max(8, height-6)
	content := m.renderContent(width, contentHeight)
	ui := lipgloss.JoinVertical(lipgloss.Left, header, tabs, content, footer)

	return lipgloss.NewStyle().
		Foreground(obColorText).
		Width(width).
		Height(height).
		Render(ui)
}

func (m onboardingModel) renderHeader(width int) string {
	left := "  " + obTitleStyle.Render("placebook") + " " + obMutedStyle.Render("› Setup")
	right := obMutedStyle.Render(time.Now().Format("Mon 02 Jan")) + "  "
	padding := max(0, width-lipgloss.Width(left)-lipgloss.Width(right))
	return obHeaderStyle.Width(width).Render(left + strings.Repeat(" ", padding) + right)
}

func (m onboardingModel) renderTabs(width int) string {
	locationTab := obTabInactive.Render("Location")
	cameraTab := obTabInactive.Render("Camera")
	if m.step == stepLocation {
		locationTab = obTabActive.Render("Location")
	}
	if m.step == stepCamera {
		cameraTab = obTabActive.Render("Camera")
	}
	return obTabsStyle.Width(width).Render(lipgloss.JoinHorizontal(lipgloss.Left, "  ", locationTab, cameraTab))
}

func (m onboardingModel) renderFooter(width int) string {
	switch m.step {
	case stepLocation:
		return obFooterStyle.Width(width).Render("↑↓/jk to navigate  y/n enter to confirm  q cancel")
	case stepCamera:
		return obFooterStyle.Width(width).Render("enter save  esc keep default")
	default:
		return obFooterStyle.Width(width).Render("Setup complete")
	}
}

func (m onboardingModel) renderContent(width, height int) string {
	cardWidth := min(92, width-6)
	if cardWidth < 40 {
		cardWidth = width - 2
	}

	var body string
	switch m.step {
	case stepLocation:
		question := obLabelStyle.Render("Allow placebook to look up your location?")
		on := "Allow location access"
		off := "Don't allow"

		var onDisplay, offDisplay string
		if m.allow {
			onDisplay = "  " + obOptionSelected.Render("→ "+on)
			offDisplay = "    " + obOptionStyle.Render(off)
		} else {
			onDisplay = "    " + obOptionStyle.Render(on)
			offDisplay = "  " + obOptionSelected.Render("→ "+off)
		}

		body = lipgloss.JoinVertical(
			lipgloss.Left,
			question,
			"",
			onDisplay,
			offDisplay,
			"",
			obMutedStyle.Render("Without it, places cannot be saved because they need a location."),
			obMutedStyle.Render("You can change this later in ~/.placebook/onboarding.json"),
		)
	case stepCamera:
		input := obInputStyle.Width(max(30, cardWidth-14)).Render(m.commandInput.View())
		body = lipgloss.JoinVertical(
			lipgloss.Left,
			obLabelStyle.Render("Photo capture command"),
			"",
			obMutedStyle.Render("placebook runs this command to take a photo."),
			obMutedStyle.Render("{output} is replaced by the file to write, {quality} by 1-100."),
			obMutedStyle.Render("A non-zero exit status means the capture was cancelled."),
			"",
			input,
			"",
			obMutedStyle.Render("Press Enter to save, Esc to keep the default."),
		)
	default:
		msg := obMutedStyle.Render(m.status)
		if strings.Contains(strings.ToLower(m.status), "disabled") {
			msg = obWarnStyle.Render(m.status)
		}
		body = lipgloss.JoinVertical(lipgloss.Left, obLabelStyle.Render("Onboarding Complete"), "", msg)
	}

	card := obPanelStyle.Width(cardWidth).Render(body)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, card)
}

func runOnboarding(configDir string, captureCommand string) (OnboardingSettings, error) {
	prog := tea.NewProgram(newOnboardingModel(captureCommand), tea.WithAltScreen())
	finalModel, err := prog.Run()
	if err != nil {
		return OnboardingSettings{}, fmt.Errorf("onboarding tui failed: %w", err)
	}
	m, ok := finalModel.(onboardingModel)
	if !ok {
		return OnboardingSettings{}, fmt.Errorf("unexpected onboarding model type")
	}
	if err := saveOnboardingSettings(configDir, m.settings); err != nil {
		return OnboardingSettings{}, err
	}
	return m.settings, nil
}
