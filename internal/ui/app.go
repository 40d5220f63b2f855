package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"placebook/internal/model"
	"placebook/internal/places"
	"placebook/internal/util"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type confirmKind int

const (
	confirmNone confirmKind = iota
	confirmClearSaved
	confirmClearPhotos
)

type previewRenderedMsg struct {
	ref string
	art string
	err error
}

// Options configures the root model.
type Options struct {
	PrefsPath string // empty disables persisted table preferences
	Timeout   time.Duration
}

// Model is the root Bubble Tea model.
type Model struct {
	session *places.Session
	opts    Options
	screen  model.Screen
	mode    model.Mode
	gState  GState
	confirm confirmKind

	width  int
	height int

	error       string
	info        string
	showingHelp bool
	columnJump  bool
	busy        string
	spinner     spinner.Model

	draft      model.Draft
	photos     []string
	titleInput textinput.Model
	preview    string
	previewRef string

	// Title writes run one at a time so they land in keystroke order.
	titleWriting bool
	titleDirty   bool
	afterTitle   tea.Cmd

	places *PlacesModel

	keys     KeyMap
	formKeys FormKeyMap
	prefs    UIPreferences
}

// New creates a new root model.
func New(session *places.Session, opts Options) Model {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	ti := textinput.New()
	ti.Placeholder = "Title"
	ti.CharLimit = 120

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	prefs := loadUIPreferences(opts.PrefsPath)
	pm := NewPlacesModel(nil)
	pm.ApplyPrefs(prefs.Places)

	return Model{
		session:    session,
		opts:       opts,
		screen:     model.ScreenDraft,
		mode:       model.ModeNav,
		gState:     GStateIdle,
		spinner:    sp,
		photos:     []string{},
		titleInput: ti,
		places:     pm,
		keys:       DefaultKeyMap(),
		formKeys:   DefaultFormKeyMap(),
		prefs:      prefs,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return startCmd(m.session, m.opts.Timeout)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, m.requestPreview()

	case spinner.TickMsg:
		if m.busy == "" {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)

	case model.ErrorMsg:
		m.busy = ""
		m.info = ""
		m.error = places.UserMessage(msg.Err)
		return m, nil

	case model.StartedMsg:
		m.draft = msg.Draft
		m.photos = msg.Photos
		m.titleInput.SetValue(msg.Draft.Title)
		m.setPlaces(msg.Places)
		m.info = msg.Notice
		return m, m.requestPreview()

	case model.PhotoCapturedMsg:
		m.busy = ""
		m.error = ""
		m.draft = m.draft.WithPhoto(msg.Draft.PhotoRef)
		m.photos = msg.Photos
		m.info = "Photo saved"
		return m, m.requestPreview()

	case model.CaptureCancelledMsg:
		m.busy = ""
		return m, nil

	case model.LocatedMsg:
		m.busy = ""
		m.error = ""
		if msg.Draft.Coordinate != nil {
			m.draft = m.draft.WithCoordinate(*msg.Draft.Coordinate)
		}
		m.info = "Location set"
		return m, nil

	case model.TitleSavedMsg:
		m.titleWriting = false
		if msg.Err != nil {
			m.error = places.UserMessage(msg.Err)
		}
		if m.titleDirty {
			cmd := m.persistTitle()
			return m, cmd
		}
		next := m.afterTitle
		m.afterTitle = nil
		return m, next

	case model.PlaceSavedMsg:
		m.busy = ""
		m.error = ""
		m.draft = msg.Draft
		m.titleInput.SetValue(msg.Draft.Title)
		m.setPlaces(msg.Places)
		m.info = fmt.Sprintf("Saved %q", msg.Place.Title)
		return m, m.requestPreview()

	case model.SavedDataClearedMsg:
		m.draft = msg.Draft
		m.titleInput.SetValue("")
		m.preview, m.previewRef = "", ""
		if msg.Err != nil {
			m.error = places.UserMessage(msg.Err)
		} else {
			m.info = "Saved data cleared"
		}
		return m, nil

	case model.PhotosClearedMsg:
		m.photos = msg.Photos
		if msg.Err != nil {
			m.error = places.UserMessage(msg.Err)
		} else {
			m.info = "Photos cleared"
		}
		return m, nil

	case model.PlacesLoadedMsg:
		m.setPlaces(msg.Places)
		return m, nil

	case previewRenderedMsg:
		if msg.ref != m.draft.PhotoRef {
			return m, nil
		}
		m.previewRef = msg.ref
		m.preview = msg.art
		if msg.err != nil {
			m.preview = ""
		}
		return m, nil
	}

	if m.mode == model.ModeInsert {
		var cmd tea.Cmd
		m.titleInput, cmd = m.titleInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) setPlaces(list []model.Place) {
	m.places = NewPlacesModel(list)
	m.places.ApplyPrefs(m.prefs.Places)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.mode == model.ModeConfirm {
		return m.handleConfirmMode(msg)
	}
	if m.mode == model.ModeInsert {
		return m.handleInsertMode(msg)
	}

	if m.columnJump {
		if msg.String() == "esc" {
			m.columnJump = false
			m.info = ""
			return m, nil
		}
		if n, err := strconv.Atoi(msg.String()); err == nil {
			if m.places.JumpToColumn(n) {
				m.columnJump = false
				m.info = fmt.Sprintf("Jumped to column %d", n)
				m.persistTablePrefs()
				return m, nil
			}
			m.info = fmt.Sprintf("Column %d unavailable", n)
			return m, nil
		}
	}

	if key.Matches(msg, m.keys.Help) {
		m.showingHelp = !m.showingHelp
		return m, nil
	}
	if m.showingHelp {
		if msg.String() == "esc" {
			m.showingHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.SwitchView):
		if m.screen == model.ScreenDraft {
			m.screen = model.ScreenPlaces
			return m, loadPlacesCmd(m.session, m.opts.Timeout)
		}
		m.screen = model.ScreenDraft
		return m, nil
	}

	if m.screen == model.ScreenPlaces {
		return m.handlePlacesNav(msg)
	}
	return m.handleDraftNav(msg)
}

// handleDraftNav handles the draft screen. One device or save action runs at a time.
func (m Model) handleDraftNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.EditTitle):
		m.mode = model.ModeInsert
		m.info = ""
		cmd := m.titleInput.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.ClearSaved):
		m.mode = model.ModeConfirm
		m.confirm = confirmClearSaved
		m.info = "Clear the saved photo and title? (y/N)"
		return m, nil
	case key.Matches(msg, m.keys.ClearPhotos):
		m.mode = model.ModeConfirm
		m.confirm = confirmClearPhotos
		m.info = fmt.Sprintf("Clear all %d photos from the list? (y/N)", len(m.photos))
		return m, nil
	}

	if m.busy != "" {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Capture):
		return m.startBusy("Taking photo", captureCmd(m.session, m.draft, m.photos))
	case key.Matches(msg, m.keys.Locate):
		return m.startBusy("Locating", locateCmd(m.session, m.draft, m.opts.Timeout))
	case key.Matches(msg, m.keys.Save):
		save := m.afterTitleWrite(savePlaceCmd(m.session, m.draft, m.opts.Timeout))
		return m.startBusy("Saving", save)
	}
	return m, nil
}

func (m Model) startBusy(label string, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	m.busy = label
	m.error = ""
	m.info = ""
	return m, tea.Batch(m.spinner.Tick, cmd)
}

func (m Model) handleInsertMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.formKeys.Done), key.Matches(msg, m.formKeys.Cancel):
		m.mode = model.ModeNav
		m.titleInput.Blur()
		return m, nil
	case key.Matches(msg, m.formKeys.Save):
		m.mode = model.ModeNav
		m.titleInput.Blur()
		if m.busy != "" {
			return m, nil
		}
		save := m.afterTitleWrite(savePlaceCmd(m.session, m.draft, m.opts.Timeout))
		return m.startBusy("Saving", save)
	}

	var cmd tea.Cmd
	before := m.titleInput.Value()
	m.titleInput, cmd = m.titleInput.Update(msg)
	if after := m.titleInput.Value(); after != before {
		m.draft = m.draft.WithTitle(after)
		persist := m.persistTitle()
		return m, tea.Batch(cmd, persist)
	}
	return m, cmd
}

// persistTitle writes the current title through to the store. While a write
// is in flight the newer title is written as soon as it finishes.
func (m *Model) persistTitle() tea.Cmd {
	if m.titleWriting {
		m.titleDirty = true
		return nil
	}
	m.titleWriting = true
	m.titleDirty = false
	return saveTitleCmd(m.session, m.draft, m.opts.Timeout)
}

// afterTitleWrite holds cmd back until pending title writes have landed, so
// a save or clear is never undone by a late title write.
func (m *Model) afterTitleWrite(cmd tea.Cmd) tea.Cmd {
	if m.titleWriting {
		m.afterTitle = cmd
		return nil
	}
	return cmd
}

func (m Model) handleConfirmMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	kind := m.confirm
	m.mode = model.ModeNav
	m.confirm = confirmNone

	if msg.String() != "y" && msg.String() != "Y" {
		m.info = "Cancelled"
		return m, nil
	}

	m.info = ""
	switch kind {
	case confirmClearSaved:
		cmd := m.afterTitleWrite(clearSavedCmd(m.session, m.opts.Timeout))
		return m, cmd
	case confirmClearPhotos:
		return m, clearPhotosCmd(m.session, m.opts.Timeout)
	}
	return m, nil
}

func (m Model) handlePlacesNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var t tableController = m.places
	switch msg.String() {
	case "tab":
		t.NextColumn()
		m.persistTablePrefs()
		return m, nil
	case "shift+tab":
		t.PrevColumn()
		m.persistTablePrefs()
		return m, nil
	case "/":
		m.columnJump = true
		m.info = "Jump to column: press 1-9 (esc to cancel)"
		return m, nil
	case "s":
		t.SortActiveColumn(false)
		m.info = "Sorted ascending"
		m.persistTablePrefs()
		return m, nil
	case "S":
		t.SortActiveColumn(true)
		m.info = "Sorted descending"
		m.persistTablePrefs()
		return m, nil
	case "c":
		if t.HideActiveColumn() {
			m.info = "Column hidden"
			m.persistTablePrefs()
		} else {
			m.info = "Cannot hide last visible column"
		}
		return m, nil
	case "C":
		t.ShowAllColumns()
		m.info = "All columns shown"
		m.persistTablePrefs()
		return m, nil
	case "n":
		if t.FilterBySelectedValue() {
			m.info = "Filter applied from selected value"
		} else {
			m.info = "No filterable value in selected cell"
		}
		return m, nil
	case "N":
		if t.ClearFilter() {
			m.info = "Filter cleared"
		}
		return m, nil
	}

	if msg.String() == "g" {
		if m.gState == GStateFirstG {
			m.gState = GStateIdle
			m.places.JumpToTop()
			return m, nil
		}
		m.gState = GStateFirstG
		return m, nil
	}
	m.gState = GStateIdle

	switch {
	case key.Matches(msg, m.keys.Down):
		m.places.MoveDown()
	case key.Matches(msg, m.keys.Up):
		m.places.MoveUp()
	case key.Matches(msg, m.keys.Bottom):
		m.places.JumpToBottom()
	case key.Matches(msg, m.keys.Open):
		if p := m.places.Selected(); p != nil {
			m.info = fmt.Sprintf("%s  ·  %s", p.Title, util.MapURL(p.Coordinate))
		}
	}
	return m, nil
}

func (m *Model) persistTablePrefs() {
	m.prefs.Places = m.places.Prefs()
	_ = saveUIPreferences(m.opts.PrefsPath, m.prefs)
}

func (m Model) requestPreview() tea.Cmd {
	ref := m.draft.PhotoRef
	if ref == "" || m.width == 0 {
		return nil
	}
	w, h := m.previewSize()
	return renderPreviewCmd(ref, w, h)
}

func (m Model) previewSize() (int, int) {
	return max(10, m.width/2-6), max(4, m.height/2-4)
}

// View renders the model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if m.showingHelp {
		return RenderFullHelp(m.width, m.height)
	}

	contentHeight := m.height - 6

	var content string
	var breadcrumbParts []string
	switch m.screen {
	case model.ScreenDraft:
		breadcrumbParts = []string{"New place"}
		content = m.renderDraft(m.width, contentHeight)
	case model.ScreenPlaces:
		breadcrumbParts = []string{"Places"}
		content = m.places.View(m.width, contentHeight)
	}

	header := renderHeader(breadcrumbParts, m.width)
	tabs := renderTabs(m.screen, m.width)
	footer := RenderHelp(m.screen, m.mode, m.width)

	content = lipgloss.NewStyle().
		Width(m.width).
		Height(contentHeight).
		Render(content)

	parts := []string{header, tabs}
	if m.error != "" {
		parts = append(parts, ErrorStyle.Width(m.width).Render("Error: "+m.error))
	}
	switch {
	case m.mode == model.ModeConfirm:
		parts = append(parts, ConfirmStyle.Width(m.width).Render(m.info))
	case m.busy != "":
		parts = append(parts, SuccessStyle.Width(m.width).Render(m.spinner.View()+" "+m.busy+"..."))
	case m.info != "":
		parts = append(parts, SuccessStyle.Width(m.width).Render(m.info))
	}
	parts = append(parts, content, footer)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderTabs(screen model.Screen, width int) string {
	tabs := []struct {
		name   string
		screen model.Screen
	}{
		{"New place", model.ScreenDraft},
		{"Places", model.ScreenPlaces},
	}

	var tabStrings []string
	for _, tab := range tabs {
		tabStyle := lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(ColorMuted)

		if screen == tab.screen {
			tabStyle = tabStyle.
				Foreground(ColorText).
				Bold(true).
				Underline(true)
		}

		tabStrings = append(tabStrings, tabStyle.Render(tab.name))
	}

	tabBar := lipgloss.JoinHorizontal(lipgloss.Left, tabStrings...)
	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 2).
		BorderBottom(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorMuted).
		Render(tabBar)
}

func renderHeader(breadcrumbParts []string, width int) string {
	title := HeaderStyle.Render("placebook")

	var breadcrumb string
	if len(breadcrumbParts) > 0 {
		separator := BreadcrumbStyle.Render(" › ")
		parts := make([]string, len(breadcrumbParts))
		for i, part := range breadcrumbParts {
			if i == len(breadcrumbParts)-1 {
				parts[i] = BreadcrumbActiveStyle.Render(part)
			} else {
				parts[i] = BreadcrumbStyle.Render(part)
			}
		}
		breadcrumb = separator + strings.Join(parts, separator)
	}

	left := "  " + title + breadcrumb
	right := BreadcrumbStyle.Render(time.Now().Format("Mon 02 Jan")) + "  "

	padding := max(0, width-lipgloss.Width(left)-lipgloss.Width(right))
	return TitleStyle.Width(width).Render(left + strings.Repeat(" ", padding) + right)
}

func startCmd(s *places.Session, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		st := s.Start(ctx)
		return model.StartedMsg{Draft: st.Draft, Photos: st.Photos, Places: st.Places, Notice: st.Notice}
	}
}

func loadPlacesCmd(s *places.Session, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return model.PlacesLoadedMsg{Places: s.Places(ctx)}
	}
}

// captureCmd runs without a deadline: the camera and edit tools run until
// they exit.
func captureCmd(s *places.Session, draft model.Draft, photos []string) tea.Cmd {
	return func() tea.Msg {
		next, list, err := s.Capture(context.Background(), draft, photos)
		if places.IsSilent(err) {
			return model.CaptureCancelledMsg{}
		}
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.PhotoCapturedMsg{Draft: next, Photos: list}
	}
}

func locateCmd(s *places.Session, draft model.Draft, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		next, err := s.Locate(ctx, draft)
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.LocatedMsg{Draft: next}
	}
}

func saveTitleCmd(s *places.Session, draft model.Draft, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		_, err := s.EditTitle(ctx, draft, draft.Title)
		return model.TitleSavedMsg{Err: err}
	}
}

func savePlaceCmd(s *places.Session, draft model.Draft, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		next, place, err := s.Save(ctx, draft)
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.PlaceSavedMsg{Place: place, Places: s.Places(ctx), Draft: next}
	}
}

func clearSavedCmd(s *places.Session, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		d, err := s.ClearSaved(ctx)
		return model.SavedDataClearedMsg{Draft: d, Err: err}
	}
}

func clearPhotosCmd(s *places.Session, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		list, err := s.ClearPhotos(ctx)
		return model.PhotosClearedMsg{Photos: list, Err: err}
	}
}

func renderPreviewCmd(ref string, width, height int) tea.Cmd {
	return func() tea.Msg {
		art, err := RenderPhoto(ref, width, height)
		return previewRenderedMsg{ref: ref, art: art, err: err}
	}
}
