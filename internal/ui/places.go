package ui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"placebook/internal/model"
	"placebook/internal/util"

	"github.com/charmbracelet/lipgloss"
)

type placeColumn struct {
	key    string
	label  string
	width  int
	hidden bool
}

// PlacesModel represents the saved places table.
type PlacesModel struct {
	allRows []model.Place
	rows    []model.Place
	cursor  int
	offset  int
	now     func() time.Time

	columns      []placeColumn
	activeColumn int
	sortKey      string
	sortDesc     bool
	filterKey    string
	filterValue  string
}

// NewPlacesModel creates a new places model.
func NewPlacesModel(rows []model.Place) *PlacesModel {
	m := &PlacesModel{
		allRows: append([]model.Place(nil), rows...),
		now:     time.Now,
		columns: []placeColumn{
			{key: "date", label: "date", width: 12},
			{key: "title", label: "title", width: 28},
			{key: "lat", label: "lat", width: 12},
			{key: "lon", label: "lon", width: 12},
			{key: "photo", label: "photo", width: 24},
		},
	}
	m.rebuild()
	return m
}

func (m *PlacesModel) ApplyPrefs(prefs TablePrefs) {
	if prefs.SortKey != "" {
		m.sortKey = prefs.SortKey
		m.sortDesc = prefs.SortDesc
	}
	hidden := make(map[string]bool, len(prefs.HiddenColumns))
	for _, c := range prefs.HiddenColumns {
		hidden[c] = true
	}
	for i := range m.columns {
		m.columns[i].hidden = hidden[m.columns[i].key]
	}
	if prefs.ActiveColumn != "" {
		for i, c := range m.columns {
			if c.key == prefs.ActiveColumn {
				m.activeColumn = i
				break
			}
		}
	}
	m.ensureVisibleActiveColumn()
	m.rebuild()
}

func (m *PlacesModel) Prefs() TablePrefs {
	var hidden []string
	for _, c := range m.columns {
		if c.hidden {
			hidden = append(hidden, c.key)
		}
	}
	return TablePrefs{
		SortKey:       m.sortKey,
		SortDesc:      m.sortDesc,
		HiddenColumns: hidden,
		ActiveColumn:  m.columns[m.activeColumn].key,
	}
}

// Rows returns the places currently shown, after filter and sort.
func (m *PlacesModel) Rows() []model.Place {
	return m.rows
}

// Selected returns the place under the cursor.
func (m *PlacesModel) Selected() *model.Place {
	if len(m.rows) == 0 {
		return nil
	}
	p := m.rows[m.cursor]
	return &p
}

func (m *PlacesModel) rebuild() {
	rows := append([]model.Place(nil), m.allRows...)

	if m.filterKey != "" && m.filterValue != "" {
		filtered := make([]model.Place, 0, len(rows))
		target := strings.TrimSpace(m.filterValue)
		for _, r := range rows {
			if strings.EqualFold(strings.TrimSpace(m.getValue(r, m.filterKey)), target) {
				filtered = append(filtered, r)
			}
		}
		rows = filtered
	}

	if m.sortKey != "" {
		sort.SliceStable(rows, func(i, j int) bool {
			if m.sortDesc {
				return m.less(rows[j], rows[i])
			}
			return m.less(rows[i], rows[j])
		})
	}

	m.rows = rows
	m.clampCursor()
}

func (m *PlacesModel) less(a, b model.Place) bool {
	switch m.sortKey {
	case "date":
		return util.PlaceTime(a).Before(util.PlaceTime(b))
	case "lat":
		return a.Coordinate.Latitude < b.Coordinate.Latitude
	case "lon":
		return a.Coordinate.Longitude < b.Coordinate.Longitude
	default:
		return strings.ToLower(m.getValue(a, m.sortKey)) < strings.ToLower(m.getValue(b, m.sortKey))
	}
}

func (m *PlacesModel) clampCursor() {
	if len(m.rows) == 0 {
		m.cursor = 0
		m.offset = 0
		return
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.offset > m.cursor {
		m.offset = m.cursor
	}
}

func (m *PlacesModel) getValue(row model.Place, key string) string {
	switch key {
	case "date":
		return util.FormatPlaceTime(util.PlaceTime(row), m.now())
	case "title":
		return row.Title
	case "lat":
		return util.FormatDegrees(row.Coordinate.Latitude)
	case "lon":
		return util.FormatDegrees(row.Coordinate.Longitude)
	case "photo":
		return util.ShortRef(row.PhotoRef)
	default:
		return ""
	}
}

func (m *PlacesModel) NextColumn() {
	start := m.activeColumn
	for {
		m.activeColumn = (m.activeColumn + 1) % len(m.columns)
		if !m.columns[m.activeColumn].hidden || m.activeColumn == start {
			return
		}
	}
}

func (m *PlacesModel) PrevColumn() {
	start := m.activeColumn
	for {
		m.activeColumn--
		if m.activeColumn < 0 {
			m.activeColumn = len(m.columns) - 1
		}
		if !m.columns[m.activeColumn].hidden || m.activeColumn == start {
			return
		}
	}
}

func (m *PlacesModel) JumpToColumn(number int) bool {
	if number < 1 || number > len(m.columns) {
		return false
	}
	idx := number - 1
	if m.columns[idx].hidden {
		return false
	}
	m.activeColumn = idx
	return true
}

func (m *PlacesModel) SortActiveColumn(desc bool) {
	m.sortKey = m.columns[m.activeColumn].key
	m.sortDesc = desc
	m.rebuild()
}

func (m *PlacesModel) HideActiveColumn() bool {
	if len(m.visibleColumnIndexes()) <= 1 {
		return false
	}
	m.columns[m.activeColumn].hidden = true
	m.ensureVisibleActiveColumn()
	return true
}

func (m *PlacesModel) ShowAllColumns() {
	for i := range m.columns {
		m.columns[i].hidden = false
	}
}

func (m *PlacesModel) FilterBySelectedValue() bool {
	if len(m.rows) == 0 {
		return false
	}
	key := m.columns[m.activeColumn].key
	value := strings.TrimSpace(m.getValue(m.rows[m.cursor], key))
	if value == "" || value == "—" {
		return false
	}
	m.filterKey = key
	m.filterValue = value
	m.rebuild()
	return true
}

func (m *PlacesModel) ClearFilter() bool {
	if m.filterKey == "" {
		return false
	}
	m.filterKey = ""
	m.filterValue = ""
	m.rebuild()
	return true
}

func (m *PlacesModel) TableMeta() string {
	col := strings.ToUpper(m.columns[m.activeColumn].label)
	parts := []string{fmt.Sprintf("col %s", col)}
	if m.sortKey != "" {
		order := "asc"
		if m.sortDesc {
			order = "desc"
		}
		parts = append(parts, fmt.Sprintf("sort %s %s", strings.ToUpper(m.sortKey), order))
	}
	if m.filterKey != "" {
		parts = append(parts, fmt.Sprintf("filter %s=%q", strings.ToUpper(m.filterKey), m.filterValue))
	}
	return strings.Join(parts, "  ·  ")
}

func (m *PlacesModel) visibleColumnIndexes() []int {
	var idxs []int
	for i, c := range m.columns {
		if !c.hidden {
			idxs = append(idxs, i)
		}
	}
	return idxs
}

func (m *PlacesModel) ensureVisibleActiveColumn() {
	if !m.columns[m.activeColumn].hidden {
		return
	}
	for i := range m.columns {
		if !m.columns[i].hidden {
			m.activeColumn = i
			return
		}
	}
	m.columns[0].hidden = false
	m.activeColumn = 0
}

// View renders the places table.
func (m *PlacesModel) View(width, height int) string {
	if len(m.rows) == 0 {
		emptyMsg := `    No places saved yet.
    Press  p  to take a photo,  l  to locate,  ctrl+s  to save.`
		return EmptyStateStyle.
			Width(width).
			Height(height).
			Render(emptyMsg)
	}

	visible := m.visibleColumnIndexes()
	widths := make([]int, 0, len(visible))
	headers := make([]string, 0, len(visible))
	totalFixed := 0
	for _, idx := range visible {
		col := m.columns[idx]
		label := strings.ToUpper(col.label)
		if idx == m.activeColumn {
			label = "❋ " + label
		}
		if m.sortKey == col.key {
			if m.sortDesc {
				label += " ↓"
			} else {
				label += " ↑"
			}
		}
		cellWidth := max(col.width, lipgloss.Width(label)+2)
		totalFixed += cellWidth
		widths = append(widths, cellWidth)
		headers = append(headers, label)
	}

	if extra := width - totalFixed - 4; extra > 0 && len(widths) > 0 {
		widths[len(widths)-1] += extra
	}

	header := renderTableRow(headers, widths, TableHeaderStyle)

	visibleHeight := max(1, height-3)
	if m.cursor >= m.offset+visibleHeight {
		m.offset = m.cursor - visibleHeight + 1
	}

	var rows []string
	for i := m.offset; i < len(m.rows) && i < m.offset+visibleHeight; i++ {
		row := m.rows[i]
		style := NormalRowStyle
		if i%2 == 1 {
			style = style.Background(ColorStripe)
		}
		if i == m.cursor {
			style = SelectedRowStyle
		}

		cells := make([]string, 0, len(visible))
		for _, idx := range visible {
			col := m.columns[idx]
			cells = append(cells, util.TruncateString(m.getValue(row, col.key), col.width-2))
		}
		rows = append(rows, renderTableRow(cells, widths, style))
	}

	filterInfo := ""
	if m.filterKey != "" {
		filterInfo = fmt.Sprintf("  ·  filtered: %d/%d", len(m.rows), len(m.allRows))
	}
	status := StatusBarStyle.Render(fmt.Sprintf("Total places: %d%s  ·  %s", len(m.rows), filterInfo, m.TableMeta()))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		strings.Join(rows, "\n"),
		"",
		status,
	)
}

// MoveDown moves the cursor down.
func (m *PlacesModel) MoveDown() {
	if m.cursor < len(m.rows)-1 {
		m.cursor++
	}
}

// MoveUp moves the cursor up.
func (m *PlacesModel) MoveUp() {
	if m.cursor > 0 {
		m.cursor--
		if m.cursor < m.offset {
			m.offset = m.cursor
		}
	}
}

// JumpToTop jumps to the first item.
func (m *PlacesModel) JumpToTop() {
	m.cursor = 0
	m.offset = 0
}

// JumpToBottom jumps to the last item.
func (m *PlacesModel) JumpToBottom() {
	if len(m.rows) > 0 {
		m.cursor = len(m.rows) - 1
	}
}

func renderTableRow(cells []string, widths []int, style lipgloss.Style) string {
	var parts []string
	for i, cell := range cells {
		if i >= len(widths) {
			continue
		}
		parts = append(parts, style.Width(widths[i]).Render(cell))
	}
	return lipgloss.JoinHorizontal(lipgloss.Left, parts...)
}
