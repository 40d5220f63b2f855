package ui

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"placebook/internal/db"
	"placebook/internal/device"
	"placebook/internal/model"
	"placebook/internal/places"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCamera struct {
	result      device.CaptureResult
	calls       int
	hadDeadline bool
}

func (c *stubCamera) RequestPermission(context.Context) (model.Permission, error) {
	return model.PermissionGranted, nil
}

func (c *stubCamera) Capture(ctx context.Context, _ device.CaptureOptions) (device.CaptureResult, error) {
	c.calls++
	_, c.hadDeadline = ctx.Deadline()
	return c.result, nil
}

type harness struct {
	store  *db.KVStore
	camera *stubCamera
	model  Model
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	database, err := db.Open(filepath.Join(dir, "placebook.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	h := &harness{
		store:  db.NewKVStore(database),
		camera: &stubCamera{result: device.CaptureResult{FileRef: "img://beach"}},
	}
	pos := device.FixedPositioner{Coordinate: model.Coordinate{Latitude: -22.97, Longitude: -43.18}, Allowed: true}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	session := places.NewSession(h.store, h.camera, pos, nil, logger)

	h.model = New(session, Options{PrefsPath: filepath.Join(dir, "ui_prefs.json")})
	h.model.titleInput.Cursor.SetMode(cursor.CursorStatic)
	return h
}

// start runs Init and sizes the window.
func (h *harness) start(t *testing.T) {
	t.Helper()
	h.run(t, h.model.Init())
	h.send(t, tea.WindowSizeMsg{Width: 120, Height: 40})
}

// send delivers msg and runs every command it produces.
func (h *harness) send(t *testing.T, msg tea.Msg) {
	t.Helper()
	next, cmd := h.model.Update(msg)
	h.model = next.(Model)
	h.run(t, cmd)
}

// sendOnly delivers msg and drops the commands it produces.
func (h *harness) sendOnly(msg tea.Msg) {
	next, _ := h.model.Update(msg)
	h.model = next.(Model)
}

func (h *harness) run(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case nil, spinner.TickMsg:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			next, follow := h.model.Update(msg)
			h.model = next.(Model)
			queue = append(queue, follow)
		}
	}
}

func (h *harness) stored(t *testing.T, key string) (string, bool) {
	t.Helper()
	v, ok, err := h.store.Get(context.Background(), key)
	require.NoError(t, err)
	return v, ok
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_StartRehydratesDraft(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.store.Set(ctx, places.KeyLastTitle, "Copacabana"))
	require.NoError(t, h.store.Set(ctx, places.KeyLastPhoto, "img://old"))
	require.NoError(t, h.store.Set(ctx, places.KeyPhotoList, `["img://old"]`))

	h.start(t)

	assert.Equal(t, "Copacabana", h.model.draft.Title)
	assert.Equal(t, "Copacabana", h.model.titleInput.Value())
	assert.Equal(t, "img://old", h.model.draft.PhotoRef)
	assert.Equal(t, []string{"img://old"}, h.model.photos)
	assert.Empty(t, h.model.info)
}

func TestModel_FullDraftIsSavedAndReset(t *testing.T) {
	h := newHarness(t)
	h.start(t)

	h.send(t, runes("p"))
	require.Equal(t, "img://beach", h.model.draft.PhotoRef)
	assert.Equal(t, []string{"img://beach"}, h.model.photos)

	h.send(t, runes("l"))
	require.NotNil(t, h.model.draft.Coordinate)
	assert.InDelta(t, -22.97, h.model.draft.Coordinate.Latitude, 1e-9)

	h.send(t, runes("i"))
	require.Equal(t, model.ModeInsert, h.model.mode)
	h.send(t, runes("Beach"))
	assert.Equal(t, "Beach", h.model.draft.Title)
	title, ok := h.stored(t, places.KeyLastTitle)
	require.True(t, ok)
	assert.Equal(t, "Beach", title)

	h.send(t, tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, model.ModeNav, h.model.mode)

	h.send(t, tea.KeyMsg{Type: tea.KeyCtrlS})

	assert.True(t, h.model.draft.IsEmpty())
	assert.Empty(t, h.model.titleInput.Value())
	assert.Empty(t, h.model.error)
	require.Len(t, h.model.places.Rows(), 1)
	assert.Equal(t, "Beach", h.model.places.Rows()[0].Title)

	raw, ok := h.stored(t, places.KeyPlaceList)
	require.True(t, ok)
	assert.Contains(t, raw, `"title":"Beach"`)
	_, ok = h.stored(t, places.KeyLastTitle)
	assert.False(t, ok)
}

func TestModel_IncompleteSaveShowsMissingFields(t *testing.T) {
	h := newHarness(t)
	h.start(t)

	h.send(t, runes("p"))
	h.send(t, tea.KeyMsg{Type: tea.KeyCtrlS})

	assert.Equal(t, "Fill in all fields (location, title).", h.model.error)
	assert.Equal(t, "img://beach", h.model.draft.PhotoRef)
	_, ok := h.stored(t, places.KeyPlaceList)
	assert.False(t, ok)
}

func TestModel_CancelledCaptureIsSilent(t *testing.T) {
	h := newHarness(t)
	h.camera.result = device.CaptureResult{Cancelled: true}
	h.start(t)

	h.send(t, runes("p"))

	assert.Empty(t, h.model.error)
	assert.Empty(t, h.model.busy)
	assert.Empty(t, h.model.draft.PhotoRef)
	assert.Empty(t, h.model.photos)
}

func TestModel_CaptureRunsWithoutDeadline(t *testing.T) {
	h := newHarness(t)
	h.start(t)
	h.model.opts.Timeout = time.Millisecond

	h.send(t, runes("p"))

	require.Equal(t, 1, h.camera.calls)
	assert.False(t, h.camera.hadDeadline)
	assert.Equal(t, "img://beach", h.model.draft.PhotoRef)
}

func TestModel_BusyIgnoresSecondCapture(t *testing.T) {
	h := newHarness(t)
	h.start(t)

	h.sendOnly(runes("p"))
	require.Equal(t, "Taking photo", h.model.busy)
	h.sendOnly(runes("p"))

	assert.Equal(t, 0, h.camera.calls)
}

func TestModel_ClearSavedRequiresConfirmation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.store.Set(ctx, places.KeyLastTitle, "Copacabana"))
	h.start(t)

	h.send(t, runes("x"))
	require.Equal(t, model.ModeConfirm, h.model.mode)
	_, ok := h.stored(t, places.KeyLastTitle)
	assert.True(t, ok)

	h.send(t, runes("n"))
	assert.Equal(t, model.ModeNav, h.model.mode)
	assert.Equal(t, "Cancelled", h.model.info)
	_, ok = h.stored(t, places.KeyLastTitle)
	assert.True(t, ok)
	assert.Equal(t, "Copacabana", h.model.draft.Title)

	h.send(t, runes("x"))
	h.send(t, runes("y"))
	_, ok = h.stored(t, places.KeyLastTitle)
	assert.False(t, ok)
	assert.True(t, h.model.draft.IsEmpty())
	assert.Equal(t, "Saved data cleared", h.model.info)
}

func TestModel_ClearPhotosRequiresConfirmation(t *testing.T) {
	h := newHarness(t)
	h.start(t)
	h.send(t, runes("p"))
	require.Len(t, h.model.photos, 1)

	h.send(t, runes("X"))
	require.Equal(t, model.ModeConfirm, h.model.mode)
	assert.Len(t, h.model.photos, 1)

	h.send(t, runes("y"))
	assert.Empty(t, h.model.photos)
	_, ok := h.stored(t, places.KeyPhotoList)
	assert.False(t, ok)
	assert.Equal(t, "img://beach", h.model.draft.PhotoRef)
}

func TestModel_TitleWritesLandInOrder(t *testing.T) {
	h := newHarness(t)
	h.start(t)
	h.send(t, runes("i"))

	next, first := h.model.Update(runes("a"))
	h.model = next.(Model)
	require.True(t, h.model.titleWriting)

	h.sendOnly(runes("b"))
	assert.True(t, h.model.titleDirty)

	h.run(t, first)

	title, ok := h.stored(t, places.KeyLastTitle)
	require.True(t, ok)
	assert.Equal(t, "ab", title)
	assert.False(t, h.model.titleWriting)
	assert.False(t, h.model.titleDirty)
}

func TestModel_SaveWaitsForPendingTitleWrite(t *testing.T) {
	h := newHarness(t)
	h.start(t)
	h.send(t, runes("i"))

	next, first := h.model.Update(runes("x"))
	h.model = next.(Model)
	h.send(t, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.Equal(t, "Saving", h.model.busy)
	assert.Empty(t, h.model.error, "save must not run before the title write lands")

	h.run(t, first)

	assert.Equal(t, "Fill in all fields (photo, location).", h.model.error)
	assert.Empty(t, h.model.busy)
	title, _ := h.stored(t, places.KeyLastTitle)
	assert.Equal(t, "x", title)
}

func TestModel_SwitchViewLoadsPlaces(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.store.Set(context.Background(), places.KeyPlaceList,
		`[{"id":"1792065600000","title":"Pão de Açúcar","photoRef":"img://p","coordinate":{"latitude":-22.95,"longitude":-43.15}}]`))
	h.start(t)

	h.send(t, runes("v"))

	assert.Equal(t, model.ScreenPlaces, h.model.screen)
	require.Len(t, h.model.places.Rows(), 1)
	assert.Contains(t, h.model.View(), "Pão de Açúcar")

	h.send(t, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Contains(t, h.model.info, "openstreetmap.org")
}

func TestModel_DraftViewPlaceholders(t *testing.T) {
	h := newHarness(t)
	h.start(t)

	view := h.model.View()
	assert.Contains(t, view, "No photo taken")
	assert.Contains(t, view, "Location not set")
}
