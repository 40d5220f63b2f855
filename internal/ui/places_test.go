package ui

import (
	"strings"
	"testing"
	"time"

	"placebook/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePlaces() []model.Place {
	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	return []model.Place{
		{ID: "1", Title: "Copacabana", PhotoRef: "img://a", Coordinate: model.Coordinate{Latitude: -22.97, Longitude: -43.18}, CreatedAt: base},
		{ID: "2", Title: "Cristo Redentor", PhotoRef: "img://b", Coordinate: model.Coordinate{Latitude: -22.95, Longitude: -43.21}, CreatedAt: base.Add(48 * time.Hour)},
		{ID: "3", Title: "Ibirapuera", PhotoRef: "img://c", Coordinate: model.Coordinate{Latitude: -23.58, Longitude: -46.65}, CreatedAt: base.Add(24 * time.Hour)},
	}
}

func titles(rows []model.Place) []string {
	var out []string
	for _, r := range rows {
		out = append(out, r.Title)
	}
	return out
}

func TestPlacesModel_SortsNumericallyAndByDate(t *testing.T) {
	m := NewPlacesModel(samplePlaces())

	require.True(t, m.JumpToColumn(3))
	m.SortActiveColumn(false)
	assert.Equal(t, []string{"Ibirapuera", "Copacabana", "Cristo Redentor"}, titles(m.Rows()))

	require.True(t, m.JumpToColumn(1))
	m.SortActiveColumn(true)
	assert.Equal(t, []string{"Cristo Redentor", "Ibirapuera", "Copacabana"}, titles(m.Rows()))
}

func TestPlacesModel_FilterBySelectedValue(t *testing.T) {
	m := NewPlacesModel(samplePlaces())
	require.True(t, m.JumpToColumn(2))
	m.MoveDown()

	require.True(t, m.FilterBySelectedValue())
	assert.Equal(t, []string{"Cristo Redentor"}, titles(m.Rows()))
	assert.Contains(t, m.TableMeta(), `filter TITLE="Cristo Redentor"`)

	require.True(t, m.ClearFilter())
	assert.Len(t, m.Rows(), 3)
	assert.False(t, m.ClearFilter())
}

func TestPlacesModel_KeepsOneVisibleColumn(t *testing.T) {
	m := NewPlacesModel(samplePlaces())
	for i := 0; i < 4; i++ {
		require.True(t, m.HideActiveColumn())
	}
	assert.False(t, m.HideActiveColumn())

	prefs := m.Prefs()
	assert.Len(t, prefs.HiddenColumns, 4)

	restored := NewPlacesModel(samplePlaces())
	restored.ApplyPrefs(prefs)
	assert.Len(t, restored.visibleColumnIndexes(), 1)

	restored.ShowAllColumns()
	assert.Len(t, restored.visibleColumnIndexes(), 5)
}

func TestPlacesModel_EmptyView(t *testing.T) {
	m := NewPlacesModel(nil)
	assert.Nil(t, m.Selected())
	assert.Contains(t, m.View(80, 20), "No places saved yet.")
}

func TestUIPreferences_SaveLoad(t *testing.T) {
	path := t.TempDir() + "/ui_prefs.json"
	assert.Equal(t, defaultUIPreferences(), loadUIPreferences(path))

	prefs := UIPreferences{Places: TablePrefs{SortKey: "title", HiddenColumns: []string{"photo"}, ActiveColumn: "lat"}}
	require.NoError(t, saveUIPreferences(path, prefs))
	assert.Equal(t, prefs, loadUIPreferences(path))
}

func TestRenderMap_ShowsRegionBounds(t *testing.T) {
	out := RenderMap(model.Coordinate{Latitude: -22.970, Longitude: -43.180}, 21, 7)

	assert.Contains(t, out, "-22.960")
	assert.Contains(t, out, "-22.980")
	assert.Contains(t, out, "-43.190")
	assert.Contains(t, out, "-43.170")
	assert.Equal(t, 1, strings.Count(out, "◉"))
}

func TestRenderPhoto_MissingFile(t *testing.T) {
	_, err := RenderPhoto(t.TempDir()+"/missing.jpg", 20, 10)
	require.Error(t, err)
}

func TestRenderPhotoStrip_MarksCurrentAndTruncates(t *testing.T) {
	photos := []string{"img://one", "img://two", "img://three"}

	out := renderPhotoStrip(photos, "img://three", 200)
	assert.Contains(t, out, "Photos (3)")
	assert.Contains(t, out, "img://one")

	narrow := renderPhotoStrip(photos, "img://three", 30)
	assert.Contains(t, narrow, "img://three")
	assert.Contains(t, narrow, "…")
	assert.NotContains(t, narrow, "img://one")

	assert.Contains(t, renderPhotoStrip(nil, "", 80), "none yet")
}
