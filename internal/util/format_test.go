package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"placebook/internal/model"
)

func TestFormatCoordinate(t *testing.T) {
	assert.Equal(t, "—", FormatCoordinate(nil))
	assert.Equal(t, "-23.55052, -46.63331", FormatCoordinate(&model.Coordinate{Latitude: -23.550520, Longitude: -46.633309}))
}

func TestFormatPlaceTime(t *testing.T) {
	now := time.Date(2026, 10, 15, 18, 0, 0, 0, time.UTC)

	tests := []struct {
		in   time.Time
		want string
	}{
		{time.Time{}, "Unknown"},
		{now.Add(-time.Hour), "Today"},
		{now.AddDate(0, 0, -1), "Yesterday"},
		{now.AddDate(0, 0, -3), "3d ago"},
		{time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC), "Jan 15"},
		{time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC), "Jan 15 '24"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatPlaceTime(tt.in, now))
	}
}

func TestPlaceTime(t *testing.T) {
	created := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, created, PlaceTime(model.Place{ID: "1", CreatedAt: created}))
	assert.Equal(t, int64(1792065600000), PlaceTime(model.Place{ID: "1792065600000"}).UnixMilli())
	assert.True(t, PlaceTime(model.Place{ID: "abc"}).IsZero())
}

func TestMapURL(t *testing.T) {
	got := MapURL(model.Coordinate{Latitude: 1.5, Longitude: -2})
	assert.Equal(t, "https://www.openstreetmap.org/?mlat=1.50000&mlon=-2.00000#map=17/1.50000/-2.00000", got)
}

func TestShortRef(t *testing.T) {
	assert.Equal(t, "—", ShortRef(""))
	assert.Equal(t, "img://a", ShortRef("img://a"))
	assert.Equal(t, "3f2a.jpg", ShortRef("/home/u/.placebook/photos/3f2a.jpg"))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "Beach", TruncateString("Beach", 10))
	assert.Equal(t, "Copa...", TruncateString("Copacabana", 7))
	assert.Equal(t, "Co", TruncateString("Copacabana", 2))
	assert.Equal(t, "", TruncateString("Copacabana", 0))
}
