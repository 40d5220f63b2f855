package places

import (
	"encoding/json"
	"fmt"

	"placebook/internal/model"
)

// DecodePhotos parses the stored photo list. Absent or malformed text is an empty list.
func DecodePhotos(raw string, ok bool) []string {
	if !ok || raw == "" {
		return []string{}
	}
	var photos []string
	if err := json.Unmarshal([]byte(raw), &photos); err != nil || photos == nil {
		return []string{}
	}
	return photos
}

// EncodePhotos serializes the photo list for the store.
func EncodePhotos(photos []string) (string, error) {
	if photos == nil {
		photos = []string{}
	}
	data, err := json.Marshal(photos)
	if err != nil {
		return "", fmt.Errorf("failed to encode photos: %w", err)
	}
	return string(data), nil
}

// DecodePlaces parses the stored place list. Absent or malformed text is an empty list.
func DecodePlaces(raw string, ok bool) []model.Place {
	if !ok || raw == "" {
		return []model.Place{}
	}
	var list []model.Place
	if err := json.Unmarshal([]byte(raw), &list); err != nil || list == nil {
		return []model.Place{}
	}
	return list
}

// EncodePlaces serializes the place list for the store.
func EncodePlaces(list []model.Place) (string, error) {
	if list == nil {
		list = []model.Place{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("failed to encode places: %w", err)
	}
	return string(data), nil
}
