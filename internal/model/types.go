package model

import (
	"strings"
	"time"
)

// Coordinate is a captured device position.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Draft is the in-progress place the user is composing.
// Handlers never mutate a Draft in place; they return a new one.
type Draft struct {
	PhotoRef   string // empty when no photo has been taken
	Title      string
	Coordinate *Coordinate
}

// WithPhoto returns a copy of d with the photo reference replaced.
func (d Draft) WithPhoto(ref string) Draft {
	d.PhotoRef = ref
	return d
}

// WithTitle returns a copy of d with the title replaced.
func (d Draft) WithTitle(title string) Draft {
	d.Title = title
	return d
}

// WithCoordinate returns a copy of d with the coordinate replaced.
func (d Draft) WithCoordinate(c Coordinate) Draft {
	d.Coordinate = &c
	return d
}

// IsEmpty reports whether no field of the draft has been filled in.
func (d Draft) IsEmpty() bool {
	return d.PhotoRef == "" && d.Title == "" && d.Coordinate == nil
}

// MissingFields lists the fields that keep the draft from becoming a Place,
// in display order: photo, location, title.
func (d Draft) MissingFields() []string {
	var missing []string
	if d.PhotoRef == "" {
		missing = append(missing, "photo")
	}
	if d.Coordinate == nil {
		missing = append(missing, "location")
	}
	if strings.TrimSpace(d.Title) == "" {
		missing = append(missing, "title")
	}
	return missing
}

// Place is a saved visited place. Places are append-only.
type Place struct {
	ID         string     `json:"id"` // creation time in Unix milliseconds
	Title      string     `json:"title"`
	PhotoRef   string     `json:"photoRef"`
	Coordinate Coordinate `json:"coordinate"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// Permission is the answer of a capability permission request.
type Permission int

const (
	PermissionDenied Permission = iota
	PermissionGranted
)

func (p Permission) String() string {
	if p == PermissionGranted {
		return "granted"
	}
	return "denied"
}
