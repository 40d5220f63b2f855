package places

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"placebook/internal/device"
	"placebook/internal/model"
)

// Store is the key/value text store the session persists to.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, keys ...string) error
}

// Camera takes photos.
type Camera interface {
	RequestPermission(ctx context.Context) (model.Permission, error)
	Capture(ctx context.Context, opts device.CaptureOptions) (device.CaptureResult, error)
}

// Positioner reports the device position.
type Positioner interface {
	RequestForegroundPermission(ctx context.Context) (model.Permission, error)
	CurrentPosition(ctx context.Context) (model.Coordinate, error)
}

// Library keeps a durable copy of a captured file and returns its reference.
type Library interface {
	Save(ctx context.Context, fileRef string) (string, error)
	Discard(ctx context.Context, ref string) error
}

// DefaultCaptureOptions enables editing and reduces quality to bound storage size.
var DefaultCaptureOptions = device.CaptureOptions{AllowEdit: true, Quality: 0.7}

// Session runs the place handlers against the store and device capabilities.
//
// Every list update is a read-modify-write of a single key and is not atomic:
// two overlapping updates of the same list race last-write-wins and one
// append can be lost. The UI serializes user actions, so this is accepted.
type Session struct {
	store   Store
	camera  Camera
	pos     Positioner
	library Library
	logger  *slog.Logger
	now     func() time.Time

	hasLocationPermission bool
}

// NewSession wires a session. library may be nil, in which case captured
// files are referenced where the camera left them.
func NewSession(store Store, camera Camera, pos Positioner, library Library, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		store:   store,
		camera:  camera,
		pos:     pos,
		library: library,
		logger:  logger,
		now:     time.Now,
	}
}

// HasLocationPermission reports the result of the startup permission request.
func (s *Session) HasLocationPermission() bool {
	return s.hasLocationPermission
}

// State is what the UI needs to render after startup.
type State struct {
	Draft  model.Draft
	Photos []string
	Places []model.Place
	Notice string // non-blocking notice shown once
}

// Start rehydrates the draft and lists and requests location permission.
// It must be called once per session; the permission is never re-requested.
func (s *Session) Start(ctx context.Context) State {
	var started State

	started.Draft = s.loadDraft(ctx)
	started.Photos = s.Photos(ctx)
	started.Places = s.Places(ctx)

	perm, err := s.pos.RequestForegroundPermission(ctx)
	if err != nil {
		s.logger.Error("location permission request failed", "error", err)
	}
	s.hasLocationPermission = err == nil && perm == model.PermissionGranted
	if !s.hasLocationPermission {
		started.Notice = "Location permission denied; location capture is disabled for this session."
	}
	s.logger.Info("session started",
		"photos", len(started.Photos),
		"places", len(started.Places),
		"location_permission", s.hasLocationPermission,
	)
	return started
}

func (s *Session) loadDraft(ctx context.Context) model.Draft {
	var d model.Draft
	if photo, ok, err := s.store.Get(ctx, KeyLastPhoto); err != nil {
		s.logger.Warn("failed to load last photo", "error", err)
	} else if ok {
		d.PhotoRef = photo
	}
	if title, ok, err := s.store.Get(ctx, KeyLastTitle); err != nil {
		s.logger.Warn("failed to load last title", "error", err)
	} else if ok {
		d.Title = title
	}
	return d
}

// Photos reads the photo list. Read failures and malformed text yield an empty list.
func (s *Session) Photos(ctx context.Context) []string {
	raw, ok, err := s.store.Get(ctx, KeyPhotoList)
	if err != nil {
		s.logger.Warn("failed to read photo list", "error", err)
		return []string{}
	}
	return DecodePhotos(raw, ok)
}

// Places reads the place list. Read failures and malformed text yield an empty list.
func (s *Session) Places(ctx context.Context) []model.Place {
	raw, ok, err := s.store.Get(ctx, KeyPlaceList)
	if err != nil {
		s.logger.Warn("failed to read place list", "error", err)
		return []model.Place{}
	}
	return DecodePlaces(raw, ok)
}

// Capture takes a photo, stores a durable copy, appends it to the photo list
// and makes it the draft photo. On any failure draft and photos are returned
// unchanged; the captured file may then be lost (at-most-once).
func (s *Session) Capture(ctx context.Context, draft model.Draft, photos []string) (model.Draft, []string, error) {
	perm, err := s.camera.RequestPermission(ctx)
	if err != nil || perm != model.PermissionGranted {
		if err != nil {
			s.logger.Error("camera permission request failed", "error", err)
		}
		return draft, photos, &PermissionDeniedError{Capability: "camera"}
	}

	res, err := s.camera.Capture(ctx, DefaultCaptureOptions)
	if err != nil {
		s.logger.Error("camera failed", "error", err)
		return draft, photos, fmt.Errorf("failed to open camera: %w", err)
	}
	if res.Cancelled {
		s.logger.Debug("capture cancelled")
		return draft, photos, ErrCaptureCancelled
	}
	if res.FileRef == "" {
		s.logger.Warn("capture returned no file")
		return draft, photos, ErrCaptureExtraction
	}

	raw, ok, err := s.store.Get(ctx, KeyPhotoList)
	if err != nil {
		s.logger.Error("failed to read photo list before append", "error", err)
		return draft, photos, writeError("read photo list", err)
	}

	ref := res.FileRef
	if s.library != nil {
		durable, err := s.library.Save(ctx, ref)
		if err != nil {
			s.logger.Error("failed to copy photo into library", "file", ref, "error", err)
			return draft, photos, writeError("copy photo", err)
		}
		ref = durable
	}

	updated := append(DecodePhotos(raw, ok), ref)

	encoded, err := EncodePhotos(updated)
	if err == nil {
		err = s.store.Set(ctx, KeyPhotoList, encoded)
	}
	if err != nil {
		s.logger.Error("failed to save photo list", "error", err)
		s.discard(ctx, ref)
		return draft, photos, writeError("save photo list", err)
	}

	if err := s.store.Set(ctx, KeyLastPhoto, ref); err != nil {
		s.logger.Warn("failed to save last photo", "error", err)
	}

	s.logger.Info("photo captured", "file", ref, "photos", len(updated))
	return draft.WithPhoto(ref), updated, nil
}

// discard drops a library copy that never made it into the photo list.
func (s *Session) discard(ctx context.Context, ref string) {
	if s.library == nil {
		return
	}
	if err := s.library.Discard(ctx, ref); err != nil {
		s.logger.Warn("failed to discard unrecorded photo", "file", ref, "error", err)
	}
}

// Locate stores the current position into the draft.
func (s *Session) Locate(ctx context.Context, draft model.Draft) (model.Draft, error) {
	if !s.hasLocationPermission {
		return draft, &PermissionDeniedError{Capability: "location"}
	}

	c, err := s.pos.CurrentPosition(ctx)
	if err != nil {
		s.logger.Warn("position lookup failed", "error", err)
		return draft, fmt.Errorf("%w: %w", ErrLocationUnavailable, err)
	}

	s.logger.Debug("position acquired", "lat", c.Latitude, "lon", c.Longitude)
	return draft.WithCoordinate(c), nil
}

// EditTitle updates the title and writes it through to the title slot.
// The returned draft always carries the new title; a non-nil error only
// reports that persisting it failed.
func (s *Session) EditTitle(ctx context.Context, draft model.Draft, title string) (model.Draft, error) {
	next := draft.WithTitle(title)
	if err := s.store.Set(ctx, KeyLastTitle, title); err != nil {
		s.logger.Warn("failed to save title", "error", err)
		return next, writeError("save title", err)
	}
	return next, nil
}

// Save turns a complete draft into a Place appended to the place list and
// returns the reset draft. Invalid drafts and failed writes leave the draft
// and the store untouched.
func (s *Session) Save(ctx context.Context, draft model.Draft) (model.Draft, model.Place, error) {
	if missing := draft.MissingFields(); len(missing) > 0 {
		return draft, model.Place{}, &ValidationError{Missing: missing}
	}

	created := s.now()
	place := model.Place{
		ID:         strconv.FormatInt(created.UnixMilli(), 10),
		Title:      draft.Title,
		PhotoRef:   draft.PhotoRef,
		Coordinate: *draft.Coordinate,
		CreatedAt:  created.UTC(),
	}

	raw, ok, err := s.store.Get(ctx, KeyPlaceList)
	if err != nil {
		s.logger.Error("failed to read place list before append", "error", err)
		return draft, model.Place{}, writeError("read place list", err)
	}
	list := append(DecodePlaces(raw, ok), place)

	encoded, err := EncodePlaces(list)
	if err != nil {
		return draft, model.Place{}, writeError("encode places", err)
	}
	if err := s.store.Set(ctx, KeyPlaceList, encoded); err != nil {
		s.logger.Error("failed to save place", "error", err)
		return draft, model.Place{}, writeError("save place", err)
	}

	if err := s.store.Remove(ctx, KeyLastPhoto, KeyLastTitle); err != nil {
		s.logger.Warn("failed to drop draft slots after save", "error", err)
	}

	s.logger.Info("place saved", "id", place.ID, "title", place.Title, "places", len(list))
	return model.Draft{}, place, nil
}

// ClearSaved removes the last photo and title slots. The returned draft is
// empty even when the removal fails.
func (s *Session) ClearSaved(ctx context.Context) (model.Draft, error) {
	if err := s.store.Remove(ctx, KeyLastPhoto, KeyLastTitle); err != nil {
		s.logger.Error("failed to clear saved data", "error", err)
		return model.Draft{}, writeError("clear saved data", err)
	}
	s.logger.Info("saved data cleared")
	return model.Draft{}, nil
}

// ClearPhotos removes the whole photo list. The returned list is empty even
// when the removal fails.
func (s *Session) ClearPhotos(ctx context.Context) ([]string, error) {
	if err := s.store.Remove(ctx, KeyPhotoList); err != nil {
		s.logger.Error("failed to clear photos", "error", err)
		return []string{}, writeError("clear photos", err)
	}
	s.logger.Info("photo list cleared")
	return []string{}, nil
}

// IsSilent reports errors the UI must not surface.
func IsSilent(err error) bool {
	return errors.Is(err, ErrCaptureCancelled)
}
