package places

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"

	"placebook/internal/device"
	"placebook/internal/model"
)

var errDisk = errors.New("disk full")

// ---- memStore ---------------------------------------------------------------

type memStore struct {
	mu       sync.Mutex
	data     map[string]string
	failSet  map[string]bool
	failGet  map[string]bool
	failRm   bool
	afterGet func(key string)
}

func newMemStore() *memStore {
	return &memStore{data: map[string]string{}, failSet: map[string]bool{}, failGet: map[string]bool{}}
}

func (m *memStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	if m.failGet[key] {
		m.mu.Unlock()
		return "", false, errDisk
	}
	v, ok := m.data[key]
	hook := m.afterGet
	m.mu.Unlock()
	if hook != nil {
		hook(key)
	}
	return v, ok, nil
}

func (m *memStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSet[key] {
		return errDisk
	}
	m.data[key] = value
	return nil
}

func (m *memStore) Remove(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failRm {
		return errDisk
	}
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *memStore) keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for k := range m.data {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

var _ Store = (*memStore)(nil)

// ---- fakeCamera -------------------------------------------------------------

type fakeCamera struct {
	permission model.Permission
	results    []device.CaptureResult
	err        error
	calls      int
	lastOpts   device.CaptureOptions
}

func (c *fakeCamera) RequestPermission(context.Context) (model.Permission, error) {
	return c.permission, nil
}

func (c *fakeCamera) Capture(_ context.Context, opts device.CaptureOptions) (device.CaptureResult, error) {
	c.lastOpts = opts
	if c.err != nil {
		return device.CaptureResult{}, c.err
	}
	res := c.results[c.calls%len(c.results)]
	c.calls++
	return res, nil
}

func grantedCamera(refs ...string) *fakeCamera {
	c := &fakeCamera{permission: model.PermissionGranted}
	for _, r := range refs {
		c.results = append(c.results, device.CaptureResult{FileRef: r})
	}
	return c
}

// ---- fakePositioner ---------------------------------------------------------

type fakePositioner struct {
	permission model.Permission
	coord      model.Coordinate
	err        error
	requests   int
}

func (p *fakePositioner) RequestForegroundPermission(context.Context) (model.Permission, error) {
	p.requests++
	return p.permission, nil
}

func (p *fakePositioner) CurrentPosition(context.Context) (model.Coordinate, error) {
	return p.coord, p.err
}

// ---- fakeLibrary ------------------------------------------------------------

type fakeLibrary struct {
	err       error
	discarded []string
}

func (l *fakeLibrary) Save(_ context.Context, ref string) (string, error) {
	if l.err != nil {
		return "", l.err
	}
	return "library/" + ref, nil
}

func (l *fakeLibrary) Discard(_ context.Context, ref string) error {
	l.discarded = append(l.discarded, ref)
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
