// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/tuneflow/internal/models"
	"github.com/desertthunder/tuneflow/internal/player"
	"github.com/desertthunder/tuneflow/internal/shared"
)

// MockCatalog is a test double for services.Catalog.
//
// SearchFunc answers searches; every query is recorded in Queries.
type MockCatalog struct {
	SearchFunc func(ctx context.Context, q models.Query) ([]models.Item, error)

	mu      sync.Mutex
	Queries []models.Query
}

func (m *MockCatalog) Search(ctx context.Context, q models.Query) ([]models.Item, error) {
	m.mu.Lock()
	m.Queries = append(m.Queries, q)
	m.mu.Unlock()

	if m.SearchFunc == nil {
		return nil, nil
	}
	return m.SearchFunc(ctx, q)
}

func (m *MockCatalog) Name() string { return "mock" }

// Calls returns the number of searches made so far.
func (m *MockCatalog) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Queries)
}

// StaticCatalog returns a [MockCatalog] that always answers with items and err.
func StaticCatalog(items []models.Item, err error) *MockCatalog {
	return &MockCatalog{SearchFunc: func(context.Context, models.Query) ([]models.Item, error) {
		return items, err
	}}
}

// MemoryRecords is an in-memory record store for playlist tests.
type MemoryRecords struct {
	mu      sync.Mutex
	values  map[string]string
	PutErr  error
	Puts    int
	Deletes int
}

func NewMemoryRecords() *MemoryRecords {
	return &MemoryRecords{values: map[string]string{}}
}

func (m *MemoryRecords) Get(ctx context.Context, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[name]
	if !ok {
		return "", shared.ErrRecordNotFound
	}
	return v, nil
}

func (m *MemoryRecords) Put(ctx context.Context, name, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PutErr != nil {
		return m.PutErr
	}
	m.Puts++
	m.values[name] = value
	return nil
}

func (m *MemoryRecords) Delete(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deletes++
	delete(m.values, name)
	return nil
}

// Raw returns the stored value for name without error handling.
func (m *MemoryRecords) Raw(name string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[name]
}

// Song builds a playable song item for tests.
func Song(id int64, title string, price float64, date string) models.Item {
	return models.Item{
		ID:          id,
		Kind:        models.KindSong,
		Artwork:     "https://art.test/300x300bb.jpg",
		Title:       title,
		Artist:      "Test Artist",
		Price:       price,
		PreviewURL:  "https://audio.test/" + title + ".m4a",
		ReleaseDate: date,
	}
}

// MockLauncher records started previews instead of running a player.
type MockLauncher struct {
	StartErr error

	mu        sync.Mutex
	Playbacks []*MockPlayback
}

var _ player.Launcher = (*MockLauncher)(nil)

func (m *MockLauncher) Start(ctx context.Context, url string) (player.Playback, error) {
	if m.StartErr != nil {
		return nil, m.StartErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	p := &MockPlayback{url: url, done: make(chan struct{})}
	m.Playbacks = append(m.Playbacks, p)
	return p, nil
}

// Last returns the most recently started playback, or nil.
func (m *MockLauncher) Last() *MockPlayback {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Playbacks) == 0 {
		return nil
	}
	return m.Playbacks[len(m.Playbacks)-1]
}

// MockPlayback is a fake running preview. Finish simulates the natural end of playback.
type MockPlayback struct {
	url     string
	once    sync.Once
	done    chan struct{}
	Stopped bool
}

func (p *MockPlayback) URL() string           { return p.url }
func (p *MockPlayback) Done() <-chan struct{} { return p.done }

func (p *MockPlayback) Stop() error {
	p.Stopped = true
	p.Finish()
	return nil
}

func (p *MockPlayback) Finish() {
	p.once.Do(func() { close(p.done) })
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

var _ io.ReadCloser = (*FCloser)(nil)

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
