package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"showreel/internal/config"
	"showreel/internal/domain"
	"showreel/internal/eventbus"
)

const portfolio = `
projects:
  - id: p1
    title: Weather Dashboard
    description: Forecasts on a map
    technologies: [React, Node]
    link: https://example.com/weather
  - title: Chat App
    technologies: [Go]
  - title: Chat App
certificates:
  - id: c1
    title: Cloud Practitioner
    issuer: AWS
    date: 2023-05-10
`

func writePortfolio(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "portfolio.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func titles(items []domain.DisplayItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Title
	}
	return out
}

func TestFileSourceProjects(t *testing.T) {
	src := NewFileSource(writePortfolio(t, portfolio), CollectionProjects)

	items, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "p1", items[0].Key)
	assert.Equal(t, "https://example.com/weather", items[0].URL)
	assert.Equal(t, "React · Node", items[0].Subtitle)
	assert.Equal(t, domain.KindProject, items[0].Kind)

	assert.Equal(t, derivedKey(domain.KindProject, "Chat App"), items[1].Key)
	assert.Equal(t, items[1].Key+"-2", items[2].Key, "duplicate titles get distinct keys")
}

func TestFileSourceKeysAreStable(t *testing.T) {
	src := NewFileSource(writePortfolio(t, portfolio), CollectionAll)
	a, err := src.Fetch(context.Background())
	require.NoError(t, err)
	b, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestUniqueKeys(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"distinct", []string{"a", "b"}, []string{"a", "b"}},
		{"repeats", []string{"a", "a", "a"}, []string{"a", "a-2", "a-3"}},
		{"suffix already used", []string{"a", "a", "a-2"}, []string{"a", "a-3", "a-2"}},
		{"suffix used by a repeat", []string{"a-2", "a", "a", "a-2"}, []string{"a-2", "a", "a-3", "a-2-2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := make([]domain.DisplayItem, len(tt.in))
			for i, k := range tt.in {
				items[i].Key = k
			}
			uniqueKeys(items)

			got := make([]string, len(items))
			for i, it := range items {
				got[i] = it.Key
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("keys mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFileSourceCollections(t *testing.T) {
	path := writePortfolio(t, portfolio)

	certs, err := NewFileSource(path, CollectionCertificates).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, certs, 1)
	assert.Equal(t, "AWS", certs[0].Subtitle)
	assert.Equal(t, time.Date(2023, 5, 10, 0, 0, 0, 0, time.UTC), certs[0].Issued)

	all, err := NewFileSource(path, CollectionAll).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Weather Dashboard", "Chat App", "Chat App", "Cloud Practitioner"}, titles(all))
}

func TestFileSourceErrors(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "nope.yaml"), "").Fetch(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = NewFileSource(writePortfolio(t, "projects: [unclosed"), "").Fetch(context.Background())
	assert.Error(t, err)
}

func TestSQLiteSource(t *testing.T) {
	src, err := OpenSQLite(filepath.Join(t.TempDir(), "portfolio.db"), CollectionAll)
	require.NoError(t, err)
	defer src.Close()

	empty, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, empty)

	want := []domain.DisplayItem{
		{Key: "b", Kind: domain.KindProject, Title: "Second", Tags: []string{"Go", "SQL"}, Subtitle: "Go · SQL"},
		{Key: "a", Kind: domain.KindProject, Title: "First"},
		{Key: "c", Kind: domain.KindCertificate, Title: "Cert", Subtitle: "Issuer", Issued: time.Date(2022, 1, 2, 0, 0, 0, 0, time.UTC)},
	}
	require.NoError(t, src.Replace(context.Background(), want))

	got, err := src.Fetch(context.Background())
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	// Schema creation is idempotent
	again, err := OpenSQLite(src.dsn, CollectionCertificates)
	require.NoError(t, err)
	defer again.Close()
	certs, err := again.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Cert"}, titles(certs))
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/projects":
			w.Write([]byte(`[{"_id":"64a1","title":"Portfolio","technologies":["MongoDB","Express"]},{"id":"x2","title":"Blog"}]`))
		case "/api/certificates":
			w.Write([]byte(`[{"_id":"c9","title":"Go Basics","issuer":"Gophers","date":"2024-02-01T00:00:00Z"}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	items, err := NewHTTPSource(srv.URL+"/", CollectionAll, time.Second).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "64a1", items[0].Key)
	assert.Equal(t, "x2", items[1].Key)
	assert.Equal(t, "Gophers", items[2].Subtitle)
}

func TestHTTPSourceStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down for maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewHTTPSource(srv.URL, CollectionProjects, time.Second).Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestNewFactory(t *testing.T) {
	src, err := New(config.SourceConfig{Kind: "file", Path: "x.yaml"})
	require.NoError(t, err)
	assert.IsType(t, &FileSource{}, src)

	src, err = New(config.SourceConfig{Kind: "http", URL: "http://localhost", Timeout: "2s"})
	require.NoError(t, err)
	assert.IsType(t, &HTTPSource{}, src)

	src, err = New(config.SourceConfig{Kind: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteSource{}, src)
	assert.NoError(t, Close(src))

	_, err = New(config.SourceConfig{Kind: "mongo"})
	assert.ErrorIs(t, err, ErrUnknownKind)

	_, err = New(config.SourceConfig{Kind: "file", Collection: "blog"})
	assert.ErrorIs(t, err, ErrUnknownCollection)
}

type failing struct{}

func (failing) Fetch(context.Context) ([]domain.DisplayItem, error) {
	return nil, errors.New("connection refused")
}
func (failing) Name() string { return "failing" }

func TestLoadFailureIsEmpty(t *testing.T) {
	bus := eventbus.New(zap.NewNop())
	defer bus.Close()

	got := make(chan domain.SourceFailedEvent, 1)
	bus.Subscribe(eventbus.EventSourceFailed, func(e eventbus.DomainEvent) {
		got <- e.(domain.SourceFailedEvent)
	})

	items := Load(context.Background(), failing{}, zap.NewNop(), bus)
	assert.Empty(t, items)

	select {
	case e := <-got:
		assert.Equal(t, "failing", e.Source)
		assert.EqualError(t, e.Err, "connection refused")
	case <-time.After(time.Second):
		t.Fatal("no SourceFailed event")
	}
}

func TestWatcherRefetchesWholeList(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := writePortfolio(t, "projects:\n  - title: One\n")
	var mu sync.Mutex
	var lists [][]domain.DisplayItem
	w := &Watcher{
		Path:     path,
		Source:   NewFileSource(path, CollectionProjects),
		Debounce: 10 * time.Millisecond,
		OnChange: func(items []domain.DisplayItem) {
			mu.Lock()
			defer mu.Unlock()
			lists = append(lists, items)
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// The watch may not be registered yet, so keep saving until it is seen
	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("projects:\n  - title: One\n  - title: Two\n"), 0644)
		time.Sleep(30 * time.Millisecond)
		mu.Lock()
		defer mu.Unlock()
		return len(lists) > 0
	}, 3*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"One", "Two"}, titles(lists[len(lists)-1]))
}

func TestWatcherMissingDirectory(t *testing.T) {
	w := &Watcher{Path: filepath.Join(t.TempDir(), "gone", "portfolio.yaml"), Source: failing{}}
	assert.Error(t, w.Run(context.Background()))
}
