package polessu

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func readFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(data)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// fakePages serves fixed content per URL and records requests.
type fakePages struct {
	mu       sync.Mutex
	content  map[string]string
	requests []string
}

func (f *fakePages) Get(_ context.Context, url string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, url)
	body, ok := f.content[url]
	return body, ok
}
