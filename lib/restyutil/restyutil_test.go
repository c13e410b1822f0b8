package restyutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

type memoryOutput struct {
	mutex    sync.Mutex
	messages map[string]string
}

func (o *memoryOutput) Write(id string, contents string) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.messages[id] = contents
}

func TestInstrumentClientDumpsExchanges(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Header().Set("X-Zeta", "last")
		w.Header().Set("X-Alpha", "first")
		fmt.Fprintf(w, "served %s", r.URL.Path)
	}))
	t.Cleanup(srv.Close)

	output := &memoryOutput{messages: map[string]string{}}
	client := resty.New().SetBaseURL(srv.URL)
	InstrumentClient(client, nil, output)

	_, err := client.R().SetHeader("X-Test", "yes").Get("/offer/1454003/")
	require.NoError(t, err)
	_, err = client.R().SetFormData(map[string]string{"id": "1454003"}).Post("/offer-requests/")
	require.NoError(t, err)

	require.Len(t, output.messages, 2)

	first := output.messages["1"]
	require.Contains(t, first, "GET "+srv.URL+"/offer/1454003/")
	require.Contains(t, first, "X-Test: yes")
	require.Contains(t, first, "200 "+srv.URL+"/offer/1454003/")
	require.Contains(t, first, "served /offer/1454003/")
	require.Less(t, strings.Index(first, "X-Alpha: first"), strings.Index(first, "X-Zeta: last"))

	second := output.messages["2"]
	require.Contains(t, second, "POST "+srv.URL+"/offer-requests/")
	require.Contains(t, second, "served /offer-requests/")
}

func TestTruncateLongBodies(t *testing.T) {
	short := strings.Repeat("a", maxDumpedBody)
	require.Equal(t, short, truncate(short))

	long := truncate(short + "b")
	require.True(t, strings.HasSuffix(long, "\n<TRUNCATED>"))
	require.NotContains(t, long, "b")
}

func TestFilesystemOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dump")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stale.txt"), []byte("old run"), 0o644))

	output, err := NewFilesystemOutput(dir)
	require.NoError(t, err)
	output.Write("7", "exchange")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	contents, err := os.ReadFile(filepath.Join(dir, "7.txt"))
	require.NoError(t, err)
	require.Equal(t, "exchange", string(contents))
}
