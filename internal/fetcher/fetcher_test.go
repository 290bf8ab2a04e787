package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFetcher(retries int) (*Fetcher, *[]time.Duration) {
	f := New(&Options{Retries: retries, Timeout: 5 * time.Second})

	var slept []time.Duration
	f.sleep = func(d time.Duration) { slept = append(slept, d) }
	return f, &slept
}

func TestFetchSuccessFirstAttempt(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte("<html>ok</html>"))
	}))
	defer srv.Close()

	f, slept := newTestFetcher(3)

	body, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "<html>ok</html>", body)
	assert.Equal(t, 1, hits)
	assert.Empty(t, *slept, "no backoff after an immediate success")
}

func TestNewFillsPartialOptions(t *testing.T) {
	f := New(&Options{Timeout: 5 * time.Second})

	assert.Equal(t, DefaultOptions().Retries, f.retries)
	assert.Contains(t, f.client.Header.Get("User-Agent"), "Chrome/",
		"partially-filled options must still carry the browser User-Agent")

	f = New(nil)
	assert.Equal(t, DefaultOptions().Retries, f.retries)
}

func TestFetchSendsUserAgent(t *testing.T) {
	var ua string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	f, _ := newTestFetcher(1)

	_, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, ua, "Chrome/")
}

func TestFetchRetriesOnServerError(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("recovered"))
	}))
	defer srv.Close()

	f, slept := newTestFetcher(3)

	body, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "recovered", body)
	assert.Equal(t, 3, hits)
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, *slept)
}

func TestFetchExhaustsRetries(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f, slept := newTestFetcher(3)

	_, err := f.Fetch(context.Background(), srv.URL)
	require.ErrorIs(t, err, ErrFetchFailed)
	assert.Equal(t, 3, hits, "makes at most N attempts")

	// Sleeps only between attempts, never after the last one, and the
	// backoff strictly increases.
	require.Len(t, *slept, 2)
	assert.Less(t, (*slept)[0], (*slept)[1])
}

func TestFetchConnectionError(t *testing.T) {
	// Grab a port nobody is listening on.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	f, slept := newTestFetcher(2)

	_, err := f.Fetch(context.Background(), url)
	require.ErrorIs(t, err, ErrFetchFailed)
	assert.Len(t, *slept, 1)
}

func TestFetchSingleAttemptNeverSleeps(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	f, slept := newTestFetcher(1)

	_, err := f.Fetch(context.Background(), srv.URL)
	require.ErrorIs(t, err, ErrFetchFailed)
	assert.Empty(t, *slept)
}
