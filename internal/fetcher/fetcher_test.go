package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var richHTML = "<html><head><title>Acme Analytics</title></head><body><main>" +
	strings.Repeat("<p>Answer engine optimization insights for marketing teams. </p>", 12) +
	"</main></body></html>"

const thinHTML = `<html><head><title>App</title></head><body><div id="root"></div></body></html>`

const challengeHTML = `<html><head><title>Just a moment...</title></head><body>Checking your browser</body></html>`

type stubRenderer struct {
	html  string
	err   error
	calls int
}

func (s *stubRenderer) RenderHTML(ctx context.Context, pageURL string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.html, nil
}

func TestFetch_Snapshot(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Mozilla/5.0 (compatible; AEO-HealthCheck/2.5; +https://scaile.tech)", r.Header.Get("User-Agent"))
		fmt.Fprint(w, richHTML)
	})
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "User-agent: *\nDisallow:\nSitemap: /sitemap.xml\n")
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	f := New(Options{Timeout: 5 * time.Second})
	snap, err := f.Fetch(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, server.URL, snap.URL)
	assert.Equal(t, http.StatusOK, snap.StatusCode)
	assert.Contains(t, snap.HTML, "Acme Analytics")
	assert.False(t, snap.JSRendered)
	assert.True(t, snap.RobotsFound)
	assert.Contains(t, snap.RobotsTxt, "Sitemap:")
	assert.True(t, snap.SitemapFound)
	assert.GreaterOrEqual(t, snap.TotalFetchTimeMS, snap.ResponseTimeMS)
}

func TestFetch_NoRobotsNoSitemap(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, richHTML)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	f := New(Options{Timeout: 5 * time.Second})
	snap, err := f.Fetch(context.Background(), server.URL)
	require.NoError(t, err)

	assert.False(t, snap.RobotsFound)
	assert.Empty(t, snap.RobotsTxt)
	assert.False(t, snap.SitemapFound)
}

func TestFetch_SitemapProbe(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, richHTML)
	})
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "User-agent: *\nDisallow:\n")
	})
	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<?xml version="1.0"?><urlset></urlset>`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	f := New(Options{Timeout: 5 * time.Second})
	snap, err := f.Fetch(context.Background(), server.URL)
	require.NoError(t, err)

	assert.True(t, snap.RobotsFound)
	assert.True(t, snap.SitemapFound)
}

func TestFetch_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	f := New(Options{Timeout: 5 * time.Second})
	_, err := f.Fetch(context.Background(), server.URL)
	assert.ErrorContains(t, err, "HTTP 503")
}

func TestFetch_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	f := New(Options{Timeout: time.Second})
	_, err := f.Fetch(context.Background(), url)
	assert.ErrorContains(t, err, "failed to fetch")
}

func TestFetch_ChallengeBlocked(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, challengeHTML)
	}))
	defer server.Close()

	f := New(Options{Timeout: 5 * time.Second})
	_, err := f.Fetch(context.Background(), server.URL)
	assert.ErrorContains(t, err, "challenge")
}

func TestFetch_ChallengeRendered(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			fmt.Fprint(w, challengeHTML)
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	renderer := &stubRenderer{html: richHTML}
	f := New(Options{Timeout: 5 * time.Second, EnableJS: true, Renderer: renderer})

	snap, err := f.Fetch(context.Background(), server.URL)
	require.NoError(t, err)

	assert.True(t, snap.JSRendered)
	assert.Equal(t, richHTML, snap.HTML)
	assert.Equal(t, 1, renderer.calls)
}

func TestFetch_ThinContentRendered(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, thinHTML)
	}))
	defer server.Close()

	renderer := &stubRenderer{html: richHTML}
	f := New(Options{Timeout: 5 * time.Second, EnableJS: true, Renderer: renderer})

	snap, err := f.Fetch(context.Background(), server.URL)
	require.NoError(t, err)

	assert.True(t, snap.JSRendered)
	assert.Equal(t, richHTML, snap.HTML)
}

func TestFetch_RichContentNotRendered(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, richHTML)
	}))
	defer server.Close()

	renderer := &stubRenderer{html: "<html><body>should not be used</body></html>"}
	f := New(Options{Timeout: 5 * time.Second, EnableJS: true, Renderer: renderer})

	snap, err := f.Fetch(context.Background(), server.URL)
	require.NoError(t, err)

	assert.False(t, snap.JSRendered)
	assert.Equal(t, 0, renderer.calls)
}

func TestFetch_RenderStillChallenged(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, challengeHTML)
	}))
	defer server.Close()

	renderer := &stubRenderer{html: challengeHTML}
	f := New(Options{Timeout: 5 * time.Second, EnableJS: true, Renderer: renderer})

	_, err := f.Fetch(context.Background(), server.URL)
	assert.ErrorContains(t, err, "challenge")
}

func TestFetch_RenderFailureKeepsPlainHTML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			fmt.Fprint(w, thinHTML)
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	renderer := &stubRenderer{err: errors.New("no chrome binary")}
	f := New(Options{Timeout: 5 * time.Second, EnableJS: true, Renderer: renderer})

	snap, err := f.Fetch(context.Background(), server.URL)
	require.NoError(t, err)

	assert.False(t, snap.JSRendered)
	assert.Contains(t, snap.HTML, `id="root"`)
}

func TestFetch_RenderFailureOnChallengeIsFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, challengeHTML)
	}))
	defer server.Close()

	renderer := &stubRenderer{err: errors.New("no chrome binary")}
	f := New(Options{Timeout: 5 * time.Second, EnableJS: true, Renderer: renderer})

	_, err := f.Fetch(context.Background(), server.URL)
	assert.ErrorContains(t, err, "rendering failed")
}

func TestFetch_FollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, richHTML)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	f := New(Options{Timeout: 5 * time.Second})
	snap, err := f.Fetch(context.Background(), server.URL+"/old")
	require.NoError(t, err)

	assert.Equal(t, server.URL+"/new", snap.URL)
	assert.Equal(t, http.StatusOK, snap.StatusCode)
}
