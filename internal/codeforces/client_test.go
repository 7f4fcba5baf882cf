package codeforces

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/shonendev/portfolio/internal/stats"
)

func newTestServer(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32, chan *http.Request) {
	t.Helper()
	var hits atomic.Int32
	reqs := make(chan *http.Request, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		reqs <- r
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits, reqs
}

func TestFetchProfileResolved(t *testing.T) {
	t.Parallel()

	body := `{"status":"OK","result":[{"handle":"ShonenDev","rating":1850,"maxRating":2100,"rank":"candidate master","maxRank":"master","avatar":"https://userpic.codeforces.org/a.png"}]}`
	srv, hits, reqs := newTestServer(t, http.StatusOK, body)

	c := NewClient(WithBaseURL(srv.URL + "/"))
	ps, err := c.FetchProfile(context.Background(), "ShonenDev")
	require.NoError(t, err)
	require.Equal(t, int32(1), hits.Load())

	r := <-reqs
	require.Equal(t, http.MethodGet, r.Method)
	require.Equal(t, "/api/user.info", r.URL.Path)
	require.Equal(t, "ShonenDev", r.URL.Query().Get("handles"))
	require.Equal(t, "false", r.URL.Query().Get("checkHistoricHandles"))

	require.NotNil(t, ps.CurrentRating)
	require.NotNil(t, ps.MaxRating)
	require.Equal(t, 1850, *ps.CurrentRating)
	require.Equal(t, 2100, *ps.MaxRating)
	require.Equal(t, "master", ps.MaxRank)
	require.Equal(t, "https://userpic.codeforces.org/a.png", ps.ProfileImageURL)
}

func TestFetchProfileUnratedAndProtocolRelativeAvatar(t *testing.T) {
	t.Parallel()

	body := `{"status":"OK","result":[{"handle":"newcomer","avatar":"//userpic.codeforces.org/no-avatar.jpg"}]}`
	srv, _, _ := newTestServer(t, http.StatusOK, body)

	ps, err := NewClient(WithBaseURL(srv.URL)).FetchProfile(context.Background(), "newcomer")
	require.NoError(t, err)
	require.Nil(t, ps.CurrentRating)
	require.Nil(t, ps.MaxRating)
	require.Equal(t, stats.UnratedRank, ps.MaxRank)
	require.Equal(t, "https://userpic.codeforces.org/no-avatar.jpg", ps.ProfileImageURL)
}

func TestFetchProfileHistoricFlag(t *testing.T) {
	t.Parallel()

	srv, _, reqs := newTestServer(t, http.StatusOK, `{"status":"OK","result":[]}`)
	_, _ = NewClient(WithBaseURL(srv.URL), WithCheckHistoricHandles(true)).FetchProfile(context.Background(), "x")
	r := <-reqs
	require.Equal(t, "true", r.URL.Query().Get("checkHistoricHandles"))
}

func TestFetchProfileFailures(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		status int
		body   string
		kind   stats.ErrorKind
	}{
		{"unknown handle", http.StatusBadRequest, `{"status":"FAILED","comment":"handles: User with handle nobody not found"}`, stats.KindNotFound},
		{"api failure", http.StatusServiceUnavailable, `{"status":"FAILED","comment":"Call limit exceeded"}`, stats.KindAPI},
		{"gateway html", http.StatusBadGateway, `<html>bad gateway</html>`, stats.KindStatus},
		{"malformed json", http.StatusOK, `{"status":"OK","result":[`, stats.KindDecode},
		{"no status", http.StatusOK, `{}`, stats.KindDecode},
		{"empty result", http.StatusOK, `{"status":"OK","result":[]}`, stats.KindNotFound},
		{"missing avatar", http.StatusOK, `{"status":"OK","result":[{"rating":1,"maxRating":2,"maxRank":"newbie"}]}`, stats.KindIncomplete},
		{"max rating without rank", http.StatusOK, `{"status":"OK","result":[{"maxRating":2,"avatar":"https://a/b.png"}]}`, stats.KindIncomplete},
		{"max rating without current", http.StatusOK, `{"status":"OK","result":[{"maxRating":2,"maxRank":"newbie","avatar":"https://a/b.png"}]}`, stats.KindIncomplete},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			srv, hits, _ := newTestServer(t, tc.status, tc.body)
			_, err := NewClient(WithBaseURL(srv.URL)).FetchProfile(context.Background(), "nobody")
			require.Error(t, err)
			require.Equal(t, tc.kind, stats.KindOf(err), "err: %v", err)
			require.Equal(t, int32(1), hits.Load(), "no retry expected")
		})
	}
}

func TestFetchProfileNetworkError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	_, err := NewClient(WithBaseURL(base)).FetchProfile(context.Background(), "ShonenDev")
	require.Error(t, err)
	require.ErrorIs(t, err, stats.ErrNetwork)
}

func TestFetchProfileCanceledByContext(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := NewClient(WithBaseURL(srv.URL), WithTimeout(0)).FetchProfile(ctx, "ShonenDev")
		done <- err
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, stats.ErrCanceled)
	case <-time.After(2 * time.Second):
		t.Fatal("fetch did not observe cancellation")
	}
}

func TestFetchProfileTimeoutIsNetworkFailure(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	_, err := NewClient(WithBaseURL(srv.URL), WithTimeout(30*time.Millisecond)).FetchProfile(context.Background(), "ShonenDev")
	require.ErrorIs(t, err, stats.ErrNetwork)
}

func TestFetchProfileEmptyHandle(t *testing.T) {
	t.Parallel()

	srv, hits, _ := newTestServer(t, http.StatusOK, `{}`)
	_, err := NewClient(WithBaseURL(srv.URL)).FetchProfile(context.Background(), "  ")
	require.ErrorIs(t, err, stats.ErrNotFound)
	require.Equal(t, int32(0), hits.Load())
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	t.Parallel()

	require.Equal(t, "abc", truncate("abc", 8))
	require.Equal(t, "ab", truncate("abcdef", 2))
	// "é" is two bytes; cutting at byte 2 would split it.
	out := truncate("aéb", 2)
	require.Equal(t, "a", out)
	require.True(t, utf8.ValidString(truncate("ошибка шлюза", 5)))
}

func TestFetchProfileStatusMessageIsValidUTF8(t *testing.T) {
	t.Parallel()

	body := strings.Repeat("é", 200)
	srv, _, _ := newTestServer(t, http.StatusBadGateway, body)
	_, err := NewClient(WithBaseURL(srv.URL)).FetchProfile(context.Background(), "ShonenDev")
	require.ErrorIs(t, err, stats.ErrStatus)
	require.True(t, utf8.ValidString(err.Error()))
}

func TestFetchProfileLogsCanonicalHandle(t *testing.T) {
	t.Parallel()

	body := `{"status":"OK","result":[{"handle":"ShonenDev","rating":1850,"maxRating":2100,"maxRank":"master","avatar":"https://userpic.codeforces.org/a.png"}]}`
	srv, _, _ := newTestServer(t, http.StatusOK, body)
	core, logs := observer.New(zap.DebugLevel)

	_, err := NewClient(WithBaseURL(srv.URL), WithLogger(zap.New(core))).FetchProfile(context.Background(), "shonendev")
	require.NoError(t, err)

	entries := logs.FilterMessage("codeforces user").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	require.Equal(t, "shonendev", fields["handle"])
	require.Equal(t, "ShonenDev", fields["canonical"])
}
