// Package codeforces is a minimal client for the public Codeforces user.info API.
package codeforces

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/shonendev/portfolio/internal/stats"
)

const (
	DefaultBaseURL = "https://codeforces.com"
	userInfoPath   = "/api/user.info"
	maxBodyBytes   = 1 << 20
)

// Client performs single-attempt profile lookups. It has no retry policy:
// one FetchProfile call is one GET.
type Client struct {
	baseURL       string
	http          *http.Client
	timeout       time.Duration
	checkHistoric bool
	logger        *zap.Logger
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the transport client. Its own Timeout is left as is.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout bounds each request. Zero disables the client-side bound and
// leaves only the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithCheckHistoricHandles(v bool) Option {
	return func(c *Client) { c.checkHistoric = v }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		http:    &http.Client{},
		timeout: 10 * time.Second,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchProfile implements stats.Fetcher.
func (c *Client) FetchProfile(ctx context.Context, handle string) (stats.ProfileStats, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return stats.ProfileStats{}, stats.NewFetchError(stats.KindNotFound, handle, errors.New("empty handle"))
	}
	user, err := c.UserInfo(ctx, handle)
	if err != nil {
		return stats.ProfileStats{}, err
	}
	ps, err := toProfileStats(user)
	if err != nil {
		return stats.ProfileStats{}, stats.NewFetchError(stats.KindIncomplete, handle, err)
	}
	return ps, nil
}

// UserInfo returns the first result of user.info for handle.
func (c *Client) UserInfo(ctx context.Context, handle string) (User, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	reqURL := c.userInfoURL(handle)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return User{}, stats.NewFetchError(stats.KindNetwork, handle, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	c.logger.Debug("codeforces request", zap.String("handle", handle), zap.String("url", reqURL))
	resp, err := c.http.Do(req)
	if err != nil {
		kind := stats.KindNetwork
		if errors.Is(err, context.Canceled) {
			kind = stats.KindCanceled
		}
		c.logger.Info("codeforces request failed",
			zap.String("handle", handle),
			zap.Stringer("kind", kind),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return User{}, stats.NewFetchError(kind, handle, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		kind := stats.KindNetwork
		if errors.Is(err, context.Canceled) {
			kind = stats.KindCanceled
		}
		return User{}, stats.NewFetchError(kind, handle, fmt.Errorf("read body: %w", err))
	}
	c.logger.Debug("codeforces response",
		zap.String("handle", handle),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(start)),
	)

	user, err := decodeUserInfo(handle, resp.StatusCode, body)
	if err != nil {
		return User{}, err
	}
	// Codeforces matches handles case-insensitively and answers with the canonical spelling.
	c.logger.Debug("codeforces user", zap.String("handle", handle), zap.String("canonical", user.Handle))
	return user, nil
}

func (c *Client) userInfoURL(handle string) string {
	q := url.Values{}
	q.Set("handles", handle)
	q.Set("checkHistoricHandles", strconv.FormatBool(c.checkHistoric))
	return c.baseURL + userInfoPath + "?" + q.Encode()
}

// decodeUserInfo interprets a user.info response. Codeforces reports API
// level failures (including unknown handles) with a non-2xx status and a
// FAILED envelope, so the envelope is consulted before the status code.
func decodeUserInfo(handle string, status int, body []byte) (User, error) {
	var env envelope
	jsonErr := json.Unmarshal(body, &env)

	if jsonErr == nil && env.Status != "" && env.Status != statusOK {
		if isNotFoundComment(env.Comment) {
			return User{}, stats.NewFetchError(stats.KindNotFound, handle, errors.New(env.Comment))
		}
		return User{}, stats.NewFetchError(stats.KindAPI, handle, fmt.Errorf("status=%s comment=%q", env.Status, env.Comment))
	}
	if status < 200 || status >= 300 {
		return User{}, stats.NewFetchError(stats.KindStatus, handle, fmt.Errorf("http status %d: %s", status, truncate(string(body), 256)))
	}
	if jsonErr != nil {
		return User{}, stats.NewFetchError(stats.KindDecode, handle, jsonErr)
	}
	if env.Status != statusOK {
		return User{}, stats.NewFetchError(stats.KindDecode, handle, errors.New("missing status"))
	}
	if len(env.Result) == 0 {
		return User{}, stats.NewFetchError(stats.KindNotFound, handle, errors.New("empty result"))
	}
	return env.Result[0], nil
}

func isNotFoundComment(comment string) bool {
	return strings.Contains(strings.ToLower(comment), "not found")
}

func toProfileStats(u User) (stats.ProfileStats, error) {
	rank := strings.TrimSpace(u.MaxRank)
	if rank == "" {
		if u.MaxRating != nil {
			return stats.ProfileStats{}, errors.New("max rating without max rank")
		}
		rank = stats.UnratedRank
	}
	ps := stats.ProfileStats{
		CurrentRating:   u.Rating,
		MaxRating:       u.MaxRating,
		MaxRank:         rank,
		ProfileImageURL: normalizeAvatar(u.Avatar),
	}
	if err := stats.Validate(ps); err != nil {
		return stats.ProfileStats{}, err
	}
	return ps, nil
}

// normalizeAvatar turns protocol-relative userpic links into https URLs.
func normalizeAvatar(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "//") {
		return "https:" + raw
	}
	return raw
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
