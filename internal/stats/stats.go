// Package stats holds the transient competitive-programming profile model
// and the result type the stats widget renders from.
package stats

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// UnratedRank is the rank label used for handles that never entered a rated contest.
const UnratedRank = "unrated"

// ProfileStats is the in-memory view of a handle's rating standing.
// A value is only ever built whole; see Validate.
type ProfileStats struct {
	CurrentRating   *int
	MaxRating       *int
	MaxRank         string
	ProfileImageURL string
}

// Fetcher loads the ProfileStats of a handle. Implementations issue a single
// request per call and must honor ctx cancellation.
type Fetcher interface {
	FetchProfile(ctx context.Context, handle string) (ProfileStats, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, handle string) (ProfileStats, error)

func (f FetcherFunc) FetchProfile(ctx context.Context, handle string) (ProfileStats, error) {
	return f(ctx, handle)
}

// Validate rejects partially populated values.
func Validate(s ProfileStats) error {
	if strings.TrimSpace(s.MaxRank) == "" {
		return fmt.Errorf("max rank missing")
	}
	if (s.CurrentRating == nil) != (s.MaxRating == nil) {
		return fmt.Errorf("current and max rating must both be present or both absent")
	}
	if strings.TrimSpace(s.ProfileImageURL) == "" {
		return fmt.Errorf("profile image url missing")
	}
	u, err := url.Parse(s.ProfileImageURL)
	if err != nil {
		return fmt.Errorf("profile image url: %w", err)
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("profile image url %q is not absolute", s.ProfileImageURL)
	}
	return nil
}

// Rated reports whether the handle has a rating history.
func (s ProfileStats) Rated() bool {
	return s.MaxRating != nil
}

// IntPtr is a small helper for building ratings in literals.
func IntPtr(v int) *int {
	return &v
}
