package stats

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind classifies why a profile fetch failed.
type ErrorKind int

const (
	KindNetwork ErrorKind = iota + 1
	KindStatus
	KindDecode
	KindAPI
	KindNotFound
	KindIncomplete
	KindCanceled
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	case KindAPI:
		return "api"
	case KindNotFound:
		return "not_found"
	case KindIncomplete:
		return "incomplete"
	case KindCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is against a *FetchError of the matching kind.
var (
	ErrNetwork    = errors.New("stats: network failure")
	ErrStatus     = errors.New("stats: unexpected http status")
	ErrDecode     = errors.New("stats: malformed response")
	ErrAPI        = errors.New("stats: api rejected request")
	ErrNotFound   = errors.New("stats: handle not found")
	ErrIncomplete = errors.New("stats: incomplete profile")
	ErrCanceled   = errors.New("stats: fetch canceled")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case KindNetwork:
		return ErrNetwork
	case KindStatus:
		return ErrStatus
	case KindDecode:
		return ErrDecode
	case KindAPI:
		return ErrAPI
	case KindNotFound:
		return ErrNotFound
	case KindIncomplete:
		return ErrIncomplete
	case KindCanceled:
		return ErrCanceled
	default:
		return nil
	}
}

// FetchError is returned by Fetcher implementations.
type FetchError struct {
	Kind   ErrorKind
	Handle string
	Err    error
}

func (e *FetchError) Error() string {
	prefix := "fetch profile"
	if e.Handle != "" {
		prefix = "fetch " + e.Handle
	}
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", prefix, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", prefix, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// NewFetchError wraps err with kind.
func NewFetchError(kind ErrorKind, handle string, err error) *FetchError {
	return &FetchError{Kind: kind, Handle: handle, Err: err}
}

// KindOf classifies err. A canceled context is a cancellation; deadlines and
// anything unrecognised count as network failures.
func KindOf(err error) ErrorKind {
	var fe *FetchError
	if errors.As(err, &fe) && fe.Kind != 0 {
		return fe.Kind
	}
	if errors.Is(err, context.Canceled) {
		return KindCanceled
	}
	return KindNetwork
}
