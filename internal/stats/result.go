package stats

// Result is what a widget knows about its profile at a point in time.
// The only implementations are Pending, Resolved and Failed.
type Result interface {
	isResult()
}

// Pending means the mount-time fetch has not completed.
type Pending struct{}

// Resolved carries a validated, complete ProfileStats.
type Resolved struct {
	Stats ProfileStats
}

// Failed carries the classified fetch failure.
type Failed struct {
	Kind ErrorKind
	Err  error
}

func (Pending) isResult()  {}
func (Resolved) isResult() {}
func (Failed) isResult()   {}

// ResultFromFetch maps a fetch outcome onto Resolved or Failed. A nil error
// with an invalid value is reported as KindIncomplete so that a Resolved
// result always holds all four fields.
func ResultFromFetch(s ProfileStats, err error) Result {
	if err != nil {
		return Failed{Kind: KindOf(err), Err: err}
	}
	if verr := Validate(s); verr != nil {
		return Failed{Kind: KindIncomplete, Err: NewFetchError(KindIncomplete, "", verr)}
	}
	return Resolved{Stats: s}
}
