package progress

import "fmt"

// StatusKind classifies the outcome of a store operation.
type StatusKind int

const (
	// StatusOK means the operation read or wrote the stored record.
	StatusOK StatusKind = iota
	// StatusEmpty means nothing was stored yet; defaults were returned.
	StatusEmpty
	// StatusUnavailable means no storage backend is usable.
	StatusUnavailable
	// StatusCorrupt means the stored bytes could not be decoded.
	StatusCorrupt
	// StatusWriteFailed means the backend rejected the write.
	StatusWriteFailed
)

func (k StatusKind) String() string {
	switch k {
	case StatusOK:
		return "ok"
	case StatusEmpty:
		return "empty"
	case StatusUnavailable:
		return "unavailable"
	case StatusCorrupt:
		return "corrupt"
	case StatusWriteFailed:
		return "write-failed"
	default:
		return fmt.Sprintf("status(%d)", int(k))
	}
}

// Status reports how a load or save went. Storage problems never surface
// as errors; every failure degrades to first-time-user behavior and is
// described here instead.
type Status struct {
	Kind StatusKind
	Err  error
}

// Degraded reports whether the operation fell back because storage misbehaved.
// An empty store is not degraded.
func (s Status) Degraded() bool {
	switch s.Kind {
	case StatusUnavailable, StatusCorrupt, StatusWriteFailed:
		return true
	}
	return false
}

func (s Status) String() string {
	if s.Err != nil {
		return fmt.Sprintf("%s: %v", s.Kind, s.Err)
	}
	return s.Kind.String()
}
