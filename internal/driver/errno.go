package driver

import "github.com/h5s3/h5s3/internal/errors"

// Errno is the small numeric error vocabulary a host file format library
// expects at its callback boundary (spec.md §7): Go's rich error values
// don't cross that boundary, so every Driver failure collapses to one of
// these before it reaches host code.
type Errno int

const (
	// OK is returned for a nil error; host code checks for this value,
	// not for a specific sign or zero-ness convention beyond equality.
	OK Errno = iota
	EIO
	ENOTFOUND
	EOVERFLOW
	ECONFIG
	EPARSE
	ETRANSPORT
	EUNKNOWN
)

func (e Errno) String() string {
	switch e {
	case OK:
		return "OK"
	case EIO:
		return "EIO"
	case ENOTFOUND:
		return "ENOTFOUND"
	case EOVERFLOW:
		return "EOVERFLOW"
	case ECONFIG:
		return "ECONFIG"
	case EPARSE:
		return "EPARSE"
	case ETRANSPORT:
		return "ETRANSPORT"
	default:
		return "EUNKNOWN"
	}
}

// ToErrno classifies err into the host's numeric convention. Host
// callbacks are expected to call this exactly once, at the boundary,
// after logging or otherwise handling the full error internally — Errno
// carries no message, only a category.
func ToErrno(err error) Errno {
	if err == nil {
		return OK
	}
	if errors.IsNotFound(err) {
		return ENOTFOUND
	}
	switch errors.KindOf(err) {
	case "BufferOverflow":
		return EOVERFLOW
	case "ConfigError":
		return ECONFIG
	case "ParseError":
		return EPARSE
	case "TransportError":
		return ETRANSPORT
	case "BackendIO":
		return EIO
	default:
		return EUNKNOWN
	}
}
