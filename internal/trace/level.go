package trace

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff     Level = iota // no tracing
	LevelError                // ring only, dumped on failure
	LevelSession              // session boundaries
	LevelStep                 // forest steps and tactics
	LevelDebug                // everything including rewrites
)

func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelError:
		return "error"
	case LevelSession:
		return "session"
	case LevelStep:
		return "step"
	case LevelDebug:
		return "debug"
	default:
		return "unknown"
	}
}

// ParseLevel converts a string to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "off", "":
		return LevelOff, nil
	case "error":
		return LevelError, nil
	case "session":
		return LevelSession, nil
	case "step":
		return LevelStep, nil
	case "debug":
		return LevelDebug, nil
	default:
		return LevelOff, errors.Newf("invalid trace level: %q (expected: off|error|session|step|debug)", s)
	}
}

// ShouldEmit reports whether events of scope pass at this level.
func (l Level) ShouldEmit(scope Scope) bool {
	switch l {
	case LevelSession:
		return scope <= ScopeSession
	case LevelStep:
		return scope <= ScopeTactic
	case LevelDebug:
		return true
	default:
		return false
	}
}
