package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint     // instant event
	KindHeartbeat // periodic liveness signal
)

func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	case KindHeartbeat:
		return "heartbeat"
	default:
		return "unknown"
	}
}

// Scope is the granularity of an event; lower is coarser.
type Scope uint8

const (
	ScopeSession Scope = iota + 1 // one proof script or interactive session
	ScopeStep                     // one forest mutation
	ScopeTactic                   // the tactic run inside a step
	ScopeRewrite                  // match/substitute/replace inside a tactic
)

func (s Scope) String() string {
	switch s {
	case ScopeSession:
		return "session"
	case ScopeStep:
		return "step"
	case ScopeTactic:
		return "tactic"
	case ScopeRewrite:
		return "rewrite"
	default:
		return "unknown"
	}
}

// Event represents a single trace event.
type Event struct {
	Time     time.Time
	Seq      uint64 // global sequence number, assigned by the tracer
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for root spans
	GID      uint64 // goroutine id, batch runs sessions concurrently
	Name     string // e.g. "apply", "tactic:intro", "session:proof.toml"
	Detail   string
	Extra    map[string]string
}
