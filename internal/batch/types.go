package batch

import "time"

// Status is where one script is in the batch.
type Status string

const (
	StatusQueued   Status = "queued"
	StatusWorking  Status = "working"
	StatusProven   Status = "proven"
	StatusUnproven Status = "open"
	StatusError    Status = "error"
)

// Finished reports terminal statuses.
func (s Status) Finished() bool {
	return s == StatusProven || s == StatusUnproven || s == StatusError
}

// Event reports progress for one script.
type Event struct {
	Script  string
	Status  Status
	Step    int
	Total   int
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// SinkFunc adapts a function.
type SinkFunc func(Event)

func (f SinkFunc) OnEvent(evt Event) { f(evt) }

type nopSink struct{}

func (nopSink) OnEvent(Event) {}
