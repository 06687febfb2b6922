package lint

import "time"

// Status captures progress state for one linter.
type Status string

const (
	// StatusQueued indicates the linter is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the linter is currently running.
	StatusWorking Status = "working"
	// StatusDone indicates the linter finished.
	StatusDone Status = "done"
	// StatusError indicates the linter invocation failed.
	StatusError Status = "error"
	// StatusSkipped indicates a fresh stamp made the run unnecessary.
	StatusSkipped Status = "skipped"
)

// Event reports progress for a linter (or for the overall run when
// Linter is empty).
type Event struct {
	Linter   string
	Status   Status
	Findings int
	Err      error
	Elapsed  time.Duration
}

// ProgressSink consumes progress events.
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

func emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}
