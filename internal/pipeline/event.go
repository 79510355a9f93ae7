package pipeline

import "time"

// Stage is a step of analyzing one input file.
type Stage string

const (
	StageRead      Stage = "read"
	StageHierarchy Stage = "hierarchy"
	StageTypeCheck Stage = "typecheck"
	StageEmit      Stage = "emit"
)

// Status of a file within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusCached  Status = "cached"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress for File, or for the whole run when File is
// empty.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// Finished reports whether ev closes its file.
func (ev Event) Finished() bool {
	switch ev.Status {
	case StatusDone, StatusError, StatusCached:
		return true
	default:
		return false
	}
}

// ProgressSink consumes progress events. Implementations must be safe
// for concurrent use.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(ev Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- ev
}

// SinkFunc adapts a function to ProgressSink.
type SinkFunc func(Event)

func (f SinkFunc) OnEvent(ev Event) {
	if f != nil {
		f(ev)
	}
}

// Emit sends ev to sink when it is set.
func Emit(sink ProgressSink, ev Event) {
	if sink != nil {
		sink.OnEvent(ev)
	}
}
