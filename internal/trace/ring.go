package trace

import (
	"io"
	"sync"
	"time"
)

// DefaultRingSize is used when a ring capacity is not configured.
const DefaultRingSize = 4096

// RingTracer keeps the most recent events in memory so they can be
// dumped when a run fails.
type RingTracer struct {
	mu     sync.Mutex
	events []Event
	head   int
	full   bool
	level  Level
}

func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = DefaultRingSize
	}
	return &RingTracer{events: make([]Event, capacity), level: level}
}

func (t *RingTracer) Emit(ev *Event) {
	if ev == nil || !t.level.ShouldEmit(ev.Scope) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	stored := *ev
	if stored.Seq == 0 {
		stored.Seq = nextSeq()
	}
	t.events[t.head] = stored
	t.head = (t.head + 1) % len(t.events)
	if t.head == 0 {
		t.full = true
	}
}

// Snapshot returns the stored events oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.full {
		return append([]Event(nil), t.events[:t.head]...)
	}
	out := make([]Event, 0, len(t.events))
	out = append(out, t.events[t.head:]...)
	return append(out, t.events[:t.head]...)
}

// Dump writes the snapshot to w in the given format.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	events := t.Snapshot()
	if len(events) == 0 {
		return nil
	}
	start := events[0].Time
	depth := make(map[uint64]int)
	for i := range events {
		ev := &events[i]
		var data []byte
		if format == FormatNDJSON {
			data = formatNDJSON(ev)
		} else {
			d := 0
			if pd, ok := depth[ev.ParentID]; ok {
				d = pd + 1
			}
			if ev.Kind == KindSpanBegin {
				depth[ev.SpanID] = d
			}
			data = formatText(ev, ev.Time.Sub(start).Round(time.Microsecond), d)
		}
		if _, err := w.Write(data); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error  { return nil }
func (t *RingTracer) Close() error  { return nil }
func (t *RingTracer) Level() Level  { return t.level }
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }
