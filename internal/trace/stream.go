package trace

import (
	"io"
	"sync"
	"time"
)

// StreamTracer writes each event as soon as it is emitted.
type StreamTracer struct {
	mu     sync.Mutex
	w      io.Writer
	level  Level
	format Format
	start  time.Time
	depth  map[uint64]int
}

func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	return &StreamTracer{
		w:      w,
		level:  level,
		format: format,
		start:  time.Now(),
		depth:  make(map[uint64]int),
	}
}

func (t *StreamTracer) Emit(ev *Event) {
	if ev == nil || !t.level.ShouldEmit(ev.Scope) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if ev.Seq == 0 {
		ev.Seq = nextSeq()
	}

	var data []byte
	switch t.format {
	case FormatNDJSON:
		data = formatNDJSON(ev)
	default:
		data = formatText(ev, ev.Time.Sub(t.start), t.indent(ev))
	}
	// ошибки записи трассы не должны ронять анализ
	_, _ = t.w.Write(data)
}

// indent tracks nesting depth by span id for the text format.
func (t *StreamTracer) indent(ev *Event) int {
	d := 0
	if ev.ParentID != 0 {
		if pd, ok := t.depth[ev.ParentID]; ok {
			d = pd + 1
		}
	}
	switch ev.Kind {
	case KindSpanBegin:
		t.depth[ev.SpanID] = d
	case KindSpanEnd:
		delete(t.depth, ev.SpanID)
	}
	return d
}

func (t *StreamTracer) Flush() error {
	if f, ok := t.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	if s, ok := t.w.(interface{ Sync() error }); ok {
		return s.Sync()
	}
	return nil
}

// Close flushes and closes the writer when it owns one.
func (t *StreamTracer) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.Flush(); err != nil {
		return err
	}
	if c, ok := t.w.(io.Closer); ok && !isStdStream(t.w) {
		return c.Close()
	}
	return nil
}

func (t *StreamTracer) Level() Level  { return t.level }
func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }
