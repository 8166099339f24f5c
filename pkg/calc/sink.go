package calc

import (
	"io"
	"sync"
	"sync/atomic"
)

// Sink serializes writes to the output side of a link.
type Sink struct {
	w      io.Writer
	lock   sync.Mutex
	seized int32
}

// NewSink wraps w.
func NewSink(w io.Writer) *Sink {
	return &Sink{w: w}
}

// Write implements io.Writer. Once the sink is seized, writes are
// discarded so the fault report stays the last output.
func (s *Sink) Write(p []byte) (int, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if atomic.LoadInt32(&s.seized) != 0 {
		return len(p), nil
	}
	return s.w.Write(p)
}

// WriteString implements io.StringWriter.
func (s *Sink) WriteString(str string) (int, error) {
	return s.Write([]byte(str))
}

// Seize takes the underlying writer away from the normal owner without
// waiting for the lock, which may be held by a writer that will never
// finish. Only the FaultHandler may call it.
func (s *Sink) Seize() io.Writer {
	atomic.StoreInt32(&s.seized, 1)
	return s.w
}
