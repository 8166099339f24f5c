package calc

import (
	"bytes"
	"fmt"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// haltRecorder records indicator changes and terminates the halted
// goroutine after limit changes.
type haltRecorder struct {
	limit  int
	states []bool
	done   chan struct{}
}

func newHaltRecorder(limit int) *haltRecorder {
	return &haltRecorder{limit: limit, done: make(chan struct{})}
}

func (r *haltRecorder) Set(on bool) {
	r.states = append(r.states, on)
	if len(r.states) >= r.limit {
		close(r.done)
		runtime.Goexit()
	}
}

func (r *haltRecorder) wait(t *testing.T) {
	select {
	case <-r.done:
	case <-time.After(time.Second):
		t.Fatal("fault handler didn't halt")
	}
}

func newTestFaultHandler(out *bytes.Buffer, rec *haltRecorder) *FaultHandler {
	h := NewFaultHandler(NewSink(out), rec)
	h.Sleep = func(time.Duration) {}
	return h
}

func TestFaultWithLocation(t *testing.T) {
	var out bytes.Buffer
	rec := newHaltRecorder(4)
	h := newTestFaultHandler(&out, rec)
	go h.Fault(&Location{File: "main.go", Line: 12, Column: 5})
	rec.wait(t)
	require.Equal(t, "PANICKED main.go:12:5\n", out.String())
	require.Equal(t, []bool{true, false, true, false}, rec.states)
}

func TestFaultWithoutLocation(t *testing.T) {
	var out bytes.Buffer
	rec := newHaltRecorder(1)
	h := newTestFaultHandler(&out, rec)
	go h.Fault(nil)
	rec.wait(t)
	require.Equal(t, "PANICKED\n", out.String())
}

var panicLine int

func panicker(h *FaultHandler) {
	defer h.Recover()
	_, _, panicLine, _ = runtime.Caller(0)
	panic("boom")
}

func TestFaultRecover(t *testing.T) {
	var out bytes.Buffer
	rec := newHaltRecorder(2)
	h := newTestFaultHandler(&out, rec)
	go panicker(h)
	rec.wait(t)
	require.Equal(t, fmt.Sprintf("PANICKED fault_test.go:%d\n", panicLine+1), out.String())
}

func TestFaultSeizesSink(t *testing.T) {
	var out bytes.Buffer
	sink := NewSink(&out)
	rec := newHaltRecorder(1)
	h := NewFaultHandler(sink, rec)
	h.Sleep = func(time.Duration) {}
	sink.lock.Lock()
	go h.Fault(nil)
	rec.wait(t)
	sink.lock.Unlock()
	n, err := sink.WriteString("RESULT: 1\n")
	require.NoError(t, err)
	require.Equal(t, 10, n)
	require.Equal(t, "PANICKED\n", out.String())
}

func TestRecoverWithoutPanic(t *testing.T) {
	h := NewFaultHandler(nil, nil)
	func() {
		defer h.Recover()
	}()
}

func TestLocationString(t *testing.T) {
	require.Equal(t, "a.go:1:2", Location{File: "a.go", Line: 1, Column: 2}.String())
	require.Equal(t, "a.go:1", Location{File: "a.go", Line: 1}.String())
}
