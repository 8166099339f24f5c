package calc

import (
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/golang/glog"
)

// DefaultBlinkInterval is the indicator toggle period after a fault.
const DefaultBlinkInterval = 500 * time.Millisecond

// Location is the source position of a fault.
type Location struct {
	File   string
	Line   int
	Column int
}

// String formats file:line:column, leaving out the column if unknown.
func (l Location) String() string {
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// FaultHandler reports a fatal condition and halts.
type FaultHandler struct {
	Sink      *Sink
	Indicator Indicator
	Interval  time.Duration
	// Sleep is used between indicator toggles, time.Sleep if nil.
	Sleep func(time.Duration)
}

// NewFaultHandler creates a FaultHandler reporting to sink.
func NewFaultHandler(sink *Sink, ind Indicator) *FaultHandler {
	return &FaultHandler{Sink: sink, Indicator: ind, Interval: DefaultBlinkInterval}
}

// Recover must be deferred directly. It turns a panic into a fault located
// at the panic site. It does nothing if there's no panic.
func (h *FaultHandler) Recover() {
	r := recover()
	if r == nil {
		return
	}
	glog.Errorf("panic: %v", r)
	h.Fault(panicLocation())
}

// Fault writes "PANICKED <location>" on the seized sink, or a generic
// notice when loc is nil, and then toggles the indicator forever.
// It never returns.
func (h *FaultHandler) Fault(loc *Location) {
	msg := "PANICKED\n"
	if loc != nil {
		msg = "PANICKED " + loc.String() + "\n"
	}
	glog.Error(strings.TrimSpace(msg))
	glog.Flush()
	if h.Sink != nil {
		io.WriteString(h.Sink.Seize(), msg)
	}
	h.halt()
}

func (h *FaultHandler) halt() {
	ind := h.Indicator
	if ind == nil {
		ind = NopIndicator{}
	}
	interval := h.Interval
	if interval <= 0 {
		interval = DefaultBlinkInterval
	}
	sleep := h.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	for on := true; ; on = !on {
		ind.Set(on)
		sleep(interval)
	}
}

// panicLocation finds the first non-runtime frame below runtime.gopanic.
func panicLocation() *Location {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	panicking := false
	for {
		f, more := frames.Next()
		if strings.HasPrefix(f.Function, "runtime.") {
			if f.Function == "runtime.gopanic" {
				panicking = true
			}
		} else if panicking && f.File != "" {
			return &Location{File: filepath.Base(f.File), Line: f.Line}
		}
		if !more {
			return nil
		}
	}
}
