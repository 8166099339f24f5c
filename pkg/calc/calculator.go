package calc

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/golang/glog"
)

// Wire texts.
const (
	Banner        = "Ready for calculations!\n"
	DefaultPrompt = "Enter an equation > "
	ResultPrefix  = "RESULT: "
	ErrorText     = "ERROR"
)

// Transcript records one line cycle.
type Transcript struct {
	Line      string
	Output    string
	OK        bool
	Result    int64
	Truncated bool
	// Err is the reason of a failure, never sent on the link.
	Err error
}

// Reporter receives a Transcript after each line cycle.
type Reporter interface {
	Report(Transcript)
}

// ReportFunc is func type of Reporter.
type ReportFunc func(Transcript)

// Report implements Reporter.
func (f ReportFunc) Report(t Transcript) {
	f(t)
}

// Calculator runs line cycles over a link.
type Calculator struct {
	Sink      *Sink
	Reader    *LineReader
	Indicator Indicator
	Fault     *FaultHandler
	Reporter  Reporter
	Prompt    string

	buf LineBuffer
}

// New creates a Calculator reading and writing on link.
func New(link io.ReadWriter) *Calculator {
	sink := NewSink(link)
	return &Calculator{
		Sink:      sink,
		Reader:    NewLineReader(link),
		Indicator: NopIndicator{},
		Fault:     NewFaultHandler(sink, nil),
		Prompt:    DefaultPrompt,
	}
}

// WithIndicator sets the indicator used by both the cycle and the fault handler.
func (c *Calculator) WithIndicator(ind Indicator) *Calculator {
	c.Indicator = ind
	if c.Fault != nil {
		c.Fault.Indicator = ind
	}
	return c
}

// WithReporter sets the Reporter.
func (c *Calculator) WithReporter(r Reporter) *Calculator {
	c.Reporter = r
	return c
}

// Cycle runs one line cycle. Malformed input is answered with ErrorText
// and isn't an error. Errors returned are from the link, either io.EOF or
// a FaultError.
func (c *Calculator) Cycle() (t Transcript, err error) {
	defer c.buf.Clear()

	if err = c.write(c.Prompt); err != nil {
		return
	}
	c.Indicator.Set(false)
	status, err := c.Reader.ReadLine(&c.buf)
	if err != nil {
		if !errors.Is(err, io.EOF) {
			err = &FaultError{Op: "read", Err: err}
		}
		return
	}
	c.Indicator.Set(true)

	t = evaluateLine(&c.buf, status)
	if glog.V(2) {
		glog.Infof("%q => %s (truncated=%v, err=%v)", t.Line, t.Output, t.Truncated, t.Err)
	}
	if err = c.write(t.Output + "\n"); err != nil {
		return
	}
	if r := c.Reporter; r != nil {
		r.Report(t)
	}
	return
}

// Run writes the banner and runs line cycles until ctx is done or the link
// reaches io.EOF, which returns nil. Any other link error is a fault: it's
// handed to the FaultHandler and Run never returns. Without a FaultHandler
// the error is returned.
func (c *Calculator) Run(ctx context.Context) error {
	if c.Fault != nil {
		defer c.Fault.Recover()
	}
	if err := c.write(Banner); err != nil {
		return c.fatal(ctx, err)
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		_, err := c.Cycle()
		if err == nil {
			continue
		}
		if errors.Is(err, io.EOF) {
			glog.V(1).Info("link closed")
			return nil
		}
		return c.fatal(ctx, err)
	}
}

func (c *Calculator) write(s string) error {
	if _, err := c.Sink.WriteString(s); err != nil {
		return &FaultError{Op: "write", Err: err}
	}
	return nil
}

func (c *Calculator) fatal(ctx context.Context, err error) error {
	// a link closed to cancel Run reports errors too.
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if c.Fault == nil {
		return err
	}
	panic(err)
}

// Calculate runs a single line through the same reader, parser and
// evaluator used on the link. Characters after a newline are ignored.
func Calculate(line string) Transcript {
	var buf LineBuffer
	status, _ := NewLineReader(strings.NewReader(line + "\n")).ReadLine(&buf)
	return evaluateLine(&buf, status)
}

func evaluateLine(buf *LineBuffer, status LineStatus) Transcript {
	t := Transcript{Line: buf.String(), Truncated: status == LineTruncated}
	v, err := ParseLine(buf.Runes()).Eval()
	if err != nil {
		t.Output, t.Err = ErrorText, err
		return t
	}
	t.OK, t.Result = true, v
	t.Output = ResultPrefix + strconv.FormatInt(v, 10)
	return t
}
