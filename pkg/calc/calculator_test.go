package calc

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testLink struct {
	io.Reader
	io.Writer
}

func newTestLink(in string, out io.Writer) *testLink {
	return &testLink{Reader: &oneByteReader{data: []byte(in)}, Writer: out}
}

func expectOutput(lines ...string) string {
	out := Banner
	for _, line := range lines {
		out += DefaultPrompt + line + "\n"
	}
	return out + DefaultPrompt
}

func TestCalculatorRun(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		out  []string
	}{
		{"add", "3+4\n", []string{"RESULT: 7"}},
		{"divide", "10/3\n", []string{"RESULT: 3"}},
		{"greater", "5>2\n", []string{"RESULT: 5"}},
		{"power", "2^5\n", []string{"RESULT: 32"}},
		{"letters", "abc\n", []string{"ERROR"}},
		{"modulo by zero", "7%0\n", []string{"ERROR"}},
		{"divide by zero", "7/0\n", []string{"ERROR"}},
		{"spaces", "12 + 3\n12+3\n", []string{"RESULT: 15", "RESULT: 15"}},
		{"second operator", "12+3*4\n", []string{"ERROR"}},
		{"trailing operator", "12+\n", []string{"ERROR"}},
		{"no operator", "12\n", []string{"ERROR"}},
		{"empty", "\n", []string{"ERROR"}},
		{"undecodable", "1\xe92\n", []string{"ERROR"}},
		{"idempotent", "6*7\n6*7\n", []string{"RESULT: 42", "RESULT: 42"}},
		{"recovers after error", "x\n1-3\n", []string{"ERROR", "RESULT: -2"}},
		{"overflow", "9223372036854775807+1\n", []string{"ERROR"}},
		// 32 stored, the 33rd dropped, the rest is the next line.
		{"truncated", strings.Repeat("1", 30) + "+2" + "9" + "1+8\n", []string{"ERROR", "RESULT: 9"}},
		{"truncated valid prefix", "1+" + strings.Repeat("0", 29) + "5" + "7\n", []string{"RESULT: 6", "ERROR"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			c := New(newTestLink(tc.in, &out))
			require.NoError(t, c.Run(context.Background()))
			require.Equal(t, expectOutput(tc.out...), out.String())
		})
	}
}

func TestCalculatorCycle(t *testing.T) {
	var out bytes.Buffer
	var reports []Transcript
	var indicator []bool
	c := New(newTestLink("1 + 1\n", &out)).
		WithReporter(ReportFunc(func(tr Transcript) { reports = append(reports, tr) })).
		WithIndicator(IndicatorFunc(func(on bool) { indicator = append(indicator, on) }))
	tr, err := c.Cycle()
	require.NoError(t, err)
	require.Equal(t, Transcript{Line: "1+1", Output: "RESULT: 2", OK: true, Result: 2}, tr)
	require.Equal(t, []Transcript{tr}, reports)
	require.Equal(t, []bool{false, true}, indicator)
	require.Equal(t, 0, c.buf.Len())
	require.Equal(t, DefaultPrompt+"RESULT: 2\n", out.String())

	_, err = c.Cycle()
	require.Equal(t, io.EOF, err)
	require.Equal(t, 0, c.buf.Len())
}

func TestCalculatorCycleReportsTruncation(t *testing.T) {
	var out bytes.Buffer
	c := New(newTestLink(strings.Repeat("2", Capacity+1)+"\n", &out))
	tr, err := c.Cycle()
	require.NoError(t, err)
	require.True(t, tr.Truncated)
	require.False(t, tr.OK)
	require.Equal(t, ErrorText, tr.Output)
	require.Equal(t, ErrMalformed, tr.Err)
}

func TestCalculatorCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	c := New(newTestLink("1+1\n", &out))
	require.Equal(t, context.Canceled, c.Run(ctx))
	require.Equal(t, Banner, out.String())
}

type failingWriter struct {
	failOn string
	failed bool
	out    bytes.Buffer
}

func (w *failingWriter) Write(p []byte) (int, error) {
	if !w.failed && strings.Contains(string(p), w.failOn) {
		w.failed = true
		return 0, errors.New("tx failure")
	}
	return w.out.Write(p)
}

func TestCalculatorWriteFailureWithoutFaultHandler(t *testing.T) {
	w := &failingWriter{failOn: "RESULT"}
	c := New(newTestLink("1+1\n", w))
	c.Fault = nil
	err := c.Run(context.Background())
	var fe *FaultError
	require.True(t, errors.As(err, &fe))
	require.Equal(t, "write", fe.Op)
	require.EqualError(t, err, "fault in write: tx failure")
}

func TestCalculatorWriteFailureFaults(t *testing.T) {
	w := &failingWriter{failOn: "RESULT"}
	rec := newHaltRecorder(3)
	c := New(newTestLink("1+1\n2+2\n", w))
	c.Fault.Indicator = rec
	c.Fault.Sleep = func(time.Duration) {}
	go c.Run(context.Background())
	rec.wait(t)
	require.True(t, strings.HasPrefix(w.out.String(), Banner+DefaultPrompt+"PANICKED calculator.go:"))
	require.True(t, strings.HasSuffix(w.out.String(), "\n"))
	require.Equal(t, []bool{true, false, true}, rec.states)
}

func TestCalculatorReadFailureFaults(t *testing.T) {
	var out bytes.Buffer
	rec := newHaltRecorder(1)
	c := New(&testLink{Reader: &oneByteReader{err: errors.New("rx failure")}, Writer: &out})
	c.Fault.Indicator = rec
	c.Fault.Sleep = func(time.Duration) {}
	go c.Run(context.Background())
	rec.wait(t)
	require.True(t, strings.HasPrefix(out.String(), Banner+DefaultPrompt+"PANICKED calculator.go:"))
}

func TestCalculate(t *testing.T) {
	require.Equal(t, "RESULT: 15", Calculate("12 + 3").Output)
	require.Equal(t, "ERROR", Calculate("12+3*4").Output)
	tr := Calculate("7 % 0")
	require.False(t, tr.OK)
	require.Equal(t, ErrDivideByZero, tr.Err)
	require.Equal(t, "RESULT: 1", Calculate("1+0\n2+2").Output)
}
