// Package stream provides links over plain streams: stdio and device files.
package stream

import (
	"context"
	"io"
	"os"

	"github.com/golang/glog"

	"github.com/robotalks/calc.go/pkg/link"
	"github.com/robotalks/calc.go/pkg/service"
)

// Endpoint serves a single stream.
type Endpoint struct {
	Name string
	// Detach stops serving on ctx done without waiting for a pending
	// read, which closing the stream can't interrupt.
	Detach bool

	rwc io.ReadWriteCloser
}

// New wraps a stream.
func New(name string, rwc io.ReadWriteCloser) *Endpoint {
	return &Endpoint{Name: name, rwc: rwc}
}

// Stdio reads from stdin and writes to stdout.
func Stdio() *Endpoint {
	e := New("stdio", &stdio{Reader: os.Stdin, Writer: os.Stdout})
	// closing os.Stdin doesn't unblock a read on a tty.
	e.Detach = true
	return e
}

// Open opens a device file, e.g. a serial port, for read and write.
// Line settings (baud rate, parity) are expected to be set up beforehand.
func Open(device string) (*Endpoint, error) {
	f, err := os.OpenFile(device, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	return New(device, f), nil
}

// Serve implements link.Endpoint. The stream is closed when h returns or
// ctx is done.
func (e *Endpoint) Serve(ctx context.Context, h link.Handler) error {
	glog.Infof("serving on %s", e.Name)
	run := service.RunWithContextCloser
	if e.Detach {
		run = service.RunDetachedWithContextCloser
	}
	return run(ctx, e.rwc, func() error {
		return h(ctx, e.rwc)
	})
}

type stdio struct {
	io.Reader
	io.Writer
}

func (s *stdio) Close() error {
	return os.Stdin.Close()
}
