package sh

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/robotalks/calc.go/pkg/calc"
)

// ErrRemoteTimeout indicates the device didn't answer in time.
var ErrRemoteTimeout = errors.New("remote timeout")

// Remote sends lines to a device and collects the replies.
type Remote struct {
	Timeout time.Duration

	rwc    io.ReadWriteCloser
	lineCh chan string
	errCh  chan error
}

// NewRemote starts reading replies from rwc.
func NewRemote(rwc io.ReadWriteCloser) *Remote {
	r := &Remote{
		Timeout: 2 * time.Second,
		rwc:     rwc,
		lineCh:  make(chan string, 4),
		errCh:   make(chan error, 1),
	}
	go r.readLoop()
	return r
}

// Sync aligns replies with the device. The device may have printed its
// banner and prompt long before the remote attached, or none at all, so
// an empty line is sent and everything up to its ERROR reply is dropped.
func (r *Remote) Sync() error {
	if _, err := io.WriteString(r.rwc, "\n"); err != nil {
		return err
	}
	for {
		reply, err := r.next()
		if err != nil {
			return err
		}
		if reply == calc.ErrorText {
			r.drain()
			return nil
		}
	}
}

// Send writes line and returns the device output up to the next prompt.
// When the line overflows the device buffer, the device answers the
// remainder separately; those replies are consumed and dropped.
func (r *Remote) Send(line string) (string, error) {
	r.drain()
	if _, err := io.WriteString(r.rwc, line+"\n"); err != nil {
		return "", err
	}
	first, err := r.next()
	if err != nil {
		return "", err
	}
	for n := Replies(line); n > 1; n-- {
		if _, err := r.next(); err != nil {
			return "", err
		}
	}
	return first, nil
}

// Close implements io.Closer.
func (r *Remote) Close() error {
	return r.rwc.Close()
}

// Replies returns the number of replies a device sends for line, which
// is terminated by a newline when sent.
func Replies(line string) int {
	count := 0
	for _, seg := range strings.Split(line, "\n") {
		count++
		n := 0
		for i := 0; i < len(seg); i++ {
			switch seg[i] {
			case ' ', '\r':
			default:
				n++
			}
		}
		// the character overflowing the buffer ends the line and is dropped.
		for ; n > calc.Capacity; n -= calc.Capacity + 1 {
			count++
		}
	}
	return count
}

func (r *Remote) next() (string, error) {
	select {
	case reply := <-r.lineCh:
		return reply, nil
	case err := <-r.errCh:
		r.errCh <- err
		return "", err
	case <-time.After(r.Timeout):
		return "", ErrRemoteTimeout
	}
}

// drain drops replies nobody waited for, e.g. after a timeout.
func (r *Remote) drain() {
	for {
		select {
		case <-r.lineCh:
		default:
			return
		}
	}
}

// readLoop splits the device output at prompts.
func (r *Remote) readLoop() {
	var acc bytes.Buffer
	buf := make([]byte, 64)
	for {
		n, err := r.rwc.Read(buf)
		acc.Write(buf[:n])
		for {
			idx := strings.Index(acc.String(), calc.DefaultPrompt)
			if idx < 0 {
				break
			}
			reply := strings.TrimSpace(acc.String()[:idx])
			acc.Next(idx + len(calc.DefaultPrompt))
			r.lineCh <- reply
		}
		if err != nil {
			r.errCh <- err
			return
		}
	}
}
