package calc

import (
	"io"

	"github.com/golang/glog"
)

const (
	byteNewline = '\n'
	byteReturn  = '\r'
	byteSpace   = ' '
)

// Sentinel replaces a byte which can't be decoded as a character.
// It's never a digit or an operator so the line fails to parse.
const Sentinel = '?'

// LineStatus tells how a line ended.
type LineStatus int

const (
	// LineComplete means a newline was received.
	LineComplete LineStatus = iota
	// LineTruncated means the buffer filled up before a newline.
	LineTruncated
)

// String implements fmt.Stringer.
func (s LineStatus) String() string {
	if s == LineTruncated {
		return "truncated"
	}
	return "complete"
}

// DecodeNotifier is called when a byte is substituted with Sentinel.
type DecodeNotifier interface {
	DecodeFailed(b byte, pos int)
}

// DecodeFailedFunc is func type of DecodeNotifier.
type DecodeFailedFunc func(b byte, pos int)

// DecodeFailed implements DecodeNotifier.
func (f DecodeFailedFunc) DecodeFailed(b byte, pos int) {
	f(b, pos)
}

// LineReader reads lines from a byte source one byte at a time.
type LineReader struct {
	Source   io.Reader
	Notifier DecodeNotifier

	one [1]byte
}

// NewLineReader creates a LineReader.
func NewLineReader(src io.Reader) *LineReader {
	return &LineReader{Source: src}
}

// ReadLine fills buf until a newline is received or a character arrives
// while buf is already full. Spaces are dropped. Bytes outside ASCII are stored as Sentinel.
// Errors from Source are returned as-is, with buf holding what was read
// so far.
func (r *LineReader) ReadLine(buf *LineBuffer) (LineStatus, error) {
	for {
		b, err := r.readByte()
		if err != nil {
			return LineComplete, err
		}
		switch b {
		case byteNewline:
			return LineComplete, nil
		case byteSpace, byteReturn:
			continue
		}
		ch := rune(b)
		if b >= 0x80 {
			ch = Sentinel
			if glog.V(1) {
				glog.Infof("undecodable byte 0x%02x at %d", b, buf.Len())
			}
			if n := r.Notifier; n != nil {
				n.DecodeFailed(b, buf.Len())
			}
		}
		if buf.Push(ch) != nil {
			// the character which didn't fit is consumed and dropped.
			return LineTruncated, nil
		}
	}
}

func (r *LineReader) readByte() (byte, error) {
	for {
		n, err := r.Source.Read(r.one[:])
		if n == 1 {
			return r.one[0], nil
		}
		if err != nil {
			return 0, err
		}
	}
}
