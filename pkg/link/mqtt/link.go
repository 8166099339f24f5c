package mqtt

import (
	"context"
	"io"
	"sync"

	"github.com/golang/glog"

	"github.com/robotalks/calc.go/pkg/link"
	"github.com/robotalks/calc.go/pkg/service"
)

// Link is a byte stream over two topics. Each message received on RxTopic
// is a chunk of input bytes and each Write publishes one message on
// TxTopic.
type Link struct {
	Queue   *Queue
	RxTopic string
	TxTopic string

	chunkCh   chan []byte
	pending   []byte
	closeCh   chan struct{}
	closeOnce sync.Once
}

// NewLink creates a Link on q.
func NewLink(q *Queue) *Link {
	return &Link{
		Queue:   q,
		chunkCh: make(chan []byte, 16),
		closeCh: make(chan struct{}),
	}
}

// WithTopics specifies the topics.
func (l *Link) WithTopics(rx, tx string) *Link {
	l.RxTopic, l.TxTopic = rx, tx
	return l
}

// ForDevice uses the topics of the device with id:
// RxTopic = id/rx
// TxTopic = id/tx
func (l *Link) ForDevice(id string) *Link {
	return l.WithTopics(id+"/rx", id+"/tx")
}

// ForTerminal uses the topics of a terminal talking to the device with id,
// which are the device topics swapped.
func (l *Link) ForTerminal(id string) *Link {
	return l.WithTopics(id+"/tx", id+"/rx")
}

// Read implements io.Reader. It blocks until input arrives or the link is
// closed, which returns io.EOF.
func (l *Link) Read(p []byte) (int, error) {
	for len(l.pending) == 0 {
		select {
		case chunk := <-l.chunkCh:
			l.pending = chunk
		case <-l.closeCh:
			return 0, io.EOF
		}
	}
	n := copy(p, l.pending)
	l.pending = l.pending[n:]
	return n, nil
}

// Write implements io.Writer.
func (l *Link) Write(p []byte) (int, error) {
	token := l.Queue.Pub(l.TxTopic, append([]byte(nil), p...))
	token.Wait()
	if err := token.Error(); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close implements io.Closer.
func (l *Link) Close() error {
	l.closeOnce.Do(func() { close(l.closeCh) })
	return nil
}

// Receive feeds a chunk of input. It's the subscription handler of RxTopic.
func (l *Link) Receive(_ string, payload []byte) {
	if len(payload) == 0 {
		return
	}
	select {
	case l.chunkCh <- payload:
	case <-l.closeCh:
	}
}

// Endpoint serves the device link of one ID.
type Endpoint struct {
	Queue *Queue
	ID    string
}

// NewEndpoint creates an Endpoint connecting to brokerURL.
func NewEndpoint(brokerURL, id string) (*Endpoint, error) {
	opts, prefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	if opts.ClientID == "" {
		opts.SetClientID("calc:" + id)
	}
	return &Endpoint{Queue: NewQueue(opts, prefix), ID: id}, nil
}

// Serve implements link.Endpoint.
func (e *Endpoint) Serve(ctx context.Context, h link.Handler) error {
	l := NewLink(e.Queue).ForDevice(e.ID)
	sub := e.Queue.Sub(l.RxTopic, l.Receive)
	token := e.Queue.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return err
	}
	defer e.Queue.Close()
	defer sub.Close()
	glog.Infof("serving on mqtt %q", e.Queue.TopicPrefix+e.ID)
	return service.RunWithContextCloser(ctx, l, func() error {
		return h(ctx, l)
	})
}

// Terminal is the peer side of a device Link.
type Terminal struct {
	*Link
	sub *Subscription
}

// DialTerminal connects to the device with id through brokerURL.
func DialTerminal(brokerURL, id string) (*Terminal, error) {
	q, err := NewQueueFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	l := NewLink(q).ForTerminal(id)
	sub := q.Sub(l.RxTopic, l.Receive)
	token := q.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return nil, err
	}
	return &Terminal{Link: l, sub: sub}, nil
}

// Close implements io.Closer.
func (t *Terminal) Close() error {
	t.Link.Close()
	err := t.sub.Close()
	t.Queue.Close()
	return err
}
