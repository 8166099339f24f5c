package stream

import (
	"bytes"
	"context"
	"io"
	"io/ioutil"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type bufferStream struct {
	io.Reader
	bytes.Buffer
	closed bool
}

func (s *bufferStream) Write(p []byte) (int, error) {
	return s.Buffer.Write(p)
}

func (s *bufferStream) Read(p []byte) (int, error) {
	return s.Reader.Read(p)
}

func (s *bufferStream) Close() error {
	s.closed = true
	return nil
}

func TestServe(t *testing.T) {
	s := &bufferStream{Reader: bytes.NewBufferString("ping")}
	e := New("test", s)
	err := e.Serve(context.Background(), func(ctx context.Context, rw io.ReadWriter) error {
		data, err := ioutil.ReadAll(rw)
		require.NoError(t, err)
		_, err = rw.Write(append(data, '!'))
		return err
	})
	require.NoError(t, err)
	require.Equal(t, "ping!", s.String())
	require.True(t, s.closed)
}

func TestServeDetached(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	s := &bufferStream{Reader: r}
	e := New("tty", s)
	e.Detach = true
	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})
	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Serve(ctx, func(ctx context.Context, rw io.ReadWriter) error {
			close(started)
			// closing s doesn't unblock this read.
			_, err := rw.Read(make([]byte, 1))
			return err
		})
	}()
	<-started
	cancel()
	select {
	case err := <-errCh:
		require.Equal(t, context.Canceled, err)
	case <-time.After(time.Second):
		t.Fatal("serve didn't return")
	}
	require.True(t, Stdio().Detach)
}

func TestOpenMissing(t *testing.T) {
	_, err := Open("/nonexistent/tty")
	require.Error(t, err)
}
