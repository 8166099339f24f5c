package service

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/golang/glog"
)

// ErrForcedExit is returned by Wait when a second stop signal arrives.
var ErrForcedExit = errors.New("forced exit")

// Group runs Runnables in background and waits for all of them.
type Group struct {
	ctx    context.Context
	cancel context.CancelFunc
	count  int
	errCh  chan error
	exitCh chan struct{}
}

// NewGroup creates a Group under ctx.
func NewGroup(ctx context.Context) *Group {
	g := &Group{
		errCh:  make(chan error, 1),
		exitCh: make(chan struct{}),
	}
	g.ctx, g.cancel = context.WithCancel(ctx)
	return g
}

// Context returns the context passed to Runnables.
func (g *Group) Context() context.Context {
	return g.ctx
}

// Stop cancels the context of all Runnables.
func (g *Group) Stop() {
	g.cancel()
}

// HandleSignals stops the group on SIGINT/SIGTERM. A second signal makes
// Wait return immediately.
func (g *Group) HandleSignals() *Group {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		glog.Info("stop requested")
		g.cancel()
		<-sigCh
		glog.Error("stop requested again, force exit")
		close(g.exitCh)
	}()
	return g
}

// Go starts Runnables.
func (g *Group) Go(runnables ...Runnable) *Group {
	for _, r := range runnables {
		name := strconv.Itoa(g.count)
		if named, ok := r.(Named); ok {
			name = named.Name()
		}
		g.count++
		go func(r Runnable, name string) {
			glog.V(4).Infof("Runnable[%s] started", name)
			err := r.Run(g.ctx)
			glog.V(4).Infof("Runnable[%s] stopped: %v", name, err)
			g.errCh <- err
		}(r, name)
	}
	return g
}

// Wait waits for all Runnables and aggregates their errors, ignoring
// context.Canceled. The first Runnable to stop stops the others.
func (g *Group) Wait() error {
	var errs AggregatedError
	for i := 0; i < g.count; i++ {
		select {
		case <-g.exitCh:
			return ErrForcedExit
		case err := <-g.errCh:
			g.cancel()
			if err != context.Canceled {
				errs.Add(err)
			}
		}
	}
	return errs.Aggregate()
}

// RunWithContextCloser runs fn which blocks on closer without a context.
// closer is closed when ctx is done, which unblocks fn, or when fn returns.
// context.Canceled is returned in the former case.
func RunWithContextCloser(ctx context.Context, closer io.Closer, fn func() error) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- fn()
	}()
	select {
	case <-ctx.Done():
		closer.Close()
		<-errCh
		return context.Canceled
	case err := <-errCh:
		closer.Close()
		return err
	}
}

// RunDetachedWithContextCloser is like RunWithContextCloser, but returns
// as soon as ctx is done without waiting for fn. It's for closers which
// can't unblock fn, e.g. stdin on a terminal; fn is left running until
// its pending call returns.
func RunDetachedWithContextCloser(ctx context.Context, closer io.Closer, fn func() error) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- fn()
	}()
	select {
	case <-ctx.Done():
		closer.Close()
		return context.Canceled
	case err := <-errCh:
		closer.Close()
		return err
	}
}
