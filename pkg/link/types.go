// Package link defines the byte links a calculator runs on.
package link

import (
	"context"
	"io"
)

// Handler serves one connected link until the link ends or ctx is done.
type Handler func(ctx context.Context, rw io.ReadWriter) error

// Endpoint provides links to a Handler.
type Endpoint interface {
	// Serve blocks until ctx is done or the endpoint can't serve anymore.
	Serve(ctx context.Context, h Handler) error
}

// MultiSession is implemented by endpoints which call the Handler once per
// connected peer, concurrently.
type MultiSession interface {
	MultiSession() bool
}

// IsMultiSession tells whether e serves many independent links.
func IsMultiSession(e Endpoint) bool {
	if m, ok := e.(MultiSession); ok {
		return m.MultiSession()
	}
	return false
}
