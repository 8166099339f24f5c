// Package service runs long-lived components and collects their errors.
package service

import "context"

// Named is an abstraction for things with a name.
type Named interface {
	Name() string
}

// Runnable is a component running until its context is done.
type Runnable interface {
	Run(context.Context) error
}

// RunFunc is func form of Runnable.
type RunFunc func(context.Context) error

// Run implements Runnable.
func (f RunFunc) Run(ctx context.Context) error {
	return f(ctx)
}

type namedRunnable struct {
	Runnable
	name string
}

func (r *namedRunnable) Name() string {
	return r.name
}

// WithName attaches a name used in logs.
func WithName(name string, r Runnable) Runnable {
	return &namedRunnable{Runnable: r, name: name}
}
