// Package device runs calculators on the links of an endpoint.
package device

import (
	"context"
	"io"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/calc.go/pkg/calc"
	"github.com/robotalks/calc.go/pkg/link"
)

// Device serves a calculator on every link provided by Endpoint.
type Device struct {
	ID            string
	Endpoint      link.Endpoint
	Reporter      calc.Reporter
	Indicator     calc.Indicator
	BlinkInterval time.Duration
}

// New creates a Device.
func New(id string, e link.Endpoint) *Device {
	return &Device{
		ID:            id,
		Endpoint:      e,
		Indicator:     &calc.LogIndicator{Name: id},
		BlinkInterval: calc.DefaultBlinkInterval,
	}
}

// Name implements service.Named.
func (d *Device) Name() string {
	return "device:" + d.ID
}

// NewCalculator creates the calculator for one link.
//
// A point-to-point link is the whole device, so a fault halts it. Links of
// a multi-session endpoint are independent peers: a fault ends only that
// session and is returned as an error.
func (d *Device) NewCalculator(rw io.ReadWriter) *calc.Calculator {
	c := calc.New(rw)
	if link.IsMultiSession(d.Endpoint) {
		c.Fault = nil
	} else {
		c.Fault.Interval = d.BlinkInterval
	}
	if d.Indicator != nil {
		c.WithIndicator(d.Indicator)
	}
	if d.Reporter != nil {
		c.WithReporter(d.Reporter)
	}
	return c
}

// Run implements service.Runnable.
func (d *Device) Run(ctx context.Context) error {
	glog.Infof("device %s starting", d.ID)
	return d.Endpoint.Serve(ctx, func(ctx context.Context, rw io.ReadWriter) error {
		return d.NewCalculator(rw).Run(ctx)
	})
}
