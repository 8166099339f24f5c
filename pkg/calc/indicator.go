package calc

import "github.com/golang/glog"

// Indicator is an on/off signal visible to an operator, e.g. an LED.
type Indicator interface {
	Set(on bool)
}

// IndicatorFunc is func type of Indicator.
type IndicatorFunc func(on bool)

// Set implements Indicator.
func (f IndicatorFunc) Set(on bool) {
	f(on)
}

// NopIndicator ignores all changes.
type NopIndicator struct{}

// Set implements Indicator.
func (NopIndicator) Set(bool) {}

// LogIndicator logs changes at verbosity 2.
type LogIndicator struct {
	Name string
}

// Set implements Indicator.
func (i *LogIndicator) Set(on bool) {
	if glog.V(2) {
		state := "off"
		if on {
			state = "on"
		}
		glog.Infof("indicator %s: %s", i.Name, state)
	}
}
