// Package env provides configuration of calculator processes.
package env

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"time"

	"github.com/robotalks/calc.go/pkg/calc"
	"github.com/robotalks/calc.go/pkg/link"
	"github.com/robotalks/calc.go/pkg/link/mqtt"
	"github.com/robotalks/calc.go/pkg/link/stream"
	"github.com/robotalks/calc.go/pkg/link/websocket"
	"github.com/robotalks/calc.go/pkg/monitor"
)

// ErrUnknownScheme indicates the link URL scheme isn't supported.
var ErrUnknownScheme = errors.New("unknown link scheme")

// Config provides common options of calculator processes.
type Config struct {
	// ID identifies the device, used in MQTT topics.
	ID string

	// LinkURL specifies the link to serve, one of
	// stdio:, file:///dev/ttyACM0, mqtt://host:port/topic-prefix/,
	// ws://host:port/path.
	LinkURL string

	// MonitorURL specifies the MQTT broker receiving transcripts,
	// e.g. mqtt://host:port/topic-prefix/. Empty disables it.
	MonitorURL string

	// BlinkInterval is the indicator period after a fault.
	BlinkInterval time.Duration
}

var defaultConfig = Config{
	LinkURL:       "stdio:",
	BlinkInterval: calc.DefaultBlinkInterval,
}

func init() {
	defaultConfig.ID = MachineID()
	if defaultConfig.ID == "" {
		defaultConfig.ID = "calc"
	}
	if val := os.Getenv("CALC_ID"); val != "" {
		defaultConfig.ID = val
	}
	if val := os.Getenv("CALC_LINK"); val != "" {
		defaultConfig.LinkURL = val
	}
	if val := os.Getenv("CALC_MONITOR_URL"); val != "" {
		defaultConfig.MonitorURL = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.ID, "id", defaultConfig.ID, "Device ID.")
	flag.StringVar(&defaultConfig.LinkURL, "link", defaultConfig.LinkURL, "Link URL: stdio:, file:///dev/tty..., mqtt://..., ws://...")
	flag.StringVar(&defaultConfig.MonitorURL, "monitor", defaultConfig.MonitorURL, "MQTT broker URL for transcripts.")
	flag.DurationVar(&defaultConfig.BlinkInterval, "blink", defaultConfig.BlinkInterval, "Indicator period after a fault.")
}

// SetupMonitorFlags sets command line flags for monitor-only processes.
func SetupMonitorFlags() {
	flag.StringVar(&defaultConfig.MonitorURL, "monitor", defaultConfig.MonitorURL, "MQTT broker URL for transcripts.")
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewEndpoint creates the link Endpoint from LinkURL.
func (c *Config) NewEndpoint() (link.Endpoint, error) {
	u, err := url.Parse(c.LinkURL)
	if err != nil {
		return nil, fmt.Errorf("invalid link URL: %w", err)
	}
	switch u.Scheme {
	case "stdio":
		return stream.Stdio(), nil
	case "file":
		return stream.Open(u.Path)
	case "mqtt":
		return mqtt.NewEndpoint(c.LinkURL, c.ID)
	case "ws":
		return websocket.NewEndpoint(u.Host, u.Path), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, u.Scheme)
	}
}

// MustNewEndpoint creates the link Endpoint and fails on error.
func (c *Config) MustNewEndpoint() link.Endpoint {
	e, err := c.NewEndpoint()
	if err != nil {
		log.Fatalln(err)
	}
	return e
}

// NewMonitor creates the transcript Publisher, or nil if MonitorURL is empty.
func (c *Config) NewMonitor() (*monitor.Publisher, error) {
	if c.MonitorURL == "" {
		return nil, nil
	}
	return monitor.NewPublisher(c.MonitorURL, c.ID)
}

// NewMonitorQueue creates the MQTT queue to watch transcripts.
func (c *Config) NewMonitorQueue() (*mqtt.Queue, error) {
	if c.MonitorURL == "" {
		return nil, errors.New("monitor URL must be specified")
	}
	return mqtt.NewQueueFromURL(c.MonitorURL)
}

// DialTerminal connects to the device served on LinkURL as its peer.
func (c *Config) DialTerminal() (io.ReadWriteCloser, error) {
	u, err := url.Parse(c.LinkURL)
	if err != nil {
		return nil, fmt.Errorf("invalid link URL: %w", err)
	}
	var rwc io.ReadWriteCloser
	switch u.Scheme {
	case "file":
		rwc, err = os.OpenFile(u.Path, os.O_RDWR, 0)
	case "mqtt":
		rwc, err = mqtt.DialTerminal(c.LinkURL, c.ID)
	case "ws":
		rwc, err = websocket.Dial(c.LinkURL)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownScheme, u.Scheme)
	}
	if err != nil {
		return nil, err
	}
	return rwc, nil
}
