// Package websocket serves calculator links to websocket clients.
package websocket

import (
	"context"
	"net/http"

	"github.com/golang/glog"
	"github.com/google/uuid"
	"golang.org/x/net/websocket"

	"github.com/robotalks/calc.go/pkg/link"
	"github.com/robotalks/calc.go/pkg/service"
)

// DefaultPath is the HTTP path accepting websocket connections.
const DefaultPath = "/calc"

// Endpoint listens for websocket connections. Each connection is an
// independent link.
type Endpoint struct {
	Addr string
	Path string
}

// NewEndpoint creates an Endpoint listening on addr.
func NewEndpoint(addr, path string) *Endpoint {
	if path == "" {
		path = DefaultPath
	}
	return &Endpoint{Addr: addr, Path: path}
}

// MultiSession implements link.MultiSession.
func (e *Endpoint) MultiSession() bool {
	return true
}

// Handler returns the http.Handler serving connections with h.
func (e *Endpoint) Handler(ctx context.Context, h link.Handler) http.Handler {
	return websocket.Handler(func(conn *websocket.Conn) {
		conn.PayloadType = websocket.BinaryFrame
		session := uuid.New().String()
		glog.Infof("session %s: connected from %s", session, conn.Request().RemoteAddr)
		err := service.RunWithContextCloser(ctx, conn, func() error {
			return h(ctx, conn)
		})
		glog.Infof("session %s: closed: %v", session, err)
	})
}

// Serve implements link.Endpoint.
func (e *Endpoint) Serve(ctx context.Context, h link.Handler) error {
	mux := http.NewServeMux()
	mux.Handle(e.Path, e.Handler(ctx, h))
	server := &http.Server{Addr: e.Addr, Handler: mux}
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			server.Close()
		case <-done:
		}
	}()
	glog.Infof("serving on ws://%s%s", e.Addr, e.Path)
	err := server.ListenAndServe()
	if err == http.ErrServerClosed {
		return ctx.Err()
	}
	return err
}

// Dial connects to a websocket Endpoint at url, e.g. ws://host:8080/calc.
func Dial(url string) (*websocket.Conn, error) {
	conn, err := websocket.Dial(url, "", "http://localhost/")
	if err != nil {
		return nil, err
	}
	conn.PayloadType = websocket.BinaryFrame
	return conn, nil
}
