// Package gradebook wires the transport core together: accept, read one
// request, parse, route, write one response, close.
package gradebook

import (
	"errors"
	"log"
	"net"

	"github.com/gradebook-web/gradebook/config"
	"github.com/gradebook-web/gradebook/http"
	"github.com/gradebook-web/gradebook/http/status"
	"github.com/gradebook-web/gradebook/internal/parser"
	"github.com/gradebook-web/gradebook/internal/render"
	"github.com/gradebook-web/gradebook/internal/tcp"
	"github.com/gradebook-web/gradebook/router"
	"github.com/indigo-web/chunkedbody"
)

// ErrShutdown is what Serve returns after a deliberate stop.
var ErrShutdown = tcp.ErrShutdown

type App struct {
	addr    string
	cfg     *config.Config
	server  *tcp.Server
	onStart func()
}

// New returns an application bound to the given address. The server is not
// started until Serve is called.
func New(addr string) *App {
	return &App{
		addr: addr,
		cfg:  config.Default(),
	}
}

// Tune replaces the default config.
func (a *App) Tune(cfg *config.Config) *App {
	a.cfg = cfg
	return a
}

// NotifyOnStart calls the callback once the listener is accepting.
func (a *App) NotifyOnStart(cb func()) *App {
	a.onStart = cb
	return a
}

// Serve blocks, accepting connections and serving each one fully: no response
// byte leaves before the whole request is consumed, and no connection
// survives its single exchange.
func (a *App) Serve(r *router.Router) error {
	sock, err := net.Listen("tcp", a.addr)
	if err != nil {
		return err
	}

	a.server = tcp.NewServer(sock, func(conn net.Conn) {
		a.serveConn(conn, r)
	})

	if a.onStart != nil {
		a.onStart()
	}

	return a.server.Start()
}

// GracefulStop stops accepting new connections; in-flight exchanges finish.
func (a *App) GracefulStop() {
	if a.server != nil {
		_ = a.server.GracefulShutdown()
	}
}

// Stop tears the listener and all connections down.
func (a *App) Stop() {
	if a.server != nil {
		_ = a.server.Stop()
	}
}

func (a *App) serveConn(conn net.Conn, r *router.Router) {
	defer conn.Close()

	raw, err := tcp.ReadRequest(conn, a.cfg.NET, chunkedbody.NewParser(chunkedbody.DefaultSettings()))
	if errors.Is(err, tcp.ErrNoRequest) {
		// nothing arrived, so there is nobody to answer
		return
	}

	var request *http.Request
	if err == nil {
		request, err = parser.Parse(raw)
	}

	var resp *http.Response
	if err != nil {
		// framing failures never reach the router
		resp = http.Error(status.ErrMalformedRequest)
	} else {
		request.Remote = conn.RemoteAddr()
		resp = r.OnRequest(request)
	}

	if err := render.Write(conn, *a.cfg, resp); err != nil {
		log.Printf("gradebook: %s: %s", conn.RemoteAddr(), err)
	}
}
