// Package router matches requests against a declared route table and invokes
// exactly one handler per request.
package router

import (
	"log"
	"strings"

	"github.com/gradebook-web/gradebook/http"
	"github.com/gradebook-web/gradebook/http/method"
	"github.com/gradebook-web/gradebook/http/status"
)

// Handler consumes a request and produces its one and only response. A
// handler maps every failure it meets to a terminal response itself; nothing
// it returns is retried or merged with anything else.
type Handler func(*http.Request) *http.Response

type route struct {
	method  method.Method
	path    string
	prefix  bool
	handler Handler
}

// Router holds an ordered route table. Matching walks the table in
// declaration order and the first entry that matches both method and path
// wins, so more specific prefixes must be declared before shorter overlapping
// ones. There is no fallthrough past the first match.
type Router struct {
	routes []route
}

func New() *Router {
	return new(Router)
}

// Route registers an exact-match route.
func (r *Router) Route(m method.Method, path string, handler Handler) *Router {
	r.routes = append(r.routes, route{m, path, false, handler})
	return r
}

// RoutePrefix registers a prefix-match route: any path beginning with the
// declared string matches.
func (r *Router) RoutePrefix(m method.Method, prefix string, handler Handler) *Router {
	r.routes = append(r.routes, route{m, prefix, true, handler})
	return r
}

func (r *Router) Get(path string, handler Handler) *Router {
	return r.Route(method.GET, path, handler)
}

func (r *Router) GetPrefix(prefix string, handler Handler) *Router {
	return r.RoutePrefix(method.GET, prefix, handler)
}

func (r *Router) Post(path string, handler Handler) *Router {
	return r.Route(method.POST, path, handler)
}

func (r *Router) PostPrefix(prefix string, handler Handler) *Router {
	return r.RoutePrefix(method.POST, prefix, handler)
}

// OnRequest selects the handler for the request, or synthesizes the terminal
// response itself: 404 when no route knows the path, 405 when the path is
// known but never under this method. A panicking handler is converted into a
// 500, never into a dead connection.
func (r *Router) OnRequest(request *http.Request) (resp *http.Response) {
	for _, rt := range r.routes {
		if rt.method != request.Method || !rt.matches(request.Path) {
			continue
		}

		defer func() {
			if v := recover(); v != nil {
				log.Printf("router: panic in %s %s handler: %v", rt.method, rt.path, v)
				resp = http.Error(status.ErrInternalServerError)
			}
		}()

		return rt.handler(request)
	}

	if r.pathKnown(request.Path) {
		return http.Error(status.ErrMethodNotAllowed)
	}

	return http.Error(status.ErrNotFound)
}

// pathKnown reports whether any route, under any method, would accept the
// path. This is what keeps 405 observable as distinct from 404.
func (r *Router) pathKnown(path string) bool {
	for _, rt := range r.routes {
		if rt.matches(path) {
			return true
		}
	}

	return false
}

func (rt route) matches(path string) bool {
	if rt.prefix {
		return strings.HasPrefix(path, rt.path)
	}

	return path == rt.path
}
