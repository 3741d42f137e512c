// Package router layers route groups and middleware on top of the Go 1.22
// http.ServeMux patterns.
package router

import (
	"net/http"
)

// Middleware decorates a handler.
type Middleware func(http.Handler) http.Handler

// Router registers method-qualified patterns on a shared ServeMux. Groups
// made with Group share the mux and extend the path prefix and middleware.
type Router struct {
	mux    *http.ServeMux
	prefix string
	chain  []Middleware
}

// New returns a Router whose middleware runs for every route.
func New(middleware ...Middleware) *Router {
	return &Router{
		mux:   http.NewServeMux(),
		chain: middleware,
	}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func (r *Router) Get(pattern string, handler http.HandlerFunc, middleware ...Middleware) {
	r.Handle(http.MethodGet, pattern, handler, middleware...)
}

func (r *Router) Post(pattern string, handler http.HandlerFunc, middleware ...Middleware) {
	r.Handle(http.MethodPost, pattern, handler, middleware...)
}

func (r *Router) Put(pattern string, handler http.HandlerFunc, middleware ...Middleware) {
	r.Handle(http.MethodPut, pattern, handler, middleware...)
}

// Handle registers handler for method and the group-prefixed pattern.
// Route middleware runs inside the group's chain.
func (r *Router) Handle(method, pattern string, handler http.Handler, middleware ...Middleware) {
	r.mux.Handle(method+" "+r.prefix+pattern, r.wrap(handler, middleware))
}

// Group returns a sub-router under prefix with extra middleware, e.g.
// r.Group("/api", requireAuth).
func (r *Router) Group(prefix string, middleware ...Middleware) *Router {
	chain := make([]Middleware, 0, len(r.chain)+len(middleware))
	chain = append(chain, r.chain...)
	return &Router{
		mux:    r.mux,
		prefix: r.prefix + prefix,
		chain:  append(chain, middleware...),
	}
}

// Mount registers handler for every method under pattern, e.g. "/metrics".
// Only the router's own chain applies.
func (r *Router) Mount(pattern string, handler http.Handler) {
	r.mux.Handle(r.prefix+pattern, r.wrap(handler, nil))
}

// wrap applies the chain then route middleware, so the first middleware
// given to New is the outermost.
func (r *Router) wrap(handler http.Handler, middleware []Middleware) http.Handler {
	for i := len(middleware) - 1; i >= 0; i-- {
		handler = middleware[i](handler)
	}
	for i := len(r.chain) - 1; i >= 0; i-- {
		handler = r.chain[i](handler)
	}
	return handler
}
