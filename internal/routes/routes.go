// Package routes provides HTTP route registration and handler building.
package routes

import (
	"log/slog"
	"net/http"

	pkgroutes "github.com/MavuriAlekhya2005/docverify/pkg/routes"
)

type routes struct {
	routes []pkgroutes.Route
	groups []pkgroutes.Group
	logger *slog.Logger
}

// New creates a route system with the specified logger.
func New(logger *slog.Logger) pkgroutes.System {
	return &routes{
		logger: logger,
		groups: []pkgroutes.Group{},
		routes: []pkgroutes.Route{},
	}
}

func (r *routes) Groups() []pkgroutes.Group {
	return r.groups
}

func (r *routes) Routes() []pkgroutes.Route {
	return r.routes
}

// RegisterRoute adds a route to the route system.
func (r *routes) RegisterRoute(route pkgroutes.Route) {
	r.routes = append(r.routes, route)
}

// RegisterGroup adds a route group to the route system.
func (r *routes) RegisterGroup(group pkgroutes.Group) {
	r.groups = append(r.groups, group)
}

// Build constructs an http.Handler from all registered routes and groups.
func (r *routes) Build() http.Handler {
	mux := http.NewServeMux()

	for _, route := range r.routes {
		r.register(mux, "", route, nil)
	}

	for _, group := range r.groups {
		r.registerGroup(mux, "", group, nil)
	}

	return mux
}

func (r *routes) registerGroup(mux *http.ServeMux, parentPrefix string, group pkgroutes.Group, inherited []func(http.Handler) http.Handler) {
	fullPrefix := parentPrefix + group.Prefix

	chain := make([]func(http.Handler) http.Handler, 0, len(inherited)+len(group.Middleware))
	chain = append(chain, inherited...)
	chain = append(chain, group.Middleware...)

	for _, route := range group.Routes {
		r.register(mux, fullPrefix, route, chain)
	}
	for _, child := range group.Children {
		r.registerGroup(mux, fullPrefix, child, chain)
	}
}

func (r *routes) register(mux *http.ServeMux, prefix string, route pkgroutes.Route, inherited []func(http.Handler) http.Handler) {
	pattern := prefix + route.Pattern

	var handler http.Handler = route.Handler
	for i := len(route.Middleware) - 1; i >= 0; i-- {
		handler = route.Middleware[i](handler)
	}
	for i := len(inherited) - 1; i >= 0; i-- {
		handler = inherited[i](handler)
	}

	r.logger.Debug("route registered", "method", route.Method, "pattern", pattern)
	mux.Handle(route.Method+" "+pattern, handler)
}
