// Package routes defines the route registration surface shared between
// domain handlers and the HTTP multiplexer construction.
package routes

import (
	"net/http"

	"github.com/MavuriAlekhya2005/docverify/pkg/openapi"
)

// Route represents an HTTP route with method, pattern, and handler.
// Middleware wraps only this route when set.
type Route struct {
	Method     string
	Pattern    string
	Handler    http.HandlerFunc
	Middleware []func(http.Handler) http.Handler
	OpenAPI    *openapi.Operation
}

// Group represents a collection of routes under a common URL prefix.
// Groups can contain child groups for hierarchical route organization.
type Group struct {
	Prefix      string
	Tags        []string
	Description string
	Middleware  []func(http.Handler) http.Handler
	Routes      []Route
	Children    []Group
}

// System defines the interface for route registration and HTTP handler building.
// Implementations handle the actual registration and multiplexer construction.
type System interface {
	RegisterGroup(group Group)
	RegisterRoute(route Route)
	Build() http.Handler
	Groups() []Group
	Routes() []Route
}
