package main

import (
	"net/http"

	"github.com/MavuriAlekhya2005/docverify/internal/batches"
	"github.com/MavuriAlekhya2005/docverify/internal/certificates"
	"github.com/MavuriAlekhya2005/docverify/internal/config"
	"github.com/MavuriAlekhya2005/docverify/internal/lifecycle"
	"github.com/MavuriAlekhya2005/docverify/internal/users"
	"github.com/MavuriAlekhya2005/docverify/internal/verification"
	"github.com/MavuriAlekhya2005/docverify/pkg/openapi"
	"github.com/MavuriAlekhya2005/docverify/pkg/routes"
)

// registerRoutes configures all HTTP routes for the service.
func registerRoutes(r routes.System, runtime *Runtime, domain *Domain, cfg *config.Config) error {
	userHandler := users.NewHandler(domain.Users, runtime.Tokens, runtime.Logger, runtime.Pagination)
	certHandler := certificates.NewHandler(domain.Certificates, runtime.Tokens, runtime.Logger, runtime.Pagination, cfg.Storage.MaxUploadSizeBytes())
	batchHandler := batches.NewHandler(domain.Batches, runtime.Tokens, runtime.Logger, runtime.Pagination)
	verifyHandler := verification.NewHandler(domain.Certificates, runtime.Logger)

	r.RegisterGroup(routes.Group{
		Prefix: "/api",
		Children: []routes.Group{
			userHandler.Routes(),
			userHandler.AdminRoutes(),
			certHandler.Routes(),
			certHandler.UploadRoutes(),
			batchHandler.Routes(),
			batchHandler.ProofRoutes(),
			verifyHandler.Routes(),
		},
	})

	r.RegisterRoute(routes.Route{
		Method:  "GET",
		Pattern: "/healthz",
		Handler: handleHealthCheck,
		OpenAPI: &openapi.Operation{
			Summary: "Health check endpoint",
			Tags:    []string{"Infrastructure"},
			Responses: map[int]*openapi.Response{
				200: {Description: "Service is healthy"},
			},
		},
	})

	r.RegisterRoute(routes.Route{
		Method:  "GET",
		Pattern: "/readyz",
		Handler: func(w http.ResponseWriter, req *http.Request) {
			handleReadinessCheck(w, runtime.Lifecycle)
		},
		OpenAPI: &openapi.Operation{
			Summary: "Readiness check endpoint",
			Tags:    []string{"Infrastructure"},
			Responses: map[int]*openapi.Response{
				200: {Description: "Service is ready"},
				503: {Description: "Service not ready"},
			},
		},
	})

	components := openapi.NewComponents()
	components.AddSchemas(users.Spec.Schemas())
	components.AddSchemas(certificates.Spec.Schemas())
	components.AddSchemas(batches.Spec.Schemas())
	components.AddSchemas(verification.Spec.Schemas())

	specBytes, err := loadOrGenerateSpec(cfg, r, components)
	if err != nil {
		return err
	}

	r.RegisterRoute(routes.Route{
		Method:  "GET",
		Pattern: "/api/openapi.json",
		Handler: serveOpenAPISpec(specBytes),
	})

	return nil
}

// handleHealthCheck responds with OK status for health monitoring.
func handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func handleReadinessCheck(w http.ResponseWriter, ready lifecycle.ReadinessChecker) {
	if !ready.Ready() {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("NOT READY"))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("READY"))
}

func serveOpenAPISpec(spec []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write(spec)
	}
}
