package main

import (
	"github.com/MavuriAlekhya2005/docverify/internal/batches"
	"github.com/MavuriAlekhya2005/docverify/internal/certificates"
	"github.com/MavuriAlekhya2005/docverify/internal/config"
	"github.com/MavuriAlekhya2005/docverify/internal/extraction"
	"github.com/MavuriAlekhya2005/docverify/internal/lifecycle"
	"github.com/MavuriAlekhya2005/docverify/internal/users"
)

// Domain holds the business systems built on the runtime infrastructure.
type Domain struct {
	Users        users.System
	Certificates certificates.System
	Batches      batches.System
	Extraction   *extraction.Worker
}

// NewDomain wires the domain systems from the runtime.
func NewDomain(runtime *Runtime, cfg *config.Config) *Domain {
	certSys := certificates.New(
		runtime.Database.Connection(),
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
	)

	return &Domain{
		Users: users.New(
			runtime.Database.Connection(),
			runtime.Logger,
			runtime.Pagination,
		),
		Certificates: certSys,
		Batches: batches.New(
			runtime.Database.Connection(),
			runtime.Anchors,
			runtime.Logger,
			runtime.Pagination,
		),
		Extraction: extraction.New(
			certSys,
			runtime.Storage,
			cfg.Extraction,
			runtime.Logger,
		),
	}
}

// Start registers the background domain workers with the lifecycle
// coordinator.
func (d *Domain) Start(lc *lifecycle.Coordinator) error {
	return d.Extraction.Start(lc)
}
