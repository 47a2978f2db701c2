// Package providers contains clients for external job-listing APIs.
package providers

import (
	"context"
	"net/http"
	"time"

	"github.com/jobdeck/jobdeck/internal/domain/model"
)

const (
	httpTimeout = 15 * time.Second
	pageSize    = 50
)

// Provider fetches one page of raw listings for a query and country.
// An unconfigured provider returns (nil, nil) so rounds degrade
// gracefully instead of failing.
type Provider interface {
	// Name identifies the provider in job sources and logs.
	Name() string

	// Fetch retrieves raw listings. country is an ISO 3166-1 alpha-2
	// code; page is 1-based.
	Fetch(ctx context.Context, query, country string, page int) ([]model.RawJob, error)
}

// Registry holds the configured providers in fan-out order.
type Registry struct {
	providers []Provider
}

// NewRegistry creates a registry over the given providers.
func NewRegistry(providers ...Provider) *Registry {
	return &Registry{providers: providers}
}

// All returns the registered providers.
func (r *Registry) All() []Provider {
	return r.providers
}

// newHTTPClient is the shared client shape for all provider adapters.
func newHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}
