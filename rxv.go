// Copyright 2026 Wayback Archiver. All rights reserved.
// Use of this source code is governed by the GNU GPL v3
// license that can be found in the LICENSE file.

// Package rxv submits URLs to third-party web archival services and
// reports back the resulting archive link.
package rxv

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/wabarc/logger"
)

// Canonical service names.
const (
	ServiceArchiveToday    = "archivetoday"
	ServiceInternetArchive = "internetarchive"
)

func init() {
	debug := os.Getenv("DEBUG")
	if debug == "true" || debug == "1" || debug == "on" {
		logger.EnableDebug()
	}
}

// Result is the outcome of one submission to one service.
type Result struct {
	Service string // canonical service name
	Code    int    // HTTP status of the provider response, 0 if none was received
	Dest    string // archive link, empty on failure
	Err     error  // per-item error in batch results, nil on success
}

// Service is the capability every archival adapter implements.
type Service interface {
	// Name returns the canonical service name.
	Name() string
	// Submit sends link to the service and reports the archive link.
	// The input is validated before any request is made.
	Submit(ctx context.Context, link string) (Result, error)
}

type httpClientSetter interface {
	SetHTTPClient(client *http.Client)
}

type userAgentSetter interface {
	SetUserAgent(ua string)
}

// Archiver dispatches URLs to the registered archival services, one
// submission at a time, in the order requested.
type Archiver struct {
	cfg      *Config
	client   *http.Client
	registry *Registry
}

// New returns an Archiver with both built-in services registered. A nil
// cfg loads configuration from the environment.
func New(cfg *Config) *Archiver {
	if cfg == nil {
		var err error
		if cfg, err = LoadConfig(); err != nil {
			logger.Warn("[rxv] load config failed, using defaults: %v", err)
			cfg = defaultConfig()
		}
	}

	client := &http.Client{Timeout: cfg.Timeout}
	registry := NewRegistry()
	// Built-in registrations cannot collide on a fresh registry.
	_ = registry.Register(&ArchiveToday{
		Client:    client,
		Endpoint:  cfg.ArchiveTodayEndpoint,
		UserAgent: cfg.UserAgent,
	}, "at", "archive.today")
	_ = registry.Register(&InternetArchive{
		Client:    client,
		Endpoint:  cfg.InternetArchiveEndpoint,
		UserAgent: cfg.UserAgent,
	}, "ia", "wayback")

	return &Archiver{cfg: cfg, client: client, registry: registry}
}

// SetClient replaces the HTTP client used by the registered services.
func (a *Archiver) SetClient(client *http.Client) *Archiver {
	if client == nil {
		return a
	}
	a.client = client
	for _, name := range a.registry.Names() {
		service, err := a.registry.Resolve(name)
		if err != nil {
			continue
		}
		if s, ok := service.(httpClientSetter); ok {
			s.SetHTTPClient(client)
		}
	}
	return a
}

// SetUserAgent replaces the User-Agent sent by the registered services.
func (a *Archiver) SetUserAgent(ua string) *Archiver {
	if ua == "" {
		return a
	}
	a.cfg.UserAgent = ua
	for _, name := range a.registry.Names() {
		service, err := a.registry.Resolve(name)
		if err != nil {
			continue
		}
		if s, ok := service.(userAgentSetter); ok {
			s.SetUserAgent(ua)
		}
	}
	return a
}

// SetRegistry replaces the service registry.
func (a *Archiver) SetRegistry(registry *Registry) *Archiver {
	if registry != nil {
		a.registry = registry
	}
	return a
}

// Config returns the configuration the Archiver was built with.
func (a *Archiver) Config() *Config { return a.cfg }

// Services returns the canonical names of the registered services in
// registration order.
func (a *Archiver) Services() []string { return a.registry.Names() }

// ArchiveWith submits link to the named service and returns its result.
// Errors propagate to the caller unchanged; resolution failures happen
// before any request is made.
func (a *Archiver) ArchiveWith(ctx context.Context, service, link string) (Result, error) {
	s, err := a.registry.Resolve(service)
	if err != nil {
		return Result{Service: strings.ToLower(service), Err: err}, err
	}
	return s.Submit(ctx, link)
}

// ArchiveWithMany submits link to each named service in the order given
// and collects one Result per service. A failure is recorded in that
// Result's Err and does not stop the remaining submissions. An empty
// service list yields an empty slice.
func (a *Archiver) ArchiveWithMany(ctx context.Context, services []string, link string) []Result {
	results := make([]Result, 0, len(services))
	for _, name := range services {
		res, err := a.ArchiveWith(ctx, name, link)
		if err != nil {
			logger.Error("[rxv] archive %s with %s failed: %v", link, name, err)
			res.Err = err
		} else {
			logger.Debug("[rxv] archived %s with %s: %s", link, res.Service, res.Dest)
		}
		results = append(results, res)
	}
	return results
}

// ArchiveURLs applies ArchiveWithMany to each link and maps the link to
// its results. Duplicate links are each submitted again.
func (a *Archiver) ArchiveURLs(ctx context.Context, links []string, services []string) map[string][]Result {
	collect := make(map[string][]Result, len(links))
	for _, link := range links {
		collect[link] = a.ArchiveWithMany(ctx, services, link)
	}
	return collect
}

// ArchiveToday submits link to archive.today.
func (a *Archiver) ArchiveToday(ctx context.Context, link string) (Result, error) {
	return a.ArchiveWith(ctx, ServiceArchiveToday, link)
}

// InternetArchive submits link to the Wayback Machine.
func (a *Archiver) InternetArchive(ctx context.Context, link string) (Result, error) {
	return a.ArchiveWith(ctx, ServiceInternetArchive, link)
}
