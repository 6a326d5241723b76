// Copyright 2026 Wayback Archiver. All rights reserved.
// Use of this source code is governed by the GNU GPL v3
// license that can be found in the LICENSE file.

package rxv

import (
	"strings"

	"github.com/pkg/errors"
)

// Registry maps service names and aliases to their adapters. Lookups are
// case-insensitive; each canonical name owns exactly one adapter. A
// Registry is populated once at construction and read-only afterwards.
type Registry struct {
	services map[string]Service
	names    []string // canonical names, registration order
}

func NewRegistry() *Registry {
	return &Registry{services: make(map[string]Service)}
}

// Register adds a service under its canonical name plus any aliases.
// Registration fails with ErrDuplicateService when the name or an alias
// is already taken, leaving the registry untouched.
func (r *Registry) Register(service Service, aliases ...string) error {
	keys := append([]string{service.Name()}, aliases...)
	for i, key := range keys {
		keys[i] = strings.ToLower(key)
		if _, ok := r.services[keys[i]]; ok {
			return errors.Wrap(ErrDuplicateService, keys[i])
		}
	}
	for _, key := range keys {
		r.services[key] = service
	}
	r.names = append(r.names, keys[0])
	return nil
}

// Resolve returns the adapter registered under the given name or alias,
// or ErrUnknownService.
func (r *Registry) Resolve(name string) (Service, error) {
	service, ok := r.services[strings.ToLower(name)]
	if !ok {
		return nil, errors.Wrap(ErrUnknownService, name)
	}
	return service, nil
}

// Names returns the canonical service names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.names))
	copy(names, r.names)
	return names
}
