// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package padron

import (
	"errors"
	"sort"
	"strings"

	"github.com/votaciones-pe/sufragio/models"
)

var ErrNotFound = errors.New("dni not found in registry")

// Registry is the seeded national-ID lookup plus the party and region
// catalogs. It stands in for the external registry service the ballot
// flow consults; data is fixed at construction and read-only after.
type Registry struct {
	voters  map[string]models.Voter
	parties []models.Party
	regions []string
}

// NewRegistry builds a registry over the built-in demo fixtures.
func NewRegistry() *Registry {
	voters := make(map[string]models.Voter, len(seedVoters))
	for _, v := range seedVoters {
		voters[v.DNI] = v
	}
	return &Registry{
		voters:  voters,
		parties: seedParties,
		regions: seedRegions,
	}
}

// Lookup returns the registry entry for a DNI, or ErrNotFound.
func (r *Registry) Lookup(dni string) (models.Voter, error) {
	v, ok := r.voters[strings.TrimSpace(dni)]
	if !ok {
		return models.Voter{}, ErrNotFound
	}
	return v, nil
}

// RegionFor resolves the administrative region of a DNI, defaulting
// unknown voters into the fallback bucket.
func (r *Registry) RegionFor(dni string) string {
	v, err := r.Lookup(dni)
	if err != nil {
		return models.RegionOther
	}
	return v.Region
}

// Size returns the number of registered voters, the denominator of
// the participation rate.
func (r *Registry) Size() int {
	return len(r.voters)
}

// Parties returns the full party catalog.
func (r *Registry) Parties() []models.Party {
	return r.parties
}

// PartyNames returns the known party names, sorted, for seeding
// aggregation cells.
func (r *Registry) PartyNames() []string {
	names := make([]string, 0, len(r.parties))
	for _, p := range r.parties {
		names = append(names, p.Name)
	}
	sort.Strings(names)
	return names
}

// Regions returns the known region buckets (fallback included).
func (r *Registry) Regions() []string {
	return r.regions
}
