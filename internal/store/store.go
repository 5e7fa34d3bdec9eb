package store

import (
	"fmt"
	"math/bits"

	"github.com/jusunglee/bus-times/internal/models"
)

// Registry holds the stop and site tables. It is read-only after NewRegistry
// returns, so it is safe for concurrent use without locking.
type Registry struct {
	stops     []models.Stop
	stopsByID map[string]int
	sites     []models.Site
	sitesByID map[string]int
}

// NewRegistry builds a registry, checking that every stop flag is a distinct
// single bit and every site member exists. A site's flag is the OR of its
// members' flags.
func NewRegistry(stops []models.Stop, sites []models.Site) (*Registry, error) {
	r := &Registry{
		stops:     make([]models.Stop, 0, len(stops)),
		stopsByID: make(map[string]int, len(stops)),
		sites:     make([]models.Site, 0, len(sites)),
		sitesByID: make(map[string]int, len(sites)),
	}

	flagOwner := make(map[uint64]string)
	for _, stop := range stops {
		if stop.ID == "" {
			return nil, fmt.Errorf("stop with name %q has no id", stop.Name)
		}
		if _, ok := r.stopsByID[stop.ID]; ok {
			return nil, fmt.Errorf("duplicate stop %s", stop.ID)
		}
		if stop.Flag != 0 {
			if bits.OnesCount64(stop.Flag) != 1 {
				return nil, fmt.Errorf("stop %s: flag %d is not a power of two", stop.ID, stop.Flag)
			}
			if owner, ok := flagOwner[stop.Flag]; ok {
				return nil, fmt.Errorf("stop %s: flag %d already used by stop %s", stop.ID, stop.Flag, owner)
			}
			flagOwner[stop.Flag] = stop.ID
		}
		stop.Lines = append([]string(nil), stop.Lines...)
		r.stopsByID[stop.ID] = len(r.stops)
		r.stops = append(r.stops, stop)
	}

	for _, site := range sites {
		if site.Name == "" {
			return nil, fmt.Errorf("site with no name")
		}
		if _, ok := r.sitesByID[site.Name]; ok {
			return nil, fmt.Errorf("duplicate site %s", site.Name)
		}
		var flag uint64
		for _, id := range site.Stops {
			i, ok := r.stopsByID[id]
			if !ok {
				return nil, fmt.Errorf("site %s: unknown stop %s", site.Name, id)
			}
			if r.stops[i].Flag == 0 {
				return nil, fmt.Errorf("site %s: stop %s has no flag", site.Name, id)
			}
			flag |= r.stops[i].Flag
		}
		r.sitesByID[site.Name] = len(r.sites)
		r.sites = append(r.sites, models.Site{
			Name:  site.Name,
			Flag:  flag,
			Stops: append([]string(nil), site.Stops...),
		})
	}

	return r, nil
}

// Lookup returns the stop registered under id
func (r *Registry) Lookup(id string) (models.Stop, bool) {
	i, ok := r.stopsByID[id]
	if !ok {
		return models.Stop{}, false
	}
	return r.stops[i], true
}

// DisplayName returns the stop's name, or the raw id for unknown stops
func (r *Registry) DisplayName(id string) string {
	if stop, ok := r.Lookup(id); ok {
		return stop.Name
	}
	return id
}

// Site returns the site registered under name
func (r *Registry) Site(name string) (models.Site, bool) {
	i, ok := r.sitesByID[name]
	if !ok {
		return models.Site{}, false
	}
	return r.sites[i], true
}

// Resolve returns the stops belonging to the named site in registry order.
// An empty or unknown site name returns every stop.
func (r *Registry) Resolve(name string) []models.Stop {
	site, ok := r.Site(name)
	if !ok {
		return r.Stops()
	}

	result := make([]models.Stop, 0, len(site.Stops))
	for _, stop := range r.stops {
		if stop.InSite(site) {
			result = append(result, stop)
		}
	}
	return result
}

// Stops returns every stop in registry order
func (r *Registry) Stops() []models.Stop {
	result := make([]models.Stop, len(r.stops))
	copy(result, r.stops)
	return result
}

// Sites returns every site in registry order
func (r *Registry) Sites() []models.Site {
	result := make([]models.Site, len(r.sites))
	copy(result, r.sites)
	return result
}
