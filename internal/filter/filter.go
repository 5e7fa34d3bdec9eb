package filter

import (
	"cmp"
	"slices"
	"strings"

	"github.com/jusunglee/bus-times/internal/models"
)

// MaxArrivals is the most arrivals shown for a stop
const MaxArrivals = 5

// Options restricts and limits the arrivals shown for a stop
type Options struct {
	// Lines is the allow-set of line ids; empty keeps every line
	Lines []string
	// Destination must be a substring of the destination name; empty keeps every destination
	Destination string
	// Limit caps the result; values outside 1..MaxArrivals mean MaxArrivals
	Limit int
}

// ForStop returns the options configured on a stop
func ForStop(stop models.Stop) Options {
	return Options{
		Lines:       stop.Lines,
		Destination: stop.Destination,
	}
}

func (o Options) limit() int {
	if o.Limit <= 0 || o.Limit > MaxArrivals {
		return MaxArrivals
	}
	return o.Limit
}

// Select filters predictions by line and destination, orders them by time to
// station and keeps the first few. Ties keep their input order. The input
// slice is not modified.
func Select(predictions []models.ArrivalPrediction, opts Options) []models.ArrivalPrediction {
	lines := make(map[string]struct{}, len(opts.Lines))
	for _, l := range opts.Lines {
		lines[l] = struct{}{}
	}

	selected := Filter(predictions, func(p models.ArrivalPrediction) bool {
		if len(lines) > 0 {
			if _, ok := lines[p.LineID]; !ok {
				return false
			}
		}
		if opts.Destination != "" && !strings.Contains(p.DestinationName, opts.Destination) {
			return false
		}
		return true
	})

	slices.SortStableFunc(selected, func(a, b models.ArrivalPrediction) int {
		return cmp.Compare(a.TimeToStation, b.TimeToStation)
	})

	if n := opts.limit(); len(selected) > n {
		selected = selected[:n]
	}
	return selected
}

// FilterFunc is a generic filter function type
type FilterFunc[T any] func(item T) bool

// Filter returns a new slice holding the items fn accepts
func Filter[T any](items []T, fn FilterFunc[T]) []T {
	filtered := make([]T, 0, len(items))
	for _, item := range items {
		if fn(item) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}
