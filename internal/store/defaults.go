package store

import "github.com/jusunglee/bus-times/internal/models"

// DefaultStops are the stops served when no stop table is configured
var DefaultStops = []models.Stop{
	{ID: "490005056D", Name: "Cheam Broadway Stop D", Flag: 2},
	{ID: "490009451N", Name: "Lumley Road Stop N", Flag: 4},
	{ID: "490001346C", Name: "Worcester Park Station (Stop C)", Flag: 8},
	{ID: "490015206K", Name: "New Malden / the Fountain stop K", Flag: 16},
	{ID: "490015206L", Name: "New Malden / Kingston Road (Stop L)", Flag: 32},
	{ID: "490003909N", Name: "Kingston / Wood Street Stop N", Flag: 64},
	{ID: "490013664C1", Name: "Tiffin School / London Road Stop B", Flag: 128},
	{ID: "40004405129A", Name: "Esher Road", Flag: 256},
	{ID: "490010323G", Name: "North Cheam / London Road Stop G", Flag: 512},
	{ID: "490010725S", Name: "Pagoda Avenue (Stop RF)", Flag: 1024},
}

// DefaultSites group DefaultStops by the places they are used from
var DefaultSites = []models.Site{
	{Name: "Cheam", Stops: []string{"490005056D", "490009451N", "490003909N", "490013664C1", "40004405129A", "490010323G"}},
	{Name: "WorcesterPark", Stops: []string{"490001346C", "490003909N", "490013664C1", "40004405129A"}},
	{Name: "NewMalden", Stops: []string{"490015206K", "490015206L", "490003909N", "490013664C1", "40004405129A"}},
	{Name: "Richmond", Stops: []string{"490010725S"}},
}

// Default returns a registry of DefaultStops and DefaultSites
func Default() *Registry {
	r, err := NewRegistry(DefaultStops, DefaultSites)
	if err != nil {
		panic("store: invalid default registry: " + err.Error())
	}
	return r
}
