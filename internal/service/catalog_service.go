package service

import (
	"context"
	"errors"

	"travelia/internal/database"
	"travelia/internal/models"

	"github.com/rs/zerolog"
)

// ErrInvalidPackage is returned when a package is missing its identifier,
// name, or price.
var ErrInvalidPackage = errors.New("invalid package: id_paket, nama_paket and harga are required")

// CatalogStore is the slice of the repository the catalog service needs.
type CatalogStore interface {
	ListDestinations(ctx context.Context) ([]models.Destination, error)
	AppendDestination(ctx context.Context, d *models.Destination) error
	DeleteDestinationAt(ctx context.Context, index int) error

	ListTrips(ctx context.Context) ([]models.Trip, error)
	AddTrip(ctx context.Context, trip *models.Trip) error
	UpdateTrip(ctx context.Context, id string, mutate func(*models.Trip)) error
	DeleteTrip(ctx context.Context, id string) error

	ListItineraries(ctx context.Context) ([]models.Itinerary, error)
	AddItinerary(ctx context.Context, it *models.Itinerary) error
	UpdateItinerary(ctx context.Context, id string, mutate func(*models.Itinerary)) error
	DeleteItinerary(ctx context.Context, id string) error

	ListPackages(ctx context.Context) ([]models.TourPackage, error)
	AddPackage(ctx context.Context, p *models.TourPackage) error
}

type CatalogService struct {
	store  CatalogStore
	logger *zerolog.Logger
}

func NewCatalogService(store CatalogStore, logger *zerolog.Logger) *CatalogService {
	return &CatalogService{store: store, logger: logger}
}

func (s *CatalogService) Destinations(ctx context.Context) ([]models.Destination, error) {
	return s.store.ListDestinations(ctx)
}

func (s *CatalogService) AddDestination(ctx context.Context, d *models.Destination) error {
	return s.store.AppendDestination(ctx, d)
}

func (s *CatalogService) DeleteDestination(ctx context.Context, index int) error {
	return s.store.DeleteDestinationAt(ctx, index)
}

func (s *CatalogService) Trips(ctx context.Context) ([]models.Trip, error) {
	return s.store.ListTrips(ctx)
}

func (s *CatalogService) AddTrip(ctx context.Context, trip *models.Trip) error {
	return s.store.AddTrip(ctx, trip)
}

// UpdateTrip replaces every non-zero field of the stored trip.
func (s *CatalogService) UpdateTrip(ctx context.Context, id string, incoming models.Trip) error {
	return s.store.UpdateTrip(ctx, id, func(trip *models.Trip) {
		if incoming.Name != "" {
			trip.Name = incoming.Name
		}
		if incoming.Duration != "" {
			trip.Duration = incoming.Duration
		}
		if incoming.Desc != "" {
			trip.Desc = incoming.Desc
		}
		if incoming.Price != "" {
			trip.Price = incoming.Price
		}
		if incoming.Image != "" {
			trip.Image = incoming.Image
		}
	})
}

func (s *CatalogService) DeleteTrip(ctx context.Context, id string) error {
	return s.store.DeleteTrip(ctx, id)
}

func (s *CatalogService) Itineraries(ctx context.Context) ([]models.Itinerary, error) {
	return s.store.ListItineraries(ctx)
}

func (s *CatalogService) AddItinerary(ctx context.Context, it *models.Itinerary) error {
	return s.store.AddItinerary(ctx, it)
}

func (s *CatalogService) UpdateItinerary(ctx context.Context, id string, incoming models.Itinerary) error {
	return s.store.UpdateItinerary(ctx, id, func(it *models.Itinerary) {
		if incoming.Name != "" {
			it.Name = incoming.Name
		}
		if incoming.Duration != "" {
			it.Duration = incoming.Duration
		}
		if incoming.Desc != "" {
			it.Desc = incoming.Desc
		}
		if incoming.Price != "" {
			it.Price = incoming.Price
		}
		if incoming.Photo != "" {
			it.Photo = incoming.Photo
		}
	})
}

func (s *CatalogService) DeleteItinerary(ctx context.Context, id string) error {
	return s.store.DeleteItinerary(ctx, id)
}

func (s *CatalogService) Packages(ctx context.Context) ([]models.TourPackage, error) {
	return s.store.ListPackages(ctx)
}

// AddPackage validates the required fields before appending; packages
// are referenced by name from bookings so blanks would orphan orders.
func (s *CatalogService) AddPackage(ctx context.Context, p *models.TourPackage) error {
	if p.IDPaket == "" || p.PackageName == "" || p.Price <= 0 {
		return ErrInvalidPackage
	}
	return s.store.AddPackage(ctx, p)
}

var _ CatalogStore = (*database.DB)(nil)
