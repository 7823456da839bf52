package service

import (
	"context"
	"errors"
	"os"
	"testing"

	"travelia/internal/database"
	"travelia/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalogService(t *testing.T) *CatalogService {
	t.Helper()
	logger := zerolog.New(os.Stdout)
	db, err := database.NewDB(t.TempDir(), &logger)
	require.NoError(t, err)
	return NewCatalogService(db, &logger)
}

func TestCatalogDestinations(t *testing.T) {
	svc := newCatalogService(t)
	ctx := context.Background()

	require.NoError(t, svc.AddDestination(ctx, &models.Destination{Name: "Bromo"}))
	require.NoError(t, svc.AddDestination(ctx, &models.Destination{Name: "Dieng"}))

	require.NoError(t, svc.DeleteDestination(ctx, 1))
	destinations, err := svc.Destinations(ctx)
	require.NoError(t, err)
	require.Len(t, destinations, 1)
	assert.Equal(t, "Bromo", destinations[0].Name)
}

func TestCatalogTripUpdateMergesFields(t *testing.T) {
	svc := newCatalogService(t)
	ctx := context.Background()

	require.NoError(t, svc.AddTrip(ctx, &models.Trip{
		ID: "trip-1", Name: "Open Trip Bromo", Duration: "3D2N", Price: "350000",
	}))

	require.NoError(t, svc.UpdateTrip(ctx, "trip-1", models.Trip{Price: "400000"}))

	trips, err := svc.Trips(ctx)
	require.NoError(t, err)
	require.Len(t, trips, 1)
	assert.Equal(t, "400000", trips[0].Price)
	assert.Equal(t, "Open Trip Bromo", trips[0].Name, "untouched fields survive")
	assert.Equal(t, "3D2N", trips[0].Duration)
}

func TestCatalogItineraries(t *testing.T) {
	svc := newCatalogService(t)
	ctx := context.Background()

	require.NoError(t, svc.AddItinerary(ctx, &models.Itinerary{ID: "it-1", Name: "Hari 1"}))
	require.NoError(t, svc.UpdateItinerary(ctx, "it-1", models.Itinerary{Desc: "Sunrise point"}))

	itineraries, err := svc.Itineraries(ctx)
	require.NoError(t, err)
	require.Len(t, itineraries, 1)
	assert.Equal(t, "Hari 1", itineraries[0].Name)
	assert.Equal(t, "Sunrise point", itineraries[0].Desc)

	require.NoError(t, svc.DeleteItinerary(ctx, "it-1"))
	err = svc.DeleteItinerary(ctx, "it-1")
	assert.True(t, errors.Is(err, database.ErrItineraryNotFound))
}

func TestCatalogAddPackageValidation(t *testing.T) {
	svc := newCatalogService(t)
	ctx := context.Background()

	err := svc.AddPackage(ctx, &models.TourPackage{PackageName: "Tanpa ID", Price: 100})
	assert.True(t, errors.Is(err, ErrInvalidPackage))

	err = svc.AddPackage(ctx, &models.TourPackage{IDPaket: "PKT1", PackageName: "Paket Bromo", Price: 0})
	assert.True(t, errors.Is(err, ErrInvalidPackage))

	require.NoError(t, svc.AddPackage(ctx, &models.TourPackage{
		IDPaket: "PKT1", PackageName: "Paket Bromo", Price: 300000,
	}))

	packages, err := svc.Packages(ctx)
	require.NoError(t, err)
	assert.Len(t, packages, 1)
}
