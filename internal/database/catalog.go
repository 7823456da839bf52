package database

import (
	"context"

	"travelia/internal/models"
)

func (db *DB) ListDestinations(ctx context.Context) ([]models.Destination, error) {
	lock := db.collectionLock(models.CollectionDestinations)
	lock.Lock()
	defer lock.Unlock()

	destinations := []models.Destination{}
	db.load(models.CollectionDestinations, &destinations)
	return destinations, nil
}

func (db *DB) AppendDestination(ctx context.Context, d *models.Destination) error {
	lock := db.collectionLock(models.CollectionDestinations)
	lock.Lock()
	defer lock.Unlock()

	destinations := []models.Destination{}
	db.load(models.CollectionDestinations, &destinations)
	destinations = append(destinations, *d)
	db.save(models.CollectionDestinations, destinations)
	return nil
}

// DeleteDestinationAt removes the destination at the given position; the
// admin frontend addresses destinations by index, not id.
func (db *DB) DeleteDestinationAt(ctx context.Context, index int) error {
	lock := db.collectionLock(models.CollectionDestinations)
	lock.Lock()
	defer lock.Unlock()

	destinations := []models.Destination{}
	db.load(models.CollectionDestinations, &destinations)
	if index < 0 || index >= len(destinations) {
		return ErrInvalidIndex
	}
	destinations = append(destinations[:index], destinations[index+1:]...)
	db.save(models.CollectionDestinations, destinations)
	return nil
}

func (db *DB) ListTrips(ctx context.Context) ([]models.Trip, error) {
	lock := db.collectionLock(models.CollectionTrips)
	lock.Lock()
	defer lock.Unlock()

	trips := []models.Trip{}
	db.load(models.CollectionTrips, &trips)
	return trips, nil
}

func (db *DB) AddTrip(ctx context.Context, trip *models.Trip) error {
	lock := db.collectionLock(models.CollectionTrips)
	lock.Lock()
	defer lock.Unlock()

	trips := []models.Trip{}
	db.load(models.CollectionTrips, &trips)
	for i := range trips {
		if trips[i].ID == trip.ID {
			return ErrTripExists
		}
	}
	trips = append(trips, *trip)
	db.save(models.CollectionTrips, trips)
	return nil
}

func (db *DB) UpdateTrip(ctx context.Context, id string, mutate func(*models.Trip)) error {
	lock := db.collectionLock(models.CollectionTrips)
	lock.Lock()
	defer lock.Unlock()

	trips := []models.Trip{}
	db.load(models.CollectionTrips, &trips)
	for i := range trips {
		if trips[i].ID == id {
			mutate(&trips[i])
			db.save(models.CollectionTrips, trips)
			return nil
		}
	}
	return ErrTripNotFound
}

func (db *DB) DeleteTrip(ctx context.Context, id string) error {
	lock := db.collectionLock(models.CollectionTrips)
	lock.Lock()
	defer lock.Unlock()

	trips := []models.Trip{}
	db.load(models.CollectionTrips, &trips)

	filtered := trips[:0]
	for _, t := range trips {
		if t.ID != id {
			filtered = append(filtered, t)
		}
	}
	if len(filtered) == len(trips) {
		return ErrTripNotFound
	}
	db.save(models.CollectionTrips, filtered)
	return nil
}

func (db *DB) ListItineraries(ctx context.Context) ([]models.Itinerary, error) {
	lock := db.collectionLock(models.CollectionItineraries)
	lock.Lock()
	defer lock.Unlock()

	itineraries := []models.Itinerary{}
	db.load(models.CollectionItineraries, &itineraries)
	return itineraries, nil
}

func (db *DB) AddItinerary(ctx context.Context, it *models.Itinerary) error {
	lock := db.collectionLock(models.CollectionItineraries)
	lock.Lock()
	defer lock.Unlock()

	itineraries := []models.Itinerary{}
	db.load(models.CollectionItineraries, &itineraries)
	itineraries = append(itineraries, *it)
	db.save(models.CollectionItineraries, itineraries)
	return nil
}

func (db *DB) UpdateItinerary(ctx context.Context, id string, mutate func(*models.Itinerary)) error {
	lock := db.collectionLock(models.CollectionItineraries)
	lock.Lock()
	defer lock.Unlock()

	itineraries := []models.Itinerary{}
	db.load(models.CollectionItineraries, &itineraries)
	for i := range itineraries {
		if itineraries[i].ID == id {
			mutate(&itineraries[i])
			db.save(models.CollectionItineraries, itineraries)
			return nil
		}
	}
	return ErrItineraryNotFound
}

func (db *DB) DeleteItinerary(ctx context.Context, id string) error {
	lock := db.collectionLock(models.CollectionItineraries)
	lock.Lock()
	defer lock.Unlock()

	itineraries := []models.Itinerary{}
	db.load(models.CollectionItineraries, &itineraries)

	filtered := itineraries[:0]
	for _, it := range itineraries {
		if it.ID != id {
			filtered = append(filtered, it)
		}
	}
	if len(filtered) == len(itineraries) {
		return ErrItineraryNotFound
	}
	db.save(models.CollectionItineraries, filtered)
	return nil
}

func (db *DB) ListPackages(ctx context.Context) ([]models.TourPackage, error) {
	lock := db.collectionLock(models.CollectionPackages)
	lock.Lock()
	defer lock.Unlock()

	packages := []models.TourPackage{}
	db.load(models.CollectionPackages, &packages)
	return packages, nil
}

func (db *DB) AddPackage(ctx context.Context, p *models.TourPackage) error {
	lock := db.collectionLock(models.CollectionPackages)
	lock.Lock()
	defer lock.Unlock()

	packages := []models.TourPackage{}
	db.load(models.CollectionPackages, &packages)
	packages = append(packages, *p)
	db.save(models.CollectionPackages, packages)
	return nil
}

// SyncPackages merges the configured package list into the collection:
// packages already present (by id_paket) are refreshed in place, new
// ones are appended. Packages added at runtime survive a restart.
func (db *DB) SyncPackages(ctx context.Context, seed []models.TourPackage) error {
	if len(seed) == 0 {
		return nil
	}

	lock := db.collectionLock(models.CollectionPackages)
	lock.Lock()
	defer lock.Unlock()

	packages := []models.TourPackage{}
	db.load(models.CollectionPackages, &packages)

	byID := make(map[string]int, len(packages))
	for i, p := range packages {
		byID[p.IDPaket] = i
	}

	for _, p := range seed {
		if i, ok := byID[p.IDPaket]; ok {
			packages[i] = p
			continue
		}
		packages = append(packages, p)
	}
	db.save(models.CollectionPackages, packages)
	return nil
}
