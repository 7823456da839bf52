package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"travelia/internal/database"
	"travelia/internal/models"
	"travelia/internal/service"
)

// placeholderPhoto stands in for destinations added without an image.
const placeholderPhoto = "https://via.placeholder.com/60"

func (s *Server) handleDestinations(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		destinations, err := s.catalog.Destinations(r.Context())
		if err != nil {
			writeMessage(w, http.StatusInternalServerError, "Gagal membaca destinasi")
			return
		}
		writeJSON(w, http.StatusOK, destinations)
	case http.MethodPost:
		var dest models.Destination
		if err := json.NewDecoder(r.Body).Decode(&dest); err != nil {
			writeMessage(w, http.StatusBadRequest, "Body tidak valid")
			return
		}
		if dest.Photo == "" {
			dest.Photo = placeholderPhoto
		}
		if err := s.catalog.AddDestination(r.Context(), &dest); err != nil {
			writeMessage(w, http.StatusInternalServerError, "Gagal menyimpan destinasi")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "destinasi": dest})
	default:
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// Destinations have no id of their own, so the admin panel deletes them
// by position.
func (s *Server) handleDeleteDestination(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	raw := strings.TrimPrefix(r.URL.Path, "/api/destinasi/")
	index, err := strconv.Atoi(raw)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Index tidak valid")
		return
	}

	err = s.catalog.DeleteDestination(r.Context(), index)
	if errors.Is(err, database.ErrInvalidIndex) {
		writeMessage(w, http.StatusBadRequest, "Index tidak valid")
		return
	}
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Gagal menghapus destinasi")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Destinasi dihapus"})
}

func (s *Server) handleDestinationUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	filename, err := s.optionalUpload(r, "foto")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Form tidak valid")
		return
	}

	dest := models.Destination{
		Name:        r.FormValue("nama"),
		Location:    r.FormValue("lokasi"),
		Description: r.FormValue("deskripsi"),
		Photo:       placeholderPhoto,
	}
	if filename != "" {
		dest.Photo = "/uploads/" + filename
	}

	if err := s.catalog.AddDestination(r.Context(), &dest); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Gagal menyimpan destinasi")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "destinasi": dest})
}

func (s *Server) handleTrips(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		trips, err := s.catalog.Trips(r.Context())
		if err != nil {
			writeMessage(w, http.StatusInternalServerError, "Gagal membaca trips")
			return
		}
		writeJSON(w, http.StatusOK, trips)
	case http.MethodPost:
		filename, err := s.optionalUpload(r, "gambar")
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "Form tidak valid")
			return
		}

		trip := models.Trip{
			ID:       r.FormValue("id"),
			Name:     r.FormValue("name"),
			Duration: r.FormValue("durasi"),
			Desc:     r.FormValue("desc"),
			Price:    r.FormValue("price"),
		}
		if filename != "" {
			trip.Image = "/uploads/" + filename
		}

		err = s.catalog.AddTrip(r.Context(), &trip)
		if errors.Is(err, database.ErrTripExists) {
			writeMessage(w, http.StatusBadRequest, "Trip ID sudah ada")
			return
		}
		if err != nil {
			writeMessage(w, http.StatusInternalServerError, "Gagal menyimpan trip")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "trip": trip})
	default:
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleTripByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/trips/")
	if id == "" || strings.Contains(id, "/") {
		writeMessage(w, http.StatusBadRequest, "id diperlukan")
		return
	}

	switch r.Method {
	case http.MethodPut:
		var incoming models.Trip
		if err := json.NewDecoder(r.Body).Decode(&incoming); err != nil {
			writeMessage(w, http.StatusBadRequest, "Body tidak valid")
			return
		}
		err := s.catalog.UpdateTrip(r.Context(), id, incoming)
		if errors.Is(err, database.ErrTripNotFound) {
			writeMessage(w, http.StatusNotFound, "Trip tidak ditemukan")
			return
		}
		if err != nil {
			writeMessage(w, http.StatusInternalServerError, "Gagal memperbarui trip")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Trip diperbarui"})
	case http.MethodDelete:
		err := s.catalog.DeleteTrip(r.Context(), id)
		if errors.Is(err, database.ErrTripNotFound) {
			writeMessage(w, http.StatusNotFound, "Trip tidak ditemukan")
			return
		}
		if err != nil {
			writeMessage(w, http.StatusInternalServerError, "Gagal menghapus trip")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Trip dihapus"})
	default:
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// Multipart variant of the trip update, used when the admin panel swaps
// the image along with the text fields.
func (s *Server) handleTripUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/trips-upload/")
	if id == "" || strings.Contains(id, "/") {
		writeMessage(w, http.StatusBadRequest, "id diperlukan")
		return
	}

	filename, err := s.optionalUpload(r, "gambar")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Form tidak valid")
		return
	}

	incoming := models.Trip{
		Name:     r.FormValue("name"),
		Duration: r.FormValue("durasi"),
		Desc:     r.FormValue("desc"),
		Price:    r.FormValue("price"),
	}
	if filename != "" {
		incoming.Image = "/uploads/" + filename
	}

	err = s.catalog.UpdateTrip(r.Context(), id, incoming)
	if errors.Is(err, database.ErrTripNotFound) {
		writeMessage(w, http.StatusNotFound, "Trip tidak ditemukan")
		return
	}
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Gagal memperbarui trip")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Trip diperbarui"})
}

func (s *Server) handleItineraries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	itineraries, err := s.catalog.Itineraries(r.Context())
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Gagal membaca itinerary")
		return
	}
	writeJSON(w, http.StatusOK, itineraries)
}

func (s *Server) handleItineraryUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	filename, err := s.optionalUpload(r, "foto")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Form tidak valid")
		return
	}

	it := models.Itinerary{
		ID:       r.FormValue("id"),
		Name:     r.FormValue("name"),
		Duration: r.FormValue("durasi"),
		Desc:     r.FormValue("desc"),
		Price:    r.FormValue("price"),
	}
	if it.ID == "" || it.Name == "" || it.Duration == "" || it.Price == "" {
		writeMessage(w, http.StatusBadRequest, "Data tidak lengkap")
		return
	}
	if filename != "" {
		it.Photo = "/uploads/" + filename
	}

	if err := s.catalog.AddItinerary(r.Context(), &it); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Gagal menyimpan itinerary")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "itinerary": it})
}

func (s *Server) handleItineraryByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/itinerary/")
	if id == "" || strings.Contains(id, "/") {
		writeMessage(w, http.StatusBadRequest, "id diperlukan")
		return
	}

	switch r.Method {
	case http.MethodPut:
		// JSON updates never carry a new photo; the stored one is kept.
		var incoming models.Itinerary
		if err := json.NewDecoder(r.Body).Decode(&incoming); err != nil {
			writeMessage(w, http.StatusBadRequest, "Body tidak valid")
			return
		}
		incoming.Photo = ""

		err := s.catalog.UpdateItinerary(r.Context(), id, incoming)
		if errors.Is(err, database.ErrItineraryNotFound) {
			writeMessage(w, http.StatusNotFound, "Itinerary tidak ditemukan")
			return
		}
		if err != nil {
			writeMessage(w, http.StatusInternalServerError, "Gagal memperbarui itinerary")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Itinerary diperbarui"})
	case http.MethodDelete:
		err := s.catalog.DeleteItinerary(r.Context(), id)
		if errors.Is(err, database.ErrItineraryNotFound) {
			writeMessage(w, http.StatusNotFound, "Itinerary tidak ditemukan")
			return
		}
		if err != nil {
			writeMessage(w, http.StatusInternalServerError, "Gagal menghapus itinerary")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Itinerary dihapus"})
	default:
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handlePackages(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		packages, err := s.catalog.Packages(r.Context())
		if err != nil {
			writeMessage(w, http.StatusInternalServerError, "Gagal membaca paket")
			return
		}
		writeJSON(w, http.StatusOK, packages)
	case http.MethodPost:
		var pkg models.TourPackage
		if err := json.NewDecoder(r.Body).Decode(&pkg); err != nil {
			writeMessage(w, http.StatusBadRequest, "Body tidak valid")
			return
		}
		err := s.catalog.AddPackage(r.Context(), &pkg)
		if errors.Is(err, service.ErrInvalidPackage) {
			writeMessage(w, http.StatusBadRequest, "Data paket tidak lengkap")
			return
		}
		if err != nil {
			writeMessage(w, http.StatusInternalServerError, "Gagal menyimpan paket")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "paket": pkg})
	default:
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
