package models

// Destination is a catalog entry shown on the landing page. Destinations
// carry no identifier of their own; the admin panel addresses them by
// position in the collection.
type Destination struct {
	Name        string `json:"nama"`
	Location    string `json:"lokasi"`
	Description string `json:"deskripsi"`
	Photo       string `json:"foto"`
}

// Trip is a bookable trip offering.
type Trip struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Duration string `json:"durasi"`
	Desc     string `json:"desc"`
	Price    string `json:"price"`
	Image    string `json:"gambar"`
}

// Itinerary is a day-by-day plan attached to a trip offering.
type Itinerary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Duration string `json:"durasi"`
	Desc     string `json:"desc"`
	Price    string `json:"price"`
	Photo    string `json:"foto"`
}

// TourPackage is a priced bundle referenced by bookings through its name.
type TourPackage struct {
	IDPaket     string `json:"id_paket"`
	PackageName string `json:"nama_paket"`
	Price       int    `json:"harga"`
	Description string `json:"deskripsi,omitempty"`
}
