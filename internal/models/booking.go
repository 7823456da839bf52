package models

// Booking is a reserved package purchase awaiting or having completed
// payment. JSON field names follow the persisted wire format consumed by
// the web and admin frontends.
type Booking struct {
	IDBooking   string `json:"id_booking"`
	Username    string `json:"username"`
	PackageName string `json:"nama_paket"`
	BookingDate string `json:"tanggal_pemesanan"`
	PartySize   int    `json:"jumlah_orang"`
	TotalAmount int    `json:"harga_total"`
	Status      string `json:"status"`
}
