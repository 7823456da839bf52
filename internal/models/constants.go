package models

// Booking statuses. The literals are part of the wire contract with the
// frontends and must not be translated.
const (
	StatusAwaitingPayment = "Menunggu Pembayaran"
	StatusAccepted        = "Diterima"
	StatusRejected        = "Ditolak"
)

// Transaction verification statuses. VerificationCompleted is the only
// value with a mapped booking status; anything else is copied verbatim.
const (
	VerificationPending   = "Menunggu Verifikasi"
	VerificationCompleted = "Selesai"
	VerificationRejected  = "Ditolak"
)

// Collection names of the persisted JSON documents.
const (
	CollectionBookings     = "kelola_booking"
	CollectionTransactions = "kelola_transaksi"
	CollectionUsers        = "users"
	CollectionAdmins       = "admins"
	CollectionDestinations = "destinasi"
	CollectionTrips        = "trips"
	CollectionItineraries  = "itinerary"
	CollectionPackages     = "kelola_paket"
	CollectionSyncTasks    = "sync_tasks"
)

const (
	// DefaultUnitPrice is the per-person price applied when an order
	// carries neither a total nor a unit price.
	DefaultUnitPrice = 300000

	// DefaultVirtualAccount is the transfer destination shown on the
	// payment instruction screen.
	DefaultVirtualAccount = "80777089237889088"

	// DefaultPartySize applies when jumlah_orang is missing or invalid.
	DefaultPartySize = 1

	// WorkerQueueSize bounds the in-memory sync task queue.
	WorkerQueueSize = 128
)

// Sync task types understood by the sheets worker.
const (
	SyncTaskUpsert       = "upsert"
	SyncTaskDelete       = "delete"
	SyncTaskUpdateStatus = "update_status"
)
