package models

// Transaction is a payment-verification record linked 1:1 to a Booking.
// PackageName and AmountTransferred are snapshots taken at creation time
// and are not kept in sync with the booking afterwards.
type Transaction struct {
	IDTransaksi        string  `json:"id_transaksi"`
	IDBooking          string  `json:"id_booking"`
	SenderName         string  `json:"nama_pengirim"`
	PackageName        string  `json:"nama_paket"`
	PaymentMethod      string  `json:"metode_pembayaran"`
	AmountTransferred  int     `json:"jumlah_transfer"`
	ProofReference     *string `json:"bukti_transfer"`
	TransferDate       string  `json:"tanggal_transfer"`
	VerificationStatus string  `json:"status_verifikasi"`
}

// TransactionSummary is the payment-instruction view of the most recent
// transaction, with the amount pre-formatted for display.
type TransactionSummary struct {
	IDTransaksi    string `json:"id_transaksi"`
	VirtualAccount string `json:"virtual_account"`
	TotalTagihan   string `json:"total_tagihan"`
}
