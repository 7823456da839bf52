package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"travelia/internal/database"
	"travelia/internal/service"
)

// placeOrderRequest mirrors the form the frontends post. Numeric fields
// arrive as strings or numbers depending on the caller, so they decode
// through json.Number.
type placeOrderRequest struct {
	Username         string      `json:"username"`
	PackageName      string      `json:"nama_paket"`
	BookingDate      string      `json:"tanggal_pemesanan"`
	PartySize        json.Number `json:"jumlah_orang"`
	TotalAmount      json.Number `json:"total_tagihan"`
	PaymentMethod    string      `json:"metode_pembayaran"`
	UnitPricePerhead json.Number `json:"harga_per_orang"`
}

func parseLooseInt(n json.Number) int {
	s := strings.TrimSpace(n.String())
	if s == "" {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}

func (s *Server) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req placeOrderRequest
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Body tidak valid")
		return
	}

	booking, trx, err := s.orders.PlaceOrder(r.Context(), service.PlaceOrderRequest{
		Username:      req.Username,
		PackageName:   req.PackageName,
		BookingDate:   req.BookingDate,
		PartySize:     parseLooseInt(req.PartySize),
		TotalAmount:   parseLooseInt(req.TotalAmount),
		PaymentMethod: req.PaymentMethod,
		UnitPrice:     parseLooseInt(req.UnitPricePerhead),
	})
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Gagal menyimpan transaksi")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "✅ Transaksi berhasil disimpan",
		"booking":   booking,
		"transaksi": trx,
	})
}

func (s *Server) handleUploadProof(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	transactionID := strings.TrimPrefix(r.URL.Path, "/api/upload-bukti/")
	if transactionID == "" || strings.Contains(transactionID, "/") {
		writeMessage(w, http.StatusBadRequest, "id_transaksi diperlukan")
		return
	}

	filename, err := s.saveUpload(r, "bukti")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "File bukti diperlukan")
		return
	}

	senderName := r.FormValue("nama_pengirim")
	_, err = s.orders.AttachProof(r.Context(), transactionID, "/uploads/"+filename, senderName)
	if errors.Is(err, database.ErrTransactionNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Transaksi tidak ditemukan"})
		return
	}
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Gagal menyimpan bukti")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "file": filename})
}

func (s *Server) handleUpdateTransactionStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		IDTransaksi        string `json:"id_transaksi"`
		VerificationStatus string `json:"status_verifikasi"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Body tidak valid")
		return
	}

	_, _, err := s.orders.UpdateVerificationStatus(r.Context(), req.IDTransaksi, req.VerificationStatus)
	if errors.Is(err, database.ErrTransactionNotFound) {
		writeMessage(w, http.StatusNotFound, "Transaksi tidak ditemukan")
		return
	}
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Gagal memperbarui status")
		return
	}

	// The propagation outcome is visible in logs and metrics, not here.
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Status transaksi & booking diperbarui",
	})
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	transactions, err := s.orders.ListTransactions(r.Context())
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Gagal membaca transaksi")
		return
	}
	writeJSON(w, http.StatusOK, transactions)
}

func (s *Server) handleListBookings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	bookings, err := s.orders.ListBookings(r.Context())
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Gagal membaca booking")
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/hapus_transaksi/")
	if id == "" || strings.Contains(id, "/") {
		writeMessage(w, http.StatusBadRequest, "id diperlukan")
		return
	}

	err := s.orders.DeleteTransaction(r.Context(), id)
	if errors.Is(err, database.ErrTransactionNotFound) {
		writeMessage(w, http.StatusNotFound, "Transaksi tidak ditemukan")
		return
	}
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Gagal menghapus transaksi")
		return
	}
	writeMessage(w, http.StatusOK, "Transaksi dihapus")
}

func (s *Server) handleLatestTransaction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	summary, err := s.orders.LatestTransactionSummary(r.Context())
	if errors.Is(err, database.ErrNoTransactions) {
		writeMessage(w, http.StatusNotFound, "Tidak ada transaksi")
		return
	}
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Gagal membaca transaksi")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleDeleteBooking(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		IDBooking string `json:"id_booking"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Body tidak valid")
		return
	}

	err := s.orders.DeleteBooking(r.Context(), req.IDBooking)
	if errors.Is(err, database.ErrBookingNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "Booking tidak ditemukan"})
		return
	}
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Gagal menghapus booking")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Booking berhasil dihapus"})
}

func (s *Server) handleExportBookings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.export == nil {
		writeMessage(w, http.StatusServiceUnavailable, "Export tidak tersedia")
		return
	}

	path, err := s.export.Export(r.Context())
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Gagal membuat export")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "file": path})
}
