package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"travelia/internal/domain"
	"travelia/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const (
	bookingsSheet     = "Booking"
	transactionsSheet = "Transaksi"
)

// ExcelExporter writes the bookings and transactions collections into a
// workbook for the agency's offline reporting.
type ExcelExporter struct {
	repo   domain.Repository
	dir    string
	logger *zerolog.Logger
}

func NewExcelExporter(repo domain.Repository, dir string, logger *zerolog.Logger) *ExcelExporter {
	return &ExcelExporter{repo: repo, dir: dir, logger: logger}
}

// Export writes a timestamped xlsx file and returns its path.
func (e *ExcelExporter) Export(ctx context.Context) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	bookings, err := e.repo.ListBookings(ctx)
	if err != nil {
		return "", fmt.Errorf("error getting bookings: %v", err)
	}
	transactions, err := e.repo.ListTransactions(ctx)
	if err != nil {
		return "", fmt.Errorf("error getting transactions: %v", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := e.writeBookings(f, bookings); err != nil {
		return "", err
	}
	if err := e.writeTransactions(f, transactions); err != nil {
		return "", err
	}

	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("export_%s.xlsx", time.Now().Format("2006-01-02_150405"))
	filePath := filepath.Join(e.dir, fileName)
	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}

	e.logger.Info().Str("file_path", filePath).Int("bookings", len(bookings)).Int("transactions", len(transactions)).Msg("Excel file created")
	return filePath, nil
}

func (e *ExcelExporter) writeBookings(f *excelize.File, bookings []models.Booking) error {
	index, err := f.NewSheet(bookingsSheet)
	if err != nil {
		return fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	headers := []string{"ID Booking", "Username", "Nama Paket", "Tanggal Pemesanan", "Jumlah Orang", "Harga Total", "Status"}
	e.writeHeaderRow(f, bookingsSheet, headers)

	for i, b := range bookings {
		row := i + 2
		values := []interface{}{b.IDBooking, b.Username, b.PackageName, b.BookingDate, b.PartySize, b.TotalAmount, b.Status}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(bookingsSheet, cell, v)
		}
	}

	_ = f.SetColWidth(bookingsSheet, "A", "D", 22)
	_ = f.SetColWidth(bookingsSheet, "E", "G", 16)
	return nil
}

func (e *ExcelExporter) writeTransactions(f *excelize.File, transactions []models.Transaction) error {
	if _, err := f.NewSheet(transactionsSheet); err != nil {
		return fmt.Errorf("error creating sheet: %v", err)
	}

	headers := []string{"ID Transaksi", "ID Booking", "Nama Pengirim", "Nama Paket", "Metode Pembayaran", "Jumlah Transfer", "Bukti Transfer", "Tanggal Transfer", "Status Verifikasi"}
	e.writeHeaderRow(f, transactionsSheet, headers)

	for i, trx := range transactions {
		row := i + 2
		proof := ""
		if trx.ProofReference != nil {
			proof = *trx.ProofReference
		}
		values := []interface{}{trx.IDTransaksi, trx.IDBooking, trx.SenderName, trx.PackageName, trx.PaymentMethod, trx.AmountTransferred, proof, trx.TransferDate, trx.VerificationStatus}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(transactionsSheet, cell, v)
		}
	}

	_ = f.SetColWidth(transactionsSheet, "A", "E", 22)
	_ = f.SetColWidth(transactionsSheet, "F", "I", 18)
	return nil
}

func (e *ExcelExporter) writeHeaderRow(f *excelize.File, sheet string, headers []string) {
	style, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
		_ = f.SetCellStyle(sheet, cell, cell, style)
	}
}
