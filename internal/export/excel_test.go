package export

import (
	"context"
	"os"
	"testing"

	"travelia/internal/database"
	"travelia/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportWritesWorkbook(t *testing.T) {
	logger := zerolog.New(os.Stdout)
	db, err := database.NewDB(t.TempDir(), &logger)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, db.AppendBooking(ctx, &models.Booking{
		IDBooking:   "BK1700000000000",
		Username:    "andi",
		PackageName: "Paket Bromo 3D2N",
		PartySize:   2,
		TotalAmount: 600000,
		Status:      models.StatusAwaitingPayment,
	}))
	proof := "bukti.jpg"
	require.NoError(t, db.AppendTransaction(ctx, &models.Transaction{
		IDTransaksi:        "TRX1700000000000",
		IDBooking:          "BK1700000000000",
		SenderName:         "Andi",
		AmountTransferred:  600000,
		ProofReference:     &proof,
		VerificationStatus: models.VerificationPending,
	}))

	exporter := NewExcelExporter(db, t.TempDir(), &logger)
	path, err := exporter.Export(ctx)
	require.NoError(t, err)
	require.FileExists(t, path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(bookingsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2, "header plus one booking")
	assert.Equal(t, "ID Booking", rows[0][0])
	assert.Equal(t, "BK1700000000000", rows[1][0])
	assert.Equal(t, models.StatusAwaitingPayment, rows[1][6])

	rows, err = f.GetRows(transactionsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "TRX1700000000000", rows[1][0])
	assert.Equal(t, "bukti.jpg", rows[1][6])
}

func TestExportEmptyCollections(t *testing.T) {
	logger := zerolog.New(os.Stdout)
	db, err := database.NewDB(t.TempDir(), &logger)
	require.NoError(t, err)

	exporter := NewExcelExporter(db, t.TempDir(), &logger)
	path, err := exporter.Export(context.Background())
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(bookingsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1, "header only")
}
