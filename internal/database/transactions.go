package database

import (
	"context"

	"travelia/internal/models"
)

func (db *DB) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	lock := db.collectionLock(models.CollectionTransactions)
	lock.Lock()
	defer lock.Unlock()

	transactions := []models.Transaction{}
	db.load(models.CollectionTransactions, &transactions)
	return transactions, nil
}

func (db *DB) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	transactions, _ := db.ListTransactions(ctx)
	for i := range transactions {
		if transactions[i].IDTransaksi == id {
			return &transactions[i], nil
		}
	}
	return nil, ErrTransactionNotFound
}

func (db *DB) AppendTransaction(ctx context.Context, trx *models.Transaction) error {
	lock := db.collectionLock(models.CollectionTransactions)
	lock.Lock()
	defer lock.Unlock()

	transactions := []models.Transaction{}
	db.load(models.CollectionTransactions, &transactions)
	transactions = append(transactions, *trx)
	db.save(models.CollectionTransactions, transactions)
	return nil
}

// UpdateTransaction applies mutate to the transaction with the given id
// and persists the collection, all under the collection lock. The updated
// record is returned.
func (db *DB) UpdateTransaction(ctx context.Context, id string, mutate func(*models.Transaction)) (*models.Transaction, error) {
	lock := db.collectionLock(models.CollectionTransactions)
	lock.Lock()
	defer lock.Unlock()

	transactions := []models.Transaction{}
	db.load(models.CollectionTransactions, &transactions)
	for i := range transactions {
		if transactions[i].IDTransaksi == id {
			mutate(&transactions[i])
			db.save(models.CollectionTransactions, transactions)
			updated := transactions[i]
			return &updated, nil
		}
	}
	return nil, ErrTransactionNotFound
}

func (db *DB) DeleteTransaction(ctx context.Context, id string) error {
	lock := db.collectionLock(models.CollectionTransactions)
	lock.Lock()
	defer lock.Unlock()

	transactions := []models.Transaction{}
	db.load(models.CollectionTransactions, &transactions)

	filtered := transactions[:0]
	for _, t := range transactions {
		if t.IDTransaksi != id {
			filtered = append(filtered, t)
		}
	}
	if len(filtered) == len(transactions) {
		return ErrTransactionNotFound
	}
	db.save(models.CollectionTransactions, filtered)
	return nil
}

// DeleteTransactionsByBooking removes every transaction referencing the
// booking. Used only when cascade deletes are enabled; returns the number
// of removed records.
func (db *DB) DeleteTransactionsByBooking(ctx context.Context, bookingID string) (int, error) {
	lock := db.collectionLock(models.CollectionTransactions)
	lock.Lock()
	defer lock.Unlock()

	transactions := []models.Transaction{}
	db.load(models.CollectionTransactions, &transactions)

	filtered := transactions[:0]
	for _, t := range transactions {
		if t.IDBooking != bookingID {
			filtered = append(filtered, t)
		}
	}
	removed := len(transactions) - len(filtered)
	if removed == 0 {
		return 0, nil
	}
	db.save(models.CollectionTransactions, filtered)
	return removed, nil
}

// LatestTransaction returns the last element in storage order, which is
// append order for this store.
func (db *DB) LatestTransaction(ctx context.Context) (*models.Transaction, error) {
	transactions, _ := db.ListTransactions(ctx)
	if len(transactions) == 0 {
		return nil, ErrNoTransactions
	}
	last := transactions[len(transactions)-1]
	return &last, nil
}
