package inventory

import (
	"time"

	"klinik-backend/internal/models"

	"github.com/google/uuid"
)

// TransactionOptions: deftere yazılacak tek stok hareketi.
type TransactionOptions struct {
	ClinicID        uint
	ItemID          uint
	ItemName        string // Gösterim için denormalize
	QuantityChanged int
	Reason          string
	Actor           *models.User
	AdminProcessed  bool
}

// appendLedger: hareket defterine bir kayıt ekler. Kayıt bir kez yazılır,
// sonradan asla değiştirilmez. Hata dönerse AuditWriteError'dur; çağıran
// loglayıp yutar, stok güncellemesi geçerli kalır.
func appendLedger(store Store, opts TransactionOptions, now time.Time) (*models.InventoryTransaction, error) {
	tx := &models.InventoryTransaction{
		Reference:       uuid.NewString(),
		CreatedAt:       now,
		ClinicID:        opts.ClinicID,
		ItemID:          opts.ItemID,
		ItemName:        opts.ItemName,
		QuantityChanged: opts.QuantityChanged,
		Reason:          opts.Reason,
		TransactionType: models.TransactionStockIn,
		AdminProcessed:  opts.AdminProcessed,
	}

	if opts.Actor != nil {
		tx.ProcessedByUserID = opts.Actor.ID
		tx.ProcessedByFirstName = opts.Actor.FirstName
		tx.ProcessedByLastName = opts.Actor.LastName
		if opts.Actor.Department != nil {
			tx.ProcessedByDepartment = opts.Actor.Department.Name
		}
	}

	if err := store.AppendTransaction(tx); err != nil {
		return nil, &AuditWriteError{Err: err}
	}
	return tx, nil
}
