package models

import "time"

type TransactionType string

const (
	TransactionStockIn TransactionType = "stock_in"
)

// InventoryTransaction: append-only stok hareket defteri. Kayıt bir kez
// yazılır, asla güncellenmez veya silinmez.
type InventoryTransaction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Reference string    `gorm:"size:36;uniqueIndex" json:"reference"`
	CreatedAt time.Time `json:"created_at"`

	ClinicID uint   `gorm:"index" json:"clinic_id"`
	ItemID   uint   `gorm:"index" json:"item_id"`
	ItemName string `gorm:"size:100" json:"item_name"` // Gösterim için denormalize

	QuantityChanged int    `json:"quantity_changed"` // Stok girişinde pozitif
	Reason          string `gorm:"size:255" json:"reason"`

	ProcessedByUserID     uint   `json:"processed_by_user_id"`
	ProcessedByFirstName  string `gorm:"size:100" json:"processed_by_first_name"`
	ProcessedByLastName   string `gorm:"size:100" json:"processed_by_last_name"`
	ProcessedByDepartment string `gorm:"size:100" json:"processed_by_department"`

	TransactionType TransactionType `gorm:"size:20" json:"transaction_type"`

	// İşlem klinik aidiyetiyle değil super_admin yetkisiyle mi yapıldı
	AdminProcessed bool `json:"admin_processed"`
}
