package models

import "time"

// InventoryRecord: bir (klinik, ürün) çifti için eldeki stok kaydı.
// Durum (critical/low/good) hiçbir zaman kaydedilmez; her okumada
// (Quantity, ThresholdBase) üzerinden yeniden türetilir.
type InventoryRecord struct {
	ID       uint `gorm:"primaryKey"`
	ClinicID uint `gorm:"not null;uniqueIndex:idx_inventory_clinic_item"`
	Clinic   *Clinic
	ItemID   uint `gorm:"not null;uniqueIndex:idx_inventory_clinic_item"`
	Item     *InventoryItem

	Quantity         int `gorm:"not null;default:0"`
	ThresholdBase    int `gorm:"not null;default:0"` // İlk girişteki miktar; restock'ta politika belirler
	CurrentThreshold int `gorm:"not null;default:0"` // Gösterim için saklanan eşik değeri
	OriginalQuantity int `gorm:"not null;default:0"` // İlk oluşturma anındaki miktar, sonradan değişmez

	// Departman bazlı alt dağılım (ham jsonb, toplamı ayrıca doğrulanmaz)
	DepartmentStock string `gorm:"type:jsonb;default:'null'"`

	// Eşzamanlı stok girişlerinde kayıp güncellemeyi önlemek için sürüm alanı
	Version uint `gorm:"not null;default:0"`

	LastUpdated time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
