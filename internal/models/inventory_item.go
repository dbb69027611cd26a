package models

import "time"

// InventoryItem: merkezi ürün kataloğu. Kliniklerdeki stok miktarı
// InventoryRecord'da tutulur, burada yalnızca ürün meta verisi var.
type InventoryItem struct {
	ID        uint    `gorm:"primaryKey"`
	Name      string  `gorm:"size:100;not null;unique"`
	Unit      string  `gorm:"size:20;not null"` // kutu, adet, şişe vs.
	UnitPrice float64 `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
