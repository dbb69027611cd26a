package database

import (
	"log"

	"klinik-backend/internal/config"
	"klinik-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{
		TranslateError: true, // duplicate key hatalarını gorm.ErrDuplicatedKey olarak almak için
	})
	if err != nil {
		log.Fatalf("Veritabanına bağlanılamadı: %v", err)
	}

	err = DB.AutoMigrate(
		&models.Clinic{},
		&models.Department{},
		&models.User{},
		&models.InventoryItem{},
		&models.InventoryRecord{},
		&models.InventoryTransaction{},
		&models.Appointment{},
		&models.Invoice{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate hatası: %v", err)
	}

	// (clinic_id, item_id) unique index AutoMigrate ile geliyor; defter
	// tablosuna update/delete yapılmadığını uygulama katmanı garanti eder.
	log.Println("Veritabanı bağlantısı başarılı. Migration tamamlandı.")
}
