package inventory

import (
	"errors"

	"klinik-backend/internal/models"

	"gorm.io/gorm"
)

// Store: stok iş akışının veritabanı yüzeyi. Üretimde GORM uygulaması
// kullanılır; testler bellek içi bir sahte uygulama kullanır.
type Store interface {
	GetRecord(clinicID, itemID uint) (*models.InventoryRecord, error)
	CreateRecord(rec *models.InventoryRecord) error

	// UpdateRecord: yalnızca saklanan sürüm expectedVersion ile eşleşirse
	// günceller ve sürümü bir artırır; eşleşmezse ErrVersionConflict döner.
	UpdateRecord(rec *models.InventoryRecord, expectedVersion uint) error

	DeleteRecord(clinicID, itemID uint) error

	GetItem(itemID uint) (*models.InventoryItem, error)
	GetUser(userID uint) (*models.User, error)

	AppendTransaction(tx *models.InventoryTransaction) error
}

var (
	// ErrRecordNotFound: aranan kayıt yok.
	ErrRecordNotFound = errors.New("kayıt yok")

	// ErrVersionConflict: başka bir yazar araya girdi (sürüm eşleşmedi
	// veya unique index çakıştı). Çağıran baştan okuyup yeniden dener.
	ErrVersionConflict = errors.New("sürüm çakışması")
)

type gormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) GetRecord(clinicID, itemID uint) (*models.InventoryRecord, error) {
	var rec models.InventoryRecord
	err := s.db.Where("clinic_id = ? AND item_id = ?", clinicID, itemID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *gormStore) CreateRecord(rec *models.InventoryRecord) error {
	err := s.db.Create(rec).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Aynı (klinik, ürün) için eşzamanlı ilk giriş
		return ErrVersionConflict
	}
	return err
}

func (s *gormStore) UpdateRecord(rec *models.InventoryRecord, expectedVersion uint) error {
	res := s.db.Model(&models.InventoryRecord{}).
		Where("id = ? AND version = ?", rec.ID, expectedVersion).
		Updates(map[string]interface{}{
			"quantity":          rec.Quantity,
			"threshold_base":    rec.ThresholdBase,
			"current_threshold": rec.CurrentThreshold,
			"department_stock":  rec.DepartmentStock,
			"last_updated":      rec.LastUpdated,
			"version":           expectedVersion + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}
	rec.Version = expectedVersion + 1
	return nil
}

func (s *gormStore) DeleteRecord(clinicID, itemID uint) error {
	res := s.db.Where("clinic_id = ? AND item_id = ?", clinicID, itemID).
		Delete(&models.InventoryRecord{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (s *gormStore) GetItem(itemID uint) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := s.db.First(&item, "id = ?", itemID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *gormStore) GetUser(userID uint) (*models.User, error) {
	var user models.User
	err := s.db.Preload("Department").First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *gormStore) AppendTransaction(tx *models.InventoryTransaction) error {
	return s.db.Create(tx).Error
}
