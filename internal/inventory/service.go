package inventory

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"klinik-backend/internal/models"
)

// DeleteConfirmation: kalıcı silme için beklenen onay metni.
const DeleteConfirmation = "DELETE"

// Eşzamanlı yazar araya girdiğinde baştan okuma deneme sayısı.
const casRetryLimit = 3

// Service: stok mutasyon iş akışı. Saat enjekte edilir ki testler zamanı
// deterministik kontrol edebilsin.
type Service struct {
	store  Store
	policy ThresholdPolicy
	now    func() time.Time
}

func NewService(store Store, policy ThresholdPolicy) *Service {
	return &Service{store: store, policy: policy, now: time.Now}
}

func (s *Service) Policy() ThresholdPolicy { return s.policy }

// StockInResult: başarılı bir stok girişinin çıktısı.
type StockInResult struct {
	Record      *models.InventoryRecord
	Transaction *models.InventoryTransaction

	// Defter yazımı başarısızsa dolu (AuditWriteError). Stok güncellemesi
	// yine de geçerli; çağıran loglayıp devam eder.
	AuditErr error
}

// StockIn: (klinik, ürün) kaydına delta ekler ve deftere bir hareket yazar.
// delta > 0 olmalı. Aktör super_admin değilse yalnızca kendi kliniğine stok
// girebilir. Okuma-değiştirme-yazma, sürüm kontrollü güncelleme ile
// korunur; çakışmada baştan okunup yeniden denenir.
func (s *Service) StockIn(clinicID, itemID uint, delta int, actorID uint, reason string) (*StockInResult, error) {
	if delta <= 0 {
		return nil, &ValidationError{Msg: "Miktar 0'dan büyük olmalı"}
	}

	actor, err := s.store.GetUser(actorID)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return nil, &NotFoundError{What: "Kullanıcı"}
		}
		return nil, &BackendUnavailableError{Err: err}
	}

	admin := actor.Role == models.RoleSuperAdmin
	if !admin {
		if actor.ClinicID == nil || *actor.ClinicID != clinicID {
			return nil, &AuthorizationError{Msg: "Bu klinik için stok girişi yetkiniz yok"}
		}
	}

	item, err := s.store.GetItem(itemID)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return nil, &NotFoundError{What: "Ürün"}
		}
		return nil, &BackendUnavailableError{Err: err}
	}

	now := s.now()

	var rec *models.InventoryRecord
	for attempt := 0; attempt < casRetryLimit && rec == nil; attempt++ {
		cur, gerr := s.store.GetRecord(clinicID, itemID)
		if gerr != nil && !errors.Is(gerr, ErrRecordNotFound) {
			return nil, &BackendUnavailableError{Err: gerr}
		}

		if errors.Is(gerr, ErrRecordNotFound) {
			// İlk stok girişi: eşik tabanı ve orijinal miktar burada
			// sabitlenir, sonraki girişlerde değişmez.
			fresh := &models.InventoryRecord{
				ClinicID:         clinicID,
				ItemID:           itemID,
				Quantity:         delta,
				ThresholdBase:    delta,
				OriginalQuantity: delta,
				DepartmentStock:  "null",
				LastUpdated:      now,
			}
			fresh.CurrentThreshold = s.policy.Threshold(fresh.ThresholdBase)

			cerr := s.store.CreateRecord(fresh)
			if cerr == nil {
				rec = fresh
				break
			}
			if errors.Is(cerr, ErrVersionConflict) {
				continue // eşzamanlı ilk giriş, baştan oku
			}
			return nil, &BackendUnavailableError{Err: cerr}
		}

		updated := *cur
		updated.Quantity = cur.Quantity + delta
		if s.policy.RebaseOnRestock {
			// Kaba "kliniğe stok ekle" davranışı: taban her girişte yeni
			// toplama çekilir, bayat düşük stok uyarıları kalmaz.
			updated.ThresholdBase = updated.Quantity
		}
		updated.CurrentThreshold = s.policy.Threshold(updated.ThresholdBase)
		updated.LastUpdated = now

		uerr := s.store.UpdateRecord(&updated, cur.Version)
		if uerr == nil {
			rec = &updated
			break
		}
		if errors.Is(uerr, ErrVersionConflict) {
			continue // başka bir yazar araya girdi, baştan oku
		}
		return nil, &BackendUnavailableError{Err: uerr}
	}

	if rec == nil {
		return nil, &BackendUnavailableError{
			Err: fmt.Errorf("stok girişi %d denemede tamamlanamadı", casRetryLimit),
		}
	}

	result := &StockInResult{Record: rec}

	// Defter yazımı bilinçli olarak fire-and-forget: başarısız olsa bile
	// birincil stok güncellemesi geçerli kalır.
	tx, lerr := appendLedger(s.store, TransactionOptions{
		ClinicID:        clinicID,
		ItemID:          itemID,
		ItemName:        item.Name,
		QuantityChanged: delta,
		Reason:          strings.TrimSpace(reason),
		Actor:           actor,
		AdminProcessed:  admin,
	}, now)
	if lerr != nil {
		result.AuditErr = lerr
	} else {
		result.Transaction = tx
	}

	return result, nil
}

// EditQuantity: miktarı mutlak olarak üzerine yazar (delta değil). Negatif
// değer 0'a sabitlenir. Deftere iz bırakmaz; manuel düzeltmelerin
// denetlenmemesi kasıtlı olarak korunan bir asimetridir.
func (s *Service) EditQuantity(clinicID, itemID uint, newQuantity int, actorID uint) (*models.InventoryRecord, error) {
	if newQuantity < 0 {
		newQuantity = 0
	}

	actor, err := s.store.GetUser(actorID)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return nil, &NotFoundError{What: "Kullanıcı"}
		}
		return nil, &BackendUnavailableError{Err: err}
	}

	if actor.Role != models.RoleSuperAdmin {
		if actor.ClinicID == nil || *actor.ClinicID != clinicID {
			return nil, &AuthorizationError{Msg: "Bu klinik için düzenleme yetkiniz yok"}
		}
	}

	now := s.now()

	for attempt := 0; attempt < casRetryLimit; attempt++ {
		cur, gerr := s.store.GetRecord(clinicID, itemID)
		if errors.Is(gerr, ErrRecordNotFound) {
			return nil, &NotFoundError{What: "Stok kaydı"}
		}
		if gerr != nil {
			return nil, &BackendUnavailableError{Err: gerr}
		}

		updated := *cur
		updated.Quantity = newQuantity
		// Eşik tabanı manuel düzenlemede değişmez; saklanan eşik yine de
		// tabandan yeniden hesaplanır ki invariant her yazımdan sonra tutsun.
		updated.CurrentThreshold = s.policy.Threshold(updated.ThresholdBase)
		updated.LastUpdated = now

		uerr := s.store.UpdateRecord(&updated, cur.Version)
		if uerr == nil {
			return &updated, nil
		}
		if errors.Is(uerr, ErrVersionConflict) {
			continue
		}
		return nil, &BackendUnavailableError{Err: uerr}
	}

	return nil, &BackendUnavailableError{
		Err: fmt.Errorf("düzenleme %d denemede tamamlanamadı", casRetryLimit),
	}
}

// Delete: stok kaydını kalıcı olarak siler. Onay metni tam olarak "DELETE"
// olmalıdır; silme geri alınamaz ve soft-delete yapılmaz.
func (s *Service) Delete(clinicID, itemID uint, confirmation string, actorID uint) error {
	if confirmation != DeleteConfirmation {
		return &ConfirmationMismatchError{}
	}

	actor, err := s.store.GetUser(actorID)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return &NotFoundError{What: "Kullanıcı"}
		}
		return &BackendUnavailableError{Err: err}
	}

	if actor.Role != models.RoleSuperAdmin {
		if actor.ClinicID == nil || *actor.ClinicID != clinicID {
			return &AuthorizationError{Msg: "Bu klinik için silme yetkiniz yok"}
		}
	}

	derr := s.store.DeleteRecord(clinicID, itemID)
	if errors.Is(derr, ErrRecordNotFound) {
		return &NotFoundError{What: "Stok kaydı"}
	}
	if derr != nil {
		return &BackendUnavailableError{Err: derr}
	}
	return nil
}
