package inventory

import (
	"errors"
	"fmt"
	"log"

	"klinik-backend/internal/auth"
	"klinik-backend/internal/database"
	"klinik-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type StockInRequest struct {
	ClinicID uint   `json:"clinic_id"` // clinic_staff için opsiyonel (kendi kliniği)
	ItemID   uint   `json:"item_id"`
	Quantity int    `json:"quantity"` // Eklenecek miktar (delta)
	Reason   string `json:"reason"`
}

type EditInventoryRequest struct {
	Quantity int `json:"quantity"` // Yeni mutlak miktar
}

type DeleteInventoryRequest struct {
	Confirmation string `json:"confirmation"` // Tam olarak "DELETE" olmalı
}

type InventoryRecordResponse struct {
	ClinicID         uint   `json:"clinic_id"`
	ItemID           uint   `json:"item_id"`
	ItemName         string `json:"item_name"`
	Unit             string `json:"unit"`
	Quantity         int    `json:"quantity"`
	ThresholdBase    int    `json:"threshold_base"`
	CurrentThreshold int    `json:"current_threshold"`
	OriginalQuantity int    `json:"original_quantity"`
	Status           Status `json:"status"` // Her okumada yeniden türetilir
	LastUpdated      string `json:"last_updated"`
}

// -------------------------
// Yardımcı: klinik ID çöz
// -------------------------

// body'den gelen clinic_id + role
func resolveClinicIDFromBodyOrRole(c *fiber.Ctx, bodyClinicID uint) (uint, error) {
	roleVal := c.Locals(auth.CtxUserRoleKey)
	role, ok := roleVal.(models.UserRole)
	if !ok {
		return 0, fiber.NewError(fiber.StatusForbidden, "Rol bilgisi alınamadı")
	}

	if role == models.RoleClinicStaff {
		cVal := c.Locals(auth.CtxClinicIDKey)
		cPtr, ok := cVal.(*uint)
		if !ok || cPtr == nil {
			return 0, fiber.NewError(fiber.StatusForbidden, "Klinik bilgisi bulunamadı")
		}
		if bodyClinicID != 0 && bodyClinicID != *cPtr {
			// Yetki kontrolünün kendisi serviste; burada yalnızca varsayılanı çözüyoruz
			return bodyClinicID, nil
		}
		return *cPtr, nil
	}

	// super_admin
	if bodyClinicID == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "clinic_id zorunlu")
	}
	return bodyClinicID, nil
}

// query'den gelen clinic_id + role
func resolveClinicIDFromQueryOrRole(c *fiber.Ctx) (uint, error) {
	roleVal := c.Locals(auth.CtxUserRoleKey)
	role, ok := roleVal.(models.UserRole)
	if !ok {
		return 0, fiber.NewError(fiber.StatusForbidden, "Rol bilgisi alınamadı")
	}

	if role == models.RoleClinicStaff {
		cVal := c.Locals(auth.CtxClinicIDKey)
		cPtr, ok := cVal.(*uint)
		if !ok || cPtr == nil {
			return 0, fiber.NewError(fiber.StatusForbidden, "Klinik bilgisi bulunamadı")
		}
		return *cPtr, nil
	}

	// super_admin
	cidStr := c.Query("clinic_id")
	if cidStr == "" {
		return 0, fiber.NewError(fiber.StatusBadRequest, "clinic_id zorunlu")
	}
	var cid uint
	if _, err := fmt.Sscan(cidStr, &cid); err != nil || cid == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "clinic_id geçersiz")
	}
	return cid, nil
}

func actorIDFromCtx(c *fiber.Ctx) (uint, error) {
	userIDVal := c.Locals(auth.CtxUserIDKey)
	userID, ok := userIDVal.(uint)
	if !ok {
		return 0, fiber.NewError(fiber.StatusForbidden, "Kullanıcı bilgisi alınamadı")
	}
	return userID, nil
}

// Servis hatalarını HTTP hatalarına çevir
func mapServiceError(err error) error {
	var vErr *ValidationError
	var aErr *AuthorizationError
	var nErr *NotFoundError
	var cErr *ConfirmationMismatchError
	var bErr *BackendUnavailableError

	switch {
	case errors.As(err, &vErr):
		return fiber.NewError(fiber.StatusBadRequest, vErr.Msg)
	case errors.As(err, &aErr):
		return fiber.NewError(fiber.StatusForbidden, aErr.Msg)
	case errors.As(err, &nErr):
		return fiber.NewError(fiber.StatusNotFound, nErr.Error())
	case errors.As(err, &cErr):
		return fiber.NewError(fiber.StatusBadRequest, "Onay metni tam olarak 'DELETE' olmalı")
	case errors.As(err, &bErr):
		return fiber.NewError(fiber.StatusServiceUnavailable, "Veritabanına şu anda ulaşılamıyor")
	default:
		return err
	}
}

func recordResponse(rec *models.InventoryRecord, item *models.InventoryItem, policy ThresholdPolicy) InventoryRecordResponse {
	resp := InventoryRecordResponse{
		ClinicID:         rec.ClinicID,
		ItemID:           rec.ItemID,
		Quantity:         rec.Quantity,
		ThresholdBase:    rec.ThresholdBase,
		CurrentThreshold: rec.CurrentThreshold,
		OriginalQuantity: rec.OriginalQuantity,
		Status:           ComputeStatus(rec.Quantity, rec.ThresholdBase, policy),
		LastUpdated:      rec.LastUpdated.Format("2006-01-02 15:04:05"),
	}
	if item != nil {
		resp.ItemName = item.Name
		resp.Unit = item.Unit
	}
	return resp
}

// POST /api/inventory/stock-in
func StockInHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body StockInRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.ItemID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "item_id zorunlu")
		}

		clinicID, err := resolveClinicIDFromBodyOrRole(c, body.ClinicID)
		if err != nil {
			return err
		}

		actorID, err := actorIDFromCtx(c)
		if err != nil {
			return err
		}

		res, err := svc.StockIn(clinicID, body.ItemID, body.Quantity, actorID, body.Reason)
		if err != nil {
			return mapServiceError(err)
		}

		if res.AuditErr != nil {
			// Bilinçli fire-and-forget: giriş başarılı, defter kaydı kayıp
			log.Println("[WARN] Stok hareketi deftere yazılamadı:", res.AuditErr)
		}

		var item models.InventoryItem
		_ = database.DB.First(&item, "id = ?", body.ItemID).Error

		resp := fiber.Map{
			"record": recordResponse(res.Record, &item, svc.Policy()),
		}
		if res.Transaction != nil {
			resp["transaction"] = res.Transaction
		}

		return c.Status(fiber.StatusCreated).JSON(resp)
	}
}

// PUT /api/inventory/:clinicID/:itemID
// Mutlak miktar düzeltmesi; deftere yazılmaz.
func EditInventoryHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		clinicID, itemID, err := pathIDs(c)
		if err != nil {
			return err
		}

		var body EditInventoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		actorID, err := actorIDFromCtx(c)
		if err != nil {
			return err
		}

		rec, err := svc.EditQuantity(clinicID, itemID, body.Quantity, actorID)
		if err != nil {
			return mapServiceError(err)
		}

		var item models.InventoryItem
		_ = database.DB.First(&item, "id = ?", itemID).Error

		return c.JSON(recordResponse(rec, &item, svc.Policy()))
	}
}

// DELETE /api/inventory/:clinicID/:itemID
// Kalıcı silme; gövdede confirmation = "DELETE" zorunlu.
func DeleteInventoryHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		clinicID, itemID, err := pathIDs(c)
		if err != nil {
			return err
		}

		var body DeleteInventoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		actorID, err := actorIDFromCtx(c)
		if err != nil {
			return err
		}

		if err := svc.Delete(clinicID, itemID, body.Confirmation, actorID); err != nil {
			return mapServiceError(err)
		}

		return c.JSON(fiber.Map{"deleted": true})
	}
}

// GET /api/inventory
// Kliniğin stok kayıtları, durum her kayıt için okumada türetilir.
func ListInventoryHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		clinicID, err := resolveClinicIDFromQueryOrRole(c)
		if err != nil {
			return err
		}

		var records []models.InventoryRecord
		if err := database.DB.
			Preload("Item").
			Where("clinic_id = ?", clinicID).
			Order("last_updated DESC").
			Find(&records).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stok kayıtları listelenemedi")
		}

		resp := make([]InventoryRecordResponse, 0, len(records))
		for i := range records {
			resp = append(resp, recordResponse(&records[i], records[i].Item, svc.Policy()))
		}

		return c.JSON(resp)
	}
}

// GET /api/inventory-transactions
// Append-only hareket defteri; kayıtlar asla değiştirilmez.
func ListTransactionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		clinicID, err := resolveClinicIDFromQueryOrRole(c)
		if err != nil {
			return err
		}

		var txs []models.InventoryTransaction
		if err := database.DB.
			Where("clinic_id = ?", clinicID).
			Order("created_at DESC").
			Find(&txs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Hareket defteri listelenemedi")
		}

		return c.JSON(txs)
	}
}

func pathIDs(c *fiber.Ctx) (uint, uint, error) {
	var clinicID, itemID uint
	if _, err := fmt.Sscan(c.Params("clinicID"), &clinicID); err != nil || clinicID == 0 {
		return 0, 0, fiber.NewError(fiber.StatusBadRequest, "clinicID geçersiz")
	}
	if _, err := fmt.Sscan(c.Params("itemID"), &itemID); err != nil || itemID == 0 {
		return 0, 0, fiber.NewError(fiber.StatusBadRequest, "itemID geçersiz")
	}
	return clinicID, itemID, nil
}
