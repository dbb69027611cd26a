package dashboard

import (
	"fmt"

	"klinik-backend/internal/auth"
	"klinik-backend/internal/database"
	"klinik-backend/internal/inventory"
	"klinik-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type InventoryStatusResponse struct {
	ClinicID uint `json:"clinic_id"`
	Good     int  `json:"good"`
	Low      int  `json:"low"`
	Critical int  `json:"critical"`
	Total    int  `json:"total"`
}

// context'ten klinik id çıkar (clinic_staff için JWT, super_admin için query param)
// super_admin için ?clinic_id=1 zorunlu
func getClinicIDFromContext(c *fiber.Ctx) (uint, error) {
	roleVal := c.Locals(auth.CtxUserRoleKey)
	role, ok := roleVal.(models.UserRole)
	if !ok {
		return 0, fiber.NewError(fiber.StatusForbidden, "Rol bilgisi alınamadı")
	}

	if role == models.RoleClinicStaff {
		clinicIDVal := c.Locals(auth.CtxClinicIDKey)
		clinicIDPtr, ok := clinicIDVal.(*uint)
		if !ok || clinicIDPtr == nil {
			return 0, fiber.NewError(fiber.StatusForbidden, "Klinik bilgisi bulunamadı")
		}
		return *clinicIDPtr, nil
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

// GET /api/dashboard/inventory-status?clinic_id=1
// Durum her istekte kayıtlardan türetilir, hiçbir yerde saklanmaz.
func InventoryStatusHandler(policy inventory.ThresholdPolicy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		clinicID, err := getClinicIDFromContext(c)
		if err != nil {
			return err
		}

		var records []models.InventoryRecord
		if err := database.DB.Where("clinic_id = ?", clinicID).Find(&records).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stok kayıtları listelenemedi")
		}

		resp := InventoryStatusResponse{ClinicID: clinicID, Total: len(records)}
		for _, rec := range records {
			switch inventory.ComputeStatus(rec.Quantity, rec.ThresholdBase, policy) {
			case inventory.StatusGood:
				resp.Good++
			case inventory.StatusLow:
				resp.Low++
			case inventory.StatusCritical:
				resp.Critical++
			}
		}

		return c.JSON(resp)
	}
}
