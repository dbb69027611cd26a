package inventory

import (
	"strings"

	"klinik-backend/internal/database"
	"klinik-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ItemResponse struct {
	ID        uint    `json:"id"`
	Name      string  `json:"name"`
	Unit      string  `json:"unit"`
	UnitPrice float64 `json:"unit_price"`
}

type CreateItemRequest struct {
	Name      string  `json:"name"`
	Unit      string  `json:"unit"`
	UnitPrice float64 `json:"unit_price"` // Opsiyonel
}

type UpdateItemRequest struct {
	Name      *string  `json:"name"`
	Unit      *string  `json:"unit"`
	UnitPrice *float64 `json:"unit_price"`
}

// GET /api/items (tüm authenticated kullanıcılar görebilir)
func ListItemsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var items []models.InventoryItem
		if err := database.DB.Order("name asc").Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürünler listelenemedi")
		}

		res := make([]ItemResponse, 0, len(items))
		for _, it := range items {
			res = append(res, ItemResponse{
				ID:        it.ID,
				Name:      it.Name,
				Unit:      it.Unit,
				UnitPrice: it.UnitPrice,
			})
		}
		return c.JSON(res)
	}
}

// POST /api/admin/items (sadece super_admin)
func CreateItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		body.Name = strings.TrimSpace(body.Name)
		body.Unit = strings.TrimSpace(body.Unit)

		if body.Name == "" || body.Unit == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name ve unit zorunlu")
		}
		if body.UnitPrice < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Birim fiyat negatif olamaz")
		}

		it := models.InventoryItem{
			Name:      body.Name,
			Unit:      body.Unit,
			UnitPrice: body.UnitPrice,
		}

		if err := database.DB.Create(&it).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(ItemResponse{
			ID:        it.ID,
			Name:      it.Name,
			Unit:      it.Unit,
			UnitPrice: it.UnitPrice,
		})
	}
}

// PUT /api/admin/items/:id
func UpdateItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var it models.InventoryItem
		if err := database.DB.First(&it, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		var body UpdateItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name boş olamaz")
			}
			it.Name = name
		}
		if body.Unit != nil {
			unit := strings.TrimSpace(*body.Unit)
			if unit == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Unit boş olamaz")
			}
			it.Unit = unit
		}
		if body.UnitPrice != nil {
			if *body.UnitPrice < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Birim fiyat negatif olamaz")
			}
			it.UnitPrice = *body.UnitPrice
		}

		if err := database.DB.Save(&it).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün güncellenemedi")
		}

		return c.JSON(ItemResponse{
			ID:        it.ID,
			Name:      it.Name,
			Unit:      it.Unit,
			UnitPrice: it.UnitPrice,
		})
	}
}

// DELETE /api/admin/items/:id
func DeleteItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var it models.InventoryItem
		if err := database.DB.First(&it, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		// Herhangi bir klinikte stok kaydı varsa silme
		var count int64
		database.DB.Model(&models.InventoryRecord{}).Where("item_id = ?", it.ID).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Bu ürünün klinik stok kayıtları var, önce onları sil")
		}

		if err := database.DB.Delete(&it).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün silinemedi")
		}

		return c.JSON(fiber.Map{"deleted": true})
	}
}
