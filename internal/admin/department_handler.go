package admin

import (
	"strings"

	"klinik-backend/internal/database"
	"klinik-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type DepartmentResponse struct {
	ID       uint   `json:"id"`
	ClinicID uint   `json:"clinic_id"`
	Name     string `json:"name"`
}

type CreateDepartmentRequest struct {
	Name string `json:"name"`
}

type UpdateDepartmentRequest struct {
	Name *string `json:"name"`
}

// POST /api/admin/clinics/:id/departments
func CreateDepartmentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var clinic models.Clinic
		if err := database.DB.First(&clinic, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Klinik bulunamadı")
		}

		var body CreateDepartmentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Departman adı boş olamaz")
		}

		dept := models.Department{
			ClinicID: clinic.ID,
			Name:     body.Name,
		}

		if err := database.DB.Create(&dept).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Departman oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(DepartmentResponse{
			ID:       dept.ID,
			ClinicID: dept.ClinicID,
			Name:     dept.Name,
		})
	}
}

// GET /api/admin/clinics/:id/departments
func ListDepartmentsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var clinic models.Clinic
		if err := database.DB.First(&clinic, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Klinik bulunamadı")
		}

		var depts []models.Department
		if err := database.DB.Where("clinic_id = ?", clinic.ID).Order("name asc").Find(&depts).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Departmanlar listelenemedi")
		}

		res := make([]DepartmentResponse, 0, len(depts))
		for _, d := range depts {
			res = append(res, DepartmentResponse{
				ID:       d.ID,
				ClinicID: d.ClinicID,
				Name:     d.Name,
			})
		}

		return c.JSON(res)
	}
}

// PUT /api/admin/departments/:id
func UpdateDepartmentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var dept models.Department
		if err := database.DB.First(&dept, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Departman bulunamadı")
		}

		var body UpdateDepartmentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Departman adı boş olamaz")
			}
			dept.Name = name
		}

		if err := database.DB.Save(&dept).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Departman güncellenemedi")
		}

		return c.JSON(DepartmentResponse{
			ID:       dept.ID,
			ClinicID: dept.ClinicID,
			Name:     dept.Name,
		})
	}
}

// DELETE /api/admin/departments/:id
func DeleteDepartmentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var dept models.Department
		if err := database.DB.First(&dept, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Departman bulunamadı")
		}

		// Departmana bağlı kullanıcı varsa silme
		var userCount int64
		database.DB.Model(&models.User{}).Where("department_id = ?", dept.ID).Count(&userCount)
		if userCount > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Bu departmana bağlı kullanıcılar var, önce onları taşı")
		}

		if err := database.DB.Delete(&dept).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Departman silinemedi")
		}

		return c.JSON(fiber.Map{"deleted": true})
	}
}
