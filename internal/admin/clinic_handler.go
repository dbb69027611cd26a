package admin

import (
	"strings"

	"klinik-backend/internal/database"
	"klinik-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type ClinicResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	CreatedAt string `json:"created_at"`
}

type CreateClinicRequest struct {
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Phone   *string `json:"phone"` // Opsiyonel
}

type UpdateClinicRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"` // Opsiyonel
}

type CreateClinicStaffRequest struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	DepartmentID *uint  `json:"department_id"` // Opsiyonel
}

type ClinicStaffResponse struct {
	ID           uint   `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	ClinicID     *uint  `json:"clinic_id"`
	DepartmentID *uint  `json:"department_id"`
	CreatedAt    string `json:"created_at"`
}

// ----------------------------------------
// KLİNİK CRUD
// ----------------------------------------

func CreateClinicHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateClinicRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Klinik adı boş olamaz")
		}

		clinic := models.Clinic{
			Name:    body.Name,
			Address: body.Address,
		}
		if body.Phone != nil {
			clinic.Phone = strings.TrimSpace(*body.Phone)
		}

		if err := database.DB.Create(&clinic).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Klinik oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(ClinicResponse{
			ID:        clinic.ID,
			Name:      clinic.Name,
			Address:   clinic.Address,
			Phone:     clinic.Phone,
			CreatedAt: clinic.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
}

func ListClinicsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var clinics []models.Clinic
		if err := database.DB.Find(&clinics).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Klinikler listelenemedi")
		}

		res := make([]ClinicResponse, 0, len(clinics))
		for _, cl := range clinics {
			res = append(res, ClinicResponse{
				ID:        cl.ID,
				Name:      cl.Name,
				Address:   cl.Address,
				Phone:     cl.Phone,
				CreatedAt: cl.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}

		return c.JSON(res)
	}
}

func GetClinicHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var clinic models.Clinic
		if err := database.DB.First(&clinic, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Klinik bulunamadı")
		}

		return c.JSON(ClinicResponse{
			ID:        clinic.ID,
			Name:      clinic.Name,
			Address:   clinic.Address,
			Phone:     clinic.Phone,
			CreatedAt: clinic.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
}

func UpdateClinicHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var clinic models.Clinic
		if err := database.DB.First(&clinic, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Klinik bulunamadı")
		}

		var body UpdateClinicRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Klinik adı boş olamaz")
			}
			clinic.Name = name
		}
		if body.Address != nil {
			clinic.Address = *body.Address
		}
		if body.Phone != nil {
			clinic.Phone = strings.TrimSpace(*body.Phone)
		}

		if err := database.DB.Save(&clinic).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Klinik güncellenemedi")
		}

		return c.JSON(ClinicResponse{
			ID:        clinic.ID,
			Name:      clinic.Name,
			Address:   clinic.Address,
			Phone:     clinic.Phone,
			CreatedAt: clinic.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
}

func DeleteClinicHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var clinic models.Clinic
		if err := database.DB.First(&clinic, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Klinik bulunamadı")
		}

		// Personeli olan klinik silinemez
		var userCount int64
		database.DB.Model(&models.User{}).Where("clinic_id = ?", clinic.ID).Count(&userCount)
		if userCount > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Bu kliniğe bağlı kullanıcılar var, önce onları sil")
		}

		if err := database.DB.Delete(&clinic).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Klinik silinemedi")
		}

		return c.JSON(fiber.Map{"deleted": true})
	}
}

// ----------------------------------------
// KLİNİK PERSONELİ
// ----------------------------------------

// POST /api/admin/clinics/:id/staff
func CreateClinicStaffHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var clinic models.Clinic
		if err := database.DB.First(&clinic, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Klinik bulunamadı")
		}

		var body CreateClinicStaffRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		body.FirstName = strings.TrimSpace(body.FirstName)
		body.LastName = strings.TrimSpace(body.LastName)

		if body.Email == "" || body.Password == "" || body.FirstName == "" || body.LastName == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Ad, soyad, email ve şifre zorunlu")
		}

		// Departman verildiyse bu kliniğe ait olmalı
		if body.DepartmentID != nil {
			var dept models.Department
			if err := database.DB.First(&dept, "id = ? AND clinic_id = ?", *body.DepartmentID, clinic.ID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Departman bu kliniğe ait değil")
			}
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Şifre hashlenemedi")
		}

		user := models.User{
			ClinicID:     &clinic.ID,
			DepartmentID: body.DepartmentID,
			FirstName:    body.FirstName,
			LastName:     body.LastName,
			Email:        body.Email,
			PasswordHash: string(hash),
			Role:         models.RoleClinicStaff,
		}

		if err := database.DB.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kullanıcı oluşturulamadı (email kullanımda olabilir)")
		}

		return c.Status(fiber.StatusCreated).JSON(ClinicStaffResponse{
			ID:           user.ID,
			FirstName:    user.FirstName,
			LastName:     user.LastName,
			Email:        user.Email,
			Role:         string(user.Role),
			ClinicID:     user.ClinicID,
			DepartmentID: user.DepartmentID,
			CreatedAt:    user.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
}

// GET /api/admin/clinics/:id/staff
func ListClinicStaffHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var clinic models.Clinic
		if err := database.DB.First(&clinic, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Klinik bulunamadı")
		}

		var users []models.User
		if err := database.DB.Where("clinic_id = ?", clinic.ID).Find(&users).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Personel listelenemedi")
		}

		res := make([]ClinicStaffResponse, 0, len(users))
		for _, u := range users {
			res = append(res, ClinicStaffResponse{
				ID:           u.ID,
				FirstName:    u.FirstName,
				LastName:     u.LastName,
				Email:        u.Email,
				Role:         string(u.Role),
				ClinicID:     u.ClinicID,
				DepartmentID: u.DepartmentID,
				CreatedAt:    u.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}

		return c.JSON(res)
	}
}
