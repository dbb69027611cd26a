package appointment

import (
	"fmt"
	"strings"
	"time"

	"klinik-backend/internal/auth"
	"klinik-backend/internal/database"
	"klinik-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateAppointmentRequest struct {
	Date        string `json:"date"` // "2025-12-09"
	PatientName string `json:"patient_name"`
	DoctorName  string `json:"doctor_name"`
	Notes       string `json:"notes"`
	ClinicID    *uint  `json:"clinic_id"` // super_admin için
}

type UpdateAppointmentRequest struct {
	Date        *string `json:"date"`
	PatientName *string `json:"patient_name"`
	DoctorName  *string `json:"doctor_name"`
	Notes       *string `json:"notes"`
	Status      *string `json:"status"` // scheduled | completed | cancelled
}

type AppointmentResponse struct {
	ID          uint   `json:"id"`
	ClinicID    uint   `json:"clinic_id"`
	PatientName string `json:"patient_name"`
	DoctorName  string `json:"doctor_name"`
	Date        string `json:"date"`
	Notes       string `json:"notes"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

// -------------------------
// Yardımcı: klinik ID çöz
// -------------------------

func resolveClinicIDFromBodyOrRole(c *fiber.Ctx, bodyClinicID *uint) (uint, error) {
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
	if bodyClinicID == nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "clinic_id zorunlu")
	}
	return *bodyClinicID, nil
}

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

func appointmentResponse(a *models.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:          a.ID,
		ClinicID:    a.ClinicID,
		PatientName: a.PatientName,
		DoctorName:  a.DoctorName,
		Date:        a.Date.Format("2006-01-02"),
		Notes:       a.Notes,
		Status:      string(a.Status),
		CreatedAt:   a.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// POST /api/appointments
func CreateAppointmentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateAppointmentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.PatientName = strings.TrimSpace(body.PatientName)
		if body.PatientName == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Hasta adı zorunlu")
		}

		clinicID, err := resolveClinicIDFromBodyOrRole(c, body.ClinicID)
		if err != nil {
			return err
		}

		d, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
		}

		appt := models.Appointment{
			ClinicID:    clinicID,
			PatientName: body.PatientName,
			DoctorName:  strings.TrimSpace(body.DoctorName),
			Date:        d,
			Notes:       body.Notes,
			Status:      models.AppointmentScheduled,
		}

		if err := database.DB.Create(&appt).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Randevu oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(appointmentResponse(&appt))
	}
}

// GET /api/appointments?clinic_id=1&date=2025-12-09
func ListAppointmentsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		clinicID, err := resolveClinicIDFromQueryOrRole(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Where("clinic_id = ?", clinicID)

		if dateStr := c.Query("date"); dateStr != "" {
			d, err := time.Parse("2006-01-02", dateStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
			}
			dbq = dbq.Where("date = ?", d)
		}

		var appts []models.Appointment
		if err := dbq.Order("date ASC, created_at ASC").Find(&appts).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Randevular listelenemedi")
		}

		res := make([]AppointmentResponse, 0, len(appts))
		for i := range appts {
			res = append(res, appointmentResponse(&appts[i]))
		}

		return c.JSON(res)
	}
}

// PUT /api/appointments/:id
func UpdateAppointmentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var appt models.Appointment
		if err := database.DB.First(&appt, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Randevu bulunamadı")
		}

		// clinic_staff yalnızca kendi kliniğinin randevusunu güncelleyebilir
		roleVal := c.Locals(auth.CtxUserRoleKey)
		if role, ok := roleVal.(models.UserRole); ok && role == models.RoleClinicStaff {
			cVal := c.Locals(auth.CtxClinicIDKey)
			cPtr, ok := cVal.(*uint)
			if !ok || cPtr == nil || *cPtr != appt.ClinicID {
				return fiber.NewError(fiber.StatusForbidden, "Bu randevu için yetkiniz yok")
			}
		}

		var body UpdateAppointmentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.Date != nil {
			d, err := time.Parse("2006-01-02", *body.Date)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
			}
			appt.Date = d
		}
		if body.PatientName != nil {
			name := strings.TrimSpace(*body.PatientName)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Hasta adı boş olamaz")
			}
			appt.PatientName = name
		}
		if body.DoctorName != nil {
			appt.DoctorName = strings.TrimSpace(*body.DoctorName)
		}
		if body.Notes != nil {
			appt.Notes = *body.Notes
		}
		if body.Status != nil {
			switch models.AppointmentStatus(*body.Status) {
			case models.AppointmentScheduled, models.AppointmentCompleted, models.AppointmentCancelled:
				appt.Status = models.AppointmentStatus(*body.Status)
			default:
				return fiber.NewError(fiber.StatusBadRequest, "Durum scheduled/completed/cancelled olmalı")
			}
		}

		if err := database.DB.Save(&appt).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Randevu güncellenemedi")
		}

		return c.JSON(appointmentResponse(&appt))
	}
}

// DELETE /api/appointments/:id
func DeleteAppointmentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var appt models.Appointment
		if err := database.DB.First(&appt, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Randevu bulunamadı")
		}

		roleVal := c.Locals(auth.CtxUserRoleKey)
		if role, ok := roleVal.(models.UserRole); ok && role == models.RoleClinicStaff {
			cVal := c.Locals(auth.CtxClinicIDKey)
			cPtr, ok := cVal.(*uint)
			if !ok || cPtr == nil || *cPtr != appt.ClinicID {
				return fiber.NewError(fiber.StatusForbidden, "Bu randevu için yetkiniz yok")
			}
		}

		if err := database.DB.Delete(&appt).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Randevu silinemedi")
		}

		return c.JSON(fiber.Map{"deleted": true})
	}
}
