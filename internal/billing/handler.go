package billing

import (
	"fmt"
	"strings"
	"time"

	"klinik-backend/internal/auth"
	"klinik-backend/internal/database"
	"klinik-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateInvoiceRequest struct {
	Date        string  `json:"date"` // "2025-12-09"
	PatientName string  `json:"patient_name"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	ClinicID    *uint   `json:"clinic_id"` // super_admin için
}

type InvoiceResponse struct {
	ID          uint    `json:"id"`
	ClinicID    uint    `json:"clinic_id"`
	PatientName string  `json:"patient_name"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
	Status      string  `json:"status"`
	PaidAt      *string `json:"paid_at"`
}

type MonthlyBillingSummaryResponse struct {
	ClinicID    uint    `json:"clinic_id"`
	Year        int     `json:"year"`
	Month       int     `json:"month"`
	TotalBilled float64 `json:"total_billed"`
	TotalPaid   float64 `json:"total_paid"`
	TotalUnpaid float64 `json:"total_unpaid"`
	Count       int     `json:"count"`
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

func invoiceResponse(inv *models.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:          inv.ID,
		ClinicID:    inv.ClinicID,
		PatientName: inv.PatientName,
		Description: inv.Description,
		Amount:      inv.Amount,
		Date:        inv.Date.Format("2006-01-02"),
		Status:      string(inv.Status),
	}
	if inv.PaidAt != nil {
		paidAt := inv.PaidAt.Format("2006-01-02 15:04:05")
		resp.PaidAt = &paidAt
	}
	return resp
}

// POST /api/invoices
func CreateInvoiceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateInvoiceRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.PatientName = strings.TrimSpace(body.PatientName)
		if body.PatientName == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Hasta adı zorunlu")
		}
		if body.Amount <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Tutar 0'dan büyük olmalı")
		}

		clinicID, err := resolveClinicIDFromBodyOrRole(c, body.ClinicID)
		if err != nil {
			return err
		}

		d, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
		}

		inv := models.Invoice{
			ClinicID:    clinicID,
			PatientName: body.PatientName,
			Description: body.Description,
			Amount:      body.Amount,
			Date:        d,
			Status:      models.InvoiceUnpaid,
		}

		if err := database.DB.Create(&inv).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Fatura oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(invoiceResponse(&inv))
	}
}

// GET /api/invoices?clinic_id=1&status=unpaid
func ListInvoicesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		clinicID, err := resolveClinicIDFromQueryOrRole(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Where("clinic_id = ?", clinicID)

		if statusStr := c.Query("status"); statusStr != "" {
			switch models.InvoiceStatus(statusStr) {
			case models.InvoicePaid, models.InvoiceUnpaid:
				dbq = dbq.Where("status = ?", statusStr)
			default:
				return fiber.NewError(fiber.StatusBadRequest, "status paid/unpaid olmalı")
			}
		}

		var invoices []models.Invoice
		if err := dbq.Order("date DESC, created_at DESC").Find(&invoices).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Faturalar listelenemedi")
		}

		res := make([]InvoiceResponse, 0, len(invoices))
		for i := range invoices {
			res = append(res, invoiceResponse(&invoices[i]))
		}

		return c.JSON(res)
	}
}

// POST /api/invoices/:id/pay
func MarkInvoicePaidHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var inv models.Invoice
		if err := database.DB.First(&inv, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Fatura bulunamadı")
		}

		roleVal := c.Locals(auth.CtxUserRoleKey)
		if role, ok := roleVal.(models.UserRole); ok && role == models.RoleClinicStaff {
			cVal := c.Locals(auth.CtxClinicIDKey)
			cPtr, ok := cVal.(*uint)
			if !ok || cPtr == nil || *cPtr != inv.ClinicID {
				return fiber.NewError(fiber.StatusForbidden, "Bu fatura için yetkiniz yok")
			}
		}

		if inv.Status == models.InvoicePaid {
			return fiber.NewError(fiber.StatusBadRequest, "Fatura zaten ödenmiş")
		}

		now := time.Now()
		inv.Status = models.InvoicePaid
		inv.PaidAt = &now

		if err := database.DB.Save(&inv).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Fatura güncellenemedi")
		}

		return c.JSON(invoiceResponse(&inv))
	}
}

// GET /api/invoices/summary/monthly?year=2025&month=12&clinic_id=1
func MonthlyBillingSummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		clinicID, err := resolveClinicIDFromQueryOrRole(c)
		if err != nil {
			return err
		}

		yearStr := c.Query("year")
		monthStr := c.Query("month")
		if yearStr == "" || monthStr == "" {
			return fiber.NewError(fiber.StatusBadRequest, "year ve month zorunlu")
		}

		var year, month int
		if _, err := fmt.Sscan(yearStr, &year); err != nil || year < 2000 {
			return fiber.NewError(fiber.StatusBadRequest, "year geçersiz")
		}
		if _, err := fmt.Sscan(monthStr, &month); err != nil || month < 1 || month > 12 {
			return fiber.NewError(fiber.StatusBadRequest, "month geçersiz")
		}

		loc := time.Now().Location()
		firstDay := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
		lastDay := firstDay.AddDate(0, 1, -1)

		var invoices []models.Invoice
		if err := database.DB.
			Where("clinic_id = ? AND date >= ? AND date <= ?", clinicID, firstDay, lastDay).
			Find(&invoices).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Faturalar listelenemedi")
		}

		resp := MonthlyBillingSummaryResponse{
			ClinicID: clinicID,
			Year:     year,
			Month:    month,
			Count:    len(invoices),
		}
		for _, inv := range invoices {
			resp.TotalBilled += inv.Amount
			if inv.Status == models.InvoicePaid {
				resp.TotalPaid += inv.Amount
			} else {
				resp.TotalUnpaid += inv.Amount
			}
		}

		return c.JSON(resp)
	}
}
