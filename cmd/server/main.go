package main

import (
	"log"
	"strings"

	"klinik-backend/internal/admin"
	"klinik-backend/internal/appointment"
	"klinik-backend/internal/assistant"
	"klinik-backend/internal/auth"
	"klinik-backend/internal/billing"
	"klinik-backend/internal/config"
	"klinik-backend/internal/dashboard"
	"klinik-backend/internal/database"
	"klinik-backend/internal/inventory"
	"klinik-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	policy := inventory.ThresholdPolicy{
		RebaseOnRestock: cfg.InventoryRebaseOnRestock,
		AbsoluteFloor:   cfg.InventoryAbsoluteFloor,
	}
	invService := inventory.NewService(inventory.NewStore(database.DB), policy)

	// Asistan yanıt önbelleği; arka planda periyodik temizlik yapar
	cache := assistant.NewResponseCache()
	cache.Start()
	defer cache.Stop()

	generator := assistant.NewHTTPGenerator(cfg.AIEndpoint, cfg.AIAPIKey)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})

	// CORS origins'i virgülle ayrılmış string'den array'e çevir
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-super-admin", auth.RegisterSuperAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Super admin routes
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleSuperAdmin))

	// Klinik yönetimi
	adminRoutes.Post("/clinics", admin.CreateClinicHandler())
	adminRoutes.Get("/clinics", admin.ListClinicsHandler())
	adminRoutes.Get("/clinics/:id", admin.GetClinicHandler())
	adminRoutes.Put("/clinics/:id", admin.UpdateClinicHandler())
	adminRoutes.Delete("/clinics/:id", admin.DeleteClinicHandler())
	adminRoutes.Post("/clinics/:id/staff", admin.CreateClinicStaffHandler())
	adminRoutes.Get("/clinics/:id/staff", admin.ListClinicStaffHandler())

	// Departman yönetimi
	adminRoutes.Post("/clinics/:id/departments", admin.CreateDepartmentHandler())
	adminRoutes.Get("/clinics/:id/departments", admin.ListDepartmentsHandler())
	adminRoutes.Put("/departments/:id", admin.UpdateDepartmentHandler())
	adminRoutes.Delete("/departments/:id", admin.DeleteDepartmentHandler())

	// Malzeme kataloğu
	adminRoutes.Post("/items", inventory.CreateItemHandler())
	adminRoutes.Put("/items/:id", inventory.UpdateItemHandler())
	adminRoutes.Delete("/items/:id", inventory.DeleteItemHandler())

	// Ortak (auth gerektiren) route'lar

	// Malzeme listesi
	protected.Get("/items", inventory.ListItemsHandler())

	// Stok yönetimi
	protected.Post("/inventory/stock-in", inventory.StockInHandler(invService))
	protected.Get("/inventory", inventory.ListInventoryHandler(invService))
	protected.Put("/inventory/:clinicID/:itemID", inventory.EditInventoryHandler(invService))
	protected.Delete("/inventory/:clinicID/:itemID", inventory.DeleteInventoryHandler(invService))
	protected.Get("/inventory-transactions", inventory.ListTransactionsHandler())

	// Randevular
	protected.Post("/appointments", appointment.CreateAppointmentHandler())
	protected.Get("/appointments", appointment.ListAppointmentsHandler())
	protected.Put("/appointments/:id", appointment.UpdateAppointmentHandler())
	protected.Delete("/appointments/:id", appointment.DeleteAppointmentHandler())

	// Faturalar
	protected.Post("/invoices", billing.CreateInvoiceHandler())
	protected.Get("/invoices", billing.ListInvoicesHandler())
	protected.Post("/invoices/:id/pay", billing.MarkInvoicePaidHandler())
	protected.Get("/invoices/summary/monthly", billing.MonthlyBillingSummaryHandler())

	// Dashboard
	protected.Get("/dashboard/inventory-status", dashboard.InventoryStatusHandler(policy))

	// Yapay zeka asistanı
	protected.Post("/assistant/query", assistant.QueryHandler(cache, generator))

	log.Println("Server çalışıyor port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
