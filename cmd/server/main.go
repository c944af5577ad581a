package main

import (
	"log"
	"strings"

	"pedidos-backend/internal/admin"
	"pedidos-backend/internal/audit"
	"pedidos-backend/internal/auth"
	"pedidos-backend/internal/budget"
	"pedidos-backend/internal/cache"
	"pedidos-backend/internal/catalog"
	"pedidos-backend/internal/commission"
	"pedidos-backend/internal/config"
	"pedidos-backend/internal/database"
	"pedidos-backend/internal/logistics"
	"pedidos-backend/internal/models"
	"pedidos-backend/internal/order"
	"pedidos-backend/internal/production"
	"pedidos-backend/internal/report"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)
	cacheClient := cache.Initialize(cfg.RedisAddr)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Erro inesperado:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Erro inesperado no servidor",
			})
		},
	})

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
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Admin routes
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	// Usuários
	adminRoutes.Post("/users", admin.CreateUserHandler())
	adminRoutes.Get("/users", admin.ListUsersHandler())
	adminRoutes.Put("/users/:id", admin.UpdateUserHandler())

	// Clientes
	adminRoutes.Post("/clients", admin.CreateClientHandler())
	adminRoutes.Get("/clients", admin.ListClientsHandler())
	adminRoutes.Put("/clients/:id", admin.UpdateClientHandler())

	// Produtores
	adminRoutes.Post("/producers", admin.CreateProducerHandler())
	adminRoutes.Get("/producers", admin.ListProducersHandler())
	adminRoutes.Put("/producers/:id", admin.UpdateProducerHandler())

	// Catálogo de produtos
	adminRoutes.Post("/products", catalog.CreateProductHandler())
	adminRoutes.Put("/products/:id", catalog.UpdateProductHandler())

	protected.Get("/products", catalog.ListProductsHandler())

	// Orçamentos
	budgetRoutes := protected.Group("/budgets")
	budgetRoutes.Post("", auth.RequireRole(models.RoleAdmin, models.RoleVendor), budget.CreateBudgetHandler())
	budgetRoutes.Get("", budget.ListBudgetsHandler())
	budgetRoutes.Get("/:id", budget.GetBudgetHandler())
	budgetRoutes.Put("/:id", auth.RequireRole(models.RoleAdmin, models.RoleVendor), budget.UpdateBudgetHandler())
	budgetRoutes.Put("/:id/status", auth.RequireRole(models.RoleAdmin, models.RoleVendor), budget.UpdateBudgetStatusHandler())
	budgetRoutes.Post("/:id/convert", auth.RequireRole(models.RoleAdmin, models.RoleVendor), budget.ConvertBudgetHandler())

	// Pedidos
	orderRoutes := protected.Group("/orders")
	orderRoutes.Get("", order.ListOrdersHandler())
	orderRoutes.Get("/:id", order.GetOrderHandler())
	orderRoutes.Put("/:id/status", auth.RequireRole(models.RoleAdmin, models.RoleVendor, models.RoleLogistics), order.UpdateOrderStatusHandler())
	orderRoutes.Post("/:id/payments", auth.RequireRole(models.RoleAdmin, models.RoleVendor), order.CreatePaymentHandler())
	orderRoutes.Get("/:id/payments", order.ListPaymentsHandler())
	orderRoutes.Post("/:id/send-to-production", auth.RequireRole(models.RoleAdmin, models.RoleLogistics), production.SendToProductionHandler())
	orderRoutes.Post("/:id/confirm-delivery", auth.RequireRole(models.RoleAdmin, models.RoleLogistics), logistics.ConfirmDeliveryHandler())

	// Ordens de produção
	productionRoutes := protected.Group("/production-orders")
	productionRoutes.Get("", production.ListProductionOrdersHandler())
	productionRoutes.Get("/:id", production.GetProductionOrderHandler())
	productionRoutes.Put("/:id/status", auth.RequireRole(models.RoleAdmin, models.RoleProducer, models.RoleLogistics), production.UpdateProductionStatusHandler())

	// Painel de logística
	logisticsRoutes := protected.Group("/logistics")
	logisticsRoutes.Use(auth.RequireRole(models.RoleAdmin, models.RoleLogistics))
	logisticsRoutes.Get("/paid-orders", logistics.PaidOrdersHandler())
	logisticsRoutes.Get("/pending-shipments", logistics.PendingShipmentsHandler())
	logisticsRoutes.Get("/summary", logistics.SummaryHandler(cacheClient))

	// Comissões
	commissionRoutes := protected.Group("/commissions")
	commissionRoutes.Get("", commission.ListCommissionsHandler())
	commissionRoutes.Put("/:id/status", auth.RequireRole(models.RoleAdmin), commission.UpdateCommissionStatusHandler())
	commissionRoutes.Post("/bulk", auth.RequireRole(models.RoleAdmin), commission.BulkCommissionsHandler())

	// Relatórios
	reportRoutes := protected.Group("/reports")
	reportRoutes.Use(auth.RequireRole(models.RoleAdmin))
	reportRoutes.Get("/orders.xlsx", report.OrdersReportHandler())
	reportRoutes.Get("/commissions.xlsx", report.CommissionsReportHandler())

	// Audit logs
	protected.Get("/audit-logs", auth.RequireRole(models.RoleAdmin), audit.ListAuditLogsHandler())
	protected.Post("/audit-logs/:id/undo", auth.RequireRole(models.RoleAdmin), audit.UndoAuditLogHandler())

	log.Println("Servidor ouvindo na porta:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
