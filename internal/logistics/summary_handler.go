package logistics

import (
	"time"

	"pedidos-backend/internal/cache"
	"pedidos-backend/internal/database"
	"pedidos-backend/internal/models"
	"pedidos-backend/internal/pricing"

	"github.com/gofiber/fiber/v2"
)

const (
	summaryCacheKey = "logistics:summary"
	summaryCacheTTL = 30 * time.Second
)

type SummaryResponse struct {
	OrdersByStatus        map[string]int64 `json:"orders_by_status"`
	ProductionByStatus    map[string]int64 `json:"production_by_status"`
	OverdueCount          int              `json:"overdue_count"`
	TotalReceivable       float64          `json:"total_receivable"`        // pedidos ativos ainda não quitados
	TotalCommissionsOwed  float64          `json:"total_commissions_owed"`  // confirmadas, não pagas
	GeneratedAt           string           `json:"generated_at"`
}

// GET /api/logistics/summary
// Visão agregada do painel. Vai para o cache com TTL de 30s: é a mesma
// janela de atraso que o polling do sistema antigo já aceitava.
func SummaryHandler(cacheClient *cache.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		var cached SummaryResponse
		if hit, err := cacheClient.GetJSON(ctx, summaryCacheKey, &cached); err == nil && hit {
			return c.JSON(cached)
		}

		resp := SummaryResponse{
			OrdersByStatus:     make(map[string]int64),
			ProductionByStatus: make(map[string]int64),
		}

		type statusCount struct {
			Status string
			Count  int64
		}

		var orderCounts []statusCount
		if err := database.DB.Model(&models.Order{}).
			Select("status, COUNT(*) AS count").Group("status").
			Scan(&orderCounts).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível montar o resumo")
		}
		for _, sc := range orderCounts {
			resp.OrdersByStatus[sc.Status] = sc.Count
		}

		var productionCounts []statusCount
		if err := database.DB.Model(&models.ProductionOrder{}).
			Select("status, COUNT(*) AS count").Group("status").
			Scan(&productionCounts).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível montar o resumo")
		}
		for _, sc := range productionCounts {
			resp.ProductionByStatus[sc.Status] = sc.Count
		}

		var activeOrders []models.Order
		if err := database.DB.
			Where("status NOT IN ?", []models.OrderStatus{models.OrderStatusCompleted, models.OrderStatusCancelled}).
			Find(&activeOrders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível montar o resumo")
		}

		now := time.Now()
		var receivable float64
		for _, o := range activeOrders {
			receivable += o.TotalValue - o.PaidValue
			if ComputePriority(o.DeliveryDeadline, now) == PriorityOverdue {
				resp.OverdueCount++
			}
		}
		resp.TotalReceivable = pricing.Round2(receivable)

		var owed float64
		if err := database.DB.Model(&models.Commission{}).
			Where("status = ?", models.CommissionStatusConfirmed).
			Select("COALESCE(SUM(amount), 0)").Scan(&owed).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível montar o resumo")
		}
		resp.TotalCommissionsOwed = pricing.Round2(owed)

		resp.GeneratedAt = now.Format("2006-01-02 15:04:05")

		_ = cacheClient.SetJSON(ctx, summaryCacheKey, resp, summaryCacheTTL)

		return c.JSON(resp)
	}
}
