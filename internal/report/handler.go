package report

import (
	"fmt"
	"time"

	"pedidos-backend/internal/database"
	"pedidos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

const dateLayout = "2006-01-02"

// parsePeriod lê start/end da query string. Sem filtro, cobre o mês corrente.
func parsePeriod(c *fiber.Ctx) (time.Time, time.Time, error) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 1, 0)

	if s := c.Query("start"); s != "" {
		parsed, err := time.Parse(dateLayout, s)
		if err != nil {
			return start, end, fiber.NewError(fiber.StatusBadRequest, "Data inicial inválida, use AAAA-MM-DD")
		}
		start = parsed
	}
	if e := c.Query("end"); e != "" {
		parsed, err := time.Parse(dateLayout, e)
		if err != nil {
			return start, end, fiber.NewError(fiber.StatusBadRequest, "Data final inválida, use AAAA-MM-DD")
		}
		// Fim inclusivo: soma um dia e compara com <
		end = parsed.AddDate(0, 0, 1)
	}
	if !end.After(start) {
		return start, end, fiber.NewError(fiber.StatusBadRequest, "Período inválido: data final antes da inicial")
	}
	return start, end, nil
}

func writeHeader(f *excelize.File, sheet string, headers []string) {
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
}

func sendWorkbook(c *fiber.Ctx, f *excelize.File, filename string) error {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível gerar a planilha")
	}
	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(buf.Bytes())
}

// GET /api/reports/orders.xlsx
// Planilha de pedidos do período (por data de criação), com valores e pagamento.
func OrdersReportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start, end, err := parsePeriod(c)
		if err != nil {
			return err
		}

		query := database.DB.Preload("Client").Preload("Vendor").
			Where("created_at >= ? AND created_at < ?", start, end).
			Order("created_at ASC")
		if s := c.Query("status"); s != "" {
			query = query.Where("status = ?", s)
		}

		var orders []models.Order
		if err := query.Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível carregar os pedidos")
		}

		f := excelize.NewFile()
		defer f.Close()
		sheet := f.GetSheetName(0)

		writeHeader(f, sheet, []string{
			"Número", "Cliente", "Vendedor", "Status",
			"Valor Total", "Valor Pago", "Saldo", "Entrega", "Criado Em",
		})

		for i, o := range orders {
			row := i + 2
			deadline := ""
			if o.DeliveryDeadline != nil {
				deadline = o.DeliveryDeadline.Format(dateLayout)
			}
			values := []interface{}{
				o.OrderNumber, o.Client.Name, o.Vendor.Name, string(o.Status),
				o.TotalValue, o.PaidValue, o.TotalValue - o.PaidValue,
				deadline, o.CreatedAt.Format(dateLayout),
			}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row)
				f.SetCellValue(sheet, cell, v)
			}
		}

		filename := fmt.Sprintf("pedidos_%s_%s.xlsx",
			start.Format(dateLayout), end.AddDate(0, 0, -1).Format(dateLayout))
		return sendWorkbook(c, f, filename)
	}
}

// GET /api/reports/commissions.xlsx
// Planilha de comissões do período, com totais por status no rodapé.
func CommissionsReportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start, end, err := parsePeriod(c)
		if err != nil {
			return err
		}

		query := database.DB.Preload("Order").Preload("Payee").
			Where("created_at >= ? AND created_at < ?", start, end).
			Order("created_at ASC")
		if s := c.Query("status"); s != "" {
			query = query.Where("status = ?", s)
		}
		if p := c.Query("payee_id"); p != "" {
			query = query.Where("payee_id = ?", p)
		}

		var commissions []models.Commission
		if err := query.Find(&commissions).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível carregar as comissões")
		}

		f := excelize.NewFile()
		defer f.Close()
		sheet := f.GetSheetName(0)

		writeHeader(f, sheet, []string{
			"Pedido", "Beneficiário", "Tipo", "Percentual",
			"Base de Cálculo", "Valor", "Status", "Pago Em",
		})

		totals := map[models.CommissionStatus]float64{}
		for i, cm := range commissions {
			row := i + 2
			paidAt := ""
			if cm.PaidAt != nil {
				paidAt = cm.PaidAt.Format(dateLayout)
			}
			values := []interface{}{
				cm.Order.OrderNumber, cm.Payee.Name, string(cm.PayeeType),
				cm.Percentage, cm.BaseValue, cm.Amount, string(cm.Status), paidAt,
			}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row)
				f.SetCellValue(sheet, cell, v)
			}
			totals[cm.Status] += cm.Amount
		}

		// Rodapé com totais na ordem do ciclo de vida
		footerRow := len(commissions) + 3
		for _, st := range []models.CommissionStatus{
			models.CommissionStatusPending,
			models.CommissionStatusConfirmed,
			models.CommissionStatusPaid,
			models.CommissionStatusCancelled,
		} {
			labelCell, _ := excelize.CoordinatesToCellName(1, footerRow)
			valueCell, _ := excelize.CoordinatesToCellName(2, footerRow)
			f.SetCellValue(sheet, labelCell, "Total "+string(st))
			f.SetCellValue(sheet, valueCell, totals[st])
			footerRow++
		}

		filename := fmt.Sprintf("comissoes_%s_%s.xlsx",
			start.Format(dateLayout), end.AddDate(0, 0, -1).Format(dateLayout))
		return sendWorkbook(c, f, filename)
	}
}
