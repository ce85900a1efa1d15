package staffapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"

	"github.com/bistrokit/bistrokit/internal/domain"
)

// listHistory returns completed orders newest first, 50 per page by default.
func listHistory(c echo.Context) error {
	page, pageSize := parsePagination(c)
	orders, total, err := orderSvc.History(c.Request().Context(), page, pageSize)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load history", err.Error())
	}
	return paged(c, orders, total, page, pageSize)
}

type historyRow struct {
	ID            int64   `csv:"id"`
	OrderNumber   int     `csv:"order_number"`
	OrderDay      string  `csv:"order_day"`
	TableID       string  `csv:"table_id"`
	TotalPrice    float64 `csv:"total_price"`
	Tip           float64 `csv:"tip"`
	PaymentMethod string  `csv:"payment_method"`
	TaxID         string  `csv:"tax_id"`
	CreatedAt     string  `csv:"created_at"`
}

// exportHistory streams the completed-order history as CSV.
func exportHistory(c echo.Context) error {
	var orders []domain.Order
	err := GetDB(c).
		Where("status = ?", domain.OrderStatusCompleted).
		Order("id DESC").
		Find(&orders).Error
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load history", err.Error())
	}

	rows := make([]historyRow, 0, len(orders))
	for _, o := range orders {
		tableID := ""
		if o.TableID != nil {
			tableID = fmt.Sprintf("%d", *o.TableID)
		}
		rows = append(rows, historyRow{
			ID:            o.ID,
			OrderNumber:   o.OrderNumber,
			OrderDay:      o.OrderDay,
			TableID:       tableID,
			TotalPrice:    o.TotalPrice,
			Tip:           o.Tip,
			PaymentMethod: o.BillPaymentMethod,
			TaxID:         o.TaxID,
			CreatedAt:     o.CreatedAt.Format(time.RFC3339),
		})
	}

	data, err := gocsv.MarshalString(&rows)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "EXPORT_ERROR", "Failed to export history", err.Error())
	}

	filename := fmt.Sprintf("orders-%s.csv", time.Now().In(GetApp(c).Location()).Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))
	return c.Blob(http.StatusOK, "text/csv", []byte(data))
}
