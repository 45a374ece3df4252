package handlers

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"warteg-web/models"
)

// monthBucket is one bar on the revenue chart. Height is the bucket's share
// of the tallest month, in percent, ready for a div-height bar.
type monthBucket struct {
	Month   string          `json:"month"` // YYYY-MM
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int             `json:"orders"`
	Height  int             `json:"height_percent"`
}

// FinancialReport aggregates the ledger from completed orders: total
// revenue, per-month buckets, and the count of cancelled orders.
func (h *Handlers) FinancialReport(c *gin.Context) {
	s := sess(c)
	if err := s.Orders.FetchAll(c.Request.Context()); err != nil {
		toast(c, err)
		return
	}

	buckets := map[string]*monthBucket{}
	total := decimal.Zero
	completed, cancelled := 0, 0
	for _, o := range s.Orders.Orders() {
		switch o.Status {
		case models.StatusCompleted:
			completed++
			total = total.Add(o.Total)
			month := o.CreatedAt.Format("2006-01")
			b, ok := buckets[month]
			if !ok {
				b = &monthBucket{Month: month}
				buckets[month] = b
			}
			b.Revenue = b.Revenue.Add(o.Total)
			b.Orders++
		case models.StatusCancelled:
			cancelled++
		}
	}

	months := make([]*monthBucket, 0, len(buckets))
	peak := decimal.Zero
	for _, b := range buckets {
		months = append(months, b)
		if b.Revenue.GreaterThan(peak) {
			peak = b.Revenue
		}
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Month < months[j].Month })
	for _, b := range months {
		if peak.IsPositive() {
			b.Height = int(b.Revenue.Div(peak).Mul(decimal.NewFromInt(100)).IntPart())
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"total_revenue":    total,
		"completed_orders": completed,
		"cancelled_orders": cancelled,
		"months":           months,
	})
}
