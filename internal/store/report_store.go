package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/raisama21/ims/internal/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SalesRow is one sold line item with the order it belongs to
type SalesRow struct {
	OrderID       uuid.UUID       `json:"order_id"`
	ProductName   string          `json:"product_name"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	Quantity      int             `json:"quantity"`
	LineTotal     decimal.Decimal `json:"line_total" gorm:"-"`
	OrderTotal    decimal.Decimal `json:"order_total"`
	CreatedAt     time.Time       `json:"created_at"`
}

// SalesSummary totals a sales report. OrdersTotal counts each order's
// total once however many lines it has.
type SalesSummary struct {
	Revenue     decimal.Decimal `json:"revenue"`
	Cost        decimal.Decimal `json:"cost"`
	OrdersTotal decimal.Decimal `json:"orders_total"`
	OrderCount  int             `json:"order_count"`
	Units       int             `json:"units"`
}

type SalesReport struct {
	From    time.Time    `json:"from"`
	To      time.Time    `json:"to"`
	Rows    []SalesRow   `json:"rows"`
	Summary SalesSummary `json:"summary"`
}

// Dashboard is the landing page summary of a group
type Dashboard struct {
	TotalRevenue   decimal.Decimal                `json:"total_revenue"`
	PaidAmount     decimal.Decimal                `json:"paid_amount"`
	PendingAmount  decimal.Decimal                `json:"pending_amount"`
	CustomerCount  int64                          `json:"customer_count"`
	OrderCount     int64                          `json:"order_count"`
	OrdersByStatus map[model.TrackingStatus]int64 `json:"orders_by_status"`
}

// ReportStore runs read-only aggregations over orders
type ReportStore struct {
	db *gorm.DB
}

func NewReportStore(db *gorm.DB) *ReportStore {
	return &ReportStore{db: db}
}

// Sales lists the line items of orders created in [from, to] and sums them
func (s *ReportStore) Sales(ctx context.Context, groupID uuid.UUID, from, to time.Time) (report *SalesReport, err error) {
	defer observe("report", "sales")(&err)

	if to.Before(from) {
		return nil, &ValidationError{Fields: map[string]string{"to": "end date is before start date"}}
	}

	var rows []SalesRow
	err = s.db.WithContext(ctx).
		Table("order_details AS d").
		Select("o.id AS order_id, d.product_name, d.purchase_price, d.price AS selling_price, d.quantity, o.total AS order_total, o.created_at").
		Joins("JOIN orders AS o ON o.id = d.order_id").
		Where("o.group_id = ? AND o.created_at >= ? AND o.created_at <= ?", groupID, from.UTC(), to.UTC()).
		Order("o.created_at, d.product_name").
		Scan(&rows).Error
	if err != nil {
		return nil, translate("sales report", "", err)
	}

	report = &SalesReport{From: from, To: to, Rows: rows}
	summary := SalesSummary{
		Revenue:     decimal.Zero,
		Cost:        decimal.Zero,
		OrdersTotal: decimal.Zero,
	}
	seen := make(map[uuid.UUID]bool)
	for i := range report.Rows {
		row := &report.Rows[i]
		qty := decimal.NewFromInt(int64(row.Quantity))
		row.LineTotal = row.SellingPrice.Mul(qty)

		summary.Revenue = summary.Revenue.Add(row.LineTotal)
		summary.Cost = summary.Cost.Add(row.PurchasePrice.Mul(qty))
		summary.Units += row.Quantity
		if !seen[row.OrderID] {
			seen[row.OrderID] = true
			summary.OrdersTotal = summary.OrdersTotal.Add(row.OrderTotal)
			summary.OrderCount++
		}
	}
	if report.Rows == nil {
		report.Rows = []SalesRow{}
	}
	report.Summary = summary
	return report, nil
}

// Dashboard computes revenue, payment split, customer and order counts
func (s *ReportStore) Dashboard(ctx context.Context, groupID uuid.UUID) (dash *Dashboard, err error) {
	defer observe("report", "dashboard")(&err)

	db := s.db.WithContext(ctx)
	dash = &Dashboard{
		TotalRevenue:   decimal.Zero,
		PaidAmount:     decimal.Zero,
		PendingAmount:  decimal.Zero,
		OrdersByStatus: make(map[model.TrackingStatus]int64),
	}

	var payments []struct {
		Status model.PaymentStatus
		Amount decimal.Decimal
		Count  int64
	}
	err = db.Model(&model.Order{}).
		Select("status, SUM(total) AS amount, COUNT(*) AS count").
		Where("group_id = ?", groupID).
		Group("status").
		Scan(&payments).Error
	if err != nil {
		return nil, translate("dashboard payments", "", err)
	}
	for _, p := range payments {
		dash.TotalRevenue = dash.TotalRevenue.Add(p.Amount)
		dash.OrderCount += p.Count
		switch p.Status {
		case model.PaymentPaid:
			dash.PaidAmount = dash.PaidAmount.Add(p.Amount)
		case model.PaymentPending:
			dash.PendingAmount = dash.PendingAmount.Add(p.Amount)
		}
	}

	if err := db.Model(&model.Customer{}).Where("group_id = ?", groupID).Count(&dash.CustomerCount).Error; err != nil {
		return nil, translate("dashboard customers", "", err)
	}

	var tracking []struct {
		Status model.TrackingStatus
		Count  int64
	}
	err = db.Model(&model.OrderTracking{}).
		Select("status, COUNT(*) AS count").
		Where("group_id = ?", groupID).
		Group("status").
		Scan(&tracking).Error
	if err != nil {
		return nil, translate("dashboard tracking", "", err)
	}
	for _, t := range tracking {
		dash.OrdersByStatus[t.Status] = t.Count
	}
	return dash, nil
}
