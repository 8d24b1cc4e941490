package store

import (
	"testing"
	"time"

	"github.com/raisama21/ims/internal/model"
	"github.com/shopspring/decimal"
)

func TestSalesReport(t *testing.T) {
	f := newFixture(t)
	acme, _ := f.tenant(t, "acme")
	globex, _ := f.tenant(t, "globex")
	f.catalog(t, acme)
	f.catalog(t, globex)
	carol := f.customer(t, acme, "carol@example.com")
	dave := f.customer(t, globex, "dave@example.com")

	f.order(t, acme, carol.ID)
	f.order(t, acme, carol.ID)
	f.order(t, globex, dave.ID)

	from := time.Now().Add(-time.Hour)
	to := time.Now().Add(time.Hour)
	report, err := f.reports.Sales(f.ctx, acme, from, to)
	if err != nil {
		t.Fatalf("Sales() error = %v", err)
	}

	if len(report.Rows) != 4 {
		t.Fatalf("rows = %d, want 4", len(report.Rows))
	}
	s := report.Summary
	if s.OrderCount != 2 || s.Units != 6 {
		t.Errorf("orders/units = %d/%d, want 2/6", s.OrderCount, s.Units)
	}
	if !s.Revenue.Equal(decimal.NewFromInt(50)) {
		t.Errorf("revenue = %s, want 50", s.Revenue)
	}
	// widget 2 x 6 + gadget 1 x 2, twice
	if !s.Cost.Equal(decimal.NewFromInt(28)) {
		t.Errorf("cost = %s, want 28", s.Cost)
	}
	if !s.OrdersTotal.Equal(decimal.NewFromInt(60)) {
		t.Errorf("orders total = %s, want 60", s.OrdersTotal)
	}
	for _, row := range report.Rows {
		if !row.LineTotal.Equal(row.SellingPrice.Mul(decimal.NewFromInt(int64(row.Quantity)))) {
			t.Errorf("row %s line total = %s", row.ProductName, row.LineTotal)
		}
	}

	empty, err := f.reports.Sales(f.ctx, acme, from.Add(-48*time.Hour), from.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("Sales() error = %v", err)
	}
	if len(empty.Rows) != 0 || !empty.Summary.Revenue.IsZero() {
		t.Errorf("past window = %+v", empty)
	}

	_, err = f.reports.Sales(f.ctx, acme, to, from)
	assertValidation(t, err, "to")
}

func TestDashboard(t *testing.T) {
	f := newFixture(t)
	acme, _ := f.tenant(t, "acme")
	f.catalog(t, acme)
	carol := f.customer(t, acme, "carol@example.com")
	f.customer(t, acme, "dave@example.com")

	paid := f.order(t, acme, carol.ID)
	f.order(t, acme, carol.ID)

	if _, err := f.orders.UpdatePayment(f.ctx, acme, paid.ID, PaymentInput{
		PaymentMethod: model.PaymentMobileBanking,
		Status:        model.PaymentPaid,
	}); err != nil {
		t.Fatalf("UpdatePayment() error = %v", err)
	}
	if _, err := f.tracking.Advance(f.ctx, acme, paid.ID, model.TrackingProcessing); err != nil {
		t.Fatalf("Advance() error = %v", err)
	}

	dash, err := f.reports.Dashboard(f.ctx, acme)
	if err != nil {
		t.Fatalf("Dashboard() error = %v", err)
	}
	if !dash.TotalRevenue.Equal(decimal.NewFromInt(60)) {
		t.Errorf("total revenue = %s, want 60", dash.TotalRevenue)
	}
	if !dash.PaidAmount.Equal(decimal.NewFromInt(30)) || !dash.PendingAmount.Equal(decimal.NewFromInt(30)) {
		t.Errorf("paid/pending = %s/%s, want 30/30", dash.PaidAmount, dash.PendingAmount)
	}
	if dash.CustomerCount != 2 || dash.OrderCount != 2 {
		t.Errorf("customers/orders = %d/%d, want 2/2", dash.CustomerCount, dash.OrderCount)
	}
	if dash.OrdersByStatus[model.TrackingOrderCreated] != 1 || dash.OrdersByStatus[model.TrackingProcessing] != 1 {
		t.Errorf("orders by status = %v", dash.OrdersByStatus)
	}
}
