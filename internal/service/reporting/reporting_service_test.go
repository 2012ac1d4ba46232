package reporting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/emreacar/kafepos/internal/domain/models"
)

type fakeBackend struct {
	sales       []models.SalesAggregateRow
	expenses    []models.Expense
	salesErr    error
	expensesErr error

	salesStart, salesEnd time.Time
}

func (f *fakeBackend) SalesReport(_ context.Context, start, end time.Time) ([]models.SalesAggregateRow, error) {
	f.salesStart, f.salesEnd = start, end
	return f.sales, f.salesErr
}

func (f *fakeBackend) ListExpenses(_ context.Context, _, _ time.Time) ([]models.Expense, error) {
	return f.expenses, f.expensesErr
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func row(name, category string, qty int, revenue int64, profit *decimal.Decimal) models.SalesAggregateRow {
	return models.SalesAggregateRow{
		ProductName:  name,
		Category:     category,
		QuantitySold: qty,
		Revenue:      dec(revenue),
		Profit:       profit,
	}
}

func TestComputeStatsTotals(t *testing.T) {
	backend := &fakeBackend{
		sales: []models.SalesAggregateRow{
			row("Latte", "Kahve", 2, 100, decPtr(30)),
			row("Çay", "Sıcak İçecek", 3, 50, nil),
		},
		expenses: []models.Expense{
			{ID: 1, Name: "Süt", Amount: dec(20)},
		},
	}
	svc := NewService(backend, time.UTC, nil)

	stats, err := svc.ComputeStats(context.Background(), time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("compute stats: %v", err)
	}

	if !stats.TotalRevenue.Equal(dec(150)) {
		t.Fatalf("total revenue = %s, want 150", stats.TotalRevenue)
	}
	if !stats.TotalGrossProfit.Equal(dec(30)) {
		t.Fatalf("gross profit = %s, want 30 (nil profit counts as zero)", stats.TotalGrossProfit)
	}
	if !stats.TotalExpenses.Equal(dec(20)) {
		t.Fatalf("expenses = %s, want 20", stats.TotalExpenses)
	}
	if !stats.NetOperatingProfit.Equal(dec(10)) {
		t.Fatalf("net operating profit = %s, want 10", stats.NetOperatingProfit)
	}
	if stats.TotalItemsSold != 5 {
		t.Fatalf("items sold = %d, want 5", stats.TotalItemsSold)
	}
	if !stats.ProfitIncomplete {
		t.Fatalf("a nil profit row must set ProfitIncomplete")
	}
}

func TestComputeStatsCompleteProfit(t *testing.T) {
	backend := &fakeBackend{
		sales: []models.SalesAggregateRow{row("Latte", "Kahve", 1, 80, decPtr(25))},
	}
	svc := NewService(backend, time.UTC, nil)

	stats, err := svc.ComputeStats(context.Background(), time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("compute stats: %v", err)
	}
	if stats.ProfitIncomplete {
		t.Fatalf("ProfitIncomplete must stay false when every row has profit")
	}
}

func TestComputeStatsBackendFailure(t *testing.T) {
	wantErr := errors.New("sales aggregation failed")
	backend := &fakeBackend{
		salesErr: wantErr,
		expenses: []models.Expense{{ID: 1, Name: "Kira", Amount: dec(500)}},
	}
	svc := NewService(backend, time.UTC, nil)

	start := time.Date(2026, time.August, 29, 0, 0, 0, 0, time.UTC)
	end := start.Add(12 * time.Hour)

	stats, err := svc.ComputeStats(context.Background(), start, end)
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected backend error, got %v", err)
	}
	if !stats.TotalRevenue.IsZero() || !stats.TotalExpenses.IsZero() || !stats.NetOperatingProfit.IsZero() {
		t.Fatalf("a failed read must not leak partial totals: %+v", stats)
	}
	if !stats.WindowStart.Equal(start) || !stats.WindowEnd.Equal(end) {
		t.Fatalf("empty stats must still carry the window")
	}
}

func TestComputePeriodUsesClockAndLocation(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Istanbul")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	backend := &fakeBackend{}
	svc := NewService(backend, loc, nil)
	svc.now = func() time.Time {
		return time.Date(2026, time.August, 29, 15, 0, 0, 0, loc)
	}

	if _, err := svc.ComputePeriod(context.Background(), models.PeriodToday); err != nil {
		t.Fatalf("compute period: %v", err)
	}

	wantStart := time.Date(2026, time.August, 29, 0, 0, 0, 0, loc)
	if !backend.salesStart.Equal(wantStart) {
		t.Fatalf("sales window start = %v, want %v", backend.salesStart, wantStart)
	}
	if !backend.salesEnd.Equal(svc.now()) {
		t.Fatalf("sales window end = %v, want now", backend.salesEnd)
	}
}

func TestTopProductsRanksAndTruncates(t *testing.T) {
	rows := []models.SalesAggregateRow{
		row("A", "x", 1, 10, nil),
		row("B", "x", 1, 60, nil),
		row("C", "x", 1, 30, nil),
		row("D", "x", 1, 20, nil),
		row("E", "x", 1, 50, nil),
		row("F", "x", 1, 40, nil),
	}

	top := TopProducts(rows, 5)
	if len(top) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(top))
	}
	if top[0].ProductName != "B" || !top[0].Revenue.Equal(dec(60)) {
		t.Fatalf("highest revenue first, got %+v", top[0])
	}
	if top[4].ProductName != "D" {
		t.Fatalf("expected D (20) as the fifth entry, got %+v", top[4])
	}
	for i := 1; i < len(top); i++ {
		if top[i].Revenue.GreaterThan(top[i-1].Revenue) {
			t.Fatalf("ranking not descending at %d", i)
		}
	}
}

func TestTopProductsFewerThanLimit(t *testing.T) {
	rows := []models.SalesAggregateRow{
		row("A", "x", 1, 10, nil),
		row("B", "x", 1, 25, nil),
	}

	top := TopProducts(rows, 5)
	if len(top) != 2 {
		t.Fatalf("expected all rows when fewer than the limit, got %d", len(top))
	}
	if top[0].ProductName != "B" {
		t.Fatalf("expected B first, got %+v", top[0])
	}
}

func TestTopProductsStableOnTies(t *testing.T) {
	rows := []models.SalesAggregateRow{
		row("First", "x", 1, 30, nil),
		row("Second", "x", 1, 30, nil),
	}

	top := TopProducts(rows, 5)
	if top[0].ProductName != "First" || top[1].ProductName != "Second" {
		t.Fatalf("ties must keep arrival order, got %+v", top)
	}
}

func TestCategoryBreakdownSumsMatchTotal(t *testing.T) {
	rows := []models.SalesAggregateRow{
		row("Latte", "Kahve", 1, 80, nil),
		row("Americano", "Kahve", 1, 70, nil),
		row("Çay", "Sıcak İçecek", 1, 25, nil),
		row("Cheesecake", "Tatlı", 1, 120, nil),
	}

	breakdown := CategoryBreakdown(rows)

	total := decimal.Zero
	for _, entry := range breakdown {
		total = total.Add(entry.Revenue)
	}
	if !total.Equal(dec(295)) {
		t.Fatalf("category sums = %s, want the full revenue 295", total)
	}

	if breakdown[0].Category != "Kahve" || !breakdown[0].Revenue.Equal(dec(150)) {
		t.Fatalf("highest category first, got %+v", breakdown[0])
	}
	for i := 1; i < len(breakdown); i++ {
		if breakdown[i].Revenue.GreaterThan(breakdown[i-1].Revenue) {
			t.Fatalf("breakdown not descending at %d", i)
		}
	}
}

func TestCategoryBreakdownCaseSensitive(t *testing.T) {
	rows := []models.SalesAggregateRow{
		row("A", "Kahve", 1, 10, nil),
		row("B", "kahve", 1, 20, nil),
	}

	breakdown := CategoryBreakdown(rows)
	if len(breakdown) != 2 {
		t.Fatalf("differently cased labels are distinct groups, got %+v", breakdown)
	}
}
