package state

import (
	"errors"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/emreacar/kafepos/internal/domain/models"
)

func seeded() *Collection {
	c := NewCollection()
	c.Replace([]models.Product{
		{ID: 1, Name: "Latte", Category: "Kahve", Price: decimal.NewFromInt(80), Stock: 10, Active: true},
		{ID: 2, Name: "Çay", Category: "Sıcak İçecek", Price: decimal.NewFromInt(25), Stock: 3, Active: true},
		{ID: 3, Name: "Tiramisu", Category: "Tatlı", Price: decimal.NewFromInt(140), Stock: 0, Active: false},
	})
	return c
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	c := seeded()
	before := c.Snapshot()

	if err := c.ApplyDelta(1, -4); err != nil {
		t.Fatalf("apply delta: %v", err)
	}
	c.Upsert(models.Product{ID: 2, Name: "Çay", Category: "Sıcak İçecek", Price: decimal.NewFromInt(30), Stock: 50, Active: true})

	c.Restore(before)

	after := c.Snapshot()
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("restore did not reproduce snapshot:\nbefore %+v\nafter  %+v", before, after)
	}
}

func TestSnapshotIsIsolated(t *testing.T) {
	c := seeded()
	snap := c.Snapshot()

	snap[0].Stock = -999

	p, ok := c.Get(1)
	if !ok {
		t.Fatalf("product 1 missing")
	}
	if p.Stock != 10 {
		t.Fatalf("mutating the snapshot leaked into the collection: stock %d", p.Stock)
	}
}

func TestApplyDeltaUnknownProduct(t *testing.T) {
	c := seeded()
	if err := c.ApplyDelta(42, -1); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestUpsertReplacesWholesale(t *testing.T) {
	c := seeded()

	c.Upsert(models.Product{ID: 2, Name: "Demli Çay", Category: "Sıcak İçecek", Price: decimal.NewFromInt(30), Stock: 7, Active: true})

	p, _ := c.Get(2)
	if p.Name != "Demli Çay" || p.Stock != 7 || !p.Price.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("row was not replaced wholesale: %+v", p)
	}
	if len(c.All()) != 3 {
		t.Fatalf("replace must not grow the collection")
	}
}

func TestUpsertLastWriteWins(t *testing.T) {
	c := seeded()

	c.Upsert(models.Product{ID: 1, Name: "Latte", Stock: 8, Active: true})
	c.Upsert(models.Product{ID: 1, Name: "Latte", Stock: 6, Active: true})

	p, _ := c.Get(1)
	if p.Stock != 6 {
		t.Fatalf("later notification must win, got stock %d", p.Stock)
	}
}

func TestUpsertAppendsUnseen(t *testing.T) {
	c := seeded()

	c.Upsert(models.Product{ID: 9, Name: "Americano", Category: "Kahve", Stock: 12, Active: true})

	p, ok := c.Get(9)
	if !ok || p.Name != "Americano" {
		t.Fatalf("unseen product was not appended")
	}
	if len(c.All()) != 4 {
		t.Fatalf("expected 4 products, got %d", len(c.All()))
	}
}

func TestActiveFiltersInactive(t *testing.T) {
	c := seeded()

	active := c.Active()
	if len(active) != 2 {
		t.Fatalf("expected 2 active products, got %d", len(active))
	}
	for _, p := range active {
		if !p.Active {
			t.Fatalf("inactive product leaked: %+v", p)
		}
	}
}

func TestCategoriesSortedDistinct(t *testing.T) {
	c := seeded()
	c.Upsert(models.Product{ID: 4, Name: "Americano", Category: "Kahve", Active: true})

	got := c.Categories()
	want := []string{"Kahve", "Sıcak İçecek", "Tatlı"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("categories = %v, want %v", got, want)
	}
}

func TestSummarizeCounters(t *testing.T) {
	c := NewCollection()
	c.Replace([]models.Product{
		{ID: 1, Stock: 10},
		{ID: 2, Stock: 5},
		{ID: 3, Stock: 1},
		{ID: 4, Stock: 0},
		{ID: 5, Stock: -2},
		{ID: 6, Stock: 6},
	})

	got := c.Summarize()
	want := Summary{TotalProducts: 6, CriticalStock: 2, OutOfStock: 2}
	if got != want {
		t.Fatalf("summary = %+v, want %+v", got, want)
	}
}
