package store

import (
	"testing"

	"github.com/google/uuid"
	"github.com/raisama21/ims/internal/model"
	"github.com/shopspring/decimal"
)

func TestCategoryUniquePerTenant(t *testing.T) {
	f := newFixture(t)
	acme, _ := f.tenant(t, "acme")
	globex, _ := f.tenant(t, "globex")

	if _, err := f.categories.Create(f.ctx, acme, CategoryInput{Name: "Hardware"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	_, err := f.categories.Create(f.ctx, acme, CategoryInput{Name: " hardware "})
	assertConflict(t, err, "name")

	if _, err := f.categories.Create(f.ctx, globex, CategoryInput{Name: "hardware"}); err != nil {
		t.Fatalf("same name in another tenant: error = %v", err)
	}

	list, err := f.categories.List(f.ctx, acme)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 1 {
		t.Errorf("List() = %d categories, want 1", len(list))
	}
}

func TestCategoryTenantIsolation(t *testing.T) {
	f := newFixture(t)
	acme, _ := f.tenant(t, "acme")
	globex, _ := f.tenant(t, "globex")

	category, err := f.categories.Create(f.ctx, acme, CategoryInput{Name: "hardware"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	_, err = f.categories.Get(f.ctx, globex, category.ID)
	assertNotFound(t, err)

	_, err = f.categories.Update(f.ctx, globex, category.ID, CategoryInput{Name: "stolen"})
	assertNotFound(t, err)

	assertNotFound(t, f.categories.Delete(f.ctx, globex, category.ID))

	got, err := f.categories.Get(f.ctx, acme, category.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Name != "hardware" {
		t.Errorf("name = %q, want unchanged", got.Name)
	}

	list, err := f.categories.List(f.ctx, globex)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 0 {
		t.Errorf("other tenant sees %d categories", len(list))
	}
}

func TestCategoryRenameMovesProducts(t *testing.T) {
	f := newFixture(t)
	acme, _ := f.tenant(t, "acme")
	f.catalog(t, acme)

	list, _ := f.categories.List(f.ctx, acme)
	renamed, err := f.categories.Update(f.ctx, acme, list[0].ID, CategoryInput{Name: "Tools"})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if renamed.Name != "tools" {
		t.Errorf("name = %q, want tools", renamed.Name)
	}

	products, err := f.products.List(f.ctx, acme, ProductFilter{Category: "tools"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(products) != 2 {
		t.Errorf("products in renamed category = %d, want 2", len(products))
	}
}

func TestCategoryDeleteInUse(t *testing.T) {
	f := newFixture(t)
	acme, _ := f.tenant(t, "acme")
	f.catalog(t, acme)

	list, _ := f.categories.List(f.ctx, acme)
	err := f.categories.Delete(f.ctx, acme, list[0].ID)
	assertConflict(t, err, "name")

	empty, err := f.categories.Create(f.ctx, acme, CategoryInput{Name: "empty shelf"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := f.categories.Delete(f.ctx, acme, empty.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	_, err = f.categories.Get(f.ctx, acme, empty.ID)
	assertNotFound(t, err)
}

func TestProductCreateRequiresKnownCategory(t *testing.T) {
	f := newFixture(t)
	acme, _ := f.tenant(t, "acme")
	globex, _ := f.tenant(t, "globex")
	f.catalog(t, globex)

	_, err := f.products.Create(f.ctx, acme, ProductInput{
		Name:         "widget",
		Description:  "a widget",
		Category:     "hardware",
		Status:       model.ProductInStock,
		SellingPrice: decimal.NewFromInt(10),
	})
	assertValidation(t, err, "category")
}

func TestProductValidation(t *testing.T) {
	f := newFixture(t)
	acme, _ := f.tenant(t, "acme")

	_, err := f.products.Create(f.ctx, acme, ProductInput{
		Name:          "x",
		Category:      "hardware",
		Status:        "sold-out",
		Stock:         -1,
		PurchasePrice: decimal.NewFromInt(-2),
		SellingPrice:  decimal.NewFromInt(-1),
	})
	for _, field := range []string{"name", "description", "status", "stock", "purchase_price", "selling_price"} {
		assertValidation(t, err, field)
	}
}

func TestProductUniquePerTenant(t *testing.T) {
	f := newFixture(t)
	acme, _ := f.tenant(t, "acme")
	globex, _ := f.tenant(t, "globex")
	f.catalog(t, acme)
	f.catalog(t, globex)

	_, err := f.products.Create(f.ctx, acme, ProductInput{
		Name:         "Widget",
		Description:  "another widget",
		Category:     "hardware",
		Status:       model.ProductInStock,
		SellingPrice: decimal.NewFromInt(12),
	})
	assertConflict(t, err, "name")

	for _, group := range []uuid.UUID{acme, globex} {
		products, err := f.products.List(f.ctx, group, ProductFilter{})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(products) != 2 {
			t.Errorf("group %s has %d products, want 2", group, len(products))
		}
		for _, p := range products {
			if p.GroupID != group {
				t.Errorf("product %s of group %s listed for %s", p.Name, p.GroupID, group)
			}
		}
	}
}

func TestProductUpdateAndDelete(t *testing.T) {
	f := newFixture(t)
	acme, _ := f.tenant(t, "acme")
	globex, _ := f.tenant(t, "globex")
	f.catalog(t, acme)
	widget := f.product(t, acme, "sprocket", "3", "1")

	updated, err := f.products.Update(f.ctx, acme, widget.ID, ProductInput{
		Name:          "sprocket",
		Description:   "a better sprocket",
		Category:      "hardware",
		Status:        model.ProductOutOfStock,
		PurchasePrice: decimal.NewFromInt(1),
		SellingPrice:  decimal.RequireFromString("3.50"),
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !updated.SellingPrice.Equal(decimal.RequireFromString("3.5")) || updated.Status != model.ProductOutOfStock {
		t.Errorf("Update() = %s %s", updated.SellingPrice, updated.Status)
	}

	outOfStock, err := f.products.List(f.ctx, acme, ProductFilter{Status: model.ProductOutOfStock})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(outOfStock) != 1 || outOfStock[0].ID != widget.ID {
		t.Errorf("out of stock filter = %v", outOfStock)
	}

	assertNotFound(t, f.products.Delete(f.ctx, globex, widget.ID))
	if err := f.products.Delete(f.ctx, acme, widget.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	_, err = f.products.Get(f.ctx, acme, widget.ID)
	assertNotFound(t, err)
}
