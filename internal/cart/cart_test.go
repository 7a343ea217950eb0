package cart

import (
	"testing"

	"github.com/foamwash/foamwash-backend/internal/catalog"
	"github.com/foamwash/foamwash-backend/pkg/enums"
)

var testSurcharges = map[string]int64{
	"Mediano": 30000,
	"Grande":  60000,
}

func surchargeFor(size string) int64 {
	return testSurcharges[size]
}

func sofaService() catalog.Service {
	return catalog.Service{
		ID:        "lavado-muebles",
		Name:      "Lavado de muebles",
		BasePrice: 90000,
		Sizes:     []string{"Pequeño", "Mediano", "Grande"},
		WashTypes: []string{"Básico", "Profundo"},
	}
}

func mattressService() catalog.Service {
	return catalog.Service{
		ID:        "lavado-colchones",
		Name:      "Lavado de colchones",
		BasePrice: 90000,
		Sizes:     []string{"Sencillo", "Queen", "King"},
		WashTypes: []string{"Básico", "Profundo"},
	}
}

func TestAddIncrementsExistingLine(t *testing.T) {
	t.Parallel()

	c := New()
	c.Add(sofaService())
	c.Add(sofaService())

	if c.Len() != 1 {
		t.Fatalf("expected one line, got %d", c.Len())
	}
	item, ok := c.Item("lavado-muebles")
	if !ok {
		t.Fatal("expected line for lavado-muebles")
	}
	if item.Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", item.Quantity)
	}
}

func TestSetQuantityZeroRemovesLine(t *testing.T) {
	t.Parallel()

	c := New()
	c.Add(sofaService())
	c.SetQuantity("lavado-muebles", 0)

	if !c.IsEmpty() {
		t.Fatalf("expected empty cart, got %d lines", c.Len())
	}
}

func TestSetQuantityUnknownServiceIsNoOp(t *testing.T) {
	t.Parallel()

	c := New()
	c.Add(sofaService())
	c.SetQuantity("no-such-service", 5)

	if c.Len() != 1 {
		t.Fatalf("expected cart unchanged, got %d lines", c.Len())
	}
	if item, _ := c.Item("lavado-muebles"); item.Quantity != 1 {
		t.Fatalf("expected quantity 1, got %d", item.Quantity)
	}
}

func TestSetDetailUnknownServiceIsNoOp(t *testing.T) {
	t.Parallel()

	c := New()
	c.Add(sofaService())
	c.SetDetail("no-such-service", enums.DetailFieldSize, "Grande")

	item, _ := c.Item("lavado-muebles")
	if item.Size != "" {
		t.Fatalf("expected untouched size, got %q", item.Size)
	}
}

func TestTotalAppliesSizeSurchargePerUnit(t *testing.T) {
	t.Parallel()

	c := New()
	c.Add(sofaService())
	c.SetQuantity("lavado-muebles", 2)
	c.SetDetail("lavado-muebles", enums.DetailFieldSize, "Mediano")
	c.SetDetail("lavado-muebles", enums.DetailFieldWashType, "Profundo")

	// (90000 + 30000) * 2
	if total := c.Total(surchargeFor); total != 240000 {
		t.Fatalf("expected total 240000, got %d", total)
	}
}

func TestTotalSizesWithoutSurchargeAddNothing(t *testing.T) {
	t.Parallel()

	c := New()
	c.Add(mattressService())
	c.SetDetail("lavado-colchones", enums.DetailFieldSize, "King")
	c.SetDetail("lavado-colchones", enums.DetailFieldWashType, "Básico")

	if total := c.Total(surchargeFor); total != 90000 {
		t.Fatalf("expected total 90000 for King size, got %d", total)
	}
}

func TestTotalSumsAcrossLines(t *testing.T) {
	t.Parallel()

	c := New()
	c.Add(sofaService())
	c.Add(mattressService())
	c.SetDetail("lavado-muebles", enums.DetailFieldSize, "Grande")
	c.SetQuantity("lavado-colchones", 3)

	// (90000 + 60000) + 90000*3
	if total := c.Total(surchargeFor); total != 420000 {
		t.Fatalf("expected total 420000, got %d", total)
	}
}

func TestItemCountSumsQuantities(t *testing.T) {
	t.Parallel()

	c := New()
	c.Add(sofaService())
	c.SetQuantity("lavado-muebles", 2)
	c.Add(mattressService())

	if count := c.ItemCount(); count != 3 {
		t.Fatalf("expected item count 3, got %d", count)
	}
	if c.Len() != 2 {
		t.Fatalf("expected two lines, got %d", c.Len())
	}
}

func TestClearEmptiesCart(t *testing.T) {
	t.Parallel()

	c := New()
	c.Add(sofaService())
	c.Add(mattressService())
	c.Clear()

	if !c.IsEmpty() {
		t.Fatal("expected cart to be empty after clear")
	}
	if c.Total(surchargeFor) != 0 {
		t.Fatal("expected zero total after clear")
	}
}

func TestIsCompleteRequiresBothDetailsOnEveryLine(t *testing.T) {
	t.Parallel()

	c := New()
	if c.IsComplete() {
		t.Fatal("empty cart must not be complete")
	}

	c.Add(sofaService())
	c.SetDetail("lavado-muebles", enums.DetailFieldSize, "Mediano")
	if c.IsComplete() {
		t.Fatal("line missing wash type must not be complete")
	}

	c.SetDetail("lavado-muebles", enums.DetailFieldWashType, "Básico")
	if !c.IsComplete() {
		t.Fatal("expected complete cart")
	}

	c.Add(mattressService())
	if c.IsComplete() {
		t.Fatal("new undetailed line must break completeness")
	}
	missing := c.IncompleteServiceIDs()
	if len(missing) != 1 || missing[0] != "lavado-colchones" {
		t.Fatalf("expected lavado-colchones to be incomplete, got %v", missing)
	}
}

func TestRemoveDropsOnlyThatLine(t *testing.T) {
	t.Parallel()

	c := New()
	c.Add(sofaService())
	c.Add(mattressService())
	c.Remove("lavado-muebles")

	if c.Len() != 1 {
		t.Fatalf("expected one line, got %d", c.Len())
	}
	if _, ok := c.Item("lavado-colchones"); !ok {
		t.Fatal("expected lavado-colchones to survive")
	}
}
