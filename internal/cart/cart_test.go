package cart

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"craftfield.org/atelier-web/internal/platform/faults"
	"craftfield.org/atelier-web/internal/store"
)

const testScope = "scope-1"

func newTestManager(t *testing.T) (*Manager, store.Store) {
	t.Helper()
	st := store.NewMemory()
	m, err := NewManager(context.Background(), st, testScope)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return m, st
}

func line(id string, price float64, qty, stock int) LineItem {
	return LineItem{
		ProductID:    id,
		Name:         "item " + id,
		Price:        decimal.NewFromFloat(price),
		Quantity:     qty,
		CountInStock: stock,
	}
}

func TestTotalsAcrossLines(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	if err := m.AddItem(ctx, line("a", 10, 2, 5)); err != nil {
		t.Fatalf("add a: %v", err)
	}
	if err := m.AddItem(ctx, line("b", 5.50, 3, 5)); err != nil {
		t.Fatalf("add b: %v", err)
	}

	if got, want := m.TotalPrice().StringFixed(2), "36.50"; got != want {
		t.Errorf("TotalPrice = %s, want %s", got, want)
	}
	if got := m.TotalItemCount(); got != 5 {
		t.Errorf("TotalItemCount = %d, want 5", got)
	}
}

func TestAddMergesExistingLine(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	if err := m.AddItem(ctx, line("a", 10, 2, 5)); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if err := m.AddItem(ctx, line("a", 10, 3, 5)); err != nil {
		t.Fatalf("second add: %v", err)
	}
	items := m.Items()
	if len(items) != 1 {
		t.Fatalf("expected one line, got %d", len(items))
	}
	if items[0].Quantity != 5 {
		t.Errorf("Quantity = %d, want 5", items[0].Quantity)
	}
}

func TestAddPastCeilingRejectsWhole(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	if err := m.AddItem(ctx, line("a", 10, 3, 4)); err != nil {
		t.Fatalf("first add: %v", err)
	}
	err := m.AddItem(ctx, line("a", 10, 2, 4))
	if faults.KindOf(err) != faults.KindCapacity {
		t.Fatalf("expected capacity fault, got %v", err)
	}
	// the cart must be unchanged: no partial top-up to the ceiling
	if got := m.Items()[0].Quantity; got != 3 {
		t.Errorf("Quantity = %d, want 3", got)
	}
}

func TestAddNewItemPastCeilingRejected(t *testing.T) {
	m, _ := newTestManager(t)
	err := m.AddItem(context.Background(), line("a", 10, 6, 5))
	if faults.KindOf(err) != faults.KindCapacity {
		t.Fatalf("expected capacity fault, got %v", err)
	}
	if !m.IsEmpty() {
		t.Error("cart should stay empty after a rejected add")
	}
}

func TestUpdateClampsAndReports(t *testing.T) {
	m, st := newTestManager(t)
	ctx := context.Background()

	if err := m.AddItem(ctx, line("a", 10, 1, 4)); err != nil {
		t.Fatalf("add: %v", err)
	}
	err := m.UpdateQuantity(ctx, "a", 9)
	if faults.KindOf(err) != faults.KindCapacity {
		t.Fatalf("expected capacity fault, got %v", err)
	}
	if got := m.Items()[0].Quantity; got != 4 {
		t.Errorf("Quantity = %d, want clamp to 4", got)
	}

	// the clamped value must be what was persisted
	reloaded, rerr := NewManager(ctx, st, testScope)
	if rerr != nil {
		t.Fatalf("reload: %v", rerr)
	}
	if got := reloaded.Items()[0].Quantity; got != 4 {
		t.Errorf("persisted Quantity = %d, want 4", got)
	}
}

func TestUpdateFloorsAtOne(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	if err := m.AddItem(ctx, line("a", 10, 2, 4)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := m.UpdateQuantity(ctx, "a", 0); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := m.Items()[0].Quantity; got != 1 {
		t.Errorf("Quantity = %d, want 1", got)
	}
}

func TestUpdateUnknownProductNoOp(t *testing.T) {
	m, _ := newTestManager(t)
	if err := m.UpdateQuantity(context.Background(), "ghost", 3); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
}

func TestRemoveAbsentNoOp(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()
	if err := m.AddItem(ctx, line("a", 10, 1, 4)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := m.RemoveItem(ctx, "ghost"); err != nil {
		t.Fatalf("remove absent: %v", err)
	}
	if len(m.Items()) != 1 {
		t.Error("existing line should survive an absent remove")
	}
}

func TestClearEmptiesCart(t *testing.T) {
	m, st := newTestManager(t)
	ctx := context.Background()
	if err := m.AddItem(ctx, line("a", 10, 1, 4)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := m.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if !m.IsEmpty() {
		t.Error("cart should be empty after Clear")
	}
	if _, err := st.Get(ctx, testScope, store.KeyCartItems); err != store.ErrNotFound {
		t.Errorf("persisted entry should be gone, got %v", err)
	}
}

func TestCorruptPersistedCartTreatedEmpty(t *testing.T) {
	st := store.NewMemory()
	ctx := context.Background()
	if err := st.Put(ctx, testScope, store.KeyCartItems, []byte("{not json")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	m, err := NewManager(ctx, st, testScope)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if !m.IsEmpty() {
		t.Error("corrupt cart should restore as empty")
	}
	if _, err := st.Get(ctx, testScope, store.KeyCartItems); err != store.ErrNotFound {
		t.Errorf("corrupt entry should be erased, got %v", err)
	}
}

func TestRestoreSanitizesQuantities(t *testing.T) {
	st := store.NewMemory()
	ctx := context.Background()
	seed := []LineItem{
		{ProductID: "a", Price: decimal.NewFromInt(10), Quantity: 9, CountInStock: 3},
		{ProductID: "", Price: decimal.NewFromInt(5), Quantity: 1, CountInStock: 3},
	}
	if err := store.WriteJSON(ctx, st, testScope, store.KeyCartItems, seed); err != nil {
		t.Fatalf("seed: %v", err)
	}
	m, err := NewManager(ctx, st, testScope)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	items := m.Items()
	if len(items) != 1 {
		t.Fatalf("expected the id-less line dropped, got %d lines", len(items))
	}
	if items[0].Quantity != 3 {
		t.Errorf("Quantity = %d, want re-clamped 3", items[0].Quantity)
	}
}
