package store

import (
	"context"
	"testing"
)

func openStores(t *testing.T) map[string]Store {
	t.Helper()
	sqlite, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	return map[string]Store{
		"memory": NewMemory(),
		"sqlite": sqlite,
	}
}

func TestRoundTrip(t *testing.T) {
	for name, st := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := st.Put(ctx, "s1", "k1", []byte(`"v1"`)); err != nil {
				t.Fatalf("put: %v", err)
			}
			raw, err := st.Get(ctx, "s1", "k1")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if string(raw) != `"v1"` {
				t.Errorf("value = %s, want \"v1\"", raw)
			}

			// overwrite
			if err := st.Put(ctx, "s1", "k1", []byte(`"v2"`)); err != nil {
				t.Fatalf("overwrite: %v", err)
			}
			raw, err = st.Get(ctx, "s1", "k1")
			if err != nil {
				t.Fatalf("get after overwrite: %v", err)
			}
			if string(raw) != `"v2"` {
				t.Errorf("value = %s, want \"v2\"", raw)
			}
		})
	}
}

func TestScopesAreIsolated(t *testing.T) {
	for name, st := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := st.Put(ctx, "s1", "k1", []byte("a")); err != nil {
				t.Fatalf("put: %v", err)
			}
			if _, err := st.Get(ctx, "s2", "k1"); err != ErrNotFound {
				t.Errorf("cross-scope get = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestDeleteScope(t *testing.T) {
	for name, st := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for _, key := range []string{"k1", "k2"} {
				if err := st.Put(ctx, "s1", key, []byte("x")); err != nil {
					t.Fatalf("put %s: %v", key, err)
				}
			}
			if err := st.Put(ctx, "s2", "k1", []byte("y")); err != nil {
				t.Fatalf("put other scope: %v", err)
			}
			if err := st.DeleteScope(ctx, "s1"); err != nil {
				t.Fatalf("delete scope: %v", err)
			}
			if _, err := st.Get(ctx, "s1", "k1"); err != ErrNotFound {
				t.Errorf("expected s1 erased, got %v", err)
			}
			if _, err := st.Get(ctx, "s2", "k1"); err != nil {
				t.Errorf("other scope should survive, got %v", err)
			}
		})
	}
}

func TestReadJSONMissingReportsAbsent(t *testing.T) {
	var out string
	ok, err := ReadJSON(context.Background(), NewMemory(), "s1", "k1", &out)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if ok {
		t.Error("missing entry should report absent")
	}
}

func TestReadJSONCorruptErasesEntry(t *testing.T) {
	ctx := context.Background()
	st := NewMemory()
	if err := st.Put(ctx, "s1", "k1", []byte("{broken")); err != nil {
		t.Fatalf("put: %v", err)
	}
	var out map[string]string
	ok, err := ReadJSON(ctx, st, "s1", "k1", &out)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if ok {
		t.Error("corrupt entry should report absent")
	}
	if _, err := st.Get(ctx, "s1", "k1"); err != ErrNotFound {
		t.Errorf("corrupt entry should be erased, got %v", err)
	}
}

func TestWriteJSONRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := NewMemory()
	in := map[string]int{"qty": 3}
	if err := WriteJSON(ctx, st, "s1", KeyCartItems, in); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	var out map[string]int
	ok, err := ReadJSON(ctx, st, "s1", KeyCartItems, &out)
	if err != nil || !ok {
		t.Fatalf("ReadJSON: ok=%v err=%v", ok, err)
	}
	if out["qty"] != 3 {
		t.Errorf("qty = %d, want 3", out["qty"])
	}
}
