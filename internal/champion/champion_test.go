package champion

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"draftsage/internal/fault"
)

func TestLoadFailures(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "nope.json"))
		if !fault.IsConfiguration(err) {
			t.Errorf("Expected ConfigurationError, got %v", err)
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
			t.Fatal(err)
		}
		_, err := Load(path)
		if !fault.IsConfiguration(err) {
			t.Errorf("Expected ConfigurationError, got %v", err)
		}
	})

	t.Run("implausibly small roster", func(t *testing.T) {
		path := filepath.Join(dir, "small.json")
		doc := `{"version":"1","champions":[{"id":1,"name":"A"},{"id":2,"name":"B"}]}`
		if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
			t.Fatal(err)
		}
		_, err := Load(path)
		if !fault.IsConfiguration(err) {
			t.Errorf("Expected ConfigurationError for truncated roster, got %v", err)
		}
	})
}

func TestLoadValidDocument(t *testing.T) {
	champions := `[`
	for i := 1; i <= 60; i++ {
		if i > 1 {
			champions += ","
		}
		champions += fmt.Sprintf(`{"id":%d,"name":"Champ%d","damage":"AD","engage":1,"roles":["mid"]}`, i*3, i)
	}
	champions += `]`

	path := filepath.Join(t.TempDir(), "champions.json")
	if err := os.WriteFile(path, []byte(`{"version":"15.10","champions":`+champions+`}`), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if m.Count() != 60 {
		t.Errorf("Count = %d, want 60", m.Count())
	}
	if m.Name(3) != "Champ1" {
		t.Errorf("Name(3) = %q, want Champ1", m.Name(3))
	}
}

func TestNewMapRejectsBadIDs(t *testing.T) {
	if _, err := NewMap([]Info{{ID: 0, Name: "Zero"}}); err == nil {
		t.Error("Expected error for non-positive id")
	}
	if _, err := NewMap([]Info{{ID: 5, Name: "A"}, {ID: 5, Name: "B"}}); err == nil {
		t.Error("Expected error for duplicate id")
	}
}

func TestIndexBijection(t *testing.T) {
	// Input out of id order; dense indices must come out ascending by id.
	m, err := NewMap([]Info{
		{ID: 30, Name: "C"},
		{ID: 10, Name: "A"},
		{ID: 20, Name: "B"},
	})
	if err != nil {
		t.Fatalf("NewMap failed: %v", err)
	}

	wantOrder := []int{10, 20, 30}
	for idx, id := range wantOrder {
		gotID, ok := m.IDAt(idx)
		if !ok || gotID != id {
			t.Errorf("IDAt(%d) = (%d, %v), want (%d, true)", idx, gotID, ok, id)
		}
		gotIdx, ok := m.Index(id)
		if !ok || gotIdx != idx {
			t.Errorf("Index(%d) = (%d, %v), want (%d, true)", id, gotIdx, ok, idx)
		}
	}

	if _, ok := m.Index(999); ok {
		t.Error("Index should report unknown ids")
	}
	if _, ok := m.IDAt(-1); ok {
		t.Error("IDAt should reject negative indices")
	}
	if _, ok := m.IDAt(3); ok {
		t.Error("IDAt should reject out-of-range indices")
	}
	if m.Get(999) != nil {
		t.Error("Get should return nil for unknown ids")
	}
}

func TestDamageWeights(t *testing.T) {
	tests := []struct {
		damage string
		ap, ad float64
	}{
		{"AP", 1.0, 0.0},
		{"AD", 0.0, 1.0},
		{"AP/AD", 0.5, 0.5},
		{"Tank", 0.0, 0.0},
		{"", 0.0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.damage, func(t *testing.T) {
			c := Info{Damage: tt.damage}
			if got := c.APWeight(); got != tt.ap {
				t.Errorf("APWeight(%q) = %v, want %v", tt.damage, got, tt.ap)
			}
			if got := c.ADWeight(); got != tt.ad {
				t.Errorf("ADWeight(%q) = %v, want %v", tt.damage, got, tt.ad)
			}
		})
	}
}
