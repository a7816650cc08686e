package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/law-makers/plexport/pkg/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "nested", FileName))
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := newTestStore(t).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cfg.Columns()) != len(models.AllFields) {
		t.Errorf("Expected all columns enabled, got %v", cfg.Columns())
	}
}

func TestSetAndLoad(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Set(map[string]bool{"cover": false, "Explicit": false}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	cfg, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Enabled(models.FieldCoverArt) || cfg.Enabled(models.FieldExplicit) {
		t.Error("Expected cover and explicit to be disabled")
	}
	if !cfg.Enabled(models.FieldTitle) {
		t.Error("Expected title to stay enabled")
	}
}

func TestSet_UnknownKey(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Set(map[string]bool{"genre": true}); err == nil {
		t.Error("Expected error for unknown key")
	}
	if _, err := os.Stat(store.Path()); !os.IsNotExist(err) {
		t.Error("Expected nothing to be written on error")
	}
}

func TestLoad_PartialFileDefaultsMissingKeysToTrue(t *testing.T) {
	store := newTestStore(t)
	if err := os.MkdirAll(filepath.Dir(store.Path()), 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(store.Path(), []byte(`{"album": false, "mood": false}`), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Enabled(models.FieldAlbum) {
		t.Error("Expected album disabled")
	}
	if len(cfg.Columns()) != len(models.AllFields)-1 {
		t.Errorf("Expected every other column enabled, got %v", cfg.Columns())
	}
}

func TestLoad_CorruptFile(t *testing.T) {
	store := newTestStore(t)
	_ = os.MkdirAll(filepath.Dir(store.Path()), 0700)
	_ = os.WriteFile(store.Path(), []byte(`{not json`), 0600)

	if _, err := store.Load(); err == nil {
		t.Error("Expected parse error")
	}
}

func TestReset(t *testing.T) {
	store := newTestStore(t)
	if err := store.Save(models.NewRunConfiguration(models.FieldTitle)); err != nil {
		t.Fatal(err)
	}
	if err := store.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if err := store.Reset(); err != nil {
		t.Errorf("Expected second reset to succeed, got %v", err)
	}

	cfg, _ := store.Load()
	if len(cfg.Columns()) != len(models.AllFields) {
		t.Error("Expected defaults after reset")
	}
}

func TestParseAssignments(t *testing.T) {
	tests := []struct {
		args    []string
		want    map[string]bool
		wantErr bool
	}{
		{[]string{"cover=false", "URL=on"}, map[string]bool{"cover": false, "url": true}, false},
		{[]string{"title"}, map[string]bool{"title": true}, false},
		{[]string{"date=0"}, map[string]bool{"date": false}, false},
		{[]string{"album=maybe"}, nil, true},
	}

	for _, tt := range tests {
		got, err := ParseAssignments(tt.args)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseAssignments(%v) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			continue
		}
		for k, v := range tt.want {
			if got[k] != v {
				t.Errorf("ParseAssignments(%v)[%s] = %v, want %v", tt.args, k, got[k], v)
			}
		}
	}
}

func TestDescribe(t *testing.T) {
	got := Describe(models.NewRunConfiguration(models.FieldTitle))
	want := "album=false artist=false cover=false date=false duration=false explicit=false index=false title=true url=false"
	if got != want {
		t.Errorf("Describe() = %q, want %q", got, want)
	}
}

func TestParseFieldList(t *testing.T) {
	cfg, err := ParseFieldList("index, Title,url")
	if err != nil {
		t.Fatalf("ParseFieldList failed: %v", err)
	}
	cols := cfg.Columns()
	if len(cols) != 3 || cols[0] != models.FieldIndex || cols[2] != models.FieldURL {
		t.Errorf("Unexpected columns: %v", cols)
	}

	all, err := ParseFieldList("all")
	if err != nil || len(all.Columns()) != len(models.AllFields) {
		t.Errorf("Expected all columns, got %v (%v)", all.Columns(), err)
	}

	for _, bad := range []string{"", " , ", "title,genre"} {
		if _, err := ParseFieldList(bad); err == nil {
			t.Errorf("Expected error for %q", bad)
		}
	}
}
