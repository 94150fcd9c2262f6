package storage

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"growthcheck/internal/growth"
	"growthcheck/internal/models"
)

func TestStoreMissingFileIsEmpty(t *testing.T) {
	store, err := NewStore[models.Child](t.TempDir(), ChildrenStore)
	if err != nil {
		t.Fatalf("NewStore() error: %v", err)
	}

	list, err := store.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("List() = %d records, want 0", len(list))
	}
}

func TestStoreCorruptFileIsEmpty(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ChildrenStore+".json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	store, err := NewStore[models.Child](dir, ChildrenStore)
	if err != nil {
		t.Fatalf("NewStore() error: %v", err)
	}

	list, err := store.List()
	if err != nil || len(list) != 0 {
		t.Errorf("List() = %d records, %v; want empty", len(list), err)
	}

	// The next write recovers the file
	if err := store.Save(models.Child{ID: "c1", Name: "Ada"}); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if list, _ := store.List(); len(list) != 1 {
		t.Errorf("List() after save = %d records, want 1", len(list))
	}
}

func TestStoreSaveUpserts(t *testing.T) {
	store, err := NewStore[models.Child](t.TempDir(), ChildrenStore)
	if err != nil {
		t.Fatalf("NewStore() error: %v", err)
	}

	for _, c := range []models.Child{
		{ID: "c1", Name: "Ada"},
		{ID: "c2", Name: "Bo"},
		{ID: "c1", Name: "Ada L"},
	} {
		if err := store.Save(c); err != nil {
			t.Fatalf("Save(%s) error: %v", c.ID, err)
		}
	}

	list, _ := store.List()
	if len(list) != 2 {
		t.Fatalf("List() = %d records, want 2", len(list))
	}
	if list[0].ID != "c1" || list[0].Name != "Ada L" {
		t.Errorf("first record = %+v, want replaced c1 in place", list[0])
	}

	got, err := store.Get("c2")
	if err != nil || got == nil || got.Name != "Bo" {
		t.Errorf("Get(c2) = %+v, %v", got, err)
	}
	missing, err := store.Get("nope")
	if err != nil || missing != nil {
		t.Errorf("Get(nope) = %+v, %v; want nil, nil", missing, err)
	}
}

func TestStoreDelete(t *testing.T) {
	store, _ := NewStore[models.Child](t.TempDir(), ChildrenStore)
	_ = store.Save(models.Child{ID: "c1"})
	_ = store.Save(models.Child{ID: "c2"})

	if err := store.Delete("c1"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if err := store.Delete("unknown"); err != nil {
		t.Errorf("Delete(unknown) error: %v", err)
	}

	list, _ := store.List()
	if len(list) != 1 || list[0].ID != "c2" {
		t.Errorf("List() = %+v, want only c2", list)
	}
}

func TestStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store, _ := NewStore[models.Child](dir, ChildrenStore)
	for i := 0; i < 3; i++ {
		_ = store.Save(models.Child{ID: "c1"})
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != ChildrenStore+".json" {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory contains %v, want only %s.json", names, ChildrenStore)
	}
}

func TestStoreConcurrentSaves(t *testing.T) {
	store, _ := NewStore[models.Child](t.TempDir(), ChildrenStore)

	var wg sync.WaitGroup
	ids := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if err := store.Save(models.Child{ID: id}); err != nil {
				t.Errorf("Save(%s) error: %v", id, err)
			}
		}(id)
	}
	wg.Wait()

	list, _ := store.List()
	if len(list) != len(ids) {
		t.Errorf("List() = %d records, want %d", len(list), len(ids))
	}
}

func TestMeasurementStore(t *testing.T) {
	store, err := NewMeasurementStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewMeasurementStore() error: %v", err)
	}

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []models.GrowthMeasurement{
		{ID: "m3", ChildID: "a", Date: base.AddDate(0, 2, 0), Weight: models.Float64(6.1)},
		{ID: "m1", ChildID: "a", Date: base, Weight: models.Float64(4.2)},
		{ID: "m2", ChildID: "b", Date: base.AddDate(0, 1, 0), Height: models.Float64(55)},
	}
	for i := range records {
		if err := store.Save(&records[i]); err != nil {
			t.Fatalf("Save() error: %v", err)
		}
	}

	tests := []struct {
		name    string
		childID string
		want    []string
	}{
		{"single child ordered by date", "a", []string{"m1", "m3"}},
		{"other child", "b", []string{"m2"}},
		{"unknown child", "z", nil},
		{"all records", "", []string{"m1", "m2", "m3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := store.List(tt.childID)
			if err != nil {
				t.Fatalf("List() error: %v", err)
			}
			if len(list) != len(tt.want) {
				t.Fatalf("List() = %d records, want %d", len(list), len(tt.want))
			}
			for i, id := range tt.want {
				if list[i].ID != id {
					t.Errorf("List()[%d] = %s, want %s", i, list[i].ID, id)
				}
			}
		})
	}

	got, _ := store.Get("m2")
	if got == nil || got.Height == nil || *got.Height != 55 || got.Weight != nil {
		t.Errorf("Get(m2) = %+v, want height only", got)
	}

	if err := store.DeleteByChild("a"); err != nil {
		t.Fatalf("DeleteByChild() error: %v", err)
	}
	if list, _ := store.List(""); len(list) != 1 || list[0].ID != "m2" {
		t.Errorf("List() after DeleteByChild = %+v", list)
	}
}

func TestChildStore(t *testing.T) {
	store, err := NewChildStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewChildStore() error: %v", err)
	}

	for _, c := range []models.Child{
		{ID: "1", CaregiverID: 7, Name: "Zed", Sex: growth.Male},
		{ID: "2", CaregiverID: 8, Name: "Other", Sex: growth.Female},
		{ID: "3", CaregiverID: 7, Name: "Amy", Sex: growth.Female},
	} {
		c := c
		if err := store.Save(&c); err != nil {
			t.Fatalf("Save() error: %v", err)
		}
	}

	list, err := store.ListByCaregiver(7)
	if err != nil {
		t.Fatalf("ListByCaregiver() error: %v", err)
	}
	if len(list) != 2 || list[0].Name != "Amy" || list[1].Name != "Zed" {
		t.Errorf("ListByCaregiver(7) = %+v", list)
	}

	if err := store.Delete("3"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	all, _ := store.ListAll()
	if len(all) != 2 {
		t.Errorf("ListAll() = %d, want 2", len(all))
	}
}
