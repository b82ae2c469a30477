package database

import (
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
)

func setupTestStore(t *testing.T) *LocalStore {
	t.Helper()

	db, err := Connect(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := RunMigrations(db); err != nil {
		t.Fatalf("RunMigrations() error = %v", err)
	}
	return NewLocalStore(db)
}

func TestLocalStoreSetAndGet(t *testing.T) {
	store := setupTestStore(t)

	if _, ok, err := store.GetItem(KeyUserID); err != nil || ok {
		t.Fatalf("GetItem() on empty store = %v, %v", ok, err)
	}

	if err := store.SetItem(KeyUserID, "u1"); err != nil {
		t.Fatalf("SetItem() error = %v", err)
	}
	if err := store.SetItem(KeyUserID, "u2"); err != nil {
		t.Fatalf("SetItem() error = %v", err)
	}

	value, ok, err := store.GetItem(KeyUserID)
	if err != nil || !ok || value != "u2" {
		t.Errorf("GetItem() = %q, %v, %v; want u2", value, ok, err)
	}
}

func TestLocalStoreSetItemsAndRemove(t *testing.T) {
	store := setupTestStore(t)

	err := store.SetItems(map[string]string{
		KeyLoggedIn:    "true",
		KeyUserID:      "u1",
		KeyProfileName: "Neo",
	})
	if err != nil {
		t.Fatalf("SetItems() error = %v", err)
	}

	items, err := store.GetItems(KeyLoggedIn, KeyUserID, KeyProfileName, KeyProfileBio)
	if err != nil {
		t.Fatalf("GetItems() error = %v", err)
	}
	if len(items) != 3 || items[KeyProfileName] != "Neo" {
		t.Errorf("GetItems() = %v", items)
	}
	if _, ok := items[KeyProfileBio]; ok {
		t.Error("absent key reported as present")
	}

	if err := store.RemoveItems(KeyLoggedIn, KeyUserID, KeyProfileBio); err != nil {
		t.Fatalf("RemoveItems() error = %v", err)
	}
	items, err = store.GetItems(KeyLoggedIn, KeyUserID, KeyProfileName)
	if err != nil {
		t.Fatalf("GetItems() error = %v", err)
	}
	if len(items) != 1 || items[KeyProfileName] != "Neo" {
		t.Errorf("after remove GetItems() = %v", items)
	}
}

func TestRunMigrationsIsIdempotent(t *testing.T) {
	db, err := Connect(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer db.Close()

	for i := 0; i < 2; i++ {
		if err := RunMigrations(db); err != nil {
			t.Fatalf("RunMigrations() run %d error = %v", i+1, err)
		}
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if count != 1 {
		t.Errorf("schema_migrations has %d rows, want 1", count)
	}
}

func TestLoadMigrationsOrder(t *testing.T) {
	fsys := fstest.MapFS{
		"m/010_later.sql":  {Data: []byte("SELECT 10;")},
		"m/002_second.sql": {Data: []byte("SELECT 2;")},
		"m/README.md":      {Data: []byte("ignored")},
		"m/noversion.sql":  {Data: []byte("ignored")},
	}

	migrations, err := loadMigrations(fsys, "m")
	if err != nil {
		t.Fatalf("loadMigrations() error = %v", err)
	}
	if len(migrations) != 2 {
		t.Fatalf("got %d migrations, want 2", len(migrations))
	}
	if migrations[0].Version != 2 || migrations[0].Name != "second" || migrations[1].Version != 10 {
		t.Errorf("unexpected order %+v", migrations)
	}
}

func TestMigrateStopsAtFailingScript(t *testing.T) {
	db, err := Connect(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer db.Close()

	fsys := fstest.MapFS{
		"m/001_notes.sql":  {Data: []byte("CREATE TABLE notes (body TEXT);")},
		"m/002_broken.sql": {Data: []byte("CREATE TABLE oops (;")},
	}

	err = migrate(db, fsys, "m")
	if err == nil || !strings.Contains(err.Error(), "002_broken") {
		t.Fatalf("migrate() error = %v", err)
	}

	var versions []int
	rows, err := db.Query("SELECT version FROM schema_migrations ORDER BY version")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	defer rows.Close()
	for rows.Next() {
		var v int
		rows.Scan(&v)
		versions = append(versions, v)
	}
	if len(versions) != 1 || versions[0] != 1 {
		t.Errorf("recorded versions = %v, want [1]", versions)
	}
}

func TestEncodeStrings(t *testing.T) {
	if got := EncodeStrings(nil); got != "[]" {
		t.Errorf("EncodeStrings(nil) = %q", got)
	}
	if got := EncodeStrings([]string{"a", "b c"}); got != `["a","b c"]` {
		t.Errorf("EncodeStrings() = %q", got)
	}
}
