package store

import (
	"path/filepath"
	"testing"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewDB(":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func TestLastAccessUnknownIP(t *testing.T) {
	db := setupTestDB(t)

	_, seen, err := db.LastAccess("203.0.113.7")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if seen {
		t.Error("Expected unknown IP to be unseen")
	}
}

func TestRecordAccessAndLastAccess(t *testing.T) {
	db := setupTestDB(t)
	ip := "203.0.113.7"

	prev, err := db.RecordAccess(ip, "London", 1000)
	if err != nil {
		t.Fatalf("RecordAccess failed: %v", err)
	}
	if len(prev) != 0 {
		t.Errorf("Expected no earlier cities, got %v", prev)
	}

	ts, seen, err := db.LastAccess(ip)
	if err != nil {
		t.Fatalf("LastAccess failed: %v", err)
	}
	if !seen || ts != 1000 {
		t.Errorf("LastAccess = (%d, %v), want (1000, true)", ts, seen)
	}

	// Second access updates the timestamp and reports the earlier city.
	prev, err = db.RecordAccess(ip, "Paris", 2000)
	if err != nil {
		t.Fatalf("RecordAccess failed: %v", err)
	}
	if len(prev) != 1 || prev[0] != "London" {
		t.Errorf("Expected earlier cities [London], got %v", prev)
	}

	ts, _, err = db.LastAccess(ip)
	if err != nil {
		t.Fatalf("LastAccess failed: %v", err)
	}
	if ts != 2000 {
		t.Errorf("LastAccess = %d, want 2000", ts)
	}
}

// TestRecordAccessOrdering verifies earlier cities come back most recent
// first and exclude the city being recorded.
func TestRecordAccessOrdering(t *testing.T) {
	db := setupTestDB(t)
	ip := "203.0.113.7"

	cities := []string{"London", "Paris", "Berlin"}
	for i, city := range cities {
		if _, err := db.RecordAccess(ip, city, int64(1000+i)); err != nil {
			t.Fatalf("RecordAccess(%q) failed: %v", city, err)
		}
	}

	prev, err := db.RecordAccess(ip, "Madrid", 2000)
	if err != nil {
		t.Fatalf("RecordAccess failed: %v", err)
	}

	want := []string{"Berlin", "Paris", "London"}
	if len(prev) != len(want) {
		t.Fatalf("Expected %d cities, got %v", len(want), prev)
	}
	for i := range want {
		if prev[i] != want[i] {
			t.Errorf("prev[%d] = %q, want %q", i, prev[i], want[i])
		}
	}
}

func TestRecordAccessSeparateIPs(t *testing.T) {
	db := setupTestDB(t)

	if _, err := db.RecordAccess("203.0.113.1", "London", 1000); err != nil {
		t.Fatal(err)
	}
	prev, err := db.RecordAccess("203.0.113.2", "Paris", 1001)
	if err != nil {
		t.Fatal(err)
	}
	if len(prev) != 0 {
		t.Errorf("Histories should not leak across IPs, got %v", prev)
	}
}

func TestPruneBefore(t *testing.T) {
	db := setupTestDB(t)
	ip := "203.0.113.7"

	db.RecordAccess(ip, "London", 1000)
	db.RecordAccess(ip, "Paris", 2000)
	db.RecordAccess(ip, "Berlin", 3000)

	n, err := db.PruneBefore(2500)
	if err != nil {
		t.Fatalf("PruneBefore failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Pruned %d rows, want 2", n)
	}

	prev, err := db.RecordAccess(ip, "Madrid", 4000)
	if err != nil {
		t.Fatal(err)
	}
	if len(prev) != 1 || prev[0] != "Berlin" {
		t.Errorf("Expected [Berlin] after pruning, got %v", prev)
	}

	// Last access survives pruning.
	ts, seen, err := db.LastAccess(ip)
	if err != nil || !seen || ts != 4000 {
		t.Errorf("LastAccess = (%d, %v, %v), want (4000, true, nil)", ts, seen, err)
	}
}

func TestNilDB(t *testing.T) {
	var db *DB

	if _, _, err := db.LastAccess("203.0.113.7"); err == nil {
		t.Error("Expected error for nil database")
	}
	if _, err := db.RecordAccess("203.0.113.7", "London", 1000); err == nil {
		t.Error("Expected error for nil database")
	}
	if _, err := db.PruneBefore(0); err == nil {
		t.Error("Expected error for nil database")
	}
}

func TestNewDBFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "access_log.db")

	db, err := NewDB(path)
	if err != nil {
		t.Fatalf("Failed to create new DB: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		t.Errorf("Failed to ping DB: %v", err)
	}
}
