package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps the SQLite connection backing the client-IP access log.
type DB struct {
	*sql.DB
}

// NewDB opens (or creates) the access-log database at path and ensures the
// schema exists. Use ":memory:" for an ephemeral database.
func NewDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite serializes writers, and a :memory: database exists per
	// connection; a single pooled connection keeps both correct.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS ip_access (
		ip          TEXT PRIMARY KEY,
		last_access INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS ip_cities (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		ip           TEXT NOT NULL,
		city         TEXT NOT NULL,
		requested_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_ip_cities_ip ON ip_cities(ip, id);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// LastAccess returns the previous access timestamp recorded for an IP.
// The second return value is false when the IP has never been seen.
func (d *DB) LastAccess(ip string) (int64, bool, error) {
	if d == nil || d.DB == nil {
		return 0, false, errors.New("database not initialized")
	}

	var ts int64
	err := d.QueryRow("SELECT last_access FROM ip_access WHERE ip = ?", ip).Scan(&ts)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to query last access: %w", err)
	}
	return ts, true, nil
}

// RecordAccess updates the IP's last access timestamp and appends the
// requested city to its history. It returns the cities requested before
// this call, most recent first.
func (d *DB) RecordAccess(ip, city string, timestamp int64) ([]string, error) {
	if d == nil || d.DB == nil {
		return nil, errors.New("database not initialized")
	}

	tx, err := d.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.Query("SELECT city FROM ip_cities WHERE ip = ? ORDER BY id DESC", ip)
	if err != nil {
		return nil, fmt.Errorf("failed to query city history: %w", err)
	}

	var cities []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan city: %w", err)
		}
		cities = append(cities, c)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to read city history: %w", err)
	}
	rows.Close()

	_, err = tx.Exec(`
		INSERT INTO ip_access (ip, last_access) VALUES (?, ?)
		ON CONFLICT(ip) DO UPDATE SET last_access = excluded.last_access`,
		ip, timestamp)
	if err != nil {
		return nil, fmt.Errorf("failed to update last access: %w", err)
	}

	_, err = tx.Exec("INSERT INTO ip_cities (ip, city, requested_at) VALUES (?, ?, ?)",
		ip, city, timestamp)
	if err != nil {
		return nil, fmt.Errorf("failed to append city: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit access record: %w", err)
	}

	return cities, nil
}

// PruneBefore deletes city history rows older than the cutoff timestamp.
// Rows in ip_access are kept so the last-access view survives pruning.
func (d *DB) PruneBefore(cutoff int64) (int64, error) {
	if d == nil || d.DB == nil {
		return 0, errors.New("database not initialized")
	}

	res, err := d.Exec("DELETE FROM ip_cities WHERE requested_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune city history: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return n, nil
}
