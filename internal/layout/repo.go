package layout

import "fmt"

// SavePositions replaces the stored node positions for a page within a
// transaction.
func (db *DB) SavePositions(page string, positions map[string][2]float64) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("layout: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if _, err := tx.Exec(`DELETE FROM positions WHERE page = ?`, page); err != nil {
		return fmt.Errorf("layout: clear positions: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO positions (page, node, x, y) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("layout: prepare insert: %w", err)
	}
	defer stmt.Close()
	for node, p := range positions {
		if _, err := stmt.Exec(page, node, p[0], p[1]); err != nil {
			return fmt.Errorf("layout: insert position: %w", err)
		}
	}

	return tx.Commit()
}

// Positions returns the stored node positions for a page; empty map when
// none were saved.
func (db *DB) Positions(page string) (map[string][2]float64, error) {
	rows, err := db.conn.Query(`SELECT node, x, y FROM positions WHERE page = ?`, page)
	if err != nil {
		return nil, fmt.Errorf("layout: positions: %w", err)
	}
	defer rows.Close()

	out := make(map[string][2]float64)
	for rows.Next() {
		var node string
		var x, y float64
		if err := rows.Scan(&node, &x, &y); err != nil {
			return nil, err
		}
		out[node] = [2]float64{x, y}
	}
	return out, rows.Err()
}

// DeletePage removes a page's stored positions and journal entry.
func (db *DB) DeletePage(page string) error {
	if _, err := db.conn.Exec(`DELETE FROM positions WHERE page = ?`, page); err != nil {
		return fmt.Errorf("layout: delete positions: %w", err)
	}
	if _, err := db.conn.Exec(`DELETE FROM pages WHERE path = ?`, page); err != nil {
		return fmt.Errorf("layout: delete page: %w", err)
	}
	return nil
}

// SetChecksum records the checksum of an enhanced page file.
func (db *DB) SetChecksum(path, checksum string) error {
	_, err := db.conn.Exec(`
		INSERT INTO pages (path, checksum) VALUES (?, ?)
		ON CONFLICT(path) DO UPDATE SET
			checksum   = excluded.checksum,
			updated_at = CURRENT_TIMESTAMP
	`, path, checksum)
	if err != nil {
		return fmt.Errorf("layout: set checksum: %w", err)
	}
	return nil
}

// Checksum returns the recorded checksum for a page file, or empty string
// when the page was never enhanced.
func (db *DB) Checksum(path string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM pages WHERE path = ?`, path).Scan(&cs)
	if err != nil {
		return "", nil // not found is fine
	}
	return cs, nil
}
