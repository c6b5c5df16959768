package store

import (
	"database/sql"
	"time"
)

// DefaultHistoryLimit caps List when no limit is given.
const DefaultHistoryLimit = 100

// HistoryEntry records one launch action fired by a gesture.
type HistoryEntry struct {
	ID      int64
	Label   string
	Action  string
	Success bool
	Error   string
	FiredAt time.Time
}

// HistoryRepository records and lists fired actions.
type HistoryRepository struct {
	db *sql.DB
}

// History returns the history repository for this store.
func (s *Store) History() *HistoryRepository {
	return &HistoryRepository{db: s.db}
}

// Record inserts e and sets its ID.
func (r *HistoryRepository) Record(e *HistoryEntry) error {
	result, err := r.db.Exec(
		`INSERT INTO history (label, action, success, error, fired_at) VALUES (?, ?, ?, ?, ?)`,
		e.Label, e.Action, boolToInt(e.Success), e.Error, e.FiredAt.UTC(),
	)
	if err != nil {
		return err
	}
	e.ID, err = result.LastInsertId()
	return err
}

// List returns up to limit entries, newest first. A non-positive limit
// uses DefaultHistoryLimit.
func (r *HistoryRepository) List(limit int) ([]*HistoryEntry, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	rows, err := r.db.Query(
		`SELECT id, label, action, success, error, fired_at FROM history
		 ORDER BY fired_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*HistoryEntry
	for rows.Next() {
		e := &HistoryEntry{}
		var success int
		if err := rows.Scan(&e.ID, &e.Label, &e.Action, &success, &e.Error, &e.FiredAt); err != nil {
			return nil, err
		}
		e.Success = success != 0
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Prune deletes entries fired before cutoff and returns how many were removed.
func (r *HistoryRepository) Prune(cutoff time.Time) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM history WHERE fired_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
