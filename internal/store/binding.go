package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Binding maps a gesture label to a launch action and its cooldown class.
type Binding struct {
	ID        string
	Label     string
	Action    string
	Class     string
	Cooldown  time.Duration
	Enabled   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BindingRepository provides CRUD operations for bindings.
type BindingRepository struct {
	db *sql.DB
}

// Bindings returns the binding repository for this store.
func (s *Store) Bindings() *BindingRepository {
	return &BindingRepository{db: s.db}
}

const bindingColumns = `id, label, action, class, cooldown_ms, enabled, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanBinding(row scanner) (*Binding, error) {
	b := &Binding{}
	var cooldownMs int64
	var enabled int
	err := row.Scan(&b.ID, &b.Label, &b.Action, &b.Class, &cooldownMs, &enabled, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	b.Cooldown = time.Duration(cooldownMs) * time.Millisecond
	b.Enabled = enabled != 0
	return b, nil
}

// Create inserts b, assigning an ID if it has none. A second binding for
// the same label returns ErrDuplicate.
func (r *BindingRepository) Create(b *Binding) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now

	_, err := r.db.Exec(
		`INSERT INTO bindings (`+bindingColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Label, b.Action, b.Class, b.Cooldown.Milliseconds(), boolToInt(b.Enabled), b.CreatedAt, b.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: binding for %s", ErrDuplicate, b.Label)
	}
	return err
}

// GetByID retrieves a binding by its ID.
func (r *BindingRepository) GetByID(id string) (*Binding, error) {
	b, err := scanBinding(r.db.QueryRow(`SELECT `+bindingColumns+` FROM bindings WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return b, err
}

// GetByLabel retrieves the binding for a gesture label.
func (r *BindingRepository) GetByLabel(label string) (*Binding, error) {
	b, err := scanBinding(r.db.QueryRow(`SELECT `+bindingColumns+` FROM bindings WHERE label = ?`, label))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return b, err
}

// List retrieves all bindings ordered by label.
func (r *BindingRepository) List() ([]*Binding, error) {
	rows, err := r.db.Query(`SELECT ` + bindingColumns + ` FROM bindings ORDER BY label`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bindings []*Binding
	for rows.Next() {
		b, err := scanBinding(rows)
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, b)
	}
	return bindings, rows.Err()
}

// Count returns the number of stored bindings.
func (r *BindingRepository) Count() (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM bindings`).Scan(&n)
	return n, err
}

// Update overwrites the binding with b.ID.
func (r *BindingRepository) Update(b *Binding) error {
	b.UpdatedAt = time.Now().UTC()

	result, err := r.db.Exec(
		`UPDATE bindings SET label = ?, action = ?, class = ?, cooldown_ms = ?, enabled = ?, updated_at = ?
		 WHERE id = ?`,
		b.Label, b.Action, b.Class, b.Cooldown.Milliseconds(), boolToInt(b.Enabled), b.UpdatedAt, b.ID,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: binding for %s", ErrDuplicate, b.Label)
	}
	if err != nil {
		return err
	}
	return checkAffected(result)
}

// Delete removes a binding by its ID.
func (r *BindingRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM bindings WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkAffected(result)
}
