// Package store persists debts, payment settings and computed plans in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/payoffhq/payoff/internal/model"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // register sqlite driver
)

// Store is the SQLite-backed debt and settings database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// DataDir returns the platform-appropriate data directory.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "payoff")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "payoff")
}

// DefaultPath returns the full path to the default database.
func DefaultPath() string {
	return filepath.Join(DataDir(), "payoff.db")
}

func (s *Store) stamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

// ListDebts returns a user's debts in the order they were added.
func (s *Store) ListDebts(ctx context.Context, user string) ([]model.RawDebt, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, last4, balance, apr, min_payment, due_day
		FROM debts WHERE user_id = ? ORDER BY position, id`, user)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var debts []model.RawDebt
	for rows.Next() {
		var d model.RawDebt
		if err := rows.Scan(&d.ID, &d.Name, &d.Last4, &d.Balance, &d.APR, &d.MinPayment, &d.DueDay); err != nil {
			return nil, err
		}
		debts = append(debts, d)
	}
	return debts, rows.Err()
}

// PutDebt inserts or updates a debt. A debt without an ID gets a new random
// one, which is returned.
func (s *Store) PutDebt(ctx context.Context, user string, d model.RawDebt) (string, error) {
	if strings.TrimSpace(d.Name) == "" {
		return "", errors.New("debt name is required")
	}
	if d.ID == "" {
		d.ID = uuid.NewString()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	var pos int
	err = tx.QueryRowContext(ctx, "SELECT position FROM debts WHERE user_id = ? AND id = ?", user, d.ID).Scan(&pos)
	if errors.Is(err, sql.ErrNoRows) {
		err = tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(position), -1) + 1 FROM debts WHERE user_id = ?", user).Scan(&pos)
	}
	if err != nil {
		return "", err
	}

	if err := insertDebt(ctx, tx, user, pos, d, s.stamp()); err != nil {
		return "", err
	}
	return d.ID, tx.Commit()
}

// ReplaceDebts swaps a user's whole debt list in one transaction.
func (s *Store) ReplaceDebts(ctx context.Context, user string, debts []model.RawDebt) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM debts WHERE user_id = ?", user); err != nil {
		return err
	}
	now := s.stamp()
	for i, d := range debts {
		if d.ID == "" {
			d.ID = uuid.NewString()
		}
		if err := insertDebt(ctx, tx, user, i, d, now); err != nil {
			return fmt.Errorf("debt %q: %w", d.Name, err)
		}
	}
	return tx.Commit()
}

func insertDebt(ctx context.Context, tx *sql.Tx, user string, pos int, d model.RawDebt, now string) error {
	_, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO debts
		(user_id, id, position, name, last4, balance, apr, min_payment, due_day, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user, d.ID, pos, strings.TrimSpace(d.Name), d.Last4,
		d.Balance.String(), d.APR.String(), d.MinPayment.String(), d.DueDay, now,
	)
	return err
}

// DeleteDebt removes one debt. It reports whether the debt existed.
func (s *Store) DeleteDebt(ctx context.Context, user, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM debts WHERE user_id = ? AND id = ?", user, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Users lists every user with at least one stored debt.
func (s *Store) Users(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT user_id FROM debts ORDER BY user_id")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var users []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// GetPolicy returns the user's saved payment settings. ok is false when
// nothing has been saved.
func (s *Store) GetPolicy(ctx context.Context, user string) (p model.Policy, ok bool, err error) {
	var strategy string
	err = s.db.QueryRowContext(ctx, `SELECT strategy, extra_monthly, one_time_extra, target_date
		FROM settings WHERE user_id = ?`, user).Scan(&strategy, &p.ExtraMonthly, &p.OneTimeExtra, &p.TargetDate)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Policy{}, false, nil
	}
	if err != nil {
		return model.Policy{}, false, err
	}
	p.Strategy, err = model.ParseStrategy(strategy)
	if err != nil {
		return model.Policy{}, false, fmt.Errorf("stored settings for %s: %w", user, err)
	}
	return p, true, nil
}

// SavePolicy stores the user's payment settings.
func (s *Store) SavePolicy(ctx context.Context, user string, p model.Policy) error {
	if p.Strategy == "" {
		p.Strategy = model.Snowball
	}
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO settings
		(user_id, strategy, extra_monthly, one_time_extra, target_date, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		user, string(p.Strategy), p.ExtraMonthly.String(), p.OneTimeExtra.String(), p.TargetDate, s.stamp())
	return err
}
