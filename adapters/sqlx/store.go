// Package sqlx implements the engine.AwardStore interface over a relational
// database via jmoiron/sqlx. The user_awards table carries a uniqueness
// constraint on (user_id, code); insert collisions are mapped to
// core.ErrConflict so the grant engine can apply its single retry.
package sqlx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"awardkit/core"
)

// Driver selects the SQL dialect.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverMySQL    Driver = "mysql"
)

// Config holds SQL connection configuration.
type Config struct {
	Driver          Driver        `json:"driver"`
	DSN             string        `json:"dsn"`
	MaxOpenConns    int           `json:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime"`
}

// DefaultConfig returns sensible defaults for the given driver.
func DefaultConfig(driver Driver) Config {
	return Config{
		Driver:          driver,
		MaxOpenConns:    10,
		MaxIdleConns:    2,
		ConnMaxLifetime: 30 * time.Minute,
	}
}

// Store is a SQL-backed AwardStore.
type Store struct {
	db *sqlx.DB
}

// New connects to the configured database.
func New(cfg Config) (*Store, error) {
	db, err := sqlx.Connect(string(cfg.Driver), cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Driver, err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return &Store{db: db}, nil
}

// NewWithDB creates a Store using an existing DB handle (useful for testing).
func NewWithDB(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Get(ctx context.Context, user core.UserID, code core.AwardCode) (core.UserAward, error) {
	query := s.db.Rebind(`SELECT user_id, code, tier, title, description, position, created_at, updated_at
		FROM user_awards WHERE user_id = ? AND code = ?`)
	var a core.UserAward
	if err := s.db.GetContext(ctx, &a, query, user, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.UserAward{}, core.ErrNotFound
		}
		return core.UserAward{}, fmt.Errorf("failed to load award: %w", err)
	}
	return a, nil
}

func (s *Store) Create(ctx context.Context, award core.UserAward) error {
	query := s.db.Rebind(`INSERT INTO user_awards
		(user_id, code, tier, title, description, position, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := s.db.ExecContext(ctx, query,
		award.UserID, award.Code, award.Tier, award.Title,
		award.Description, award.Position, award.CreatedAt, award.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return core.ErrConflict
		}
		return fmt.Errorf("failed to insert award: %w", err)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, award core.UserAward) error {
	query := s.db.Rebind(`UPDATE user_awards
		SET tier = ?, title = ?, description = ?, position = ?, updated_at = ?
		WHERE user_id = ? AND code = ?`)
	res, err := s.db.ExecContext(ctx, query,
		award.Tier, award.Title, award.Description, award.Position, award.UpdatedAt,
		award.UserID, award.Code)
	if err != nil {
		return fmt.Errorf("failed to update award: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, user core.UserID, code core.AwardCode) error {
	query := s.db.Rebind(`DELETE FROM user_awards WHERE user_id = ? AND code = ?`)
	res, err := s.db.ExecContext(ctx, query, user, code)
	if err != nil {
		return fmt.Errorf("failed to delete award: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *Store) ListByUser(ctx context.Context, user core.UserID) ([]core.UserAward, error) {
	query := s.db.Rebind(`SELECT user_id, code, tier, title, description, position, created_at, updated_at
		FROM user_awards WHERE user_id = ? ORDER BY position`)
	var out []core.UserAward
	if err := s.db.SelectContext(ctx, &out, query, user); err != nil {
		return nil, fmt.Errorf("failed to list awards: %w", err)
	}
	return out, nil
}

func (s *Store) ListRecipients(ctx context.Context, code core.AwardCode, tier int, offset, limit int) ([]core.UserAward, error) {
	query := s.db.Rebind(`SELECT user_id, code, tier, title, description, position, created_at, updated_at
		FROM user_awards WHERE code = ? AND tier = ?
		ORDER BY created_at DESC LIMIT ? OFFSET ?`)
	var out []core.UserAward
	if err := s.db.SelectContext(ctx, &out, query, code, tier, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list recipients: %w", err)
	}
	return out, nil
}

func (s *Store) CountHolders(ctx context.Context, code core.AwardCode, tier int) (int, error) {
	query := s.db.Rebind(`SELECT COUNT(*) FROM user_awards WHERE code = ? AND tier = ?`)
	var n int
	if err := s.db.GetContext(ctx, &n, query, code, tier); err != nil {
		return 0, fmt.Errorf("failed to count holders: %w", err)
	}
	return n, nil
}

// ActiveUserCount counts active, unbanned accounts in the surrounding site's
// users table. It backs the rarity denominator.
func (s *Store) ActiveUserCount(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM users WHERE is_active AND NOT is_banned`); err != nil {
		return 0, fmt.Errorf("failed to count active users: %w", err)
	}
	return n, nil
}

// isUniqueViolation recognizes the driver-specific duplicate-key errors:
// Postgres class 23505, MySQL error 1062.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	return false
}
