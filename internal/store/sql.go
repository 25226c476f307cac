package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// SQLStore keeps experiments and their observations in SQLite or PostgreSQL.
type SQLStore struct {
	db *sqlx.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS experiments (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT UNIQUE NOT NULL,
    kind TEXT NOT NULL,
    arms TEXT NOT NULL,
    created_at INTEGER NOT NULL DEFAULT (unixepoch())
);

CREATE TABLE IF NOT EXISTS observations (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    experiment TEXT NOT NULL,
    arm TEXT NOT NULL,
    value REAL NOT NULL,
    FOREIGN KEY (experiment) REFERENCES experiments(name)
);

CREATE INDEX IF NOT EXISTS idx_observations_arm ON observations(experiment, arm);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS experiments (
    id BIGSERIAL PRIMARY KEY,
    name TEXT UNIQUE NOT NULL,
    kind TEXT NOT NULL,
    arms TEXT NOT NULL,
    created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS observations (
    id BIGSERIAL PRIMARY KEY,
    experiment TEXT NOT NULL REFERENCES experiments(name),
    arm TEXT NOT NULL,
    value DOUBLE PRECISION NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_observations_arm ON observations(experiment, arm);
`

// Open connects to dsn. A postgres:// or postgresql:// URL selects PostgreSQL;
// anything else is treated as a SQLite file path.
func Open(dsn string) (*SQLStore, error) {
	driver, schema := "sqlite", sqliteSchema
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		driver, schema = "postgres", postgresSchema
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if driver == "sqlite" {
		// Enable WAL mode
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	// Apply schema
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection for health checks
func (s *SQLStore) DB() *sql.DB {
	return s.db.DB
}

func (s *SQLStore) CreateExperiment(ctx context.Context, name string, kind Kind, arms []string) (*Experiment, error) {
	if name == "" {
		return nil, errors.New("experiment name is required")
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown experiment kind %q", kind)
	}
	if len(arms) < 2 {
		return nil, fmt.Errorf("experiment needs at least 2 arms, got %d", len(arms))
	}

	if _, err := s.GetExperiment(ctx, name); err == nil {
		return nil, fmt.Errorf("experiment %q: %w", name, ErrAlreadyExists)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	armsJSON, err := json.Marshal(arms)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal arms: %w", err)
	}

	now := time.Now().Unix()
	var id int64
	err = s.db.QueryRowxContext(ctx,
		s.db.Rebind(`INSERT INTO experiments (name, kind, arms, created_at) VALUES (?, ?, ?, ?) RETURNING id`),
		name, string(kind), string(armsJSON), now,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to insert experiment: %w", err)
	}

	return &Experiment{
		ID:        id,
		Name:      name,
		Kind:      kind,
		Arms:      arms,
		CreatedAt: time.Unix(now, 0),
	}, nil
}

func (s *SQLStore) GetExperiment(ctx context.Context, name string) (*Experiment, error) {
	var row experimentRow
	err := s.db.GetContext(ctx, &row,
		s.db.Rebind(`SELECT id, name, kind, arms, created_at FROM experiments WHERE name = ?`), name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get experiment: %w", err)
	}

	return row.decode()
}

func (s *SQLStore) ListExperiments(ctx context.Context) ([]*Experiment, error) {
	var rows []experimentRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT id, name, kind, arms, created_at FROM experiments ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list experiments: %w", err)
	}

	experiments := make([]*Experiment, 0, len(rows))
	for _, row := range rows {
		e, err := row.decode()
		if err != nil {
			return nil, err
		}
		experiments = append(experiments, e)
	}

	return experiments, nil
}

func (s *SQLStore) DeleteExperiment(ctx context.Context, name string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// First delete related observations
	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM observations WHERE experiment = ?`), name); err != nil {
		return fmt.Errorf("failed to delete observations: %w", err)
	}

	result, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM experiments WHERE name = ?`), name)
	if err != nil {
		return fmt.Errorf("failed to delete experiment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

// AddObservations appends observations in one transaction. Every arm must
// belong to the experiment, and conversion experiments only accept 0 or 1.
func (s *SQLStore) AddObservations(ctx context.Context, experiment string, observations []Observation) error {
	e, err := s.GetExperiment(ctx, experiment)
	if err != nil {
		return err
	}

	for i, o := range observations {
		if !e.HasArm(o.Arm) {
			return fmt.Errorf("%w: row %d: arm %q is not part of experiment %q", ErrInvalidObservation, i, o.Arm, experiment)
		}
		if e.Kind == KindConversion && o.Value != 0 && o.Value != 1 {
			return fmt.Errorf("%w: row %d: conversion value must be 0 or 1, got %v", ErrInvalidObservation, i, o.Value)
		}
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, tx.Rebind(`INSERT INTO observations (experiment, arm, value) VALUES (?, ?, ?)`))
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, o := range observations {
		if _, err := stmt.ExecContext(ctx, experiment, o.Arm, o.Value); err != nil {
			return fmt.Errorf("failed to insert observation: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit observations: %w", err)
	}
	return nil
}

// ArmValues returns one arm's observations in insertion order.
func (s *SQLStore) ArmValues(ctx context.Context, experiment, arm string) ([]float64, error) {
	var values []float64
	err := s.db.SelectContext(ctx, &values,
		s.db.Rebind(`SELECT value FROM observations WHERE experiment = ? AND arm = ? ORDER BY id`),
		experiment, arm)
	if err != nil {
		return nil, fmt.Errorf("failed to get arm values: %w", err)
	}
	return values, nil
}

// ArmCounts returns successes and totals per arm, in the experiment's arm order.
// Arms without observations report zero totals.
func (s *SQLStore) ArmCounts(ctx context.Context, experiment string) ([]ArmCount, error) {
	e, err := s.GetExperiment(ctx, experiment)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		Arm       string  `db:"arm"`
		Successes float64 `db:"successes"`
		Total     int     `db:"total"`
	}
	err = s.db.SelectContext(ctx, &rows,
		s.db.Rebind(`SELECT arm, COALESCE(SUM(value), 0) AS successes, COUNT(*) AS total
		 FROM observations WHERE experiment = ? GROUP BY arm`),
		experiment)
	if err != nil {
		return nil, fmt.Errorf("failed to get arm counts: %w", err)
	}

	byArm := make(map[string]ArmCount, len(rows))
	for _, r := range rows {
		byArm[r.Arm] = ArmCount{Arm: r.Arm, Successes: int(r.Successes), Total: r.Total}
	}

	counts := make([]ArmCount, len(e.Arms))
	for i, arm := range e.Arms {
		c, ok := byArm[arm]
		if !ok {
			c = ArmCount{Arm: arm}
		}
		counts[i] = c
	}
	return counts, nil
}

func (r experimentRow) decode() (*Experiment, error) {
	e := &Experiment{
		ID:        r.ID,
		Name:      r.Name,
		Kind:      Kind(r.Kind),
		CreatedAt: time.Unix(r.CreatedAt, 0),
	}
	if err := json.Unmarshal([]byte(r.Arms), &e.Arms); err != nil {
		return nil, fmt.Errorf("failed to unmarshal arms: %w", err)
	}
	return e, nil
}

var _ Store = (*SQLStore)(nil)
