package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

// migration: một cặp NNNNNN_name.up.sql / NNNNNN_name.down.sql
type migration struct {
	Version  int64
	Name     string
	UpPath   string
	DownPath string
}

const schemaTable = "schema_migrations"

// loadMigrations đọc thư mục migrations, sắp xếp theo version tăng dần
func loadMigrations(dir string) ([]migration, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}

	byVersion := map[int64]*migration{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), ".sql")
		var direction string
		switch {
		case strings.HasSuffix(name, ".up"):
			direction, name = "up", strings.TrimSuffix(name, ".up")
		case strings.HasSuffix(name, ".down"):
			direction, name = "down", strings.TrimSuffix(name, ".down")
		default:
			return nil, fmt.Errorf("migration %q: missing .up/.down suffix", entry.Name())
		}

		rawVersion, label, ok := strings.Cut(name, "_")
		if !ok {
			return nil, fmt.Errorf("migration %q: expected NNNNNN_name", entry.Name())
		}
		version, err := strconv.ParseInt(rawVersion, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("migration %q: invalid version: %w", entry.Name(), err)
		}

		m, exists := byVersion[version]
		if !exists {
			m = &migration{Version: version, Name: label}
			byVersion[version] = m
		} else if m.Name != label {
			return nil, fmt.Errorf("migration version %d used by %q and %q", version, m.Name, label)
		}

		path := filepath.Join(dir, entry.Name())
		if direction == "up" {
			m.UpPath = path
		} else {
			m.DownPath = path
		}
	}

	out := make([]migration, 0, len(byVersion))
	for _, m := range byVersion {
		if m.UpPath == "" {
			return nil, fmt.Errorf("migration %d_%s: missing up file", m.Version, m.Name)
		}
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

// Migrator áp dụng migration trong transaction, mỗi file một transaction
type Migrator struct {
	db         *sql.DB
	migrations []migration
}

func NewMigrator(db *sql.DB, migrations []migration) *Migrator {
	return &Migrator{db: db, migrations: migrations}
}

func (m *Migrator) ensureTable(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS `+schemaTable+` (
			version    BIGINT PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	return err
}

func (m *Migrator) applied(ctx context.Context) (map[int64]bool, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT version FROM `+schemaTable)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[int64]bool{}
	for rows.Next() {
		var v int64
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out[v] = true
	}
	return out, rows.Err()
}

// Up áp dụng mọi migration chưa chạy, trả về số migration đã áp dụng
func (m *Migrator) Up(ctx context.Context) (int, error) {
	if err := m.ensureTable(ctx); err != nil {
		return 0, describe(err)
	}
	done, err := m.applied(ctx)
	if err != nil {
		return 0, describe(err)
	}

	count := 0
	for _, mig := range pending(m.migrations, done) {
		if err := m.run(ctx, mig.UpPath, func(tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO `+schemaTable+` (version, name) VALUES ($1, $2)`, mig.Version, mig.Name)
			return err
		}); err != nil {
			return count, fmt.Errorf("migration %d_%s: %w", mig.Version, mig.Name, err)
		}
		log.Info().Int64("version", mig.Version).Str("name", mig.Name).Msg("Applied migration")
		count++
	}
	return count, nil
}

// Down rollback migration mới nhất đã áp dụng
func (m *Migrator) Down(ctx context.Context) (bool, error) {
	if err := m.ensureTable(ctx); err != nil {
		return false, describe(err)
	}
	done, err := m.applied(ctx)
	if err != nil {
		return false, describe(err)
	}

	for i := len(m.migrations) - 1; i >= 0; i-- {
		mig := m.migrations[i]
		if !done[mig.Version] {
			continue
		}
		if mig.DownPath == "" {
			return false, fmt.Errorf("migration %d_%s has no down file", mig.Version, mig.Name)
		}
		if err := m.run(ctx, mig.DownPath, func(tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, `DELETE FROM `+schemaTable+` WHERE version = $1`, mig.Version)
			return err
		}); err != nil {
			return false, fmt.Errorf("rollback %d_%s: %w", mig.Version, mig.Name, err)
		}
		log.Info().Int64("version", mig.Version).Str("name", mig.Name).Msg("Rolled back migration")
		return true, nil
	}
	return false, nil
}

// Status trả về version -> đã áp dụng hay chưa
func (m *Migrator) Status(ctx context.Context) (map[int64]bool, error) {
	if err := m.ensureTable(ctx); err != nil {
		return nil, describe(err)
	}
	done, err := m.applied(ctx)
	return done, describe(err)
}

func (m *Migrator) run(ctx context.Context, path string, record func(tx *sql.Tx) error) error {
	body, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return describe(err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, string(body)); err != nil {
		return describe(err)
	}
	if err := record(tx); err != nil {
		return describe(err)
	}
	return describe(tx.Commit())
}

func pending(all []migration, done map[int64]bool) []migration {
	var out []migration
	for _, mig := range all {
		if !done[mig.Version] {
			out = append(out, mig)
		}
	}
	return out
}

// describe thêm SQLSTATE và detail của postgres vào message
func describe(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		msg := fmt.Sprintf("%s (SQLSTATE %s)", pqErr.Message, pqErr.Code)
		if pqErr.Detail != "" {
			msg += ": " + pqErr.Detail
		}
		if pqErr.Position != "" {
			msg += " at position " + pqErr.Position
		}
		return fmt.Errorf("%s: %w", msg, err)
	}
	return err
}
