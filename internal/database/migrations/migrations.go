package migrations

import (
	"database/sql"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// Migration is one schema version with its up and down scripts.
type Migration struct {
	Version int
	Name    string
	Up      string
	Down    string
}

// LoadMigrations reads every NNNN_name.{up,down}.sql file from fsys and
// returns them sorted by version.
func LoadMigrations(fsys fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}

	byVersion := make(map[int]*Migration)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}

		var version int
		var rest string
		if _, err := fmt.Sscanf(name, "%d_%s", &version, &rest); err != nil {
			log.Warn().Err(err).Str("file", name).Msg("Skipping invalid migration file")
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", name, err)
		}

		m, ok := byVersion[version]
		if !ok {
			m = &Migration{Version: version}
			byVersion[version] = m
		}
		switch {
		case strings.HasSuffix(rest, ".up.sql"):
			m.Name = strings.TrimSuffix(rest, ".up.sql")
			m.Up = string(content)
		case strings.HasSuffix(rest, ".down.sql"):
			m.Down = string(content)
		}
	}

	migrations := make([]Migration, 0, len(byVersion))
	for _, m := range byVersion {
		migrations = append(migrations, *m)
	}
	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	log.Debug().Int("count", len(migrations)).Msg("Loaded migrations")
	return migrations, nil
}

// RunMigrations applies every migration not yet recorded in the migrations table.
func RunMigrations(db *sql.DB, migrations []Migration) error {
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := appliedVersions(db, "SELECT version FROM migrations")
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if contains(applied, m.Version) {
			continue
		}
		log.Info().Int("version", m.Version).Str("name", m.Name).Msg("Running migration")
		if err := apply(db, m.Up, "INSERT INTO migrations (version) VALUES (?)", m.Version); err != nil {
			return fmt.Errorf("migration %d: %w", m.Version, err)
		}
	}
	return nil
}

// RollbackMigrations reverts the last n applied migrations, newest first.
func RollbackMigrations(db *sql.DB, migrations []Migration, n int) error {
	versions, err := appliedVersions(db, "SELECT version FROM migrations ORDER BY version DESC LIMIT ?", n)
	if err != nil {
		return err
	}

	for _, version := range versions {
		idx := sort.Search(len(migrations), func(i int) bool { return migrations[i].Version >= version })
		if idx == len(migrations) || migrations[idx].Version != version || migrations[idx].Down == "" {
			log.Warn().Int("version", version).Msg("No down migration found, skipping")
			continue
		}
		log.Info().Int("version", version).Msg("Rolling back migration")
		if err := apply(db, migrations[idx].Down, "DELETE FROM migrations WHERE version = ?", version); err != nil {
			return fmt.Errorf("rollback %d: %w", version, err)
		}
	}
	return nil
}

func appliedVersions(db *sql.DB, query string, args ...any) ([]int, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}
	defer rows.Close()

	var versions []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

// apply runs script and the bookkeeping statement in one transaction.
func apply(db *sql.DB, script, record string, version int) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(script); err != nil {
		return fmt.Errorf("failed to execute script: %w", err)
	}
	if _, err := tx.Exec(record, version); err != nil {
		return fmt.Errorf("failed to record version: %w", err)
	}
	return tx.Commit()
}

func contains(versions []int, v int) bool {
	for _, x := range versions {
		if x == v {
			return true
		}
	}
	return false
}
