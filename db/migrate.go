package db

import (
	"database/sql"
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/plaszyme/errors"
	"github.com/teranos/plaszyme/logger"
	"github.com/teranos/plaszyme/sym"
)

//go:embed sqlite/migrations/*.sql
var migrations embed.FS

const migrationsDir = "sqlite/migrations"

// migration is one embedded schema file, versioned by its numeric prefix.
type migration struct {
	version string
	file    string
}

// listMigrations returns the embedded migrations ordered by version.
// 000 creates schema_migrations itself.
func listMigrations(fsys fs.ReadDirFS) ([]migration, error) {
	entries, err := fsys.ReadDir(migrationsDir)
	if err != nil {
		return nil, errors.Wrap(err, "read migrations")
	}

	var list []migration
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		version, _, ok := strings.Cut(e.Name(), "_")
		if !ok {
			return nil, errors.Newf("migration %s has no version prefix", e.Name())
		}
		list = append(list, migration{version: version, file: e.Name()})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].version < list[j].version })
	return list, nil
}

// appliedVersions reads schema_migrations. A database that has never been
// migrated yields an empty set.
func appliedVersions(db *sql.DB) (map[string]bool, error) {
	var tables int
	if err := db.QueryRow(
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'schema_migrations'`,
	).Scan(&tables); err != nil {
		return nil, errors.Wrap(err, "inspect schema")
	}

	applied := make(map[string]bool)
	if tables == 0 {
		return applied, nil
	}

	rows, err := db.Query(`SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, errors.Wrap(err, "read schema_migrations")
	}
	defer rows.Close()
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, errors.Wrap(err, "scan schema_migrations")
		}
		applied[v] = true
	}
	return applied, errors.Wrap(rows.Err(), "iterate schema_migrations")
}

// apply runs one migration and records it in the same transaction.
func apply(db *sql.DB, m migration) error {
	body, err := migrations.ReadFile(path.Join(migrationsDir, m.file))
	if err != nil {
		return errors.Wrapf(err, "read %s", m.file)
	}

	tx, err := db.Begin()
	if err != nil {
		return errors.Wrapf(err, "begin %s", m.file)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(string(body)); err != nil {
		return errors.Wrapf(err, "execute %s", m.file)
	}
	if _, err := tx.Exec(`INSERT INTO schema_migrations (version) VALUES (?)`, m.version); err != nil {
		return errors.Wrapf(err, "record %s", m.file)
	}
	return errors.Wrapf(tx.Commit(), "commit %s", m.file)
}

// Migrate applies every embedded migration not yet recorded in
// schema_migrations. A nil logger runs silently.
func Migrate(db *sql.DB, log *zap.SugaredLogger) error {
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	list, err := listMigrations(migrations)
	if err != nil {
		return err
	}
	applied, err := appliedVersions(db)
	if err != nil {
		return err
	}

	var ran int
	for _, m := range list {
		if applied[m.version] {
			continue
		}
		log.Debugw("Applying migration", logger.FieldFile, m.file)
		if err := apply(db, m); err != nil {
			return err
		}
		ran++
	}

	if ran > 0 {
		log.Infow(sym.DB+" Schema migrated",
			logger.FieldCount, ran,
			"schema_version", list[len(list)-1].version,
		)
	}
	return nil
}
