package commands

import (
	"database/sql"

	"github.com/teranos/plaszyme/am"
	"github.com/teranos/plaszyme/db"
	"github.com/teranos/plaszyme/errors"
	"github.com/teranos/plaszyme/logger"
)

// defaultDBPath is used when neither a flag nor the config names a database.
const defaultDBPath = "plaszyme.db"

// resolveDBPath returns dbPath, or the configured path when dbPath is empty.
func resolveDBPath(dbPath string) (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}
	path, err := am.GetDatabasePath()
	if err != nil {
		return "", errors.Wrap(err, "failed to get database path")
	}
	if path == "" {
		return defaultDBPath, nil
	}
	return path, nil
}

// openDatabase opens and migrates a database using the specified path.
// If dbPath is empty, it loads from am config.
func openDatabase(dbPath string) (*sql.DB, error) {
	path, err := resolveDBPath(dbPath)
	if err != nil {
		return nil, err
	}

	return db.OpenWithMigrations(path, logger.Logger)
}
