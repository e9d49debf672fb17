package enzyme

import (
	"context"
	"database/sql"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/plaszyme/errors"
	"github.com/teranos/plaszyme/logger"
)

// Query constants
const (
	enzymeColumns = `e.id, e.protein_id, e.name, e.organism, e.taxonomy, e.ec_number, e.pdb_ids, e.sequence`

	enzymeUpsertQuery = `
		INSERT INTO enzymes (id, protein_id, name, organism, taxonomy, ec_number, pdb_ids, sequence)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			protein_id = excluded.protein_id,
			name = excluded.name,
			organism = excluded.organism,
			taxonomy = excluded.taxonomy,
			ec_number = excluded.ec_number,
			pdb_ids = excluded.pdb_ids,
			sequence = excluded.sequence,
			updated_at = CURRENT_TIMESTAMP`

	substrateDeleteQuery = `DELETE FROM enzyme_substrates WHERE enzyme_id = ?`

	substrateInsertQuery = `INSERT OR IGNORE INTO enzyme_substrates (enzyme_id, substrate) VALUES (?, ?)`

	enzymeGetQuery = `
		SELECT ` + enzymeColumns + `, s.substrate
		FROM enzymes e
		LEFT JOIN enzyme_substrates s ON s.enzyme_id = e.id
		WHERE e.id = ?
		ORDER BY s.rowid`

	enzymeAllQuery = `
		SELECT ` + enzymeColumns + `, s.substrate
		FROM enzymes e
		LEFT JOIN enzyme_substrates s ON s.enzyme_id = e.id
		ORDER BY e.rowid, s.rowid`

	enzymeDeleteQuery = `DELETE FROM enzymes WHERE id = ?`

	enzymeCountQuery = `SELECT COUNT(*) FROM enzymes`
)

// Store is the SQLite-backed enzyme corpus. It is safe for concurrent use.
type Store struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

// NewStore creates a store on an already migrated database.
// log may be nil.
func NewStore(db *sql.DB, log *zap.SugaredLogger) *Store {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Store{db: db, logger: log}
}

// Candidates returns at most limit records with a non-empty sequence that
// match f, in insertion order.
func (s *Store) Candidates(ctx context.Context, f Filter, limit int) ([]Record, error) {
	if limit <= 0 {
		return []Record{}, nil
	}

	query, args := candidateQuery(f, limit)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query candidates")
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read candidates")
	}

	s.logger.Debugw("Fetched candidates",
		logger.FieldTagFilter, f.Tag,
		logger.FieldStructure, f.Structure,
		"limit", limit,
		logger.FieldCount, len(records))

	return records, nil
}

// Get returns the record with the given id, or an error wrapping errors.ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	rows, err := s.db.QueryContext(ctx, enzymeGetQuery, id)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to query enzyme %s", id)
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read enzyme %s", id)
	}
	if len(records) == 0 {
		return nil, errors.NewNotFoundError("enzyme %s", id)
	}
	return &records[0], nil
}

// Each calls fn for every record in insertion order. Iteration stops at the
// first error fn returns.
func (s *Store) Each(ctx context.Context, fn func(Record) error) error {
	rows, err := s.db.QueryContext(ctx, enzymeAllQuery)
	if err != nil {
		return errors.Wrap(err, "failed to query enzymes")
	}
	defer rows.Close()

	return groupRows(rows, fn)
}

// Put inserts or replaces a record together with its substrate tags.
func (s *Store) Put(ctx context.Context, r Record) error {
	return s.PutBatch(ctx, []Record{r})
}

// PutBatch writes all records in a single transaction.
func (s *Store) PutBatch(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	upsert, err := tx.PrepareContext(ctx, enzymeUpsertQuery)
	if err != nil {
		return errors.Wrap(err, "failed to prepare upsert")
	}
	defer upsert.Close()

	clearTags, err := tx.PrepareContext(ctx, substrateDeleteQuery)
	if err != nil {
		return errors.Wrap(err, "failed to prepare substrate delete")
	}
	defer clearTags.Close()

	addTag, err := tx.PrepareContext(ctx, substrateInsertQuery)
	if err != nil {
		return errors.Wrap(err, "failed to prepare substrate insert")
	}
	defer addTag.Close()

	for _, r := range records {
		id := strings.TrimSpace(r.ID)
		if id == "" {
			return errors.NewInvalidRequestError("enzyme record without id")
		}

		if _, err := upsert.ExecContext(ctx,
			id, r.ProteinID, r.Name, r.Organism, r.Taxonomy, r.ECNumber,
			strings.TrimSpace(r.PDBIDs), r.Sequence,
		); err != nil {
			return errors.Wrapf(err, "failed to store enzyme %s", id)
		}

		if _, err := clearTags.ExecContext(ctx, id); err != nil {
			return errors.Wrapf(err, "failed to clear substrates of %s", id)
		}
		for _, tag := range NormalizeTags(r.Tags) {
			if _, err := addTag.ExecContext(ctx, id, tag); err != nil {
				return errors.Wrapf(err, "failed to store substrate %s of %s", tag, id)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit enzymes")
	}

	s.logger.Debugw("Stored enzymes", logger.FieldCount, len(records))
	return nil
}

// Delete removes a record. Deleting a missing id returns an error wrapping errors.ErrNotFound.
func (s *Store) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, substrateDeleteQuery, id); err != nil {
		return errors.Wrapf(err, "failed to delete substrates of %s", id)
	}
	res, err := tx.ExecContext(ctx, enzymeDeleteQuery, id)
	if err != nil {
		return errors.Wrapf(err, "failed to delete enzyme %s", id)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NewNotFoundError("enzyme %s", id)
	}
	return errors.Wrap(tx.Commit(), "failed to commit delete")
}

// Count returns the number of stored enzymes.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, enzymeCountQuery).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "failed to count enzymes")
	}
	return n, nil
}

// scanRecords collects joined enzyme/substrate rows into records.
func scanRecords(rows *sql.Rows) ([]Record, error) {
	records := []Record{}
	err := groupRows(rows, func(r Record) error {
		records = append(records, r)
		return nil
	})
	return records, err
}

// groupRows folds consecutive rows of the same enzyme (one per substrate)
// into a single Record. Rows must be ordered by enzyme.
func groupRows(rows *sql.Rows, fn func(Record) error) error {
	var current *Record
	for rows.Next() {
		var r Record
		var substrate sql.NullString
		if err := rows.Scan(
			&r.ID, &r.ProteinID, &r.Name, &r.Organism, &r.Taxonomy,
			&r.ECNumber, &r.PDBIDs, &r.Sequence, &substrate,
		); err != nil {
			return errors.Wrap(err, "failed to scan enzyme row")
		}

		if current == nil || current.ID != r.ID {
			if current != nil {
				if err := fn(*current); err != nil {
					return err
				}
			}
			r.Tags = []string{}
			r.HasStructure = strings.TrimSpace(r.PDBIDs) != ""
			current = &r
		}
		if substrate.Valid {
			current.Tags = append(current.Tags, substrate.String)
		}
	}
	if err := rows.Err(); err != nil {
		return errors.Wrap(err, "failed to iterate enzyme rows")
	}
	if current != nil {
		return fn(*current)
	}
	return nil
}
