package enzyme

import (
	"context"
	"database/sql"

	"github.com/teranos/plaszyme/errors"
)

// TopN bounds the organism and EC number distributions.
const TopN = 10

// Count is one bucket of a distribution.
type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Stats summarizes the corpus.
type Stats struct {
	TotalEnzymes    int     `json:"total_enzymes"`
	UniqueSequences int     `json:"unique_sequences"`
	WithStructure   int     `json:"structures_3d"`
	SubstrateTypes  int     `json:"plastic_types"`
	Substrates      []Count `json:"plastic_distribution"`
	Organisms       []Count `json:"host_distribution"`
	ECNumbers       []Count `json:"ec_distribution"`
}

const (
	statsTotalQuery     = `SELECT COUNT(*) FROM enzymes`
	statsUniqueQuery    = `SELECT COUNT(DISTINCT sequence) FROM enzymes WHERE sequence != ''`
	statsStructureQuery = `SELECT COUNT(*) FROM enzymes WHERE pdb_ids != ''`

	// Grouping follows the column's NOCASE collation, so "pet" and "PET" share a bucket.
	statsSubstrateQuery = `
		SELECT MIN(substrate), COUNT(*) AS n
		FROM enzyme_substrates
		GROUP BY substrate
		ORDER BY n DESC, MIN(substrate)`

	statsOrganismQuery = `
		SELECT organism, COUNT(*) AS n
		FROM enzymes
		WHERE organism != ''
		GROUP BY organism
		ORDER BY n DESC, organism
		LIMIT ?`

	statsECQuery = `
		SELECT ec_number, COUNT(*) AS n
		FROM enzymes
		WHERE ec_number != ''
		GROUP BY ec_number
		ORDER BY n DESC, ec_number
		LIMIT ?`
)

// Stats computes corpus statistics: totals, substrate distribution (all,
// descending) and the TopN host organisms and EC numbers.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{}

	scalars := []struct {
		query string
		dest  *int
		what  string
	}{
		{statsTotalQuery, &st.TotalEnzymes, "total enzymes"},
		{statsUniqueQuery, &st.UniqueSequences, "unique sequences"},
		{statsStructureQuery, &st.WithStructure, "structures"},
	}
	for _, q := range scalars {
		if err := s.db.QueryRowContext(ctx, q.query).Scan(q.dest); err != nil {
			return nil, errors.Wrapf(err, "failed to count %s", q.what)
		}
	}

	var err error
	if st.Substrates, err = s.distribution(ctx, statsSubstrateQuery); err != nil {
		return nil, errors.Wrap(err, "substrate distribution")
	}
	st.SubstrateTypes = len(st.Substrates)

	if st.Organisms, err = s.distribution(ctx, statsOrganismQuery, TopN); err != nil {
		return nil, errors.Wrap(err, "organism distribution")
	}
	if st.ECNumbers, err = s.distribution(ctx, statsECQuery, TopN); err != nil {
		return nil, errors.Wrap(err, "EC number distribution")
	}

	return st, nil
}

func (s *Store) distribution(ctx context.Context, query string, args ...interface{}) ([]Count, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := []Count{}
	for rows.Next() {
		var name sql.NullString
		var c Count
		if err := rows.Scan(&name, &c.Count); err != nil {
			return nil, err
		}
		c.Name = name.String
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
