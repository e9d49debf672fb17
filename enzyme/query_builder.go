package enzyme

import (
	"strings"
)

// queryBuilder accumulates SQL WHERE clauses and parameters for candidate queries
type queryBuilder struct {
	whereClauses []string
	args         []interface{}
}

// addClause appends a WHERE clause with its arguments
func (qb *queryBuilder) addClause(clause string, args ...interface{}) {
	qb.whereClauses = append(qb.whereClauses, clause)
	qb.args = append(qb.args, args...)
}

// build returns the WHERE clauses joined with AND, or "1=1" when empty
func (qb *queryBuilder) build() string {
	if len(qb.whereClauses) == 0 {
		return "1=1"
	}
	return strings.Join(qb.whereClauses, " AND ")
}

func (qb *queryBuilder) buildSequenceFilter() {
	qb.addClause("e.sequence != ''")
}

// buildTagFilter matches substrate set membership; the column is COLLATE NOCASE.
func (qb *queryBuilder) buildTagFilter(f Filter) {
	if f.AnyTag() {
		return
	}
	qb.addClause(`EXISTS (
			SELECT 1 FROM enzyme_substrates s
			WHERE s.enzyme_id = e.id AND s.substrate = ?
		)`, strings.TrimSpace(f.Tag))
}

func (qb *queryBuilder) buildStructureFilter(f Filter) {
	switch f.Structure {
	case WithStructure:
		qb.addClause("e.pdb_ids != ''")
	case WithoutStructure:
		qb.addClause("e.pdb_ids = ''")
	}
}

// candidateQuery builds the filtered, limited candidate query. Substrates
// are joined after the limit so it counts enzymes, not tag rows.
func candidateQuery(f Filter, limit int) (string, []interface{}) {
	qb := &queryBuilder{}
	qb.buildSequenceFilter()
	qb.buildTagFilter(f)
	qb.buildStructureFilter(f)

	query := `
		WITH picked AS (
			SELECT e.rowid AS rid, ` + enzymeColumns + `
			FROM enzymes e
			WHERE ` + qb.build() + `
			ORDER BY e.rowid
			LIMIT ?
		)
		SELECT ` + strings.ReplaceAll(enzymeColumns, "e.", "p.") + `, s.substrate
		FROM picked p
		LEFT JOIN enzyme_substrates s ON s.enzyme_id = p.id
		ORDER BY p.rid, s.rowid`

	return query, append(qb.args, limit)
}
