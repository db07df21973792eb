package recording

import (
	"database/sql"
	"fmt"
	"os"
)

// OpQuery selects recorded operations. Empty fields match everything.
type OpQuery struct {
	Sequence string
	Kind     string
}

// Reader reads the operations stored by a SQLiteRecorder.
type Reader struct {
	*sql.DB
}

// NewReader creates a reader on an opened database.
func NewReader(db *sql.DB) *Reader {
	return &Reader{DB: db}
}

// OpenReader opens a recorded database file. The file must exist; the
// returned error wraps fs.ErrNotExist otherwise.
func OpenReader(filename string) (*Reader, error) {
	_, err := os.Stat(filename)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filename, err)
	}

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filename, err)
	}

	return &Reader{DB: db}, nil
}

// ListSequences returns the names of the recorded sequences.
func (r *Reader) ListSequences() ([]string, error) {
	rows, err := r.Query("SELECT DISTINCT sequence FROM ops ORDER BY sequence")
	if err != nil {
		return nil, fmt.Errorf("list sequences: %w", err)
	}
	defer rows.Close()

	var names []string

	for rows.Next() {
		var name string

		err := rows.Scan(&name)
		if err != nil {
			return nil, fmt.Errorf("list sequences: %w", err)
		}

		names = append(names, name)
	}

	return names, rows.Err()
}

// ListOps returns the operations matching the query in recording order.
func (r *Reader) ListOps(query OpQuery) ([]OpRecord, error) {
	sqlStr := `
		SELECT id, sequence, kind, idx, value, len, count
		FROM ops
		WHERE 1=1
	`

	var args []any

	if query.Sequence != "" {
		sqlStr += " AND sequence = ?"
		args = append(args, query.Sequence)
	}

	if query.Kind != "" {
		sqlStr += " AND kind = ?"
		args = append(args, query.Kind)
	}

	sqlStr += " ORDER BY rowid"

	rows, err := r.Query(sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list ops: %w", err)
	}
	defer rows.Close()

	records := []OpRecord{}

	for rows.Next() {
		var rec OpRecord

		err := rows.Scan(
			&rec.ID,
			&rec.Sequence,
			&rec.Kind,
			&rec.Index,
			&rec.Value,
			&rec.Len,
			&rec.Count,
		)
		if err != nil {
			return nil, fmt.Errorf("list ops: %w", err)
		}

		records = append(records, rec)
	}

	return records, rows.Err()
}
