// Package recording stores the operations applied to sequences in a SQLite
// database.
package recording

import (
	"database/sql"
	"fmt"
	"os"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/orderedseq/hooking"
	"github.com/sarchlab/orderedseq/idgen"
	"github.com/sarchlab/orderedseq/seq"
)

// OpRecord is one recorded operation.
type OpRecord struct {
	ID       string
	Sequence string
	Kind     string
	Index    int
	Value    int32
	Len      int
	Count    int
}

// SQLiteRecorder is a hook that writes the operations of the sequences it is
// attached to into a SQLite database.
type SQLiteRecorder struct {
	*sql.DB
	statement *sql.Stmt

	dbName    string
	idGen     idgen.Generator
	pending   []OpRecord
	batchSize int
}

// New creates a recorder backed by a new database file. If path is empty, a
// unique name is generated. New panics if the file already exists.
func New(path string) *SQLiteRecorder {
	r := &SQLiteRecorder{
		dbName:    path,
		batchSize: 10000,
		idGen:     idgen.NewXID(),
	}

	r.createDatabase()
	r.init()

	atexit.Register(func() { r.Flush() })

	return r
}

// NewWithDB creates a recorder that writes into an opened database.
func NewWithDB(db *sql.DB) *SQLiteRecorder {
	r := &SQLiteRecorder{
		DB:        db,
		batchSize: 10000,
		idGen:     idgen.NewXID(),
	}

	r.init()

	atexit.Register(func() { r.Flush() })

	return r
}

// WithBatchSize sets how many records are buffered before they are written.
func (r *SQLiteRecorder) WithBatchSize(n int) *SQLiteRecorder {
	if n < 1 {
		n = 1
	}

	r.batchSize = n

	return r
}

// WithIDGenerator sets the generator of record IDs.
func (r *SQLiteRecorder) WithIDGenerator(g idgen.Generator) *SQLiteRecorder {
	r.idGen = g
	return r
}

// Filename returns the database file name, or empty if the database was
// provided by the caller.
func (r *SQLiteRecorder) Filename() string {
	if r.dbName == "" {
		return ""
	}

	return r.dbName + ".sqlite3"
}

// Func records the operation carried by the hook context. Contexts that do
// not carry a seq.Op are ignored.
func (r *SQLiteRecorder) Func(ctx hooking.HookCtx) {
	op, ok := ctx.Item.(seq.Op)
	if !ok {
		return
	}

	name := ""
	if ctx.Domain != nil {
		name = ctx.Domain.Name()
	}

	r.Write(OpRecord{
		ID:       r.idGen.Generate(),
		Sequence: name,
		Kind:     string(op.Kind),
		Index:    op.Index,
		Value:    op.Value,
		Len:      op.Len,
		Count:    op.Count,
	})
}

// Write buffers a record. The buffer is flushed when it reaches the batch
// size.
func (r *SQLiteRecorder) Write(rec OpRecord) {
	r.pending = append(r.pending, rec)
	if len(r.pending) >= r.batchSize {
		r.Flush()
	}
}

// Pending returns the number of buffered records.
func (r *SQLiteRecorder) Pending() int {
	return len(r.pending)
}

// Flush writes all the buffered records to the database.
func (r *SQLiteRecorder) Flush() {
	if len(r.pending) == 0 {
		return
	}

	tx, err := r.Begin()
	if err != nil {
		panic(err)
	}

	stmt := tx.Stmt(r.statement)

	for _, rec := range r.pending {
		_, err := stmt.Exec(
			rec.ID,
			rec.Sequence,
			rec.Kind,
			rec.Index,
			rec.Value,
			rec.Len,
			rec.Count,
		)
		if err != nil {
			_ = tx.Rollback()
			panic(fmt.Errorf("failed to record %+v: %w", rec, err))
		}
	}

	err = tx.Commit()
	if err != nil {
		panic(err)
	}

	r.pending = nil
}

// Close flushes the buffered records and closes the database.
func (r *SQLiteRecorder) Close() error {
	r.Flush()

	err := r.statement.Close()
	if err != nil {
		return err
	}

	return r.DB.Close()
}

func (r *SQLiteRecorder) createDatabase() {
	if r.dbName == "" {
		r.dbName = "orderedseq_ops_" + xid.New().String()
	}

	filename := r.Filename()

	_, err := os.Stat(filename)
	if err == nil {
		panic(fmt.Errorf("file %s already exists", filename))
	}

	fmt.Fprintf(os.Stderr, "Operations are recorded in %s\n", filename)

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		panic(err)
	}

	r.DB = db
}

func (r *SQLiteRecorder) init() {
	r.mustExecute(`
		CREATE TABLE IF NOT EXISTS ops
		(
			id       VARCHAR(64)  NOT NULL,
			sequence VARCHAR(200) NOT NULL,
			kind     VARCHAR(32)  NOT NULL,
			idx      INTEGER      NOT NULL,
			value    INTEGER      NOT NULL,
			len      INTEGER      NOT NULL,
			count    INTEGER      NOT NULL
		);
	`)

	r.mustExecute(`
		CREATE INDEX IF NOT EXISTS ops_sequence_index ON ops (sequence);
	`)

	stmt, err := r.Prepare(
		`INSERT INTO ops (id, sequence, kind, idx, value, len, count)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		panic(err)
	}

	r.statement = stmt
}

func (r *SQLiteRecorder) mustExecute(query string) sql.Result {
	res, err := r.Exec(query)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to execute: %s\n", query)
		panic(err)
	}

	return res
}
