package store

import (
	"context"
	"errors"
	"reflect"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeDB hands out fakeTx transactions and records plain Exec statements.
type fakeDB struct {
	execs   []string
	failOn  func(args []any) bool
	txs     []*fakeTx
	beginFn func() error

	// rows answers every Query; queries records what was asked.
	rows     [][]any
	queryErr error
	queries  []fakeQuery
}

type fakeQuery struct {
	sql  string
	args []any
}

func (d *fakeDB) Begin(ctx context.Context) (pgx.Tx, error) {
	if d.beginFn != nil {
		if err := d.beginFn(); err != nil {
			return nil, err
		}
	}
	tx := &fakeTx{failOn: d.failOn}
	d.txs = append(d.txs, tx)
	return tx, nil
}

func (d *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	d.execs = append(d.execs, sql)
	return pgconn.CommandTag{}, nil
}

func (d *fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	d.queries = append(d.queries, fakeQuery{sql: sql, args: args})
	if d.queryErr != nil {
		return nil, d.queryErr
	}
	return &fakeRows{rows: d.rows, pos: -1}, nil
}

type fakeRows struct {
	pgx.Rows
	rows [][]any
	pos  int
}

func (r *fakeRows) Next() bool {
	r.pos++
	return r.pos < len(r.rows)
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.rows[r.pos]
	if len(dest) != len(row) {
		return errors.New("column count mismatch")
	}
	for i, d := range dest {
		reflect.ValueOf(d).Elem().Set(reflect.ValueOf(row[i]))
	}
	return nil
}

func (r *fakeRows) Close()     {}
func (r *fakeRows) Err() error { return nil }

func (d *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}

type fakeTx struct {
	pgx.Tx
	failOn     func(args []any) bool
	args       [][]any
	batch      *pgx.Batch
	committed  bool
	rolledBack bool
}

func (tx *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	tx.args = append(tx.args, args)
	if tx.failOn != nil && tx.failOn(args) {
		return pgconn.CommandTag{}, errors.New("constraint violation")
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (tx *fakeTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	tx.batch = b
	return &fakeBatchResults{}
}

func (tx *fakeTx) Commit(ctx context.Context) error {
	if tx.rolledBack {
		return pgx.ErrTxClosed
	}
	tx.committed = true
	return nil
}

func (tx *fakeTx) Rollback(ctx context.Context) error {
	if tx.committed {
		return pgx.ErrTxClosed
	}
	tx.rolledBack = true
	return nil
}

type fakeBatchResults struct {
	pgx.BatchResults
}

func (b *fakeBatchResults) Exec() (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (b *fakeBatchResults) Close() error { return nil }

// fakeEmbedder returns a vector per text whose first value is the text
// length.
type fakeEmbedder struct {
	dim int
}

func (e fakeEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		v, _ := e.EmbedQuery(ctx, text)
		vectors[i] = v
	}
	return vectors, nil
}

func (e fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	v := make([]float32, e.dim)
	v[0] = float32(len(text))
	return v, nil
}
