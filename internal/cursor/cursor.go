// Package cursor implements the Cursor Reader of spec.md §4.1: it opens a
// transaction, declares a server-side cursor over a projected SELECT, and
// yields fixed-size batches until exhausted, guaranteeing cursor closure,
// transaction resolution, and connection release on every exit path.
package cursor

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/23A91A0565/polystreamx/internal/apperr"
	"github.com/23A91A0565/polystreamx/internal/model"
)

// DefaultTextBatchSize and DefaultColumnarBatchSize are the batch sizes
// named in spec.md §4.1.
const (
	DefaultTextBatchSize     = 10_000
	DefaultColumnarBatchSize = 50_000
)

var cursorSeq int64

// Batch is one fetched slice of rows, each row a slice of driver values in
// column order matching Reader.Columns().
type Batch [][]any

// Reader pulls batches from a single server-side cursor. One Reader is
// owned by exactly one export invocation for its whole lifetime, per
// spec.md §3 "Ownership".
type Reader struct {
	pool       *pgxpool.Pool
	conn       *pgxpool.Conn
	tx         pgx.Tx
	cursorName string
	batchSize  int
	columns    []string
	closed     bool
}

// Open declares a server-side cursor for the given SELECT (already built
// from validated column sources — see BuildQuery) and returns a Reader
// positioned before the first row. batchSize must be > 0.
func Open(ctx context.Context, pool *pgxpool.Pool, query string, args []any, columns []string, batchSize int) (*Reader, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: acquire connection: %v", apperr.ErrCursorFailed, err)
	}

	tx, err := conn.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		conn.Release()
		return nil, fmt.Errorf("%w: begin transaction: %v", apperr.ErrCursorFailed, err)
	}

	name := fmt.Sprintf("export_cursor_%d", atomic.AddInt64(&cursorSeq, 1))
	declare := fmt.Sprintf("DECLARE %s CURSOR FOR %s", name, query)
	if _, err := tx.Exec(ctx, declare, args...); err != nil {
		_ = tx.Rollback(ctx)
		conn.Release()
		return nil, fmt.Errorf("%w: declare cursor: %v", apperr.ErrCursorFailed, err)
	}

	return &Reader{
		pool:       pool,
		conn:       conn,
		tx:         tx,
		cursorName: name,
		batchSize:  batchSize,
		columns:    columns,
	}, nil
}

// Columns returns the projected column names in SELECT order.
func (r *Reader) Columns() []string { return r.columns }

// Next fetches up to batchSize rows. A batch shorter than batchSize
// (including an empty one) means the cursor is exhausted: Next returns it
// with hasMore false, and the caller should stop after consuming it.
func (r *Reader) Next(ctx context.Context) (Batch, bool, error) {
	if r.closed {
		return nil, false, fmt.Errorf("%w: read from closed cursor", apperr.ErrCursorFailed)
	}

	fetch := fmt.Sprintf("FETCH FORWARD %d FROM %s", r.batchSize, r.cursorName)
	rows, err := r.tx.Query(ctx, fetch)
	if err != nil {
		return nil, false, fmt.Errorf("%w: fetch: %v", apperr.ErrCursorFailed, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	if len(r.columns) == 0 {
		r.columns = make([]string, len(fields))
		for i, f := range fields {
			r.columns[i] = string(f.Name)
		}
	}

	var batch Batch
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, false, fmt.Errorf("%w: scan row: %v", apperr.ErrCursorFailed, err)
		}
		batch = append(batch, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("%w: row iteration: %v", apperr.ErrCursorFailed, err)
	}

	hasMore := len(batch) == r.batchSize
	return batch, hasMore, nil
}

// Close releases the cursor, resolves the transaction, and returns the
// connection to the pool. Safe to call multiple times and guaranteed to
// run on every exit path (normal completion, error, or early abandonment
// such as a client disconnect) by every caller in this module.
func (r *Reader) Close(ctx context.Context) error {
	if r.closed {
		return nil
	}
	r.closed = true

	_, closeErr := r.tx.Exec(ctx, fmt.Sprintf("CLOSE %s", r.cursorName))
	commitErr := r.tx.Commit(ctx)
	if commitErr != nil {
		_ = r.tx.Rollback(ctx)
	}
	r.conn.Release()

	if closeErr != nil {
		return fmt.Errorf("%w: close cursor: %v", apperr.ErrCursorFailed, closeErr)
	}
	if commitErr != nil {
		return fmt.Errorf("%w: commit: %v", apperr.ErrCursorFailed, commitErr)
	}
	return nil
}

// BatchSizeFor returns the default batch size for a format, per spec.md
// §4.1: columnar uses a larger batch (and row-group size) than the text
// formats.
func BatchSizeFor(f model.Format) int {
	if f == model.FormatParquet {
		return DefaultColumnarBatchSize
	}
	return DefaultTextBatchSize
}
