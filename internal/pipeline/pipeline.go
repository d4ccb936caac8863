// Package pipeline implements the Export Pipeline Driver of spec.md §4.9:
// it wires the cursor reader, value coercer, row projector, format
// encoder, and compression adapter into the single streaming pass an
// export runs, advancing the job's registry status as it goes.
package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/23A91A0565/polystreamx/internal/apperr"
	"github.com/23A91A0565/polystreamx/internal/coerce"
	"github.com/23A91A0565/polystreamx/internal/compress"
	"github.com/23A91A0565/polystreamx/internal/cursor"
	"github.com/23A91A0565/polystreamx/internal/encode"
	"github.com/23A91A0565/polystreamx/internal/model"
	"github.com/23A91A0565/polystreamx/internal/project"
	"github.com/23A91A0565/polystreamx/internal/registry"
)

// Driver runs export jobs against a single connection pool.
type Driver struct {
	pool     *pgxpool.Pool
	registry *registry.Registry
}

// New builds a Driver.
func New(pool *pgxpool.Pool, reg *registry.Registry) *Driver {
	return &Driver{pool: pool, registry: reg}
}

// Run streams job against d.pool and writes the requested format
// (optionally gzip-compressed) to sink, honoring rowLimit (0 means
// unbounded — spec.md §4.1 SQL LIMIT). It updates job's registry status as
// it progresses and guarantees the cursor and compression framing are
// closed on every exit path, per spec.md §3's ownership invariant.
func (d *Driver) Run(ctx context.Context, job *model.ExportJob, rowLimit int64, sink io.Writer) error {
	d.registry.MarkInProgress(job.ID)

	if err := d.run(ctx, job.Request, rowLimit, sink); err != nil {
		d.registry.MarkFailed(job.ID, publicError(err))
		return err
	}

	d.registry.MarkCompleted(job.ID)
	return nil
}

func (d *Driver) run(ctx context.Context, req model.ExportRequest, rowLimit int64, sink io.Writer) error {
	query, sourceOrder, err := cursor.BuildQuery(req.Columns, rowLimit)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrRequestInvalid, err)
	}

	reader, err := cursor.Open(ctx, d.pool, query, nil, sourceOrder, cursor.BatchSizeFor(req.Format))
	if err != nil {
		return err
	}
	defer reader.Close(ctx)

	compressed := compress.Wrap(sink, req.Compression)
	compressedClosed := false
	closeCompressed := func() error {
		if compressedClosed {
			return nil
		}
		compressedClosed = true
		return compressed.Close()
	}
	defer closeCompressed()

	enc, err := encode.New(req.Format, compressed)
	if err != nil {
		return err
	}
	encClosed := false
	closeEnc := func() error {
		if encClosed {
			return nil
		}
		encClosed = true
		return enc.Close()
	}
	defer closeEnc()

	columns := columnMetas(req.Columns)
	mapping := projectMapping(req.Columns)

	if err := enc.WriteHeader(columns); err != nil {
		return fmt.Errorf("%w: write header: %v", apperr.ErrEncoderFailed, err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %v", apperr.ErrClientDisconnect, err)
		}

		batch, hasMore, err := reader.Next(ctx)
		if err != nil {
			return err
		}

		for _, raw := range batch {
			values, err := coerceRow(sourceOrder, raw)
			if err != nil {
				return fmt.Errorf("%w: %v", apperr.ErrEncoderFailed, err)
			}
			row := project.Project(values, mapping)
			if err := enc.WriteRow(row); err != nil {
				return fmt.Errorf("%w: write row: %v", apperr.ErrEncoderFailed, err)
			}
		}

		if !hasMore {
			break
		}
	}

	if err := enc.WriteFooter(); err != nil {
		return fmt.Errorf("%w: write footer: %v", apperr.ErrEncoderFailed, err)
	}
	if err := closeEnc(); err != nil {
		return fmt.Errorf("%w: close encoder: %v", apperr.ErrEncoderFailed, err)
	}
	if err := closeCompressed(); err != nil {
		return fmt.Errorf("%w: close compression: %v", apperr.ErrSinkFailed, err)
	}
	return nil
}

// coerceRow coerces one fetched row's driver values, keyed by source
// attribute, for project.Project to consume.
func coerceRow(sourceOrder []string, raw []any) (map[string]coerce.Value, error) {
	values := make(map[string]coerce.Value, len(sourceOrder))
	for i, source := range sourceOrder {
		v, err := coerce.FromColumn(source, raw[i])
		if err != nil {
			return nil, err
		}
		values[source] = v
	}
	return values, nil
}

func columnMetas(cols []model.ColumnMapping) []encode.ColumnMeta {
	out := make([]encode.ColumnMeta, len(cols))
	for i, c := range cols {
		out[i] = encode.ColumnMeta{Target: c.Target, Source: c.Source}
	}
	return out
}

func projectMapping(cols []model.ColumnMapping) []project.Mapping {
	out := make([]project.Mapping, len(cols))
	for i, c := range cols {
		out[i] = project.Mapping{Source: string(c.Source), Target: c.Target}
	}
	return out
}

// publicError renders err's public-facing message per apperr's table,
// falling back to a generic message for anything not in it.
func publicError(err error) string {
	_, msg := apperr.Resolve(err)
	return msg
}
