// Package catalog exports a per-trace header catalog of a SEG-Y file to
// Parquet, one row per trace, so trace geometry can be queried without
// scanning the SEG-Y file again.
package catalog

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/eunmann/segyio/internal/logctx"
	"github.com/eunmann/segyio/pkg/fileutil"
	"github.com/eunmann/segyio/pkg/header"
	"github.com/eunmann/segyio/pkg/logging"
	"github.com/eunmann/segyio/pkg/segy"
)

// Row is one catalog entry. The Rev1 columns are null for Rev0 files.
type Row struct {
	Trace            int64 `parquet:"trace"`
	Position         int64 `parquet:"position"`
	NumSamples       int32 `parquet:"num_samples"`
	SampleInterval   int32 `parquet:"sample_interval"`
	SequenceInLine   int32 `parquet:"sequence_in_line"`
	FieldRecord      int32 `parquet:"field_record"`
	Ensemble         int32 `parquet:"ensemble"`
	Offset           int32 `parquet:"offset"`
	CoordinateScalar int32 `parquet:"coordinate_scalar"`
	SourceX          int32 `parquet:"source_x"`
	SourceY          int32 `parquet:"source_y"`
	GroupX           int32 `parquet:"group_x"`
	GroupY           int32 `parquet:"group_y"`

	EnsembleX *int32 `parquet:"ensemble_x,optional"`
	EnsembleY *int32 `parquet:"ensemble_y,optional"`
	Inline    *int32 `parquet:"inline,optional"`
	Crossline *int32 `parquet:"crossline,optional"`
}

// batchSize is the number of rows buffered before each write to the
// Parquet writer.
const batchSize = 1024

// Export writes one Row per committed trace of f to w. Only trace headers
// are read. The context is checked between batches.
func Export(ctx context.Context, f *segy.File, w io.Writer) (int, error) {
	log := logctx.FromContext(ctx)
	start := time.Now()

	pw := parquet.NewGenericWriter[Row](w, parquet.Compression(&parquet.Zstd))
	batch := make([]Row, 0, batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if _, err := pw.Write(batch); err != nil {
			return fmt.Errorf("write catalog rows: %w", err)
		}
		batch = batch[:0]
		return nil
	}

	count := f.TraceCount()
	for n := 0; n < count; n++ {
		if n%batchSize == 0 {
			if err := ctx.Err(); err != nil {
				return n, err
			}
		}
		row, err := rowFor(f, n)
		if err != nil {
			rowLog := logctx.FromContext(logctx.WithTrace(ctx, n))
			rowLog.Debug().Err(err).Msg("catalog row failed")
			return n, err
		}
		batch = append(batch, row)
		if len(batch) == batchSize {
			if err := flush(); err != nil {
				return n, err
			}
		}
	}
	if err := flush(); err != nil {
		return count, err
	}
	if err := pw.Close(); err != nil {
		return count, fmt.Errorf("close catalog writer: %w", err)
	}

	logging.PhaseComplete(log, "catalog_export", time.Since(start)).
		Count("rows", int64(count)).
		LogDebug("catalog exported")
	return count, nil
}

func rowFor(f *segy.File, n int) (Row, error) {
	loc, err := f.TraceLocation(n)
	if err != nil {
		return Row{}, err
	}
	th, err := f.ReadTraceHeader(n)
	if err != nil {
		return Row{}, fmt.Errorf("catalog trace %d: %w", n, err)
	}
	row := Row{
		Trace:            int64(n),
		Position:         loc.Position,
		NumSamples:       int32(th.NumSamples()),
		SampleInterval:   th.Get(header.Trace.SampleInterval),
		SequenceInLine:   th.Get(header.Trace.SequenceInLine),
		FieldRecord:      th.Get(header.Trace.FieldRecord),
		Ensemble:         th.Get(header.Trace.Ensemble),
		Offset:           th.Get(header.Trace.SourceReceiverOffset),
		CoordinateScalar: th.Get(header.Trace.CoordinateScalar),
		SourceX:          th.Get(header.Trace.SourceX),
		SourceY:          th.Get(header.Trace.SourceY),
		GroupX:           th.Get(header.Trace.GroupX),
		GroupY:           th.Get(header.Trace.GroupY),
	}
	if rev1, ok := th.(*header.TraceHeaderRev1); ok {
		row.EnsembleX = ptr(rev1.Extension(header.TraceRev1.EnsembleX))
		row.EnsembleY = ptr(rev1.Extension(header.TraceRev1.EnsembleY))
		row.Inline = ptr(rev1.Extension(header.TraceRev1.Inline))
		row.Crossline = ptr(rev1.Extension(header.TraceRev1.Crossline))
	}
	return row, nil
}

func ptr(v int32) *int32 { return &v }

// ExportFile writes the catalog of f to path. The file is written next to
// path under a temporary name and renamed into place once complete.
func ExportFile(ctx context.Context, f *segy.File, path string) (int, error) {
	start := time.Now()
	var rows int
	err := fileutil.WriteAtomic(path, func(out *os.File) error {
		n, err := Export(ctx, f, out)
		rows = n
		return err
	})
	if err != nil {
		return rows, err
	}
	logging.FileCreated(logctx.FromContext(ctx), "catalog_export", time.Since(start)).
		Str("catalog", path).
		Count("rows", int64(rows)).
		LogDebug("catalog written")
	return rows, nil
}

// ReadFile loads every row of a catalog written by Export.
func ReadFile(path string) ([]Row, error) {
	rows, err := parquet.ReadFile[Row](path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return rows, nil
}
