// Package cli implements the command-line interface for segyinfo.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"text/tabwriter"

	"golang.org/x/sync/errgroup"

	"github.com/eunmann/segyio/internal/logctx"
	"github.com/eunmann/segyio/pkg/archive"
	"github.com/eunmann/segyio/pkg/catalog"
	"github.com/eunmann/segyio/pkg/header"
	"github.com/eunmann/segyio/pkg/humanfmt"
	"github.com/eunmann/segyio/pkg/logging"
	"github.com/eunmann/segyio/pkg/membudget"
	"github.com/eunmann/segyio/pkg/memdiag"
	"github.com/eunmann/segyio/pkg/segy"
	"github.com/eunmann/segyio/pkg/traceindex"
)

const usage = `usage: segyinfo <command> [options] <file>
commands: info, headers, index, catalog, pack, unpack`

// Run executes the CLI with the given arguments.
func Run(args []string) error {
	return run(args, os.Stdout)
}

func run(args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return errors.New(usage)
	}

	switch args[0] {
	case "info":
		return runInfo(args[1:], stdout)
	case "headers":
		return runHeaders(args[1:], stdout)
	case "index":
		return runIndex(args[1:], stdout)
	case "catalog":
		return runCatalog(args[1:], stdout)
	case "pack":
		return runPack(args[1:], stdout)
	case "unpack":
		return runUnpack(args[1:], stdout)
	default:
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

// common holds the flags every command accepts.
type common struct {
	debug    *bool
	human    *bool
	revision *string
	index    *string
	reuse    *bool
	indexMem *string
}

func commonFlags(fs *flag.FlagSet) *common {
	return &common{
		debug:    fs.Bool("debug", false, "enable debug logging"),
		human:    fs.Bool("human", false, "human-friendly console logs"),
		revision: fs.String("rev", "Rev1", "header revision: Rev0 or Rev1"),
		index:    fs.String("index", "auto", "trace index storage: auto, memory or sidecar"),
		reuse:    fs.Bool("reuse", false, "reuse a matching sidecar index"),
		indexMem: fs.String("index-mem", "", "memory allowed for an in-memory index, e.g. 512MiB (default: $SEGYIO_INDEX_MEMORY or 1/8 of RAM)"),
	}
}

// setup configures logging and returns a context that carries the logger
// and is cancelled on interrupt.
func (c *common) setup(command, path string) (context.Context, context.CancelFunc) {
	logging.Init(*c.debug, *c.human)
	log := logctx.NewConfiguredLogger(*c.debug, *c.human)
	logctx.SetDefaultLogger(log)
	ctx := logctx.WithLogger(context.Background(), log)
	ctx = logctx.WithStr(ctx, "command", command)
	if path != "" {
		ctx = logctx.WithPath(ctx, path)
	}
	return signal.NotifyContext(ctx, os.Interrupt)
}

func (c *common) options(ctx context.Context, readOnly bool) ([]segy.Option, error) {
	strategy, err := traceindex.ParseStrategy(*c.index)
	if err != nil {
		return nil, err
	}
	budget, err := membudget.Resolve(*c.indexMem)
	if err != nil {
		return nil, err
	}
	opts := []segy.Option{
		segy.WithIndexStrategy(strategy),
		segy.WithMemoryBudget(budget),
		segy.WithSidecarReuse(*c.reuse),
		segy.WithLogger(logctx.FromContext(ctx)),
	}
	if readOnly {
		opts = append(opts, segy.WithReadOnly())
	}
	return opts, nil
}

// singleFile parses args and returns the one positional file argument.
func singleFile(fs *flag.FlagSet, args []string) (string, error) {
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if fs.NArg() != 1 {
		return "", fmt.Errorf("%s: exactly one SEG-Y file is required", fs.Name())
	}
	return fs.Arg(0), nil
}

// openReadOnly opens path with the common flags applied.
func (c *common) openReadOnly(ctx context.Context, path string) (*segy.File, error) {
	opts, err := c.options(ctx, true)
	if err != nil {
		return nil, err
	}
	return segy.Open(path, *c.revision, opts...)
}

func runInfo(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	c := commonFlags(fs)
	path, err := singleFile(fs, args)
	if err != nil {
		return err
	}
	ctx, cancel := c.setup(fs.Name(), path)
	defer cancel()

	f, err := c.openReadOnly(ctx, path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "path\t%s\n", f.Path())
	fmt.Fprintf(tw, "size\t%s\n", humanfmt.Bytes(info.Size()))
	fmt.Fprintf(tw, "revision\t%s\n", f.Revision())
	fmt.Fprintf(tw, "format\t%s\n", f.Format())
	fmt.Fprintf(tw, "sample interval\t%s\n", humanfmt.SampleInterval(f.BinaryHeader().Get(header.Binary.SampleInterval)))
	fmt.Fprintf(tw, "data start\t%d\n", f.DataStart())
	fmt.Fprintf(tw, "traces\t%s\n", humanfmt.Count(int64(f.TraceCount())))
	fmt.Fprintf(tw, "index\t%s\n", f.IndexStrategy())
	return tw.Flush()
}

func runHeaders(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("headers", flag.ContinueOnError)
	c := commonFlags(fs)
	text := fs.Bool("text", true, "print the textual header")
	bin := fs.Bool("binary", true, "print the binary file header")
	trace := fs.Int("trace", -1, "also print the header of this trace")
	path, err := singleFile(fs, args)
	if err != nil {
		return err
	}
	ctx, cancel := c.setup(fs.Name(), path)
	defer cancel()

	f, err := c.openReadOnly(ctx, path)
	if err != nil {
		return err
	}
	defer f.Close()

	if *text {
		fmt.Fprintln(stdout, "== textual header ==")
		if err := f.TextualHeader().Print(stdout); err != nil {
			return err
		}
	}
	if *bin {
		fmt.Fprintln(stdout, "== binary file header ==")
		if err := f.BinaryHeader().Print(stdout); err != nil {
			return err
		}
	}
	if *trace >= 0 {
		th, err := f.ReadTraceHeader(*trace)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "== trace %d header ==\n", *trace)
		if err := th.Print(stdout); err != nil {
			return err
		}
	}
	return nil
}

// runIndex builds the trace index of one or more files, several at a time.
// With the default auto strategy the index is written as a sidecar so later
// opens can reuse it.
func runIndex(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("index", flag.ContinueOnError)
	c := commonFlags(fs)
	jobs := fs.Int("j", runtime.GOMAXPROCS(0), "files indexed concurrently")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("index: at least one SEG-Y file is required")
	}
	if *c.index == "auto" {
		*c.index = "sidecar"
	}
	paths := fs.Args()
	ctx, cancel := c.setup(fs.Name(), "")
	defer cancel()

	budget, err := membudget.Resolve(*c.indexMem)
	if err != nil {
		return err
	}

	type result struct {
		traces   int
		strategy traceindex.Strategy
	}
	results := make([]result, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(*jobs, 1))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fctx := logctx.WithPath(gctx, path)
			f, err := c.openReadOnly(fctx, path)
			if err != nil {
				return err
			}
			defer f.Close()

			indexBytes := uint64(f.TraceCount()) * traceindex.ItemSize
			memdiag.Measure("index_built", budget, indexBytes, f.IndexStrategy() == traceindex.Memory).
				Log(logctx.FromContext(fctx))
			results[i] = result{traces: f.TraceCount(), strategy: f.IndexStrategy()}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, path := range paths {
		fmt.Fprintf(stdout, "%s: %d traces indexed (%s)\n", path, results[i].traces, results[i].strategy)
	}
	return nil
}

func runCatalog(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("catalog", flag.ContinueOnError)
	c := commonFlags(fs)
	out := fs.String("out", "", "output Parquet file")
	path, err := singleFile(fs, args)
	if err != nil {
		return err
	}
	if *out == "" {
		return errors.New("--out is required")
	}
	ctx, cancel := c.setup(fs.Name(), path)
	defer cancel()

	f, err := c.openReadOnly(ctx, path)
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := catalog.ExportFile(ctx, f, *out)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s: %d rows\n", *out, rows)
	return nil
}

func runPack(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("pack", flag.ContinueOnError)
	c := commonFlags(fs)
	out := fs.String("out", "", "output archive")
	levelName := fs.String("level", "default", "compression level: fastest, default or better")
	path, err := singleFile(fs, args)
	if err != nil {
		return err
	}
	if *out == "" {
		return errors.New("--out is required")
	}
	level, err := archive.ParseLevel(*levelName)
	if err != nil {
		return err
	}
	ctx, cancel := c.setup(fs.Name(), path)
	defer cancel()

	hdr, err := archive.Pack(ctx, path, *out, archive.PackOptions{Level: level, Revision: *c.revision})
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s: %s, %d traces\n", *out, humanfmt.Bytes(int64(hdr.OriginalSize)), hdr.TraceCount)
	return nil
}

func runUnpack(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("unpack", flag.ContinueOnError)
	c := commonFlags(fs)
	out := fs.String("out", "", "output SEG-Y file")
	path, err := singleFile(fs, args)
	if err != nil {
		return err
	}
	if *out == "" {
		return errors.New("--out is required")
	}
	ctx, cancel := c.setup(fs.Name(), path)
	defer cancel()

	hdr, err := archive.Unpack(ctx, path, *out)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s: %s, %d traces\n", *out, humanfmt.Bytes(int64(hdr.OriginalSize)), hdr.TraceCount)
	return nil
}

