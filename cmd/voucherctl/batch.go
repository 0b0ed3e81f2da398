package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joseph-ayodele/voucher-standardizer/internal/async"
	"github.com/joseph-ayodele/voucher-standardizer/internal/common"
	"github.com/joseph-ayodele/voucher-standardizer/internal/ingest"
	"github.com/joseph-ayodele/voucher-standardizer/internal/pipeline"
)

// batchOutputPath maps an input voucher to its standardized file under outDir.
func batchOutputPath(outDir, in string) string {
	base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
	return filepath.Join(outDir, base+"_standardized.pdf")
}

func (a *app) runBatch(ctx context.Context, args []string) int {
	fs := newFlagSet("batch")
	dir := fs.String("dir", "", "directory to process vouchers from (required)")
	out := fs.String("out", "", "output directory (default <dir>/standardized)")
	workers := fs.Int("workers", a.cfg.Pipeline.Workers, "concurrent vouchers")
	force := fs.Bool("force", false, "render even when required fields are missing or inconsistent")
	watch := fs.Bool("watch", false, "keep running and process new PDFs dropped into -dir")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if *dir == "" {
		printError("Error: -dir is required\n")
		return exitUsage
	}
	if *out == "" {
		*out = filepath.Join(*dir, "standardized")
	}
	outAbs, _ := filepath.Abs(*out)

	b, err := a.build(wiring{oracle: true, render: true})
	if err != nil {
		return fail(a.logger, "batch.setup.failed", err)
	}

	dedup := ingest.NewDedup()
	handle := func(ctx context.Context, job async.Job) error {
		return a.processFile(ctx, b.proc, dedup, job, outAbs)
	}
	q := async.NewQueue(ctx, handle, a.logger,
		async.WithWorkers(*workers),
		async.WithProcessTimeout(a.cfg.Pipeline.RequestTimeout),
	)

	// outputs land under dir by default; never feed them back in
	isOutput := func(p string) bool {
		abs, err := filepath.Abs(p)
		return err == nil && strings.HasPrefix(abs, outAbs+string(filepath.Separator))
	}

	start := time.Now()
	if *watch {
		events, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
			Roots:       []string{*dir},
			InitialScan: true,
			Debounce:    2 * time.Second,
			SkipHidden:  true,
		}, a.logger)
		if err != nil {
			q.Shutdown(context.Background())
			return fail(a.logger, "batch.watch.failed", err)
		}
		printError("watching %s (Ctrl-C to stop)\n", *dir)
		go func() {
			for err := range errs {
				a.logger.Warn("batch.watch.error", "error", err)
			}
		}()
		for p := range events {
			if isOutput(p) {
				continue
			}
			if err := q.Enqueue(ctx, async.Job{Path: p, Force: *force}); err != nil {
				break
			}
		}
	} else {
		paths, failed, stats, err := ingest.CollectDirectory(ctx, *dir, true)
		if err != nil {
			q.Shutdown(context.Background())
			return fail(a.logger, "batch.scan.failed", err)
		}
		for _, f := range failed {
			printError("skip %s: %s\n", f.Path, f.Err)
		}
		a.logger.Info("batch.scan.ok", "dir", *dir, "scanned", stats.Scanned, "matched", stats.Matched, "failed", stats.Failed)
		for _, p := range paths {
			if isOutput(p) {
				continue
			}
			if err := q.Enqueue(ctx, async.Job{Path: p, Force: *force}); err != nil {
				break
			}
		}
	}
	q.Shutdown(context.Background())

	return a.reportBatch(q.Outcomes(), time.Since(start))
}

func (a *app) processFile(ctx context.Context, proc *pipeline.Processor, dedup *ingest.Dedup, job async.Job, outDir string) error {
	f, err := ingest.ReadFile(job.Path)
	if err != nil {
		return common.NewAppError(common.CodeConfig, "read "+job.Path, fmt.Errorf("%w: %w", common.ErrInvalidInput, err))
	}
	if first, dup := dedup.Seen(f.HashHex, f.Path); dup {
		a.logger.Info("batch.job.duplicate", "req_id", job.TraceID, "path", f.Path, "same_as", first)
		return nil
	}

	ctx = common.WithSource(ctx, filepath.Base(f.Path))
	res, err := proc.Process(ctx, f.Data, job.Force)
	if err != nil {
		return err
	}
	return writeOutput(batchOutputPath(outDir, f.Path), res.PDF)
}

func (a *app) reportBatch(outcomes []async.Outcome, elapsed time.Duration) int {
	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
			printError("FAIL %s: %v\n", o.Job.Path, o.Err)
			continue
		}
		fmt.Printf("ok   %s\n", o.Job.Path)
	}
	a.logger.Info("batch.done", "processed", len(outcomes), "failed", failed, "elapsed_ms", elapsed.Milliseconds())
	fmt.Printf("%d processed, %d failed\n", len(outcomes), failed)
	if failed > 0 {
		return exitFail
	}
	return exitOK
}
