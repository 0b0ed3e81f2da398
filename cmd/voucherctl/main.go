// Command voucherctl standardizes hotel voucher PDFs into branded vouchers.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joseph-ayodele/voucher-standardizer/internal/common"
)

const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2
)

const usage = `usage: voucherctl <command> [flags]

commands:
  text    <file.pdf>                          print the acquired text
  fields  [-review out.xlsx] <file.pdf>       extract and normalize fields, print JSON
  render  [-o out.pdf] [-fields raw.json] [-force] [-html out.html] [<file.pdf>]
                                              render a standardized voucher
  batch   -dir <dir> [-out <dir>] [-workers N] [-force] [-watch]
                                              render every PDF under a directory
  status                                      check configuration and tools
`

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printError("%s", usage)
		return exitUsage
	}

	common.LoadDotEnv()
	cfg := common.LoadConfig()
	logger := common.NewLogger(cfg.Log, os.Stderr)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{cfg: cfg, logger: logger}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "text":
		return a.runText(ctx, rest)
	case "fields":
		return a.runFields(ctx, rest)
	case "render":
		return a.runRender(ctx, rest)
	case "batch":
		return a.runBatch(ctx, rest)
	case "status":
		return a.runStatus(ctx, rest)
	case "help", "-h", "--help":
		fmt.Print(usage)
		return exitOK
	default:
		printError("unknown command %q\n\n%s", cmd, usage)
		return exitUsage
	}
}

// fail reports err with its remediation and returns the exit code.
func fail(logger *slog.Logger, event string, err error) int {
	logger.Error(event, "code", common.ErrorCode(err), "error", err)
	printError("error: %v\n", err)
	if !errors.Is(err, context.Canceled) {
		printError("%s\n", common.Remediation(err))
	}
	return exitFail
}
