package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/MasterOfBinary/batchsvc/batch"
	"github.com/MasterOfBinary/batchsvc/processor"
	"github.com/MasterOfBinary/batchsvc/source"
)

func newRootCmd() *cobra.Command {
	cfg := defaultConfig()

	cmd := &cobra.Command{
		Use:   "batchbench",
		Short: "Drive a batch service with Ed25519 signature verification",
		Long: `batchbench submits signature verification requests to a batch service from
many concurrent callers, then prints how the requests were batched.

Signatures can be corrupted on purpose with --invalid-every, in which case
every batch that holds one falls back to verifying its signatures one by one.`,
		Example: `  # Default run
  batchbench

  # Larger batches, one bad signature in every 100
  batchbench --max-batch-size 256 --invalid-every 100

  # JSON logs with batch details
  batchbench --log-format json --log-level debug`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return cfg.Validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&cfg.Requests, "requests", "n", cfg.Requests, "Number of verification requests")
	flags.IntVarP(&cfg.Concurrency, "concurrency", "c", cfg.Concurrency, "Number of concurrent callers")
	flags.IntVar(&cfg.MaxBatchSize, "max-batch-size", cfg.MaxBatchSize, "Maximum number of requests per batch")
	flags.DurationVar(&cfg.MaxLatency, "max-latency", cfg.MaxLatency, "Maximum time a partial batch waits before it is flushed")
	flags.IntVar(&cfg.Mailbox, "mailbox", cfg.Mailbox, "Mailbox capacity (0 uses max-batch-size)")
	flags.IntVar(&cfg.Parallelism, "parallelism", cfg.Parallelism, "Executor goroutines (0 uses GOMAXPROCS)")
	flags.IntVar(&cfg.InvalidEvery, "invalid-every", cfg.InvalidEvery, "Corrupt every n-th signature (0 disables)")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	flags.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: text, json")

	return cmd
}

// newLogger builds the service logger. Logs go to w so that the summary on
// stdout stays clean.
func newLogger(cfg benchConfig, w io.Writer) (batch.Logger, error) {
	switch cfg.LogFormat {
	case "json":
		level, err := zerolog.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		return batch.NewZerologLogger(zerolog.New(w).Level(level).With().Timestamp().Logger()), nil
	default:
		level, err := log.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		return batch.NewCharmLogger(log.NewWithOptions(w, log.Options{
			Level:           level,
			ReportTimestamp: true,
			TimeFormat:      time.RFC3339,
		})), nil
	}
}

// tally counts the outcomes of a run. Unexpected errors are collected in a
// multierror.
type tally struct {
	mu         sync.Mutex
	verified   int
	invalid    int
	mismatched int
	errs       *multierror.Error
}

func (t *tally) record(s *signer, i int, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch {
	case err == nil:
		t.verified++
	case errors.Is(err, errInvalidSignature):
		t.invalid++
	default:
		t.errs = multierror.Append(t.errs, fmt.Errorf("request %d: %w", i, err))
		return
	}

	if (err != nil) != s.invalid(i) {
		t.mismatched++
	}
}

func run(ctx context.Context, cfg benchConfig, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	logger, err := newLogger(cfg, stderr)
	if err != nil {
		return err
	}

	s, err := newSigner(8, cfg.InvalidEvery, uint64(time.Now().UnixNano()))
	if err != nil {
		return err
	}

	fn := batch.BatchFunc[signedMessage, struct{}](verifyBatch)
	if cfg.LogLevel == "debug" {
		fn = processor.WrapWithLogging(fn, logger, "ed25519")
	}

	stats := batch.NewBasicStatsCollector()
	svc, err := batch.New(fn, &batch.Options{
		Config: batch.NewConstantConfig(&batch.ConfigValues{
			MaxBatchSize: cfg.MaxBatchSize,
			MaxLatency:   cfg.MaxLatency,
		}),
		MailboxCapacity:     cfg.Mailbox,
		ExecutorParallelism: cfg.Parallelism,
		Logger:              logger,
		Stats:               stats,
	})
	if err != nil {
		return err
	}

	var t tally
	gen := &source.Generator[signedMessage]{Count: cfg.Requests, Next: s.next}

	start := time.Now()
	pumpErr := source.Pump(ctx, svc, gen, cfg.Concurrency, func(msg signedMessage, _ struct{}, err error) {
		t.record(s, msg.Seq, err)
	})
	elapsed := time.Since(start)

	if err := svc.Shutdown(ctx); err != nil {
		return err
	}

	fmt.Fprintln(stdout, renderSummary(summary{
		Requests:        cfg.Requests,
		Verified:        t.verified,
		Invalid:         t.invalid,
		ExpectedInvalid: cfg.expectedInvalid(),
		Elapsed:         elapsed,
	}, stats.GetStats()))

	var result *multierror.Error
	if pumpErr != nil {
		result = multierror.Append(result, pumpErr)
	}
	if t.errs != nil {
		result = multierror.Append(result, t.errs.Errors...)
	}
	if t.mismatched > 0 {
		result = multierror.Append(result, fmt.Errorf("%d requests verified differently than expected", t.mismatched))
	}
	return result.ErrorOrNil()
}
